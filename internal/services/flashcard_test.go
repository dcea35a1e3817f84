package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IsaacCheng9/student-network-backend/internal/repos"
	"github.com/IsaacCheng9/student-network-backend/internal/repos/testutil"
	"github.com/IsaacCheng9/student-network-backend/internal/types"
)

func newFlashcardFixture(t *testing.T) (context.Context, FlashcardService, AchievementService, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	tx := testutil.Tx(t, db)

	flashcardRepo := repos.NewFlashcardRepo(tx, log)
	connectionRepo := repos.NewConnectionRepo(tx, log)
	profileRepo := repos.NewProfileRepo(tx, log)
	postRepo := repos.NewPostRepo(tx, log)
	achievementRepo := repos.NewAchievementRepo(tx, log)
	levelRepo := repos.NewLevelRepo(tx, log)

	achievements := NewAchievementService(tx, log, achievementRepo, levelRepo, connectionRepo, profileRepo, postRepo, nil)
	if err := achievements.SeedCatalog(context.Background()); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	svc := NewFlashcardService(tx, log, flashcardRepo, achievements)

	ctx := context.Background()
	testutil.SeedUser(t, ctx, tx, "fc_author")
	return ctx, svc, achievements, tx
}

func TestFlashcardCreateValidation(t *testing.T) {
	ctx, svc, _, _ := newFlashcardFixture(t)

	cases := []struct {
		name    string
		setName string
		cards   []types.Flashcard
		wantErr error
	}{
		{"blank name", "  ", []types.Flashcard{{Front: "q", Back: "a"}}, ErrEmptyBody},
		{"no cards", "Revision", nil, ErrSetEmpty},
		{"blank front", "Revision", []types.Flashcard{{Front: " ", Back: "a"}}, ErrBadCard},
		{"blank back", "Revision", []types.Flashcard{{Front: "q", Back: ""}}, ErrBadCard},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateSet(ctx, "fc_author", tc.setName, tc.cards); !errors.Is(err, tc.wantErr) {
				t.Fatalf("error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestFlashcardSetRoundTrip(t *testing.T) {
	ctx, svc, _, _ := newFlashcardFixture(t)

	created, err := svc.CreateSet(ctx, "fc_author", "Networks", []types.Flashcard{
		{Front: "What does TCP stand for?", Back: "Transmission Control Protocol"},
		{Front: "Default HTTP port?", Back: "80"},
	})
	if err != nil {
		t.Fatalf("CreateSet: %v", err)
	}

	set, cards, err := svc.GetSet(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetSet: %v", err)
	}
	if set.Name != "Networks" || set.Author != "fc_author" {
		t.Fatalf("set = %+v", set)
	}
	if len(cards) != 2 || cards[1].Back != "80" {
		t.Fatalf("cards = %+v", cards)
	}

	if _, _, err := svc.GetSet(ctx, uuid.New()); !errors.Is(err, ErrSetNotFound) {
		t.Fatalf("missing set error = %v, want ErrSetNotFound", err)
	}
}

func TestFlashcardPopularBadgeExcludesAuthor(t *testing.T) {
	ctx, svc, achievements, tx := newFlashcardFixture(t)

	set, err := svc.CreateSet(ctx, "fc_author", "Databases", []types.Flashcard{{Front: "q", Back: "a"}})
	if err != nil {
		t.Fatalf("CreateSet: %v", err)
	}

	// 49 distinct players plus the author and a replay stay under the
	// threshold; the 50th distinct player unlocks the badge.
	if err := svc.RecordPlay(ctx, "fc_author", set.ID); err != nil {
		t.Fatalf("RecordPlay author: %v", err)
	}
	for i := 0; i < 49; i++ {
		player := fmt.Sprintf("fc_player_%02d", i)
		testutil.SeedUser(t, ctx, tx, player)
		if err := svc.RecordPlay(ctx, player, set.ID); err != nil {
			t.Fatalf("RecordPlay %s: %v", player, err)
		}
	}
	if err := svc.RecordPlay(ctx, "fc_player_00", set.ID); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if hasUnlock(t, ctx, achievements, "fc_author", AchievementPopularFlashcards) {
		t.Fatal("badge unlocked before 50 distinct players")
	}

	testutil.SeedUser(t, ctx, tx, "fc_player_49")
	if err := svc.RecordPlay(ctx, "fc_player_49", set.ID); err != nil {
		t.Fatalf("RecordPlay: %v", err)
	}
	if !hasUnlock(t, ctx, achievements, "fc_author", AchievementPopularFlashcards) {
		t.Fatal("badge not unlocked at 50 distinct players")
	}
}
