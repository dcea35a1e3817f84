package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IsaacCheng9/student-network-backend/internal/repos"
	"github.com/IsaacCheng9/student-network-backend/internal/repos/testutil"
	"github.com/IsaacCheng9/student-network-backend/internal/types"
)

func newAchievementFixture(t *testing.T) (context.Context, AchievementService, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	tx := testutil.Tx(t, db)

	achievementRepo := repos.NewAchievementRepo(tx, log)
	levelRepo := repos.NewLevelRepo(tx, log)
	connectionRepo := repos.NewConnectionRepo(tx, log)
	profileRepo := repos.NewProfileRepo(tx, log)
	postRepo := repos.NewPostRepo(tx, log)

	svc := NewAchievementService(tx, log, achievementRepo, levelRepo, connectionRepo, profileRepo, postRepo, nil)
	if err := svc.SeedCatalog(context.Background()); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	return context.Background(), svc, tx
}

func TestLoadAchievementCatalog(t *testing.T) {
	catalog, err := LoadAchievementCatalog()
	if err != nil {
		t.Fatalf("LoadAchievementCatalog: %v", err)
	}
	if len(catalog) != 15 {
		t.Fatalf("catalog has %d entries, want 15", len(catalog))
	}
	byID := make(map[int]*types.Achievement, len(catalog))
	for _, a := range catalog {
		byID[a.ID] = a
	}
	tenConns, ok := byID[AchievementTenConnections]
	if !ok {
		t.Fatalf("catalog is missing id %d", AchievementTenConnections)
	}
	if tenConns.XP <= 0 {
		t.Errorf("achievement %d has no XP value", AchievementTenConnections)
	}
}

func TestApplyGrantsXPOnce(t *testing.T) {
	ctx, svc, _ := newAchievementFixture(t)

	if err := svc.Apply(ctx, "ach_user", AchievementFirstConnection); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	first, err := svc.GetLevel(ctx, "ach_user")
	if err != nil {
		t.Fatalf("GetLevel: %v", err)
	}
	if first.Experience <= 0 {
		t.Fatalf("experience = %d, want > 0", first.Experience)
	}

	// The same unlock a second time is a no-op, not an error.
	if err := svc.Apply(ctx, "ach_user", AchievementFirstConnection); err != nil {
		t.Fatalf("Apply again: %v", err)
	}
	second, err := svc.GetLevel(ctx, "ach_user")
	if err != nil {
		t.Fatalf("GetLevel: %v", err)
	}
	if second.Experience != first.Experience {
		t.Errorf("experience changed on repeat unlock: %d -> %d", first.Experience, second.Experience)
	}

	unlocked, err := svc.ListUnlockedFor(ctx, "ach_user")
	if err != nil {
		t.Fatalf("ListUnlockedFor: %v", err)
	}
	if len(unlocked) != 1 {
		t.Fatalf("got %d unlocks, want 1", len(unlocked))
	}
}

func TestApplyUnknownAchievement(t *testing.T) {
	ctx, svc, _ := newAchievementFixture(t)
	if err := svc.Apply(ctx, "ach_user", 9999); err == nil {
		t.Fatal("expected error for unknown achievement id")
	}
}

func TestTenConnectionsBoundary(t *testing.T) {
	ctx, svc, tx := newAchievementFixture(t)

	seedConns := func(n int) {
		for i := 0; i < n; i++ {
			row := &types.Connection{
				User1:          "ach_colin",
				User2:          string(rune('a'+i)) + "_peer",
				ConnectionType: types.ConnectionTypeConnected,
			}
			if err := tx.Create(row).Error; err != nil {
				t.Fatalf("seed connection: %v", err)
			}
		}
	}

	seedConns(9)
	svc.OnConnectionAccepted(ctx, "ach_colin", "a_peer")
	if hasUnlock(t, ctx, svc, "ach_colin", AchievementTenConnections) {
		t.Fatal("ten-connections badge unlocked at 9 connections")
	}
	if !hasUnlock(t, ctx, svc, "ach_colin", AchievementFirstConnection) {
		t.Fatal("first-connection badge not unlocked")
	}

	row := &types.Connection{User1: "ach_colin", User2: "tenth_peer", ConnectionType: types.ConnectionTypeConnected}
	if err := tx.Create(row).Error; err != nil {
		t.Fatalf("seed connection: %v", err)
	}
	svc.OnConnectionAccepted(ctx, "ach_colin", "tenth_peer")
	if !hasUnlock(t, ctx, svc, "ach_colin", AchievementTenConnections) {
		t.Fatal("ten-connections badge not unlocked at 10 connections")
	}
}

// The like badges fire only when the running total lands exactly on
// the threshold.
func TestLikeBadgesExactMatch(t *testing.T) {
	ctx, svc, tx := newAchievementFixture(t)

	post := &types.Post{ID: uuid.New(), Username: "ach_author", Body: "hello", Privacy: types.PostPrivacyPublic}
	if err := tx.Create(post).Error; err != nil {
		t.Fatalf("seed post: %v", err)
	}

	like := func(who string) {
		if err := tx.Create(&types.PostLike{PostID: post.ID, Username: who}).Error; err != nil {
			t.Fatalf("seed like: %v", err)
		}
	}

	like("fan_1")
	svc.OnLikeReceived(ctx, "ach_author")
	if !hasUnlock(t, ctx, svc, "ach_author", AchievementFirstLike) {
		t.Fatal("first-like badge not unlocked at exactly 1 like")
	}

	// Jumping from 1 to 3 skips the check at 2; nothing new unlocks
	// and re-running the hook off-threshold stays quiet.
	like("fan_2")
	like("fan_3")
	svc.OnLikeReceived(ctx, "ach_author")
	unlocked, err := svc.ListUnlockedFor(ctx, "ach_author")
	if err != nil {
		t.Fatalf("ListUnlockedFor: %v", err)
	}
	if len(unlocked) != 1 {
		t.Fatalf("got %d unlocks, want 1", len(unlocked))
	}
}

func TestQuizPerfectScore(t *testing.T) {
	ctx, svc, _ := newAchievementFixture(t)

	svc.OnQuizCompleted(ctx, "ach_quizzer", 4, 5)
	if hasUnlock(t, ctx, svc, "ach_quizzer", AchievementAcedQuiz) {
		t.Fatal("aced-quiz badge unlocked without a perfect score")
	}
	svc.OnQuizCompleted(ctx, "ach_quizzer", 5, 5)
	if !hasUnlock(t, ctx, svc, "ach_quizzer", AchievementAcedQuiz) {
		t.Fatal("aced-quiz badge not unlocked on a perfect score")
	}
}

func hasUnlock(t *testing.T, ctx context.Context, svc AchievementService, username string, achievementID int) bool {
	t.Helper()
	unlocked, err := svc.ListUnlockedFor(ctx, username)
	if err != nil {
		t.Fatalf("ListUnlockedFor: %v", err)
	}
	for _, u := range unlocked {
		if u.AchievementID == achievementID {
			return true
		}
	}
	return false
}
