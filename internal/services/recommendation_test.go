package services

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/IsaacCheng9/student-network-backend/internal/repos"
	"github.com/IsaacCheng9/student-network-backend/internal/repos/testutil"
	"github.com/IsaacCheng9/student-network-backend/internal/types"
)

// The scorer runs its component scans concurrently, so these tests
// seed the shared handle directly instead of a rollback transaction
// and clean up by username prefix.
func cleanupRecRows(tb testing.TB, db *gorm.DB) {
	tb.Cleanup(func() {
		db.Where("user1 LIKE ? OR user2 LIKE ?", "rec_%", "rec_%").Delete(&types.Connection{})
		db.Where("user1 LIKE ? OR user2 LIKE ?", "rec_%", "rec_%").Delete(&types.CloseFriend{})
		db.Where("username LIKE ?", "rec_%").Delete(&types.UserHobby{})
		db.Where("username LIKE ?", "rec_%").Delete(&types.UserInterest{})
		db.Where("username LIKE ?", "rec_%").Delete(&types.UserProfile{})
		db.Where("id IN ?", []int{901, 902}).Delete(&types.Degree{})
	})
}

func newRecommendationFixture(t *testing.T) (context.Context, RecommendationService, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	cleanupRecRows(t, db)

	connRepo := repos.NewConnectionRepo(db, log)
	profileRepo := repos.NewProfileRepo(db, log)
	svc := NewRecommendationService(db, log, connRepo, profileRepo)
	return context.Background(), svc, db
}

func TestRecommendEmptyUser(t *testing.T) {
	ctx, svc, _ := newRecommendationFixture(t)

	got, err := svc.Recommend(ctx, "rec_nobody")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no recommendations, got %d", len(got))
	}
}

func TestRecommendScoringAndRanking(t *testing.T) {
	ctx, svc, db := newRecommendationFixture(t)

	seedDegree := func(id int, name string) {
		if err := db.Create(&types.Degree{ID: id, Name: name}).Error; err != nil {
			t.Fatalf("seed degree: %v", err)
		}
	}
	seedProfile := func(username string, degreeID int) {
		if err := db.Create(&types.UserProfile{Username: username, DegreeID: degreeID}).Error; err != nil {
			t.Fatalf("seed profile: %v", err)
		}
	}
	seedConn := func(user1, user2, connType string) {
		if err := db.Create(&types.Connection{User1: user1, User2: user2, ConnectionType: connType}).Error; err != nil {
			t.Fatalf("seed connection: %v", err)
		}
	}
	seedCF := func(user1, user2 string) {
		if err := db.Create(&types.CloseFriend{User1: user1, User2: user2}).Error; err != nil {
			t.Fatalf("seed close friend: %v", err)
		}
	}
	seedHobby := func(username, hobby string) {
		if err := db.Create(&types.UserHobby{Username: username, Hobby: hobby}).Error; err != nil {
			t.Fatalf("seed hobby: %v", err)
		}
	}
	seedInterest := func(username, interest string) {
		if err := db.Create(&types.UserInterest{Username: username, Interest: interest}).Error; err != nil {
			t.Fatalf("seed interest: %v", err)
		}
	}

	seedDegree(901, "Undeclared Test")
	seedDegree(902, "Computer Science Test")
	seedProfile("rec_self", 902)
	seedProfile("rec_cand", 902)
	seedProfile("rec_deg", 902)
	seedProfile("rec_hob", 901)

	// rec_cand: reachable through rec_d1 (close friend, 20) and
	// rec_d2 (plain, 10), plus a shared hobby (+5) and the same
	// degree (+5). Total 40, connection component dominates.
	seedConn("rec_self", "rec_d1", types.ConnectionTypeConnected)
	seedConn("rec_self", "rec_d2", types.ConnectionTypeConnected)
	seedCF("rec_self", "rec_d1")
	seedConn("rec_d1", "rec_cand", types.ConnectionTypeConnected)
	seedConn("rec_d2", "rec_cand", types.ConnectionTypeConnected)
	seedHobby("rec_self", "chess")
	seedHobby("rec_cand", "chess")

	// rec_c2: one mutual connection through rec_d3, a close friend in
	// both directions. Total 50, the highest score.
	seedConn("rec_self", "rec_d3", types.ConnectionTypeConnected)
	seedCF("rec_self", "rec_d3")
	seedCF("rec_d3", "rec_self")
	seedConn("rec_d3", "rec_c2", types.ConnectionTypeConnected)

	// rec_hob shares only the hobby; rec_deg only the degree. Both
	// score 5 and the tie is broken by username.
	seedHobby("rec_hob", "chess")

	// rec_int shares only an interest.
	seedInterest("rec_self", "films")
	seedInterest("rec_int", "films")

	// Excluded: an outgoing request and a block, both reachable
	// through rec_d1.
	seedConn("rec_self", "rec_pend", types.ConnectionTypeRequest)
	seedConn("rec_self", "rec_blocked", types.ConnectionTypeBlock)
	seedConn("rec_d1", "rec_pend", types.ConnectionTypeConnected)
	seedConn("rec_d1", "rec_blocked", types.ConnectionTypeConnected)

	got, err := svc.Recommend(ctx, "rec_self")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	wantOrder := []struct {
		username string
		score    int
	}{
		{"rec_c2", 50},
		{"rec_cand", 40},
		{"rec_deg", 5},
		{"rec_hob", 5},
		{"rec_int", 5},
	}
	if len(got) != len(wantOrder) {
		t.Fatalf("got %d recommendations, want %d: %+v", len(got), len(wantOrder), got)
	}
	for i, want := range wantOrder {
		if got[i].Username != want.username {
			t.Errorf("rank %d username = %q, want %q", i, got[i].Username, want.username)
		}
		if got[i].Score != want.score {
			t.Errorf("rank %d score = %d, want %d", i, got[i].Score, want.score)
		}
	}

	wantJustifications := map[string]string{
		"rec_c2":   "1 mutual connections including **rec_d3**",
		"rec_cand": "2 mutual connections including **rec_d1** and **rec_d2**",
		"rec_deg":  "You both study **Computer Science Test**",
		"rec_hob":  "You both enjoy hobbies including **chess**.",
		"rec_int":  "You are both interested in **films**.",
	}
	for _, rec := range got {
		if want := wantJustifications[rec.Username]; rec.Justification != want {
			t.Errorf("%s justification = %q, want %q", rec.Username, rec.Justification, want)
		}
	}
}

func TestRecommendCapsAtFive(t *testing.T) {
	ctx, svc, db := newRecommendationFixture(t)

	if err := db.Create(&types.UserHobby{Username: "rec_self", Hobby: "rowing"}).Error; err != nil {
		t.Fatalf("seed hobby: %v", err)
	}
	others := []string{"rec_a", "rec_b", "rec_c", "rec_d", "rec_e", "rec_f", "rec_g"}
	for _, other := range others {
		if err := db.Create(&types.UserHobby{Username: other, Hobby: "rowing"}).Error; err != nil {
			t.Fatalf("seed hobby: %v", err)
		}
	}

	got, err := svc.Recommend(ctx, "rec_self")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != maxRecommendations {
		t.Fatalf("got %d recommendations, want %d", len(got), maxRecommendations)
	}
	// Equal scores fall back to username order, so the first five
	// alphabetically survive the cap.
	for i, want := range others[:maxRecommendations] {
		if got[i].Username != want {
			t.Errorf("rank %d = %q, want %q", i, got[i].Username, want)
		}
	}
}

func TestJoinBoldGrammar(t *testing.T) {
	tests := []struct {
		names []string
		want  string
	}{
		{[]string{"alice"}, "**alice**"},
		{[]string{"alice", "bob"}, "**alice** and **bob**"},
		{[]string{"alice", "bob", "cleo"}, "**alice**, **bob** and **cleo**"},
	}
	for _, tt := range tests {
		if got := joinBold(tt.names); got != tt.want {
			t.Errorf("joinBold(%v) = %q, want %q", tt.names, got, tt.want)
		}
	}
}

func TestOrderCommonConnectionsCloseFriendsFirst(t *testing.T) {
	closeFriends := map[string]bool{"zara": true}
	got := orderCommonConnections([]string{"ben", "zara", "amy", "ben"}, closeFriends)
	want := []string{"zara", "amy", "ben"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
