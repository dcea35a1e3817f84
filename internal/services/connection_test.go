package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/IsaacCheng9/student-network-backend/internal/repos"
	"github.com/IsaacCheng9/student-network-backend/internal/repos/testutil"
	"github.com/IsaacCheng9/student-network-backend/internal/types"
)

func newConnectionFixture(t *testing.T) (context.Context, ConnectionService, AchievementService, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	tx := testutil.Tx(t, db)

	connectionRepo := repos.NewConnectionRepo(tx, log)
	userRepo := repos.NewUserRepo(tx, log)
	profileRepo := repos.NewProfileRepo(tx, log)
	postRepo := repos.NewPostRepo(tx, log)
	achievementRepo := repos.NewAchievementRepo(tx, log)
	levelRepo := repos.NewLevelRepo(tx, log)
	notificationRepo := repos.NewNotificationRepo(tx, log)

	achievements := NewAchievementService(tx, log, achievementRepo, levelRepo, connectionRepo, profileRepo, postRepo, nil)
	if err := achievements.SeedCatalog(context.Background()); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	notifier := NewNotificationService(tx, log, notificationRepo, nil)
	svc := NewConnectionService(tx, log, connectionRepo, userRepo, achievements, notifier, nil)

	ctx := context.Background()
	testutil.SeedUser(t, ctx, tx, "conn_alice")
	testutil.SeedUser(t, ctx, tx, "conn_bob")
	return ctx, svc, achievements, tx
}

func TestRequestAndAccept(t *testing.T) {
	ctx, svc, _, _ := newConnectionFixture(t)

	if err := svc.Request(ctx, "conn_alice", "conn_bob"); err != nil {
		t.Fatalf("Request: %v", err)
	}
	relation, err := svc.Relationship(ctx, "conn_alice", "conn_bob")
	if err != nil {
		t.Fatalf("Relationship: %v", err)
	}
	if relation != types.RelationRequest {
		t.Fatalf("relation = %q, want %q", relation, types.RelationRequest)
	}

	// Repeating an open request is a conflict.
	if err := svc.Request(ctx, "conn_alice", "conn_bob"); !errors.Is(err, ErrAlreadyRequested) {
		t.Fatalf("repeat request error = %v, want ErrAlreadyRequested", err)
	}

	if err := svc.Accept(ctx, "conn_bob", "conn_alice"); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	relation, err = svc.Relationship(ctx, "conn_alice", "conn_bob")
	if err != nil {
		t.Fatalf("Relationship: %v", err)
	}
	if relation != types.RelationConnected {
		t.Fatalf("relation = %q, want %q", relation, types.RelationConnected)
	}
}

func TestAcceptWithoutRequest(t *testing.T) {
	ctx, svc, _, _ := newConnectionFixture(t)
	if err := svc.Accept(ctx, "conn_bob", "conn_alice"); !errors.Is(err, ErrNoPendingRequest) {
		t.Fatalf("error = %v, want ErrNoPendingRequest", err)
	}
}

func TestRequestGuards(t *testing.T) {
	ctx, svc, _, _ := newConnectionFixture(t)

	if err := svc.Request(ctx, "conn_alice", "conn_alice"); !errors.Is(err, ErrSelfConnection) {
		t.Fatalf("self request error = %v, want ErrSelfConnection", err)
	}
	if err := svc.Request(ctx, "conn_alice", "conn_ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown user error = %v, want ErrUserNotFound", err)
	}
}

// A request answered with a counter-request connects the pair and
// runs the same achievement rules as an explicit accept.
func TestCrossingRequestsConnect(t *testing.T) {
	ctx, svc, achievements, _ := newConnectionFixture(t)

	if err := svc.Request(ctx, "conn_alice", "conn_bob"); err != nil {
		t.Fatalf("Request: %v", err)
	}
	if err := svc.Request(ctx, "conn_bob", "conn_alice"); err != nil {
		t.Fatalf("counter request: %v", err)
	}
	relation, err := svc.Relationship(ctx, "conn_alice", "conn_bob")
	if err != nil {
		t.Fatalf("Relationship: %v", err)
	}
	if relation != types.RelationConnected {
		t.Fatalf("relation = %q, want %q", relation, types.RelationConnected)
	}

	for _, username := range []string{"conn_alice", "conn_bob"} {
		if !hasUnlock(t, ctx, achievements, username, AchievementFirstConnection) {
			t.Errorf("%s missing first-connection badge", username)
		}
	}
}

func TestBlockedUserCannotRequest(t *testing.T) {
	ctx, svc, _, _ := newConnectionFixture(t)

	if err := svc.Block(ctx, "conn_alice", "conn_bob"); err != nil {
		t.Fatalf("Block: %v", err)
	}
	if err := svc.Request(ctx, "conn_bob", "conn_alice"); !errors.Is(err, ErrBlocked) {
		t.Fatalf("request by blocked user error = %v, want ErrBlocked", err)
	}
	// Remove must not give the blocked user a way to clear the row.
	if err := svc.Remove(ctx, "conn_bob", "conn_alice"); !errors.Is(err, ErrBlocked) {
		t.Fatalf("remove by blocked user error = %v, want ErrBlocked", err)
	}
}

func TestRemoveCascadesCloseFriends(t *testing.T) {
	ctx, svc, _, tx := newConnectionFixture(t)

	testutil.SeedConnection(t, ctx, tx, "conn_alice", "conn_bob", types.ConnectionTypeConnected)
	if err := svc.MarkCloseFriend(ctx, "conn_alice", "conn_bob"); err != nil {
		t.Fatalf("MarkCloseFriend: %v", err)
	}

	if err := svc.Remove(ctx, "conn_alice", "conn_bob"); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	var count int64
	if err := tx.Model(&types.CloseFriend{}).
		Where("user1 = ? AND user2 = ?", "conn_alice", "conn_bob").
		Count(&count).Error; err != nil {
		t.Fatalf("count close friends: %v", err)
	}
	if count != 0 {
		t.Error("close friend mark survived connection removal")
	}
}

func TestCloseFriendRequiresConnection(t *testing.T) {
	ctx, svc, _, _ := newConnectionFixture(t)
	if err := svc.MarkCloseFriend(ctx, "conn_alice", "conn_bob"); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("error = %v, want ErrNotConnected", err)
	}
}

func TestBlockReplacesConnection(t *testing.T) {
	ctx, svc, _, _ := newConnectionFixture(t)

	if err := svc.Request(ctx, "conn_alice", "conn_bob"); err != nil {
		t.Fatalf("Request: %v", err)
	}
	if err := svc.Accept(ctx, "conn_bob", "conn_alice"); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if err := svc.Block(ctx, "conn_alice", "conn_bob"); err != nil {
		t.Fatalf("Block: %v", err)
	}
	relation, err := svc.Relationship(ctx, "conn_alice", "conn_bob")
	if err != nil {
		t.Fatalf("Relationship: %v", err)
	}
	if relation != types.RelationBlocked {
		t.Fatalf("relation = %q, want %q", relation, types.RelationBlocked)
	}

	// Only the blocker can lift it.
	if err := svc.Unblock(ctx, "conn_bob", "conn_alice"); !errors.Is(err, ErrNotBlocked) {
		t.Fatalf("unblock by target error = %v, want ErrNotBlocked", err)
	}
	if err := svc.Unblock(ctx, "conn_alice", "conn_bob"); err != nil {
		t.Fatalf("Unblock: %v", err)
	}
}
