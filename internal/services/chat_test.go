package services

import (
	"context"
	"errors"
	"testing"

	"github.com/IsaacCheng9/student-network-backend/internal/repos"
	"github.com/IsaacCheng9/student-network-backend/internal/repos/testutil"
	"github.com/IsaacCheng9/student-network-backend/internal/types"
)

func TestChatRequiresConnection(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	messageRepo := repos.NewMessageRepo(tx, log)
	connectionRepo := repos.NewConnectionRepo(tx, log)
	svc := NewChatService(tx, log, messageRepo, connectionRepo, nil)

	if _, err := svc.Send(ctx, "chat_alice", "chat_bob", "hello"); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("error = %v, want ErrNotConnected", err)
	}

	testutil.SeedConnection(t, ctx, tx, "chat_alice", "chat_bob", types.ConnectionTypeConnected)
	if _, err := svc.Send(ctx, "chat_alice", "chat_bob", "hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if _, err := svc.Send(ctx, "chat_bob", "chat_alice", "hi back"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	history, err := svc.History(ctx, "chat_alice", "chat_bob", 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history has %d messages, want 2", len(history))
	}
}

func TestChatRejectsEmptyBody(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	messageRepo := repos.NewMessageRepo(tx, log)
	connectionRepo := repos.NewConnectionRepo(tx, log)
	svc := NewChatService(tx, log, messageRepo, connectionRepo, nil)

	testutil.SeedConnection(t, ctx, tx, "chat_alice", "chat_bob", types.ConnectionTypeConnected)
	if _, err := svc.Send(ctx, "chat_alice", "chat_bob", "   "); !errors.Is(err, ErrEmptyBody) {
		t.Fatalf("error = %v, want ErrEmptyBody", err)
	}
}
