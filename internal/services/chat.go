package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IsaacCheng9/student-network-backend/internal/logger"
	"github.com/IsaacCheng9/student-network-backend/internal/realtime"
	"github.com/IsaacCheng9/student-network-backend/internal/repos"
	"github.com/IsaacCheng9/student-network-backend/internal/types"
	"github.com/IsaacCheng9/student-network-backend/internal/utils"
)

// Messaging is restricted to accepted connections.
type ChatService interface {
	Send(ctx context.Context, sender, recipient, body string) (*types.Message, error)
	History(ctx context.Context, username, other string, limit int) ([]*types.Message, error)
}

type chatService struct {
	db             *gorm.DB
	log            *logger.Logger
	messageRepo    repos.MessageRepo
	connectionRepo repos.ConnectionRepo
	emitter        SSEEmitter
}

func NewChatService(
	db *gorm.DB,
	log *logger.Logger,
	messageRepo repos.MessageRepo,
	connectionRepo repos.ConnectionRepo,
	emitter SSEEmitter,
) ChatService {
	serviceLog := log.With("service", "ChatService")
	return &chatService{
		db:             db,
		log:            serviceLog,
		messageRepo:    messageRepo,
		connectionRepo: connectionRepo,
		emitter:        emitter,
	}
}

func (cs *chatService) Send(ctx context.Context, sender, recipient, body string) (*types.Message, error) {
	body = utils.ParseInputString(body)
	if body == "" {
		return nil, ErrEmptyBody
	}
	if err := cs.requireConnected(ctx, sender, recipient); err != nil {
		return nil, err
	}

	message := &types.Message{
		ID:        uuid.New(),
		Sender:    sender,
		Recipient: recipient,
		Body:      body,
	}
	if err := cs.messageRepo.Create(ctx, nil, message); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	if cs.emitter != nil {
		cs.emitter.Emit(ctx, realtime.SSEMessage{
			Channel: recipient,
			Event:   realtime.SSEEventMessageReceived,
			Data:    message,
		})
	}
	return message, nil
}

func (cs *chatService) History(ctx context.Context, username, other string, limit int) ([]*types.Message, error) {
	if err := cs.requireConnected(ctx, username, other); err != nil {
		return nil, err
	}
	return cs.messageRepo.History(ctx, nil, username, other, limit)
}

func (cs *chatService) requireConnected(ctx context.Context, userA, userB string) error {
	relation, err := cs.connectionRepo.TypeBetween(ctx, nil, userA, userB)
	if err != nil {
		return fmt.Errorf("failed to check relationship: %w", err)
	}
	if relation != types.RelationConnected {
		return ErrNotConnected
	}
	return nil
}
