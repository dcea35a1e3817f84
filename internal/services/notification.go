package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IsaacCheng9/student-network-backend/internal/logger"
	"github.com/IsaacCheng9/student-network-backend/internal/realtime"
	"github.com/IsaacCheng9/student-network-backend/internal/repos"
	"github.com/IsaacCheng9/student-network-backend/internal/types"
)

type NotificationService interface {
	// Notify records a notification and pushes it over SSE. It never
	// fails the caller; delivery problems are logged and swallowed.
	Notify(ctx context.Context, username, body, url string)
	List(ctx context.Context, username string, limit int) ([]*types.Notification, error)
	MarkRead(ctx context.Context, username string, id uuid.UUID) error
}

type notificationService struct {
	db               *gorm.DB
	log              *logger.Logger
	notificationRepo repos.NotificationRepo
	emitter          SSEEmitter
}

func NewNotificationService(
	db *gorm.DB,
	log *logger.Logger,
	notificationRepo repos.NotificationRepo,
	emitter SSEEmitter,
) NotificationService {
	serviceLog := log.With("service", "NotificationService")
	return &notificationService{
		db:               db,
		log:              serviceLog,
		notificationRepo: notificationRepo,
		emitter:          emitter,
	}
}

func (ns *notificationService) Notify(ctx context.Context, username, body, url string) {
	notification := &types.Notification{
		ID:       uuid.New(),
		Username: username,
		Body:     body,
		URL:      url,
	}
	if err := ns.notificationRepo.Create(ctx, nil, notification); err != nil {
		ns.log.Error("failed to store notification", "username", username, "error", err)
		return
	}
	if ns.emitter != nil {
		ns.emitter.Emit(ctx, realtime.SSEMessage{
			Channel: username,
			Event:   realtime.SSEEventNotificationCreated,
			Data:    notification,
		})
	}
}

func (ns *notificationService) List(ctx context.Context, username string, limit int) ([]*types.Notification, error) {
	return ns.notificationRepo.ListFor(ctx, nil, username, limit)
}

func (ns *notificationService) MarkRead(ctx context.Context, username string, id uuid.UUID) error {
	return ns.notificationRepo.MarkRead(ctx, nil, id, username)
}
