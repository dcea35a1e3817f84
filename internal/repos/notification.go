package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IsaacCheng9/student-network-backend/internal/logger"
	"github.com/IsaacCheng9/student-network-backend/internal/types"
)

type NotificationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, notification *types.Notification) error
	ListFor(ctx context.Context, tx *gorm.DB, username string, limit int) ([]*types.Notification, error)
	MarkRead(ctx context.Context, tx *gorm.DB, id uuid.UUID, username string) error
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	repoLog := baseLog.With("repo", "NotificationRepo")
	return &notificationRepo{db: db, log: repoLog}
}

func (nr *notificationRepo) Create(ctx context.Context, tx *gorm.DB, notification *types.Notification) error {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	return transaction.WithContext(ctx).Create(notification).Error
}

func (nr *notificationRepo) ListFor(ctx context.Context, tx *gorm.DB, username string, limit int) ([]*types.Notification, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	if limit <= 0 {
		limit = 50
	}

	var results []*types.Notification
	if err := transaction.WithContext(ctx).
		Where("username = ?", username).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (nr *notificationRepo) MarkRead(ctx context.Context, tx *gorm.DB, id uuid.UUID, username string) error {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Notification{}).
		Where("id = ? AND username = ?", id, username).
		Update("read", true).Error
}
