package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IsaacCheng9/student-network-backend/internal/logger"
	"github.com/IsaacCheng9/student-network-backend/internal/types"
)

type QuizRepo interface {
	Create(ctx context.Context, tx *gorm.DB, quiz *types.Quiz) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Quiz, error)
	List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Quiz, error)

	CreateAttempt(ctx context.Context, tx *gorm.DB, attempt *types.QuizAttempt) error
	ListAttempts(ctx context.Context, tx *gorm.DB, quizID uuid.UUID, username string) ([]*types.QuizAttempt, error)
}

type quizRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizRepo(db *gorm.DB, baseLog *logger.Logger) QuizRepo {
	repoLog := baseLog.With("repo", "QuizRepo")
	return &quizRepo{db: db, log: repoLog}
}

func (qr *quizRepo) Create(ctx context.Context, tx *gorm.DB, quiz *types.Quiz) error {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}

	return transaction.WithContext(ctx).Create(quiz).Error
}

func (qr *quizRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Quiz, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}

	var results []*types.Quiz
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (qr *quizRepo) List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Quiz, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}

	if limit <= 0 {
		limit = 50
	}

	var results []*types.Quiz
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (qr *quizRepo) CreateAttempt(ctx context.Context, tx *gorm.DB, attempt *types.QuizAttempt) error {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}

	return transaction.WithContext(ctx).Create(attempt).Error
}

func (qr *quizRepo) ListAttempts(ctx context.Context, tx *gorm.DB, quizID uuid.UUID, username string) ([]*types.QuizAttempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}

	var results []*types.QuizAttempt
	query := transaction.WithContext(ctx).Where("quiz_id = ?", quizID)
	if username != "" {
		query = query.Where("username = ?", username)
	}
	if err := query.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
