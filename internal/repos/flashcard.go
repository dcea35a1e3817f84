package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/IsaacCheng9/student-network-backend/internal/logger"
	"github.com/IsaacCheng9/student-network-backend/internal/types"
)

type FlashcardRepo interface {
	CreateSet(ctx context.Context, tx *gorm.DB, set *types.FlashcardSet) error
	GetSetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.FlashcardSet, error)
	ListSets(ctx context.Context, tx *gorm.DB, limit int) ([]*types.FlashcardSet, error)

	RecordPlay(ctx context.Context, tx *gorm.DB, setID uuid.UUID, username string, at time.Time) error
	CountDistinctPlayers(ctx context.Context, tx *gorm.DB, setID uuid.UUID, excludeUsername string) (int64, error)
}

type flashcardRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFlashcardRepo(db *gorm.DB, baseLog *logger.Logger) FlashcardRepo {
	repoLog := baseLog.With("repo", "FlashcardRepo")
	return &flashcardRepo{db: db, log: repoLog}
}

func (fr *flashcardRepo) CreateSet(ctx context.Context, tx *gorm.DB, set *types.FlashcardSet) error {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	return transaction.WithContext(ctx).Create(set).Error
}

func (fr *flashcardRepo) GetSetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.FlashcardSet, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	var results []*types.FlashcardSet
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

func (fr *flashcardRepo) ListSets(ctx context.Context, tx *gorm.DB, limit int) ([]*types.FlashcardSet, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	if limit <= 0 {
		limit = 50
	}

	var results []*types.FlashcardSet
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (fr *flashcardRepo) RecordPlay(ctx context.Context, tx *gorm.DB, setID uuid.UUID, username string, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	row := &types.FlashcardPlay{SetID: setID, Username: username, PlayedAt: at}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row).Error
}

func (fr *flashcardRepo) CountDistinctPlayers(ctx context.Context, tx *gorm.DB, setID uuid.UUID, excludeUsername string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	var count int64
	query := transaction.WithContext(ctx).
		Model(&types.FlashcardPlay{}).
		Where("set_id = ?", setID)
	if excludeUsername != "" {
		query = query.Where("username <> ?", excludeUsername)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
