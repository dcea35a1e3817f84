package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/IsaacCheng9/student-network-backend/internal/logger"
	"github.com/IsaacCheng9/student-network-backend/internal/types"
)

type LevelRepo interface {
	GetExperience(ctx context.Context, tx *gorm.DB, username string) (int, error)
	AddExperience(ctx context.Context, tx *gorm.DB, username string, xp int) error
	TopByExperience(ctx context.Context, tx *gorm.DB, limit int) ([]*types.UserLevel, error)
}

type levelRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLevelRepo(db *gorm.DB, baseLog *logger.Logger) LevelRepo {
	repoLog := baseLog.With("repo", "LevelRepo")
	return &levelRepo{db: db, log: repoLog}
}

func (lr *levelRepo) GetExperience(ctx context.Context, tx *gorm.DB, username string) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	var rows []*types.UserLevel
	if err := transaction.WithContext(ctx).
		Where("username = ?", username).
		Limit(1).
		Find(&rows).Error; err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Experience, nil
}

func (lr *levelRepo) AddExperience(ctx context.Context, tx *gorm.DB, username string, xp int) error {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "username"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"experience": gorm.Expr("user_level.experience + ?", xp),
			}),
		}).
		Create(&types.UserLevel{Username: username, Experience: xp}).Error
}

func (lr *levelRepo) TopByExperience(ctx context.Context, tx *gorm.DB, limit int) ([]*types.UserLevel, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	if limit <= 0 {
		limit = 25
	}

	var rows []*types.UserLevel
	if err := transaction.WithContext(ctx).
		Order("experience DESC, username ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
