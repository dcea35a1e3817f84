package repos

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/IsaacCheng9/student-network-backend/internal/logger"
	"github.com/IsaacCheng9/student-network-backend/internal/types"
)

type AchievementRepo interface {
	SeedCatalog(ctx context.Context, tx *gorm.DB, achievements []*types.Achievement) error
	GetByID(ctx context.Context, tx *gorm.DB, id int) (*types.Achievement, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Achievement, error)

	IsUnlocked(ctx context.Context, tx *gorm.DB, username string, achievementID int) (bool, error)
	InsertUnlock(ctx context.Context, tx *gorm.DB, username string, achievementID int, at time.Time) error
	ListUnlockedFor(ctx context.Context, tx *gorm.DB, username string) ([]*types.UnlockedAchievement, error)
}

type achievementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAchievementRepo(db *gorm.DB, baseLog *logger.Logger) AchievementRepo {
	repoLog := baseLog.With("repo", "AchievementRepo")
	return &achievementRepo{db: db, log: repoLog}
}

func (ar *achievementRepo) SeedCatalog(ctx context.Context, tx *gorm.DB, achievements []*types.Achievement) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if len(achievements) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&achievements).Error
}

func (ar *achievementRepo) GetByID(ctx context.Context, tx *gorm.DB, id int) (*types.Achievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.Achievement
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

func (ar *achievementRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Achievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.Achievement
	if err := transaction.WithContext(ctx).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *achievementRepo) IsUnlocked(ctx context.Context, tx *gorm.DB, username string, achievementID int) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.UnlockedAchievement{}).
		Where("username = ? AND achievement_id = ?", username, achievementID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (ar *achievementRepo) InsertUnlock(ctx context.Context, tx *gorm.DB, username string, achievementID int, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	row := &types.UnlockedAchievement{
		Username:      username,
		AchievementID: achievementID,
		Date:          at,
	}
	return transaction.WithContext(ctx).Create(row).Error
}

func (ar *achievementRepo) ListUnlockedFor(ctx context.Context, tx *gorm.DB, username string) ([]*types.UnlockedAchievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.UnlockedAchievement
	if err := transaction.WithContext(ctx).
		Where("username = ?", username).
		Order("date DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
