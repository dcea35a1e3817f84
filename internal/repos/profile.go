package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/IsaacCheng9/student-network-backend/internal/logger"
	"github.com/IsaacCheng9/student-network-backend/internal/types"
)

// ProfileRepo is the attribute index: pure reads keyed by username,
// plus the inverse scans the similarity scorer needs (who else has
// hobby H / interest I / degree D).
type ProfileRepo interface {
	GetProfile(ctx context.Context, tx *gorm.DB, username string) (*types.UserProfile, error)
	UpsertProfile(ctx context.Context, tx *gorm.DB, profile *types.UserProfile) error

	HobbiesOf(ctx context.Context, tx *gorm.DB, username string) ([]string, error)
	InterestsOf(ctx context.Context, tx *gorm.DB, username string) ([]string, error)
	DegreeOf(ctx context.Context, tx *gorm.DB, username string) (int, string, error)

	ReplaceHobbies(ctx context.Context, tx *gorm.DB, username string, hobbies []string) error
	ReplaceInterests(ctx context.Context, tx *gorm.DB, username string, interests []string) error

	UsersWithHobby(ctx context.Context, tx *gorm.DB, hobby string) ([]string, error)
	UsersWithInterest(ctx context.Context, tx *gorm.DB, interest string) ([]string, error)
	UsersWithDegree(ctx context.Context, tx *gorm.DB, degreeID int) ([]string, error)

	ListDegrees(ctx context.Context, tx *gorm.DB) ([]*types.Degree, error)
	SeedDegrees(ctx context.Context, tx *gorm.DB, degrees []*types.Degree) error
}

type profileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	repoLog := baseLog.With("repo", "ProfileRepo")
	return &profileRepo{db: db, log: repoLog}
}

func (pr *profileRepo) GetProfile(ctx context.Context, tx *gorm.DB, username string) (*types.UserProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.UserProfile
	if err := transaction.WithContext(ctx).
		Where("username = ?", username).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (pr *profileRepo) UpsertProfile(ctx context.Context, tx *gorm.DB, profile *types.UserProfile) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			DoUpdates: clause.AssignmentColumns([]string{"degree", "bio", "updated_at"}),
		}).
		Create(profile).Error
}

func (pr *profileRepo) HobbiesOf(ctx context.Context, tx *gorm.DB, username string) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var hobbies []string
	if err := transaction.WithContext(ctx).
		Model(&types.UserHobby{}).
		Where("username = ?", username).
		Order("hobby ASC").
		Pluck("hobby", &hobbies).Error; err != nil {
		return nil, err
	}
	return hobbies, nil
}

func (pr *profileRepo) InterestsOf(ctx context.Context, tx *gorm.DB, username string) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var interests []string
	if err := transaction.WithContext(ctx).
		Model(&types.UserInterest{}).
		Where("username = ?", username).
		Order("interest ASC").
		Pluck("interest", &interests).Error; err != nil {
		return nil, err
	}
	return interests, nil
}

func (pr *profileRepo) DegreeOf(ctx context.Context, tx *gorm.DB, username string) (int, string, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	profile, err := pr.GetProfile(ctx, transaction, username)
	if err != nil {
		return 0, "", err
	}
	if profile == nil {
		return types.DegreeUndeclared, "", nil
	}

	var degrees []*types.Degree
	if err := transaction.WithContext(ctx).
		Where("id = ?", profile.DegreeID).
		Limit(1).
		Find(&degrees).Error; err != nil {
		return 0, "", err
	}
	if len(degrees) == 0 {
		return profile.DegreeID, "", nil
	}
	return profile.DegreeID, degrees[0].Name, nil
}

func (pr *profileRepo) ReplaceHobbies(ctx context.Context, tx *gorm.DB, username string, hobbies []string) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if err := transaction.WithContext(ctx).
		Where("username = ?", username).
		Delete(&types.UserHobby{}).Error; err != nil {
		return err
	}
	if len(hobbies) == 0 {
		return nil
	}
	rows := make([]*types.UserHobby, 0, len(hobbies))
	for _, h := range hobbies {
		rows = append(rows, &types.UserHobby{Username: username, Hobby: h})
	}
	return transaction.WithContext(ctx).Create(&rows).Error
}

func (pr *profileRepo) ReplaceInterests(ctx context.Context, tx *gorm.DB, username string, interests []string) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if err := transaction.WithContext(ctx).
		Where("username = ?", username).
		Delete(&types.UserInterest{}).Error; err != nil {
		return err
	}
	if len(interests) == 0 {
		return nil
	}
	rows := make([]*types.UserInterest, 0, len(interests))
	for _, i := range interests {
		rows = append(rows, &types.UserInterest{Username: username, Interest: i})
	}
	return transaction.WithContext(ctx).Create(&rows).Error
}

func (pr *profileRepo) UsersWithHobby(ctx context.Context, tx *gorm.DB, hobby string) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var usernames []string
	if err := transaction.WithContext(ctx).
		Model(&types.UserHobby{}).
		Where("hobby = ?", hobby).
		Order("username ASC").
		Pluck("username", &usernames).Error; err != nil {
		return nil, err
	}
	return usernames, nil
}

func (pr *profileRepo) UsersWithInterest(ctx context.Context, tx *gorm.DB, interest string) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var usernames []string
	if err := transaction.WithContext(ctx).
		Model(&types.UserInterest{}).
		Where("interest = ?", interest).
		Order("username ASC").
		Pluck("username", &usernames).Error; err != nil {
		return nil, err
	}
	return usernames, nil
}

func (pr *profileRepo) UsersWithDegree(ctx context.Context, tx *gorm.DB, degreeID int) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var usernames []string
	if err := transaction.WithContext(ctx).
		Model(&types.UserProfile{}).
		Where("degree = ?", degreeID).
		Order("username ASC").
		Pluck("username", &usernames).Error; err != nil {
		return nil, err
	}
	return usernames, nil
}

func (pr *profileRepo) ListDegrees(ctx context.Context, tx *gorm.DB) ([]*types.Degree, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var degrees []*types.Degree
	if err := transaction.WithContext(ctx).
		Order("id ASC").
		Find(&degrees).Error; err != nil {
		return nil, err
	}
	return degrees, nil
}

func (pr *profileRepo) SeedDegrees(ctx context.Context, tx *gorm.DB, degrees []*types.Degree) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if len(degrees) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&degrees).Error
}
