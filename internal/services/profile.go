package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/IsaacCheng9/student-network-backend/internal/logger"
	"github.com/IsaacCheng9/student-network-backend/internal/repos"
	"github.com/IsaacCheng9/student-network-backend/internal/types"
	"github.com/IsaacCheng9/student-network-backend/internal/utils"
)

var ErrUnknownDegree = fmt.Errorf("unknown degree")

// ProfileView is the full profile page payload.
type ProfileView struct {
	Username   string   `json:"username"`
	FirstName  string   `json:"first_name"`
	LastName   string   `json:"last_name"`
	AvatarPath string   `json:"avatar_path"`
	Bio        string   `json:"bio"`
	DegreeID   int      `json:"degree_id"`
	DegreeName string   `json:"degree_name"`
	Hobbies    []string `json:"hobbies"`
	Interests  []string `json:"interests"`
}

type ProfileUpdate struct {
	Bio       string
	DegreeID  int
	Hobbies   []string
	Interests []string
}

type ProfileService interface {
	GetProfile(ctx context.Context, username string) (*ProfileView, error)
	UpdateProfile(ctx context.Context, username string, update ProfileUpdate) error
	ListDegrees(ctx context.Context) ([]*types.Degree, error)
}

type profileService struct {
	db           *gorm.DB
	log          *logger.Logger
	profileRepo  repos.ProfileRepo
	userRepo     repos.UserRepo
	achievements AchievementService
}

func NewProfileService(
	db *gorm.DB,
	log *logger.Logger,
	profileRepo repos.ProfileRepo,
	userRepo repos.UserRepo,
	achievements AchievementService,
) ProfileService {
	serviceLog := log.With("service", "ProfileService")
	return &profileService{
		db:           db,
		log:          serviceLog,
		profileRepo:  profileRepo,
		userRepo:     userRepo,
		achievements: achievements,
	}
}

func (ps *profileService) GetProfile(ctx context.Context, username string) (*ProfileView, error) {
	users, err := ps.userRepo.GetByUsernames(ctx, nil, []string{username})
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}
	user := users[0]

	degreeID, degreeName, err := ps.profileRepo.DegreeOf(ctx, nil, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load degree: %w", err)
	}
	hobbies, err := ps.profileRepo.HobbiesOf(ctx, nil, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load hobbies: %w", err)
	}
	interests, err := ps.profileRepo.InterestsOf(ctx, nil, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load interests: %w", err)
	}

	var bio string
	if profile, pErr := ps.profileRepo.GetProfile(ctx, nil, username); pErr == nil && profile != nil {
		bio = profile.Bio
	}

	return &ProfileView{
		Username:   user.Username,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		AvatarPath: user.AvatarPath,
		Bio:        bio,
		DegreeID:   degreeID,
		DegreeName: degreeName,
		Hobbies:    hobbies,
		Interests:  interests,
	}, nil
}

func (ps *profileService) UpdateProfile(ctx context.Context, username string, update ProfileUpdate) error {
	update.Bio = utils.ParseInputString(update.Bio)
	update.Hobbies = normalizeAttributes(update.Hobbies)
	update.Interests = normalizeAttributes(update.Interests)

	if vErr := utils.ValidateProfileUpdate(update.Bio, update.Hobbies, update.Interests); vErr != nil {
		return vErr
	}
	if update.DegreeID == 0 {
		update.DegreeID = types.DegreeUndeclared
	}

	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		degrees, err := ps.profileRepo.ListDegrees(ctx, tx)
		if err != nil {
			return fmt.Errorf("failed to list degrees: %w", err)
		}
		known := false
		for _, degree := range degrees {
			if degree.ID == update.DegreeID {
				known = true
				break
			}
		}
		if !known {
			return ErrUnknownDegree
		}

		profile := &types.UserProfile{
			Username: username,
			DegreeID: update.DegreeID,
			Bio:      update.Bio,
		}
		if err := ps.profileRepo.UpsertProfile(ctx, tx, profile); err != nil {
			return fmt.Errorf("failed to upsert profile: %w", err)
		}
		if err := ps.profileRepo.ReplaceHobbies(ctx, tx, username, update.Hobbies); err != nil {
			return fmt.Errorf("failed to replace hobbies: %w", err)
		}
		return ps.profileRepo.ReplaceInterests(ctx, tx, username, update.Interests)
	})
	if err != nil {
		return err
	}

	ps.achievements.OnProfileEdited(ctx, username)
	return nil
}

func (ps *profileService) ListDegrees(ctx context.Context) ([]*types.Degree, error) {
	return ps.profileRepo.ListDegrees(ctx, nil)
}

// normalizeAttributes trims, lowercases, and deduplicates hobby and
// interest names so "Chess" and "chess " index identically.
func normalizeAttributes(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		normalized := strings.ToLower(utils.ParseInputString(v))
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		out = append(out, normalized)
	}
	return out
}
