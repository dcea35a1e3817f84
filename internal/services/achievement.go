package services

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/IsaacCheng9/student-network-backend/internal/logger"
	"github.com/IsaacCheng9/student-network-backend/internal/repos"
	"github.com/IsaacCheng9/student-network-backend/internal/types"
)

// Catalog ids. The trigger hooks below refer to these; the seed data
// lives in achievements.yaml.
const (
	AchievementProfileCompleted   = 1
	AchievementFivePosts          = 2
	AchievementTwentyPosts        = 3
	AchievementFirstConnection    = 4
	AchievementTenConnections     = 5
	AchievementHundredConnections = 6
	AchievementFirstLike          = 7
	AchievementFiftyLikes         = 8
	AchievementFiveHundredLikes   = 9
	AchievementSharedHobby        = 10
	AchievementSharedInterest     = 11
	AchievementOtherDegree        = 12
	AchievementTenOtherDegrees    = 13
	AchievementAcedQuiz           = 14
	AchievementPopularFlashcards  = 15
)

//go:embed achievements.yaml
var achievementCatalogYAML []byte

type achievementCatalogFile struct {
	Achievements []struct {
		ID          int    `yaml:"id"`
		Description string `yaml:"description"`
		Rarity      string `yaml:"rarity"`
		XP          int    `yaml:"xp"`
	} `yaml:"achievements"`
}

func LoadAchievementCatalog() ([]*types.Achievement, error) {
	var file achievementCatalogFile
	if err := yaml.Unmarshal(achievementCatalogYAML, &file); err != nil {
		return nil, fmt.Errorf("failed to parse achievement catalog: %w", err)
	}
	out := make([]*types.Achievement, 0, len(file.Achievements))
	for _, a := range file.Achievements {
		out = append(out, &types.Achievement{
			ID:          a.ID,
			Description: a.Description,
			Rarity:      a.Rarity,
			XP:          a.XP,
		})
	}
	return out, nil
}

type LevelInfo struct {
	Level         int `json:"level"`
	Experience    int `json:"experience"`
	Remaining     int `json:"remaining"`
	NextThreshold int `json:"next_threshold"`
}

// AchievementService is the unlock state machine plus the rule catalog
// evaluated after each triggering action. A (user, achievement) pair
// moves LOCKED -> UNLOCKED once and never reverts.
type AchievementService interface {
	SeedCatalog(ctx context.Context) error
	List(ctx context.Context) ([]*types.Achievement, error)
	ListUnlockedFor(ctx context.Context, username string) ([]*types.UnlockedAchievement, error)

	Apply(ctx context.Context, username string, achievementID int) error
	GetLevel(ctx context.Context, username string) (*LevelInfo, error)

	OnProfileEdited(ctx context.Context, username string)
	OnPostCreated(ctx context.Context, username string)
	OnLikeReceived(ctx context.Context, author string)
	OnConnectionAccepted(ctx context.Context, userA, userB string)
	OnQuizCompleted(ctx context.Context, username string, score, total int)
	OnFlashcardPlayed(ctx context.Context, owner string, distinctPlayers int64)
}

type achievementService struct {
	db              *gorm.DB
	log             *logger.Logger
	achievementRepo repos.AchievementRepo
	levelRepo       repos.LevelRepo
	connectionRepo  repos.ConnectionRepo
	profileRepo     repos.ProfileRepo
	postRepo        repos.PostRepo
	notifier        NotificationService
}

func NewAchievementService(
	db *gorm.DB,
	log *logger.Logger,
	achievementRepo repos.AchievementRepo,
	levelRepo repos.LevelRepo,
	connectionRepo repos.ConnectionRepo,
	profileRepo repos.ProfileRepo,
	postRepo repos.PostRepo,
	notifier NotificationService,
) AchievementService {
	serviceLog := log.With("service", "AchievementService")
	return &achievementService{
		db:              db,
		log:             serviceLog,
		achievementRepo: achievementRepo,
		levelRepo:       levelRepo,
		connectionRepo:  connectionRepo,
		profileRepo:     profileRepo,
		postRepo:        postRepo,
		notifier:        notifier,
	}
}

func (as *achievementService) SeedCatalog(ctx context.Context) error {
	catalog, err := LoadAchievementCatalog()
	if err != nil {
		return err
	}
	return as.achievementRepo.SeedCatalog(ctx, nil, catalog)
}

func (as *achievementService) List(ctx context.Context) ([]*types.Achievement, error) {
	return as.achievementRepo.List(ctx, nil)
}

func (as *achievementService) ListUnlockedFor(ctx context.Context, username string) ([]*types.UnlockedAchievement, error) {
	return as.achievementRepo.ListUnlockedFor(ctx, nil, username)
}

// Apply grants an achievement at most once. The check and the insert
// run in one transaction so concurrent requests for the same pair
// cannot both grant XP; the composite primary key on the unlock table
// rejects the loser of any remaining race.
func (as *achievementService) Apply(ctx context.Context, username string, achievementID int) error {
	var unlocked *types.Achievement
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		already, err := as.achievementRepo.IsUnlocked(ctx, tx, username, achievementID)
		if err != nil {
			return fmt.Errorf("failed to check unlock state: %w", err)
		}
		if already {
			return nil
		}

		achievement, err := as.achievementRepo.GetByID(ctx, tx, achievementID)
		if err != nil {
			return fmt.Errorf("failed to load achievement: %w", err)
		}
		if achievement == nil {
			return fmt.Errorf("unknown achievement id %d", achievementID)
		}

		if err := as.achievementRepo.InsertUnlock(ctx, tx, username, achievementID, time.Now()); err != nil {
			return fmt.Errorf("failed to insert unlock: %w", err)
		}
		if err := as.levelRepo.AddExperience(ctx, tx, username, achievement.XP); err != nil {
			return fmt.Errorf("failed to grant XP: %w", err)
		}
		unlocked = achievement
		return nil
	})
	if err != nil {
		return err
	}

	if unlocked != nil && as.notifier != nil {
		as.notifier.Notify(ctx, username,
			fmt.Sprintf("Achievement unlocked: %s (+%d XP)", unlocked.Description, unlocked.XP),
			"/achievements")
	}
	return nil
}

func (as *achievementService) GetLevel(ctx context.Context, username string) (*LevelInfo, error) {
	experience, err := as.levelRepo.GetExperience(ctx, nil, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load experience: %w", err)
	}
	level, remaining, next := ComputeLevel(experience)
	return &LevelInfo{
		Level:         level,
		Experience:    experience,
		Remaining:     remaining,
		NextThreshold: next,
	}, nil
}

// applyQuietly is used by the trigger hooks: a failed badge grant must
// never fail the user action that triggered it.
func (as *achievementService) applyQuietly(ctx context.Context, username string, achievementID int) {
	if err := as.Apply(ctx, username, achievementID); err != nil {
		as.log.Warn("Failed to apply achievement", "username", username, "achievementID", achievementID, "error", err)
	}
}

func (as *achievementService) OnProfileEdited(ctx context.Context, username string) {
	as.applyQuietly(ctx, username, AchievementProfileCompleted)
}

func (as *achievementService) OnPostCreated(ctx context.Context, username string) {
	count, err := as.postRepo.CountByAuthor(ctx, nil, username)
	if err != nil {
		as.log.Warn("Failed to count posts for achievement check", "username", username, "error", err)
		return
	}
	if count >= 5 {
		as.applyQuietly(ctx, username, AchievementFivePosts)
	}
	if count >= 20 {
		as.applyQuietly(ctx, username, AchievementTwentyPosts)
	}
}

// OnLikeReceived preserves the exact-match semantics of the source
// system: the badges fire only when the running total lands exactly on
// 1, 50 or 500. A total that jumps past a threshold never unlocks it.
func (as *achievementService) OnLikeReceived(ctx context.Context, author string) {
	count, err := as.postRepo.CountLikesReceivedBy(ctx, nil, author)
	if err != nil {
		as.log.Warn("Failed to count likes for achievement check", "username", author, "error", err)
		return
	}
	switch count {
	case 1:
		as.applyQuietly(ctx, author, AchievementFirstLike)
	case 50:
		as.applyQuietly(ctx, author, AchievementFiftyLikes)
	case 500:
		as.applyQuietly(ctx, author, AchievementFiveHundredLikes)
	}
}

func (as *achievementService) OnConnectionAccepted(ctx context.Context, userA, userB string) {
	as.evaluateConnectionRules(ctx, userA, userB)
	as.evaluateConnectionRules(ctx, userB, userA)
}

func (as *achievementService) evaluateConnectionRules(ctx context.Context, username, newConnection string) {
	count, err := as.connectionRepo.CountConnections(ctx, nil, username)
	if err != nil {
		as.log.Warn("Failed to count connections for achievement check", "username", username, "error", err)
		return
	}
	if count >= 1 {
		as.applyQuietly(ctx, username, AchievementFirstConnection)
	}
	if count >= 10 {
		as.applyQuietly(ctx, username, AchievementTenConnections)
	}
	if count >= 100 {
		as.applyQuietly(ctx, username, AchievementHundredConnections)
	}

	if shared, err := as.shareAny(ctx, username, newConnection, as.profileRepo.HobbiesOf); err != nil {
		as.log.Warn("Failed to compare hobbies for achievement check", "username", username, "error", err)
	} else if shared {
		as.applyQuietly(ctx, username, AchievementSharedHobby)
	}

	if shared, err := as.shareAny(ctx, username, newConnection, as.profileRepo.InterestsOf); err != nil {
		as.log.Warn("Failed to compare interests for achievement check", "username", username, "error", err)
	} else if shared {
		as.applyQuietly(ctx, username, AchievementSharedInterest)
	}

	as.evaluateDegreeRules(ctx, username)
}

func (as *achievementService) shareAny(
	ctx context.Context,
	userA, userB string,
	attrsOf func(ctx context.Context, tx *gorm.DB, username string) ([]string, error),
) (bool, error) {
	a, err := attrsOf(ctx, nil, userA)
	if err != nil {
		return false, err
	}
	if len(a) == 0 {
		return false, nil
	}
	b, err := attrsOf(ctx, nil, userB)
	if err != nil {
		return false, err
	}
	set := make(map[string]bool, len(a))
	for _, v := range a {
		set[v] = true
	}
	for _, v := range b {
		if set[v] {
			return true, nil
		}
	}
	return false, nil
}

func (as *achievementService) evaluateDegreeRules(ctx context.Context, username string) {
	ownDegree, _, err := as.profileRepo.DegreeOf(ctx, nil, username)
	if err != nil {
		as.log.Warn("Failed to load degree for achievement check", "username", username, "error", err)
		return
	}
	if ownDegree == types.DegreeUndeclared {
		return
	}

	connections, err := as.connectionRepo.ConnectionsOf(ctx, nil, username)
	if err != nil {
		as.log.Warn("Failed to list connections for achievement check", "username", username, "error", err)
		return
	}

	var differentDegree int
	for _, other := range connections {
		otherDegree, _, err := as.profileRepo.DegreeOf(ctx, nil, other)
		if err != nil {
			as.log.Warn("Failed to load connection degree", "username", other, "error", err)
			continue
		}
		if otherDegree != types.DegreeUndeclared && otherDegree != ownDegree {
			differentDegree++
		}
	}

	if differentDegree >= 1 {
		as.applyQuietly(ctx, username, AchievementOtherDegree)
	}
	if differentDegree >= 10 {
		as.applyQuietly(ctx, username, AchievementTenOtherDegrees)
	}
}

func (as *achievementService) OnQuizCompleted(ctx context.Context, username string, score, total int) {
	if total > 0 && score == total {
		as.applyQuietly(ctx, username, AchievementAcedQuiz)
	}
}

func (as *achievementService) OnFlashcardPlayed(ctx context.Context, owner string, distinctPlayers int64) {
	if distinctPlayers >= 50 {
		as.applyQuietly(ctx, owner, AchievementPopularFlashcards)
	}
}
