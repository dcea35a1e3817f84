package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/IsaacCheng9/student-network-backend/internal/logger"
	"github.com/IsaacCheng9/student-network-backend/internal/repos"
	"github.com/IsaacCheng9/student-network-backend/internal/types"
	"github.com/IsaacCheng9/student-network-backend/internal/utils"
)

var (
	ErrSetNotFound = fmt.Errorf("flashcard set not found")
	ErrSetEmpty    = fmt.Errorf("flashcard set needs at least one card")
	ErrBadCard     = fmt.Errorf("card is malformed")
)

type FlashcardService interface {
	CreateSet(ctx context.Context, author, name string, cards []types.Flashcard) (*types.FlashcardSet, error)
	GetSet(ctx context.Context, id uuid.UUID) (*types.FlashcardSet, []types.Flashcard, error)
	ListSets(ctx context.Context, limit int) ([]*types.FlashcardSet, error)
	// RecordPlay notes that the player went through the set. Replays
	// by the same player keep the distinct-player count unchanged.
	RecordPlay(ctx context.Context, player string, setID uuid.UUID) error
}

type flashcardService struct {
	db            *gorm.DB
	log           *logger.Logger
	flashcardRepo repos.FlashcardRepo
	achievements  AchievementService
}

func NewFlashcardService(
	db *gorm.DB,
	log *logger.Logger,
	flashcardRepo repos.FlashcardRepo,
	achievements AchievementService,
) FlashcardService {
	serviceLog := log.With("service", "FlashcardService")
	return &flashcardService{
		db:            db,
		log:           serviceLog,
		flashcardRepo: flashcardRepo,
		achievements:  achievements,
	}
}

func (fs *flashcardService) CreateSet(ctx context.Context, author, name string, cards []types.Flashcard) (*types.FlashcardSet, error) {
	name = utils.ParseInputString(name)
	if name == "" {
		return nil, ErrEmptyBody
	}
	if len(cards) == 0 {
		return nil, ErrSetEmpty
	}
	for _, card := range cards {
		if utils.ParseInputString(card.Front) == "" || utils.ParseInputString(card.Back) == "" {
			return nil, ErrBadCard
		}
	}

	raw, err := json.Marshal(cards)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cards: %w", err)
	}
	set := &types.FlashcardSet{
		ID:     uuid.New(),
		Author: author,
		Name:   name,
		Cards:  datatypes.JSON(raw),
	}
	if err := fs.flashcardRepo.CreateSet(ctx, nil, set); err != nil {
		return nil, fmt.Errorf("failed to create flashcard set: %w", err)
	}
	return set, nil
}

func (fs *flashcardService) GetSet(ctx context.Context, id uuid.UUID) (*types.FlashcardSet, []types.Flashcard, error) {
	set, err := fs.flashcardRepo.GetSetByID(ctx, nil, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load flashcard set: %w", err)
	}
	if set == nil {
		return nil, nil, ErrSetNotFound
	}
	var cards []types.Flashcard
	if err := json.Unmarshal(set.Cards, &cards); err != nil {
		return nil, nil, fmt.Errorf("failed to decode cards: %w", err)
	}
	return set, cards, nil
}

func (fs *flashcardService) ListSets(ctx context.Context, limit int) ([]*types.FlashcardSet, error) {
	return fs.flashcardRepo.ListSets(ctx, nil, limit)
}

func (fs *flashcardService) RecordPlay(ctx context.Context, player string, setID uuid.UUID) error {
	set, err := fs.flashcardRepo.GetSetByID(ctx, nil, setID)
	if err != nil {
		return fmt.Errorf("failed to load flashcard set: %w", err)
	}
	if set == nil {
		return ErrSetNotFound
	}
	if err := fs.flashcardRepo.RecordPlay(ctx, nil, setID, player, time.Now()); err != nil {
		return fmt.Errorf("failed to record play: %w", err)
	}

	if player != set.Author {
		players, cErr := fs.flashcardRepo.CountDistinctPlayers(ctx, nil, setID, set.Author)
		if cErr != nil {
			fs.log.Warn("failed to count players", "set_id", setID, "error", cErr)
			return nil
		}
		fs.achievements.OnFlashcardPlayed(ctx, set.Author, players)
	}
	return nil
}
