package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/IsaacCheng9/student-network-backend/internal/logger"
	"github.com/IsaacCheng9/student-network-backend/internal/repos"
)

type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	Username   string `json:"username"`
	Experience int    `json:"experience"`
	Level      int    `json:"level"`
}

type LeaderboardService interface {
	Top(ctx context.Context, limit int) ([]*LeaderboardEntry, error)
}

type leaderboardService struct {
	db        *gorm.DB
	log       *logger.Logger
	levelRepo repos.LevelRepo
}

func NewLeaderboardService(db *gorm.DB, log *logger.Logger, levelRepo repos.LevelRepo) LeaderboardService {
	serviceLog := log.With("service", "LeaderboardService")
	return &leaderboardService{db: db, log: serviceLog, levelRepo: levelRepo}
}

func (ls *leaderboardService) Top(ctx context.Context, limit int) ([]*LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := ls.levelRepo.TopByExperience(ctx, nil, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}

	entries := make([]*LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		level, _, _ := ComputeLevel(row.Experience)
		entries = append(entries, &LeaderboardEntry{
			Rank:       i + 1,
			Username:   row.Username,
			Experience: row.Experience,
			Level:      level,
		})
	}
	return entries, nil
}
