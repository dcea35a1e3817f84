package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/IsaacCheng9/student-network-backend/internal/requestdata"
	"github.com/IsaacCheng9/student-network-backend/internal/services"
)

type AchievementHandler struct {
	achievementService services.AchievementService
	leaderboardService services.LeaderboardService
}

func NewAchievementHandler(
	achievementService services.AchievementService,
	leaderboardService services.LeaderboardService,
) *AchievementHandler {
	return &AchievementHandler{
		achievementService: achievementService,
		leaderboardService: leaderboardService,
	}
}

func (ah *AchievementHandler) List(c *gin.Context) {
	achievements, err := ah.achievementService.List(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, achievements)
}

func (ah *AchievementHandler) ListUnlocked(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		rd := requestdata.GetRequestData(c.Request.Context())
		username = rd.Username
	}
	unlocked, err := ah.achievementService.ListUnlockedFor(c.Request.Context(), username)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"username": username, "unlocked": unlocked})
}

func (ah *AchievementHandler) GetLevel(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		rd := requestdata.GetRequestData(c.Request.Context())
		username = rd.Username
	}
	level, err := ah.achievementService.GetLevel(c.Request.Context(), username)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, level)
}

func (ah *AchievementHandler) Leaderboard(c *gin.Context) {
	limit := parseLimit(c, 10)
	entries, err := ah.leaderboardService.Top(c.Request.Context(), limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"leaderboard": entries})
}
