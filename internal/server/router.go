package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/IsaacCheng9/student-network-backend/internal/handlers"
	"github.com/IsaacCheng9/student-network-backend/internal/middleware"
)

type RouterConfig struct {
	AllowedOrigins []string
	MediaDir       string

	AuthMiddleware *middleware.AuthMiddleware

	HealthcheckHandler    *handlers.HealthcheckHandler
	AuthHandler           *handlers.AuthHandler
	ProfileHandler        *handlers.ProfileHandler
	ConnectionHandler     *handlers.ConnectionHandler
	RecommendationHandler *handlers.RecommendationHandler
	AchievementHandler    *handlers.AchievementHandler
	FeedHandler           *handlers.FeedHandler
	QuizHandler           *handlers.QuizHandler
	FlashcardHandler      *handlers.FlashcardHandler
	ChatHandler           *handlers.ChatHandler
	NotificationHandler   *handlers.NotificationHandler
	ModerationHandler     *handlers.ModerationHandler
	SSEHandler            *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", cfg.HealthcheckHandler.Healthcheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)
	if strings.TrimSpace(cfg.MediaDir) != "" {
		router.Static("/media", cfg.MediaDir)
	}

	// Protected
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)

	protected.GET("/sse/stream", cfg.SSEHandler.Stream)

	protected.GET("/profile", cfg.ProfileHandler.GetOwnProfile)
	protected.PUT("/profile", cfg.ProfileHandler.UpdateProfile)
	protected.GET("/profile/:username", cfg.ProfileHandler.GetProfile)
	protected.GET("/degrees", cfg.ProfileHandler.ListDegrees)

	protected.GET("/connections", cfg.ConnectionHandler.List)
	protected.GET("/connections/pending", cfg.ConnectionHandler.ListPending)
	protected.GET("/connections/close-friends", cfg.ConnectionHandler.ListCloseFriends)
	protected.GET("/connections/recommendations", cfg.RecommendationHandler.Recommend)
	protected.GET("/connections/:username", cfg.ConnectionHandler.Relationship)
	protected.POST("/connections/:username/request", cfg.ConnectionHandler.Request)
	protected.POST("/connections/:username/accept", cfg.ConnectionHandler.Accept)
	protected.DELETE("/connections/:username", cfg.ConnectionHandler.Remove)
	protected.POST("/connections/:username/block", cfg.ConnectionHandler.Block)
	protected.DELETE("/connections/:username/block", cfg.ConnectionHandler.Unblock)
	protected.POST("/connections/:username/close-friend", cfg.ConnectionHandler.MarkCloseFriend)
	protected.DELETE("/connections/:username/close-friend", cfg.ConnectionHandler.UnmarkCloseFriend)

	protected.GET("/achievements", cfg.AchievementHandler.List)
	protected.GET("/achievements/unlocked", cfg.AchievementHandler.ListUnlocked)
	protected.GET("/achievements/unlocked/:username", cfg.AchievementHandler.ListUnlocked)
	protected.GET("/level", cfg.AchievementHandler.GetLevel)
	protected.GET("/level/:username", cfg.AchievementHandler.GetLevel)
	protected.GET("/leaderboard", cfg.AchievementHandler.Leaderboard)

	protected.GET("/feed", cfg.FeedHandler.Feed)
	protected.POST("/posts", cfg.FeedHandler.CreatePost)
	protected.GET("/posts/:id", cfg.FeedHandler.GetPost)
	protected.DELETE("/posts/:id", cfg.FeedHandler.DeletePost)
	protected.GET("/posts/:id/comments", cfg.FeedHandler.ListComments)
	protected.POST("/posts/:id/comments", cfg.FeedHandler.AddComment)
	protected.DELETE("/comments/:id", cfg.FeedHandler.DeleteComment)
	protected.POST("/posts/:id/like", cfg.FeedHandler.Like)
	protected.DELETE("/posts/:id/like", cfg.FeedHandler.Unlike)
	protected.GET("/users/:username/posts", cfg.FeedHandler.ProfilePosts)

	protected.GET("/quizzes", cfg.QuizHandler.List)
	protected.POST("/quizzes", cfg.QuizHandler.Create)
	protected.GET("/quizzes/:id", cfg.QuizHandler.Get)
	protected.POST("/quizzes/:id/attempts", cfg.QuizHandler.Take)
	protected.GET("/quizzes/:id/attempts", cfg.QuizHandler.Attempts)

	protected.GET("/flashcards", cfg.FlashcardHandler.ListSets)
	protected.POST("/flashcards", cfg.FlashcardHandler.CreateSet)
	protected.GET("/flashcards/:id", cfg.FlashcardHandler.GetSet)
	protected.POST("/flashcards/:id/plays", cfg.FlashcardHandler.RecordPlay)

	protected.POST("/chat/:username", cfg.ChatHandler.Send)
	protected.GET("/chat/:username", cfg.ChatHandler.History)

	protected.GET("/notifications", cfg.NotificationHandler.List)
	protected.POST("/notifications/:id/read", cfg.NotificationHandler.MarkRead)

	// Staff
	staff := protected.Group("/moderation")
	staff.Use(cfg.AuthMiddleware.RequireStaff())
	staff.POST("/accounts/:username/close", cfg.ModerationHandler.CloseAccount)
	staff.POST("/accounts/:username/reopen", cfg.ModerationHandler.ReopenAccount)
	staff.DELETE("/posts/:id", cfg.ModerationHandler.RemovePost)
	staff.DELETE("/comments/:id", cfg.ModerationHandler.RemoveComment)

	return router
}
