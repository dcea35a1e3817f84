package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/IsaacCheng9/student-network-backend/internal/db"
	"github.com/IsaacCheng9/student-network-backend/internal/handlers"
	"github.com/IsaacCheng9/student-network-backend/internal/logger"
	"github.com/IsaacCheng9/student-network-backend/internal/middleware"
	"github.com/IsaacCheng9/student-network-backend/internal/realtime"
	"github.com/IsaacCheng9/student-network-backend/internal/realtime/bus"
	"github.com/IsaacCheng9/student-network-backend/internal/repos"
	"github.com/IsaacCheng9/student-network-backend/internal/server"
	"github.com/IsaacCheng9/student-network-backend/internal/services"
	"github.com/IsaacCheng9/student-network-backend/internal/sse"
	"github.com/IsaacCheng9/student-network-backend/internal/types"
	"github.com/IsaacCheng9/student-network-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	mediaDir := utils.GetEnv("MEDIA_DIR", "media", log)
	listenAddr := utils.GetEnv("LISTEN_ADDR", ":8080", log)
	allowedOrigins := utils.GetEnv("ALLOWED_ORIGINS", "", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	profileRepo := repos.NewProfileRepo(thePG, log)
	connectionRepo := repos.NewConnectionRepo(thePG, log)
	postRepo := repos.NewPostRepo(thePG, log)
	achievementRepo := repos.NewAchievementRepo(thePG, log)
	levelRepo := repos.NewLevelRepo(thePG, log)
	quizRepo := repos.NewQuizRepo(thePG, log)
	flashcardRepo := repos.NewFlashcardRepo(thePG, log)
	messageRepo := repos.NewMessageRepo(thePG, log)
	notificationRepo := repos.NewNotificationRepo(thePG, log)

	// SSE
	log.Info("Setting up SSE hub from main...")
	sseHub := sse.NewSSEHub(log)

	var emitter services.SSEEmitter = &services.HubEmitter{Hub: sseHub}
	if os.Getenv("REDIS_ADDR") != "" {
		redisBus, busErr := bus.NewRedisBus(log)
		if busErr != nil {
			log.Warn("Redis bus init failed, falling back to local hub", "error", busErr)
		} else {
			if fErr := redisBus.StartForwarder(context.Background(), func(m realtime.SSEMessage) {
				sseHub.Broadcast(m)
			}); fErr != nil {
				log.Warn("Redis forwarder init failed, falling back to local hub", "error", fErr)
			} else {
				emitter = &services.RedisEmitter{Bus: redisBus}
				defer redisBus.Close()
			}
		}
	}

	// Services
	log.Info("Setting up services from main...")
	avatarService, err := services.NewAvatarService(thePG, log, userRepo, mediaDir)
	if err != nil {
		log.Error("Could not init AvatarService", "error", err)
		os.Exit(1)
	}
	notificationService := services.NewNotificationService(thePG, log, notificationRepo, emitter)
	achievementService := services.NewAchievementService(
		thePG, log, achievementRepo, levelRepo, connectionRepo, profileRepo, postRepo, notificationService,
	)
	authService := services.NewAuthService(
		thePG, log, userRepo, userTokenRepo, profileRepo, avatarService,
		jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second,
		time.Duration(refreshTokenTTL)*time.Second,
	)
	profileService := services.NewProfileService(thePG, log, profileRepo, userRepo, achievementService)
	connectionService := services.NewConnectionService(
		thePG, log, connectionRepo, userRepo, achievementService, notificationService, emitter,
	)
	recommendationService := services.NewRecommendationService(thePG, log, connectionRepo, profileRepo)
	feedService := services.NewFeedService(thePG, log, postRepo, connectionRepo, achievementService, notificationService)
	quizService := services.NewQuizService(thePG, log, quizRepo, achievementService)
	flashcardService := services.NewFlashcardService(thePG, log, flashcardRepo, achievementService)
	chatService := services.NewChatService(thePG, log, messageRepo, connectionRepo, emitter)
	leaderboardService := services.NewLeaderboardService(thePG, log, levelRepo)
	moderationService := services.NewModerationService(thePG, log, userRepo, postRepo)

	// Seed data
	seedCtx := context.Background()
	if err := achievementService.SeedCatalog(seedCtx); err != nil {
		log.Warn("Achievement catalog seed failed", "error", err)
	}
	if err := profileRepo.SeedDegrees(seedCtx, nil, defaultDegrees()); err != nil {
		log.Warn("Degree seed failed", "error", err)
	}

	// Handlers
	log.Info("Setting up handlers from main...")
	healthcheckHandler := handlers.NewHealthcheckHandler(thePG)
	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewProfileHandler(profileService)
	connectionHandler := handlers.NewConnectionHandler(connectionService)
	recommendationHandler := handlers.NewRecommendationHandler(recommendationService)
	achievementHandler := handlers.NewAchievementHandler(achievementService, leaderboardService)
	feedHandler := handlers.NewFeedHandler(feedService)
	quizHandler := handlers.NewQuizHandler(quizService)
	flashcardHandler := handlers.NewFlashcardHandler(flashcardService)
	chatHandler := handlers.NewChatHandler(chatService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	moderationHandler := handlers.NewModerationHandler(moderationService)
	sseHandler := handlers.NewSSEHandler(sseHub)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	}
	router := server.NewRouter(server.RouterConfig{
		AllowedOrigins: origins,
		MediaDir:       mediaDir,

		AuthMiddleware: authMiddleware,

		HealthcheckHandler:    healthcheckHandler,
		AuthHandler:           authHandler,
		ProfileHandler:        profileHandler,
		ConnectionHandler:     connectionHandler,
		RecommendationHandler: recommendationHandler,
		AchievementHandler:    achievementHandler,
		FeedHandler:           feedHandler,
		QuizHandler:           quizHandler,
		FlashcardHandler:      flashcardHandler,
		ChatHandler:           chatHandler,
		NotificationHandler:   notificationHandler,
		ModerationHandler:     moderationHandler,
		SSEHandler:            sseHandler,
	})

	log.Info("Starting server", "addr", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Server stopped", "error", err)
	}
}

// defaultDegrees seeds the degree catalog; id 1 is the undeclared
// sentinel every new profile starts on.
func defaultDegrees() []*types.Degree {
	return []*types.Degree{
		{ID: types.DegreeUndeclared, Name: "Undeclared"},
		{ID: 2, Name: "Computer Science"},
		{ID: 3, Name: "Mathematics"},
		{ID: 4, Name: "Physics"},
		{ID: 5, Name: "Chemistry"},
		{ID: 6, Name: "Biology"},
		{ID: 7, Name: "English Literature"},
		{ID: 8, Name: "History"},
		{ID: 9, Name: "Economics"},
		{ID: 10, Name: "Law"},
		{ID: 11, Name: "Medicine"},
		{ID: 12, Name: "Psychology"},
		{ID: 13, Name: "Engineering"},
		{ID: 14, Name: "Business Management"},
		{ID: 15, Name: "Politics"},
	}
}
