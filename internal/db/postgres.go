package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/IsaacCheng9/student-network-backend/internal/logger"
	"github.com/IsaacCheng9/student-network-backend/internal/types"
	"github.com/IsaacCheng9/student-network-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	log.Info("Loading environment variables...")
	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "studentnetwork", log)
	log.Debug("Environment variables loaded")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := AutoMigrate(s.db)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	s.log.Info("Configuring foreign key relationships for postgres tables...")
	constraints := []struct {
		name string
		sql  string
	}{
		{"fk_user_token_user_id", `
			ALTER TABLE "user_token"
			ADD CONSTRAINT "fk_user_token_user_id"
			FOREIGN KEY ("user_id")
			REFERENCES "account"("id")
			ON DELETE CASCADE
		`},
		{"fk_user_profile_username", `
			ALTER TABLE "user_profile"
			ADD CONSTRAINT "fk_user_profile_username"
			FOREIGN KEY ("username")
			REFERENCES "account"("username")
			ON DELETE CASCADE
		`},
		{"fk_complete_achievements_id", `
			ALTER TABLE "complete_achievements"
			ADD CONSTRAINT "fk_complete_achievements_id"
			FOREIGN KEY ("achievement_id")
			REFERENCES "achievements"("id")
			ON DELETE CASCADE
		`},
	}
	for _, c := range constraints {
		var exists bool
		if err := s.db.Raw(
			`SELECT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = ?)`, c.name,
		).Scan(&exists).Error; err != nil {
			return fmt.Errorf("failed to check constraint %s: %w", c.name, err)
		}
		if exists {
			continue
		}
		if err := s.db.Exec(c.sql).Error; err != nil {
			return fmt.Errorf("failed to add %s: %w", c.name, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}

// AutoMigrate is shared with the test harness so tests migrate the
// same table set the server does.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Degree{},
		&types.UserProfile{},
		&types.UserHobby{},
		&types.UserInterest{},
		&types.Connection{},
		&types.CloseFriend{},
		&types.Post{},
		&types.Comment{},
		&types.PostLike{},
		&types.Achievement{},
		&types.UnlockedAchievement{},
		&types.UserLevel{},
		&types.Quiz{},
		&types.QuizAttempt{},
		&types.FlashcardSet{},
		&types.FlashcardPlay{},
		&types.Message{},
		&types.Notification{},
	)
}
