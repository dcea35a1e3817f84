package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IsaacCheng9/student-network-backend/internal/logger"
	"github.com/IsaacCheng9/student-network-backend/internal/repos"
)

// ModerationService covers the staff-only controls: account state and
// removal of any post or comment regardless of author.
type ModerationService interface {
	CloseAccount(ctx context.Context, username string) error
	ReopenAccount(ctx context.Context, username string) error

	RemovePost(ctx context.Context, postID uuid.UUID) error
	RemoveComment(ctx context.Context, commentID uuid.UUID) error
}

type moderationService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
	postRepo repos.PostRepo
}

func NewModerationService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, postRepo repos.PostRepo) ModerationService {
	serviceLog := log.With("service", "ModerationService")
	return &moderationService{db: db, log: serviceLog, userRepo: userRepo, postRepo: postRepo}
}

func (ms *moderationService) CloseAccount(ctx context.Context, username string) error {
	return ms.setClosed(ctx, username, true)
}

func (ms *moderationService) ReopenAccount(ctx context.Context, username string) error {
	return ms.setClosed(ctx, username, false)
}

func (ms *moderationService) setClosed(ctx context.Context, username string, closed bool) error {
	exists, err := ms.userRepo.UsernameExists(ctx, nil, username)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return ErrUserNotFound
	}
	return ms.userRepo.SetClosed(ctx, nil, username, closed)
}

func (ms *moderationService) RemovePost(ctx context.Context, postID uuid.UUID) error {
	posts, err := ms.postRepo.GetByIDs(ctx, nil, []uuid.UUID{postID})
	if err != nil {
		return fmt.Errorf("failed to load post: %w", err)
	}
	if len(posts) == 0 {
		return ErrPostNotFound
	}
	ms.log.Info("Removing post", "post_id", postID, "author", posts[0].Username)
	return ms.postRepo.Delete(ctx, nil, postID)
}

func (ms *moderationService) RemoveComment(ctx context.Context, commentID uuid.UUID) error {
	comment, err := ms.postRepo.GetCommentByID(ctx, nil, commentID)
	if err != nil {
		return fmt.Errorf("failed to load comment: %w", err)
	}
	if comment == nil {
		return ErrCommentNotFound
	}
	ms.log.Info("Removing comment", "comment_id", commentID, "author", comment.Username)
	return ms.postRepo.DeleteComment(ctx, nil, commentID)
}
