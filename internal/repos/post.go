package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/IsaacCheng9/student-network-backend/internal/logger"
	"github.com/IsaacCheng9/student-network-backend/internal/types"
)

type PostRepo interface {
	Create(ctx context.Context, tx *gorm.DB, posts []*types.Post) ([]*types.Post, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Post, error)
	ListByAuthors(ctx context.Context, tx *gorm.DB, authors []string, limit int) ([]*types.Post, error)
	CountByAuthor(ctx context.Context, tx *gorm.DB, author string) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error

	CreateComment(ctx context.Context, tx *gorm.DB, comment *types.Comment) error
	ListComments(ctx context.Context, tx *gorm.DB, postID uuid.UUID) ([]*types.Comment, error)
	DeleteComment(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	GetCommentByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Comment, error)

	Like(ctx context.Context, tx *gorm.DB, postID uuid.UUID, username string) error
	Unlike(ctx context.Context, tx *gorm.DB, postID uuid.UUID, username string) error
	CountLikes(ctx context.Context, tx *gorm.DB, postID uuid.UUID) (int64, error)
	CountLikesReceivedBy(ctx context.Context, tx *gorm.DB, author string) (int64, error)
}

type postRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostRepo(db *gorm.DB, baseLog *logger.Logger) PostRepo {
	repoLog := baseLog.With("repo", "PostRepo")
	return &postRepo{db: db, log: repoLog}
}

func (pr *postRepo) Create(ctx context.Context, tx *gorm.DB, posts []*types.Post) ([]*types.Post, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if len(posts) == 0 {
		return []*types.Post{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (pr *postRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Post, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.Post
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *postRepo) ListByAuthors(ctx context.Context, tx *gorm.DB, authors []string, limit int) ([]*types.Post, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.Post
	if len(authors) == 0 {
		return results, nil
	}
	if limit <= 0 {
		limit = 50
	}

	if err := transaction.WithContext(ctx).
		Where("username IN ?", authors).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *postRepo) CountByAuthor(ctx context.Context, tx *gorm.DB, author string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Post{}).
		Where("username = ?", author).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (pr *postRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if err := transaction.WithContext(ctx).
		Where("post_id = ?", id).
		Delete(&types.PostLike{}).Error; err != nil {
		return err
	}
	if err := transaction.WithContext(ctx).
		Where("post_id = ?", id).
		Delete(&types.Comment{}).Error; err != nil {
		return err
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Post{}).Error
}

func (pr *postRepo) CreateComment(ctx context.Context, tx *gorm.DB, comment *types.Comment) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	return transaction.WithContext(ctx).Create(comment).Error
}

func (pr *postRepo) ListComments(ctx context.Context, tx *gorm.DB, postID uuid.UUID) ([]*types.Comment, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.Comment
	if err := transaction.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *postRepo) GetCommentByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Comment, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.Comment
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (pr *postRepo) DeleteComment(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Comment{}).Error
}

func (pr *postRepo) Like(ctx context.Context, tx *gorm.DB, postID uuid.UUID, username string) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	row := &types.PostLike{PostID: postID, Username: username}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row).Error
}

func (pr *postRepo) Unlike(ctx context.Context, tx *gorm.DB, postID uuid.UUID, username string) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	return transaction.WithContext(ctx).
		Where("post_id = ? AND username = ?", postID, username).
		Delete(&types.PostLike{}).Error
}

func (pr *postRepo) CountLikes(ctx context.Context, tx *gorm.DB, postID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.PostLike{}).
		Where("post_id = ?", postID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (pr *postRepo) CountLikesReceivedBy(ctx context.Context, tx *gorm.DB, author string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.PostLike{}).
		Joins("JOIN post ON post.id = post_like.post_id").
		Where("post.username = ?", author).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
