package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IsaacCheng9/student-network-backend/internal/logger"
	"github.com/IsaacCheng9/student-network-backend/internal/repos"
	"github.com/IsaacCheng9/student-network-backend/internal/types"
	"github.com/IsaacCheng9/student-network-backend/internal/utils"
)

var (
	ErrPostNotFound    = fmt.Errorf("post not found")
	ErrCommentNotFound = fmt.Errorf("comment not found")
	ErrNotVisible      = fmt.Errorf("post is not visible to you")
	ErrNotPostOwner    = fmt.Errorf("only the author can do this")
	ErrInvalidPrivacy  = fmt.Errorf("invalid privacy level")
	ErrEmptyBody       = fmt.Errorf("body must not be empty")
)

// PostView decorates a post with its engagement counts.
type PostView struct {
	*types.Post
	Likes    int64 `json:"likes"`
	Comments int   `json:"comments"`
}

type FeedService interface {
	CreatePost(ctx context.Context, author, body, privacy string) (*types.Post, error)
	GetPost(ctx context.Context, viewer string, postID uuid.UUID) (*PostView, error)
	DeletePost(ctx context.Context, requester string, postID uuid.UUID) error
	// Feed returns the viewer's own posts and their connections'
	// posts, filtered by each post's privacy level.
	Feed(ctx context.Context, viewer string, limit int) ([]*PostView, error)
	ProfilePosts(ctx context.Context, viewer, author string, limit int) ([]*PostView, error)

	AddComment(ctx context.Context, viewer string, postID uuid.UUID, body string) (*types.Comment, error)
	ListComments(ctx context.Context, viewer string, postID uuid.UUID) ([]*types.Comment, error)
	DeleteComment(ctx context.Context, requester string, commentID uuid.UUID) error

	Like(ctx context.Context, viewer string, postID uuid.UUID) error
	Unlike(ctx context.Context, viewer string, postID uuid.UUID) error
}

type feedService struct {
	db             *gorm.DB
	log            *logger.Logger
	postRepo       repos.PostRepo
	connectionRepo repos.ConnectionRepo
	achievements   AchievementService
	notifier       NotificationService
}

func NewFeedService(
	db *gorm.DB,
	log *logger.Logger,
	postRepo repos.PostRepo,
	connectionRepo repos.ConnectionRepo,
	achievements AchievementService,
	notifier NotificationService,
) FeedService {
	serviceLog := log.With("service", "FeedService")
	return &feedService{
		db:             db,
		log:            serviceLog,
		postRepo:       postRepo,
		connectionRepo: connectionRepo,
		achievements:   achievements,
		notifier:       notifier,
	}
}

func (fs *feedService) CreatePost(ctx context.Context, author, body, privacy string) (*types.Post, error) {
	body = utils.ParseInputString(body)
	if body == "" {
		return nil, ErrEmptyBody
	}
	if privacy == "" {
		privacy = types.PostPrivacyPublic
	}
	switch privacy {
	case types.PostPrivacyPublic, types.PostPrivacyConnections,
		types.PostPrivacyCloseFriends, types.PostPrivacyPrivate:
	default:
		return nil, ErrInvalidPrivacy
	}

	post := &types.Post{
		ID:       uuid.New(),
		Username: author,
		Body:     body,
		Privacy:  privacy,
	}
	if _, err := fs.postRepo.Create(ctx, nil, []*types.Post{post}); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	fs.achievements.OnPostCreated(ctx, author)
	return post, nil
}

func (fs *feedService) GetPost(ctx context.Context, viewer string, postID uuid.UUID) (*PostView, error) {
	post, err := fs.loadPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	visible, err := fs.canView(ctx, viewer, post)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, ErrNotVisible
	}
	return fs.decorate(ctx, post)
}

func (fs *feedService) DeletePost(ctx context.Context, requester string, postID uuid.UUID) error {
	post, err := fs.loadPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.Username != requester {
		return ErrNotPostOwner
	}
	return fs.postRepo.Delete(ctx, nil, postID)
}

func (fs *feedService) Feed(ctx context.Context, viewer string, limit int) ([]*PostView, error) {
	connections, err := fs.connectionRepo.ConnectionsOf(ctx, nil, viewer)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	authors := append([]string{viewer}, connections...)

	posts, err := fs.postRepo.ListByAuthors(ctx, nil, authors, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return fs.filterAndDecorate(ctx, viewer, posts)
}

func (fs *feedService) ProfilePosts(ctx context.Context, viewer, author string, limit int) ([]*PostView, error) {
	posts, err := fs.postRepo.ListByAuthors(ctx, nil, []string{author}, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return fs.filterAndDecorate(ctx, viewer, posts)
}

func (fs *feedService) AddComment(ctx context.Context, viewer string, postID uuid.UUID, body string) (*types.Comment, error) {
	body = utils.ParseInputString(body)
	if body == "" {
		return nil, ErrEmptyBody
	}
	post, err := fs.loadPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	visible, err := fs.canView(ctx, viewer, post)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, ErrNotVisible
	}

	comment := &types.Comment{
		ID:       uuid.New(),
		PostID:   postID,
		Username: viewer,
		Body:     body,
	}
	if err := fs.postRepo.CreateComment(ctx, nil, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if post.Username != viewer {
		fs.notifier.Notify(ctx, post.Username,
			fmt.Sprintf("%s commented on your post", viewer),
			"/posts/"+postID.String())
	}
	return comment, nil
}

func (fs *feedService) ListComments(ctx context.Context, viewer string, postID uuid.UUID) ([]*types.Comment, error) {
	post, err := fs.loadPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	visible, err := fs.canView(ctx, viewer, post)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, ErrNotVisible
	}
	return fs.postRepo.ListComments(ctx, nil, postID)
}

func (fs *feedService) DeleteComment(ctx context.Context, requester string, commentID uuid.UUID) error {
	comment, err := fs.postRepo.GetCommentByID(ctx, nil, commentID)
	if err != nil {
		return fmt.Errorf("failed to load comment: %w", err)
	}
	if comment == nil {
		return ErrCommentNotFound
	}
	if comment.Username != requester {
		// The post author moderates their own thread.
		post, pErr := fs.loadPost(ctx, comment.PostID)
		if pErr != nil {
			return pErr
		}
		if post.Username != requester {
			return ErrNotPostOwner
		}
	}
	return fs.postRepo.DeleteComment(ctx, nil, commentID)
}

func (fs *feedService) Like(ctx context.Context, viewer string, postID uuid.UUID) error {
	post, err := fs.loadPost(ctx, postID)
	if err != nil {
		return err
	}
	visible, err := fs.canView(ctx, viewer, post)
	if err != nil {
		return err
	}
	if !visible {
		return ErrNotVisible
	}
	if err := fs.postRepo.Like(ctx, nil, postID, viewer); err != nil {
		return fmt.Errorf("failed to like post: %w", err)
	}

	if post.Username != viewer {
		fs.achievements.OnLikeReceived(ctx, post.Username)
	}
	return nil
}

func (fs *feedService) Unlike(ctx context.Context, viewer string, postID uuid.UUID) error {
	return fs.postRepo.Unlike(ctx, nil, postID, viewer)
}

func (fs *feedService) loadPost(ctx context.Context, postID uuid.UUID) (*types.Post, error) {
	posts, err := fs.postRepo.GetByIDs(ctx, nil, []uuid.UUID{postID})
	if err != nil {
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	if len(posts) == 0 {
		return nil, ErrPostNotFound
	}
	return posts[0], nil
}

// canView applies the post's privacy level from the author's side:
// connections posts need an accepted connection, close-friends posts
// need the author to have marked the viewer.
func (fs *feedService) canView(ctx context.Context, viewer string, post *types.Post) (bool, error) {
	if viewer == post.Username {
		return true, nil
	}
	switch post.Privacy {
	case types.PostPrivacyPublic:
		return true, nil
	case types.PostPrivacyPrivate:
		return false, nil
	case types.PostPrivacyConnections:
		relation, err := fs.connectionRepo.TypeBetween(ctx, nil, post.Username, viewer)
		if err != nil {
			return false, err
		}
		return relation == types.RelationConnected, nil
	case types.PostPrivacyCloseFriends:
		relation, err := fs.connectionRepo.TypeBetween(ctx, nil, post.Username, viewer)
		if err != nil {
			return false, err
		}
		if relation != types.RelationConnected {
			return false, nil
		}
		return fs.connectionRepo.IsCloseFriend(ctx, nil, post.Username, viewer)
	}
	return false, nil
}

func (fs *feedService) filterAndDecorate(ctx context.Context, viewer string, posts []*types.Post) ([]*PostView, error) {
	out := make([]*PostView, 0, len(posts))
	for _, post := range posts {
		visible, err := fs.canView(ctx, viewer, post)
		if err != nil {
			return nil, err
		}
		if !visible {
			continue
		}
		view, err := fs.decorate(ctx, post)
		if err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}

func (fs *feedService) decorate(ctx context.Context, post *types.Post) (*PostView, error) {
	likes, err := fs.postRepo.CountLikes(ctx, nil, post.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}
	comments, err := fs.postRepo.ListComments(ctx, nil, post.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return &PostView{Post: post, Likes: likes, Comments: len(comments)}, nil
}
