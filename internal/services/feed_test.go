package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/IsaacCheng9/student-network-backend/internal/repos"
	"github.com/IsaacCheng9/student-network-backend/internal/repos/testutil"
	"github.com/IsaacCheng9/student-network-backend/internal/types"
)

func newFeedFixture(t *testing.T) (context.Context, FeedService, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	tx := testutil.Tx(t, db)

	postRepo := repos.NewPostRepo(tx, log)
	connectionRepo := repos.NewConnectionRepo(tx, log)
	profileRepo := repos.NewProfileRepo(tx, log)
	achievementRepo := repos.NewAchievementRepo(tx, log)
	levelRepo := repos.NewLevelRepo(tx, log)
	notificationRepo := repos.NewNotificationRepo(tx, log)

	achievements := NewAchievementService(tx, log, achievementRepo, levelRepo, connectionRepo, profileRepo, postRepo, nil)
	if err := achievements.SeedCatalog(context.Background()); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	notifier := NewNotificationService(tx, log, notificationRepo, nil)
	svc := NewFeedService(tx, log, postRepo, connectionRepo, achievements, notifier)
	return context.Background(), svc, tx
}

func TestPostPrivacyVisibility(t *testing.T) {
	ctx, svc, tx := newFeedFixture(t)

	testutil.SeedConnection(t, ctx, tx, "feed_author", "feed_friend", types.ConnectionTypeConnected)
	testutil.SeedConnection(t, ctx, tx, "feed_author", "feed_bestie", types.ConnectionTypeConnected)
	testutil.SeedCloseFriend(t, ctx, tx, "feed_author", "feed_bestie")

	publicPost, err := svc.CreatePost(ctx, "feed_author", "hello world", types.PostPrivacyPublic)
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	connPost, err := svc.CreatePost(ctx, "feed_author", "for connections", types.PostPrivacyConnections)
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	closePost, err := svc.CreatePost(ctx, "feed_author", "for close friends", types.PostPrivacyCloseFriends)
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	privatePost, err := svc.CreatePost(ctx, "feed_author", "just me", types.PostPrivacyPrivate)
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	tests := []struct {
		name    string
		viewer  string
		post    *types.Post
		visible bool
	}{
		{"stranger sees public", "feed_stranger", publicPost, true},
		{"stranger blocked from connections post", "feed_stranger", connPost, false},
		{"friend sees connections post", "feed_friend", connPost, true},
		{"plain friend blocked from close post", "feed_friend", closePost, false},
		{"close friend sees close post", "feed_bestie", closePost, true},
		{"friend blocked from private post", "feed_friend", privatePost, false},
		{"author sees own private post", "feed_author", privatePost, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetPost(ctx, tt.viewer, tt.post.ID)
			if tt.visible && err != nil {
				t.Errorf("expected visible, got %v", err)
			}
			if !tt.visible && !errors.Is(err, ErrNotVisible) {
				t.Errorf("expected ErrNotVisible, got %v", err)
			}
		})
	}
}

func TestFeedFiltersByPrivacy(t *testing.T) {
	ctx, svc, tx := newFeedFixture(t)

	testutil.SeedConnection(t, ctx, tx, "feed_author", "feed_friend", types.ConnectionTypeConnected)

	if _, err := svc.CreatePost(ctx, "feed_author", "open", types.PostPrivacyPublic); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if _, err := svc.CreatePost(ctx, "feed_author", "inner circle", types.PostPrivacyCloseFriends); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	posts, err := svc.Feed(ctx, "feed_friend", 50)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("feed has %d posts, want 1: %+v", len(posts), posts)
	}
	if posts[0].Body != "open" {
		t.Errorf("feed post body = %q, want %q", posts[0].Body, "open")
	}
}

func TestDeletePostOwnerOnly(t *testing.T) {
	ctx, svc, _ := newFeedFixture(t)

	post, err := svc.CreatePost(ctx, "feed_author", "mine", types.PostPrivacyPublic)
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if err := svc.DeletePost(ctx, "feed_stranger", post.ID); !errors.Is(err, ErrNotPostOwner) {
		t.Fatalf("error = %v, want ErrNotPostOwner", err)
	}
	if err := svc.DeletePost(ctx, "feed_author", post.ID); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	if _, err := svc.GetPost(ctx, "feed_author", post.ID); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("error = %v, want ErrPostNotFound", err)
	}
}

func TestLikeAndCommentCounts(t *testing.T) {
	ctx, svc, _ := newFeedFixture(t)

	post, err := svc.CreatePost(ctx, "feed_author", "count me", types.PostPrivacyPublic)
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if err := svc.Like(ctx, "feed_fan", post.ID); err != nil {
		t.Fatalf("Like: %v", err)
	}
	// Liking twice keeps the count at one.
	if err := svc.Like(ctx, "feed_fan", post.ID); err != nil {
		t.Fatalf("repeat Like: %v", err)
	}
	if _, err := svc.AddComment(ctx, "feed_fan", post.ID, "nice"); err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	view, err := svc.GetPost(ctx, "feed_author", post.ID)
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if view.Likes != 1 {
		t.Errorf("likes = %d, want 1", view.Likes)
	}
	if view.Comments != 1 {
		t.Errorf("comments = %d, want 1", view.Comments)
	}
}
