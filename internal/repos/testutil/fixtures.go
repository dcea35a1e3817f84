package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IsaacCheng9/student-network-backend/internal/types"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Username:  username,
		Email:     username + "@example.ac.uk",
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
		Type:      types.AccountTypeStudent,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedProfile(tb testing.TB, ctx context.Context, tx *gorm.DB, username string, degreeID int) *types.UserProfile {
	tb.Helper()
	p := &types.UserProfile{
		Username: username,
		DegreeID: degreeID,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed profile: %v", err)
	}
	return p
}

func SeedDegree(tb testing.TB, ctx context.Context, tx *gorm.DB, id int, name string) *types.Degree {
	tb.Helper()
	d := &types.Degree{ID: id, Name: name}
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed degree: %v", err)
	}
	return d
}

func SeedHobby(tb testing.TB, ctx context.Context, tx *gorm.DB, username, hobby string) {
	tb.Helper()
	if err := tx.WithContext(ctx).Create(&types.UserHobby{Username: username, Hobby: hobby}).Error; err != nil {
		tb.Fatalf("seed hobby: %v", err)
	}
}

func SeedInterest(tb testing.TB, ctx context.Context, tx *gorm.DB, username, interest string) {
	tb.Helper()
	if err := tx.WithContext(ctx).Create(&types.UserInterest{Username: username, Interest: interest}).Error; err != nil {
		tb.Fatalf("seed interest: %v", err)
	}
}

func SeedConnection(tb testing.TB, ctx context.Context, tx *gorm.DB, user1, user2, connectionType string) {
	tb.Helper()
	row := &types.Connection{User1: user1, User2: user2, ConnectionType: connectionType}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed connection: %v", err)
	}
}

func SeedCloseFriend(tb testing.TB, ctx context.Context, tx *gorm.DB, user1, user2 string) {
	tb.Helper()
	if err := tx.WithContext(ctx).Create(&types.CloseFriend{User1: user1, User2: user2}).Error; err != nil {
		tb.Fatalf("seed close friend: %v", err)
	}
}

func SeedAchievement(tb testing.TB, ctx context.Context, tx *gorm.DB, id int, description, rarity string, xp int) *types.Achievement {
	tb.Helper()
	a := &types.Achievement{ID: id, Description: description, Rarity: rarity, XP: xp}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed achievement: %v", err)
	}
	return a
}

func SeedPost(tb testing.TB, ctx context.Context, tx *gorm.DB, username, body, privacy string) *types.Post {
	tb.Helper()
	p := &types.Post{
		ID:       uuid.New(),
		Username: username,
		Body:     body,
		Privacy:  privacy,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed post: %v", err)
	}
	return p
}

func SeedLike(tb testing.TB, ctx context.Context, tx *gorm.DB, postID uuid.UUID, username string) {
	tb.Helper()
	if err := tx.WithContext(ctx).Create(&types.PostLike{PostID: postID, Username: username}).Error; err != nil {
		tb.Fatalf("seed like: %v", err)
	}
}

func SeedUnlock(tb testing.TB, ctx context.Context, tx *gorm.DB, username string, achievementID int) {
	tb.Helper()
	row := &types.UnlockedAchievement{
		Username:      username,
		AchievementID: achievementID,
		Date:          time.Now(),
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed unlock: %v", err)
	}
}
