package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/IsaacCheng9/student-network-backend/internal/repos"
	"github.com/IsaacCheng9/student-network-backend/internal/repos/testutil"
	"github.com/IsaacCheng9/student-network-backend/internal/requestdata"
	"github.com/IsaacCheng9/student-network-backend/internal/types"
)

func newAuthFixture(t *testing.T) (context.Context, AuthService, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	tx := testutil.Tx(t, db)

	userRepo := repos.NewUserRepo(tx, log)
	userTokenRepo := repos.NewUserTokenRepo(tx, log)
	profileRepo := repos.NewProfileRepo(tx, log)

	svc := NewAuthService(tx, log, userRepo, userTokenRepo, profileRepo, nil,
		"test-secret", time.Hour, 24*time.Hour)
	return context.Background(), svc, tx
}

func registerTestUser(t *testing.T, ctx context.Context, svc AuthService, username string) {
	t.Helper()
	user := &types.User{
		Username:  username,
		Email:     username + "@example.ac.uk",
		Password:  "correct-horse-battery",
		FirstName: "Test",
		LastName:  "User",
	}
	if err := svc.RegisterUser(ctx, user); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
}

func TestRegisterCreatesProfile(t *testing.T) {
	ctx, svc, tx := newAuthFixture(t)
	registerTestUser(t, ctx, svc, "auth_alice")

	var profile types.UserProfile
	if err := tx.Where("username = ?", "auth_alice").First(&profile).Error; err != nil {
		t.Fatalf("profile not created: %v", err)
	}
	if profile.DegreeID != types.DegreeUndeclared {
		t.Errorf("new profile degree = %d, want %d", profile.DegreeID, types.DegreeUndeclared)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	ctx, svc, _ := newAuthFixture(t)
	registerTestUser(t, ctx, svc, "auth_alice")

	dup := &types.User{
		Username:  "auth_alice",
		Email:     "other@example.ac.uk",
		Password:  "correct-horse-battery",
		FirstName: "Test",
		LastName:  "User",
	}
	if err := svc.RegisterUser(ctx, dup); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("error = %v, want ErrUsernameTaken", err)
	}

	dup = &types.User{
		Username:  "auth_bob",
		Email:     "auth_alice@example.ac.uk",
		Password:  "correct-horse-battery",
		FirstName: "Test",
		LastName:  "User",
	}
	if err := svc.RegisterUser(ctx, dup); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("error = %v, want ErrEmailTaken", err)
	}
}

func TestLoginRoundTrip(t *testing.T) {
	ctx, svc, _ := newAuthFixture(t)
	registerTestUser(t, ctx, svc, "auth_alice")

	access, refresh, err := svc.LoginUser(ctx, "auth_alice", "correct-horse-battery")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("expected both tokens")
	}

	authed, err := svc.SetContextFromToken(ctx, access)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := requestdata.GetRequestData(authed)
	if rd == nil || rd.Username != "auth_alice" {
		t.Fatalf("request data = %+v, want username auth_alice", rd)
	}
	if rd.AccountType != types.AccountTypeStudent {
		t.Errorf("account type = %q, want %q", rd.AccountType, types.AccountTypeStudent)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	ctx, svc, _ := newAuthFixture(t)
	registerTestUser(t, ctx, svc, "auth_alice")

	if _, _, err := svc.LoginUser(ctx, "auth_alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.LoginUser(ctx, "auth_ghost", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	ctx, svc, _ := newAuthFixture(t)
	registerTestUser(t, ctx, svc, "auth_alice")

	access, _, err := svc.LoginUser(ctx, "auth_alice", "correct-horse-battery")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	authed, err := svc.SetContextFromToken(ctx, access)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	if err := svc.LogoutUser(authed); err != nil {
		t.Fatalf("LogoutUser: %v", err)
	}

	// The signature is still valid but the session row is gone.
	if _, err := svc.SetContextFromToken(ctx, access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("error = %v, want ErrInvalidToken", err)
	}
}

func TestRefreshRotatesTokens(t *testing.T) {
	ctx, svc, _ := newAuthFixture(t)
	registerTestUser(t, ctx, svc, "auth_alice")

	access, refresh, err := svc.LoginUser(ctx, "auth_alice", "correct-horse-battery")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	authed, err := svc.SetContextFromToken(ctx, access)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}

	newAccess, newRefresh, err := svc.RefreshUser(authed)
	if err != nil {
		t.Fatalf("RefreshUser: %v", err)
	}
	if newAccess == "" || newRefresh == "" {
		t.Fatal("expected rotated tokens")
	}
	if newRefresh == refresh {
		t.Error("refresh token was not rotated")
	}
	// The old session is revoked by the rotation.
	if _, err := svc.SetContextFromToken(ctx, access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("old access token error = %v, want ErrInvalidToken", err)
	}
	if _, err := svc.SetContextFromToken(ctx, newAccess); err != nil {
		t.Fatalf("new access token rejected: %v", err)
	}
}
