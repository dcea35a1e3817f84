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

func newProfileFixture(t *testing.T) (context.Context, ProfileService, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	tx := testutil.Tx(t, db)

	profileRepo := repos.NewProfileRepo(tx, log)
	userRepo := repos.NewUserRepo(tx, log)
	connectionRepo := repos.NewConnectionRepo(tx, log)
	postRepo := repos.NewPostRepo(tx, log)
	achievementRepo := repos.NewAchievementRepo(tx, log)
	levelRepo := repos.NewLevelRepo(tx, log)

	achievements := NewAchievementService(tx, log, achievementRepo, levelRepo, connectionRepo, profileRepo, postRepo, nil)
	if err := achievements.SeedCatalog(context.Background()); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	svc := NewProfileService(tx, log, profileRepo, userRepo, achievements)

	ctx := context.Background()
	testutil.SeedUser(t, ctx, tx, "prof_alice")
	testutil.SeedDegree(t, ctx, tx, types.DegreeUndeclared, "Undeclared")
	testutil.SeedDegree(t, ctx, tx, 2, "Computer Science")
	return ctx, svc, tx
}

func TestUpdateAndGetProfile(t *testing.T) {
	ctx, svc, _ := newProfileFixture(t)

	update := ProfileUpdate{
		Bio:       "Second year, always up for chess.",
		DegreeID:  2,
		Hobbies:   []string{" Chess ", "chess", "Rowing"},
		Interests: []string{"Films"},
	}
	if err := svc.UpdateProfile(ctx, "prof_alice", update); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	view, err := svc.GetProfile(ctx, "prof_alice")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if view.DegreeID != 2 || view.DegreeName != "Computer Science" {
		t.Errorf("degree = %d %q, want 2 Computer Science", view.DegreeID, view.DegreeName)
	}
	if view.Bio != "Second year, always up for chess." {
		t.Errorf("bio = %q", view.Bio)
	}
	// Attributes are lowercased and deduplicated.
	wantHobbies := []string{"chess", "rowing"}
	if len(view.Hobbies) != len(wantHobbies) {
		t.Fatalf("hobbies = %v, want %v", view.Hobbies, wantHobbies)
	}
	for i := range wantHobbies {
		if view.Hobbies[i] != wantHobbies[i] {
			t.Fatalf("hobbies = %v, want %v", view.Hobbies, wantHobbies)
		}
	}
}

func TestUpdateProfileUnknownDegree(t *testing.T) {
	ctx, svc, _ := newProfileFixture(t)
	err := svc.UpdateProfile(ctx, "prof_alice", ProfileUpdate{DegreeID: 999})
	if !errors.Is(err, ErrUnknownDegree) {
		t.Fatalf("error = %v, want ErrUnknownDegree", err)
	}
}

func TestUpdateProfileReplacesAttributes(t *testing.T) {
	ctx, svc, _ := newProfileFixture(t)

	if err := svc.UpdateProfile(ctx, "prof_alice", ProfileUpdate{
		DegreeID: 2,
		Hobbies:  []string{"chess", "rowing"},
	}); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if err := svc.UpdateProfile(ctx, "prof_alice", ProfileUpdate{
		DegreeID: 2,
		Hobbies:  []string{"climbing"},
	}); err != nil {
		t.Fatalf("second UpdateProfile: %v", err)
	}

	view, err := svc.GetProfile(ctx, "prof_alice")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if len(view.Hobbies) != 1 || view.Hobbies[0] != "climbing" {
		t.Errorf("hobbies = %v, want [climbing]", view.Hobbies)
	}
}

func TestGetProfileUnknownUser(t *testing.T) {
	ctx, svc, _ := newProfileFixture(t)
	if _, err := svc.GetProfile(ctx, "prof_ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("error = %v, want ErrUserNotFound", err)
	}
}
