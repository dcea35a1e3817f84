package services

import (
	"context"
	"errors"
	"testing"

	"github.com/IsaacCheng9/student-network-backend/internal/repos"
	"github.com/IsaacCheng9/student-network-backend/internal/repos/testutil"
	"github.com/IsaacCheng9/student-network-backend/internal/types"
)

func newQuizFixture(t *testing.T) (context.Context, QuizService) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	tx := testutil.Tx(t, db)

	quizRepo := repos.NewQuizRepo(tx, log)
	connectionRepo := repos.NewConnectionRepo(tx, log)
	profileRepo := repos.NewProfileRepo(tx, log)
	postRepo := repos.NewPostRepo(tx, log)
	achievementRepo := repos.NewAchievementRepo(tx, log)
	levelRepo := repos.NewLevelRepo(tx, log)

	achievements := NewAchievementService(tx, log, achievementRepo, levelRepo, connectionRepo, profileRepo, postRepo, nil)
	if err := achievements.SeedCatalog(context.Background()); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	return context.Background(), NewQuizService(tx, log, quizRepo, achievements)
}

func sampleQuestions() []types.QuizQuestion {
	return []types.QuizQuestion{
		{Question: "2 + 2?", Options: []string{"3", "4", "5"}, Answer: 1},
		{Question: "Capital of France?", Options: []string{"Paris", "Lyon"}, Answer: 0},
	}
}

func TestQuizCreateValidation(t *testing.T) {
	ctx, svc := newQuizFixture(t)

	if _, err := svc.Create(ctx, "quiz_author", "Empty", nil); !errors.Is(err, ErrQuizEmpty) {
		t.Fatalf("error = %v, want ErrQuizEmpty", err)
	}
	bad := []types.QuizQuestion{{Question: "One option", Options: []string{"only"}, Answer: 0}}
	if _, err := svc.Create(ctx, "quiz_author", "Bad", bad); !errors.Is(err, ErrQuizBadQuestion) {
		t.Fatalf("error = %v, want ErrQuizBadQuestion", err)
	}
	bad = []types.QuizQuestion{{Question: "Out of range", Options: []string{"a", "b"}, Answer: 5}}
	if _, err := svc.Create(ctx, "quiz_author", "Bad", bad); !errors.Is(err, ErrQuizBadQuestion) {
		t.Fatalf("error = %v, want ErrQuizBadQuestion", err)
	}
}

func TestQuizTakeMarksAnswers(t *testing.T) {
	ctx, svc := newQuizFixture(t)

	quiz, err := svc.Create(ctx, "quiz_author", "Warmup", sampleQuestions())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	result, err := svc.Take(ctx, "quiz_taker", quiz.ID, []int{1, 1})
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	if result.Score != 1 || result.Total != 2 {
		t.Errorf("score = %d/%d, want 1/2", result.Score, result.Total)
	}

	if _, err := svc.Take(ctx, "quiz_taker", quiz.ID, []int{1}); !errors.Is(err, ErrAnswerCount) {
		t.Fatalf("error = %v, want ErrAnswerCount", err)
	}

	attempts, err := svc.Attempts(ctx, "quiz_taker", quiz.ID)
	if err != nil {
		t.Fatalf("Attempts: %v", err)
	}
	if len(attempts) != 1 {
		t.Fatalf("got %d attempts, want 1", len(attempts))
	}
}

func TestQuizRoundTripQuestions(t *testing.T) {
	ctx, svc := newQuizFixture(t)

	created, err := svc.Create(ctx, "quiz_author", "Round trip", sampleQuestions())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, questions, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(questions))
	}
	if questions[0].Answer != 1 || questions[1].Answer != 0 {
		t.Errorf("answer key lost in storage: %+v", questions)
	}
}
