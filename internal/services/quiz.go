package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/IsaacCheng9/student-network-backend/internal/logger"
	"github.com/IsaacCheng9/student-network-backend/internal/repos"
	"github.com/IsaacCheng9/student-network-backend/internal/types"
	"github.com/IsaacCheng9/student-network-backend/internal/utils"
)

var (
	ErrQuizNotFound    = fmt.Errorf("quiz not found")
	ErrQuizEmpty       = fmt.Errorf("quiz needs at least one question")
	ErrQuizBadQuestion = fmt.Errorf("question is malformed")
	ErrAnswerCount     = fmt.Errorf("answer count does not match question count")
)

// QuizResult reports one marked attempt.
type QuizResult struct {
	QuizID  uuid.UUID `json:"quiz_id"`
	Score   int       `json:"score"`
	Total   int       `json:"total"`
	Answers []int     `json:"answers"`
	Correct []int     `json:"correct"`
}

type QuizService interface {
	Create(ctx context.Context, author, name string, questions []types.QuizQuestion) (*types.Quiz, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Quiz, []types.QuizQuestion, error)
	List(ctx context.Context, limit int) ([]*types.Quiz, error)
	// Take marks the submitted answers against the stored answer key
	// and records the attempt.
	Take(ctx context.Context, username string, quizID uuid.UUID, answers []int) (*QuizResult, error)
	Attempts(ctx context.Context, username string, quizID uuid.UUID) ([]*types.QuizAttempt, error)
}

type quizService struct {
	db           *gorm.DB
	log          *logger.Logger
	quizRepo     repos.QuizRepo
	achievements AchievementService
}

func NewQuizService(
	db *gorm.DB,
	log *logger.Logger,
	quizRepo repos.QuizRepo,
	achievements AchievementService,
) QuizService {
	serviceLog := log.With("service", "QuizService")
	return &quizService{
		db:           db,
		log:          serviceLog,
		quizRepo:     quizRepo,
		achievements: achievements,
	}
}

func (qs *quizService) Create(ctx context.Context, author, name string, questions []types.QuizQuestion) (*types.Quiz, error) {
	name = utils.ParseInputString(name)
	if name == "" {
		return nil, ErrEmptyBody
	}
	if len(questions) == 0 {
		return nil, ErrQuizEmpty
	}
	for _, q := range questions {
		if utils.ParseInputString(q.Question) == "" || len(q.Options) < 2 {
			return nil, ErrQuizBadQuestion
		}
		if q.Answer < 0 || q.Answer >= len(q.Options) {
			return nil, ErrQuizBadQuestion
		}
	}

	raw, err := json.Marshal(questions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode questions: %w", err)
	}
	quiz := &types.Quiz{
		ID:        uuid.New(),
		Author:    author,
		Name:      name,
		Questions: datatypes.JSON(raw),
	}
	if err := qs.quizRepo.Create(ctx, nil, quiz); err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}
	return quiz, nil
}

func (qs *quizService) Get(ctx context.Context, id uuid.UUID) (*types.Quiz, []types.QuizQuestion, error) {
	quiz, err := qs.quizRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load quiz: %w", err)
	}
	if quiz == nil {
		return nil, nil, ErrQuizNotFound
	}
	questions, err := decodeQuestions(quiz)
	if err != nil {
		return nil, nil, err
	}
	return quiz, questions, nil
}

func (qs *quizService) List(ctx context.Context, limit int) ([]*types.Quiz, error) {
	return qs.quizRepo.List(ctx, nil, limit)
}

func (qs *quizService) Take(ctx context.Context, username string, quizID uuid.UUID, answers []int) (*QuizResult, error) {
	quiz, questions, err := qs.Get(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if len(answers) != len(questions) {
		return nil, ErrAnswerCount
	}

	correct := make([]int, len(questions))
	score := 0
	for i, q := range questions {
		correct[i] = q.Answer
		if answers[i] == q.Answer {
			score++
		}
	}

	attempt := &types.QuizAttempt{
		ID:       uuid.New(),
		QuizID:   quiz.ID,
		Username: username,
		Score:    score,
		Total:    len(questions),
	}
	if err := qs.quizRepo.CreateAttempt(ctx, nil, attempt); err != nil {
		return nil, fmt.Errorf("failed to record attempt: %w", err)
	}

	qs.achievements.OnQuizCompleted(ctx, username, score, len(questions))
	return &QuizResult{
		QuizID:  quiz.ID,
		Score:   score,
		Total:   len(questions),
		Answers: answers,
		Correct: correct,
	}, nil
}

func (qs *quizService) Attempts(ctx context.Context, username string, quizID uuid.UUID) ([]*types.QuizAttempt, error) {
	return qs.quizRepo.ListAttempts(ctx, nil, quizID, username)
}

func decodeQuestions(quiz *types.Quiz) ([]types.QuizQuestion, error) {
	var questions []types.QuizQuestion
	if err := json.Unmarshal(quiz.Questions, &questions); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}
	return questions, nil
}
