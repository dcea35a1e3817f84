package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/IsaacCheng9/student-network-backend/internal/requestdata"
	"github.com/IsaacCheng9/student-network-backend/internal/services"
	"github.com/IsaacCheng9/student-network-backend/internal/types"
)

type QuizHandler struct {
	quizService services.QuizService
}

func NewQuizHandler(quizService services.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

func (qh *QuizHandler) Create(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	var req struct {
		Name      string               `json:"name"`
		Questions []types.QuizQuestion `json:"questions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	quiz, err := qh.quizService.Create(c.Request.Context(), rd.Username, req.Name, req.Questions)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, quiz)
}

func (qh *QuizHandler) Get(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	quiz, questions, err := qh.quizService.Get(c.Request.Context(), quizID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	// The answer key stays server-side until the quiz is submitted.
	redacted := make([]gin.H, 0, len(questions))
	for _, q := range questions {
		redacted = append(redacted, gin.H{"question": q.Question, "options": q.Options})
	}
	RespondOK(c, gin.H{
		"id":        quiz.ID,
		"author":    quiz.Author,
		"name":      quiz.Name,
		"questions": redacted,
	})
}

func (qh *QuizHandler) List(c *gin.Context) {
	quizzes, err := qh.quizService.List(c.Request.Context(), parseLimit(c, 50))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"quizzes": quizzes})
}

func (qh *QuizHandler) Take(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req struct {
		Answers []int `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	result, err := qh.quizService.Take(c.Request.Context(), rd.Username, quizID, req.Answers)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

func (qh *QuizHandler) Attempts(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	attempts, err := qh.quizService.Attempts(c.Request.Context(), rd.Username, quizID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"attempts": attempts})
}
