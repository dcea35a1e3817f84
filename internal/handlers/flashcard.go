package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/IsaacCheng9/student-network-backend/internal/requestdata"
	"github.com/IsaacCheng9/student-network-backend/internal/services"
	"github.com/IsaacCheng9/student-network-backend/internal/types"
)

type FlashcardHandler struct {
	flashcardService services.FlashcardService
}

func NewFlashcardHandler(flashcardService services.FlashcardService) *FlashcardHandler {
	return &FlashcardHandler{flashcardService: flashcardService}
}

func (fh *FlashcardHandler) CreateSet(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	var req struct {
		Name  string            `json:"name"`
		Cards []types.Flashcard `json:"cards"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	set, err := fh.flashcardService.CreateSet(c.Request.Context(), rd.Username, req.Name, req.Cards)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, set)
}

func (fh *FlashcardHandler) GetSet(c *gin.Context) {
	setID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	set, cards, err := fh.flashcardService.GetSet(c.Request.Context(), setID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"id":     set.ID,
		"author": set.Author,
		"name":   set.Name,
		"cards":  cards,
	})
}

func (fh *FlashcardHandler) ListSets(c *gin.Context) {
	sets, err := fh.flashcardService.ListSets(c.Request.Context(), parseLimit(c, 50))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"sets": sets})
}

func (fh *FlashcardHandler) RecordPlay(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	setID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := fh.flashcardService.RecordPlay(c.Request.Context(), rd.Username, setID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "play recorded"})
}
