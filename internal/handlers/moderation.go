package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/IsaacCheng9/student-network-backend/internal/services"
)

type ModerationHandler struct {
	moderationService services.ModerationService
}

func NewModerationHandler(moderationService services.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService}
}

func (mh *ModerationHandler) CloseAccount(c *gin.Context) {
	if err := mh.moderationService.CloseAccount(c.Request.Context(), c.Param("username")); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "account closed"})
}

func (mh *ModerationHandler) ReopenAccount(c *gin.Context) {
	if err := mh.moderationService.ReopenAccount(c.Request.Context(), c.Param("username")); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "account reopened"})
}

func (mh *ModerationHandler) RemovePost(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := mh.moderationService.RemovePost(c.Request.Context(), postID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "post removed"})
}

func (mh *ModerationHandler) RemoveComment(c *gin.Context) {
	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := mh.moderationService.RemoveComment(c.Request.Context(), commentID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "comment removed"})
}
