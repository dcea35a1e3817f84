package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IsaacCheng9/student-network-backend/internal/requestdata"
	"github.com/IsaacCheng9/student-network-backend/internal/services"
)

type ChatHandler struct {
	chatService services.ChatService
}

func NewChatHandler(chatService services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (ch *ChatHandler) Send(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	var req struct {
		Body string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	message, err := ch.chatService.Send(c.Request.Context(), rd.Username, c.Param("username"), req.Body)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

func (ch *ChatHandler) History(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	messages, err := ch.chatService.History(c.Request.Context(), rd.Username, c.Param("username"), parseLimit(c, 100))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"messages": messages})
}
