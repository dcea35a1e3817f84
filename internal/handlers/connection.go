package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/IsaacCheng9/student-network-backend/internal/requestdata"
	"github.com/IsaacCheng9/student-network-backend/internal/services"
)

type ConnectionHandler struct {
	connectionService services.ConnectionService
}

func NewConnectionHandler(connectionService services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{connectionService: connectionService}
}

func (ch *ConnectionHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	connections, err := ch.connectionService.ListConnections(c.Request.Context(), rd.Username)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"connections": connections})
}

func (ch *ConnectionHandler) ListCloseFriends(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	closeFriends, err := ch.connectionService.ListCloseFriends(c.Request.Context(), rd.Username)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"close_friends": closeFriends})
}

func (ch *ConnectionHandler) ListPending(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	pending, err := ch.connectionService.ListPendingFor(c.Request.Context(), rd.Username)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"pending": pending})
}

func (ch *ConnectionHandler) Relationship(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	relation, err := ch.connectionService.Relationship(c.Request.Context(), rd.Username, c.Param("username"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"relationship": relation})
}

func (ch *ConnectionHandler) Request(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if err := ch.connectionService.Request(c.Request.Context(), rd.Username, c.Param("username")); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "request sent"})
}

func (ch *ConnectionHandler) Accept(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if err := ch.connectionService.Accept(c.Request.Context(), rd.Username, c.Param("username")); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "connection accepted"})
}

func (ch *ConnectionHandler) Remove(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if err := ch.connectionService.Remove(c.Request.Context(), rd.Username, c.Param("username")); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "connection removed"})
}

func (ch *ConnectionHandler) Block(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if err := ch.connectionService.Block(c.Request.Context(), rd.Username, c.Param("username")); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "user blocked"})
}

func (ch *ConnectionHandler) Unblock(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if err := ch.connectionService.Unblock(c.Request.Context(), rd.Username, c.Param("username")); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "user unblocked"})
}

func (ch *ConnectionHandler) MarkCloseFriend(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if err := ch.connectionService.MarkCloseFriend(c.Request.Context(), rd.Username, c.Param("username")); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "close friend marked"})
}

func (ch *ConnectionHandler) UnmarkCloseFriend(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if err := ch.connectionService.UnmarkCloseFriend(c.Request.Context(), rd.Username, c.Param("username")); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "close friend unmarked"})
}
