package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/IsaacCheng9/student-network-backend/internal/requestdata"
	"github.com/IsaacCheng9/student-network-backend/internal/sse"
)

type SSEHandler struct {
	hub *sse.SSEHub
}

func NewSSEHandler(hub *sse.SSEHub) *SSEHandler {
	return &SSEHandler{hub: hub}
}

// Stream opens the event stream for the authenticated user. The
// client is subscribed to its own username channel; the hub tears the
// subscription down when the request ends.
func (sh *SSEHandler) Stream(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	client := sh.hub.NewSSEClient(rd.Username)
	sh.hub.AddChannel(client, rd.Username)
	defer sh.hub.RemoveClient(client)

	sh.hub.ServeHTTP(c.Writer, c.Request, client)
}
