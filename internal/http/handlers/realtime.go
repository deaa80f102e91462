package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/tutorialhub-backend/internal/http/response"
	"github.com/yungbote/tutorialhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
	"github.com/yungbote/tutorialhub-backend/internal/realtime"
)

type RealtimeHandler struct {
	log *logger.Logger
	hub *realtime.SSEHub
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub) *RealtimeHandler {
	return &RealtimeHandler{log: log.With("handler", "RealtimeHandler"), hub: hub}
}

// GET /api/sse/stream
// Every connection joins the caller's user channel, where job events are published.
func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	userID := ctxutil.UserID(c.Request.Context())
	if userID == "" {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	client := h.hub.NewSSEClient(userID)
	h.hub.AddChannel(client, userID)
	h.log.Debug("SSE stream open", "user_id", userID, "client_id", client.ID.String())

	h.hub.ServeHTTP(c.Writer, c.Request, client)
	h.hub.CloseClient(client)
}
