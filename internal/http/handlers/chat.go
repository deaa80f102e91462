package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/tutorialhub-backend/internal/http/response"
	"github.com/yungbote/tutorialhub-backend/internal/services"
)

type ChatHandler struct {
	chat services.ChatService
}

func NewChatHandler(chat services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// GET /api/chat/sessions
func (h *ChatHandler) ListSessions(c *gin.Context) {
	sessions, err := h.chat.ListSessions(reqDBC(c))
	if err != nil {
		response.RespondServiceError(c, "load_sessions_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"sessions": sessions})
}

// POST /api/chat/sessions
func (h *ChatHandler) CreateSession(c *gin.Context) {
	var req struct {
		SessionName string `json:"session_name" binding:"max=200"`
	}
	// The body is optional; an empty one gets the default name.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(c, http.StatusBadRequest, "invalid_session", err)
		return
	}
	session, err := h.chat.CreateSession(reqDBC(c), req.SessionName)
	if err != nil {
		response.RespondServiceError(c, "create_session_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"session": session})
}

// GET /api/chat/sessions/:id/messages
func (h *ChatHandler) ListMessages(c *gin.Context) {
	id, ok := uuidParam(c, "id", "invalid_session_id")
	if !ok {
		return
	}
	msgs, err := h.chat.ListMessages(reqDBC(c), id)
	if err != nil {
		response.RespondServiceError(c, "load_messages_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"messages": msgs})
}

type sendMessageRequest struct {
	SessionID uuid.UUID `json:"session_id" binding:"required"`
	Message   string    `json:"message" binding:"required,max=8000"`
}

// POST /api/chat
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_message", err)
		return
	}
	reply, err := h.chat.SendMessage(reqDBC(c), req.SessionID, req.Message)
	if err != nil {
		response.RespondServiceError(c, "chat_failed", err)
		return
	}
	response.RespondOK(c, reply)
}
