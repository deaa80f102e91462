package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/yungbote/tutorialhub-backend/internal/clients/llm"
	"github.com/yungbote/tutorialhub-backend/internal/data/repos"
	types "github.com/yungbote/tutorialhub-backend/internal/domain"
	domainchat "github.com/yungbote/tutorialhub-backend/internal/domain/chat"
	"github.com/yungbote/tutorialhub-backend/internal/platform/apierr"
	"github.com/yungbote/tutorialhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/tutorialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

const (
	chatHistoryLimit = 20
	chatFallback     = "I'm sorry, I couldn't generate a response at this moment."
	chatSystemPrompt = "You are TutorialHub's study assistant. Help learners understand programming and course topics with clear, accurate explanations and short examples."
)

var (
	ErrChatUnavailable   = apierr.Unavailable("ai_unavailable", errors.New("AI service is not initialized. Please check server logs for API Key issues."))
	ErrChatSessionAbsent = apierr.NotFound("session_not_found", errors.New("chat session not found"))
	ErrEmptyChatMessage  = apierr.BadRequest("invalid_message", errors.New("message is required"))
)

type ChatReply struct {
	Reply     string    `json:"reply"`
	MessageID uuid.UUID `json:"message_id"`
}

type ChatService interface {
	CreateSession(dbc dbctx.Context, name string) (*types.ChatSession, error)
	ListSessions(dbc dbctx.Context) ([]*types.ChatSession, error)
	ListMessages(dbc dbctx.Context, sessionID uuid.UUID) ([]*types.ChatMessage, error)
	SendMessage(dbc dbctx.Context, sessionID uuid.UUID, message string) (*ChatReply, error)
}

type chatService struct {
	log      *logger.Logger
	model    llm.ChatModel
	sessions repos.ChatSessionRepo
	messages repos.ChatMessageRepo
	now      func() time.Time
}

// NewChatService builds the assistant. A nil model makes SendMessage return ErrChatUnavailable.
func NewChatService(baseLog *logger.Logger, model llm.ChatModel, sessions repos.ChatSessionRepo, messages repos.ChatMessageRepo) ChatService {
	return &chatService{
		log:      baseLog.With("service", "ChatService"),
		model:    model,
		sessions: sessions,
		messages: messages,
		now:      time.Now,
	}
}

func (s *chatService) CreateSession(dbc dbctx.Context, name string) (*types.ChatSession, error) {
	userID := ctxutil.UserID(dbc.Ctx)
	if userID == "" {
		return nil, errUnauthenticated
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Chat - " + s.now().Format("Jan 2, 2006 3:04 PM")
	}
	created, err := s.sessions.Create(dbc, &types.ChatSession{UserID: userID, SessionName: name})
	if err != nil {
		return nil, fmt.Errorf("create chat session: %w", err)
	}
	return created, nil
}

func (s *chatService) ListSessions(dbc dbctx.Context) ([]*types.ChatSession, error) {
	userID := ctxutil.UserID(dbc.Ctx)
	if userID == "" {
		return nil, errUnauthenticated
	}
	return s.sessions.ListByUserID(dbc, userID)
}

func (s *chatService) ownedSession(dbc dbctx.Context, sessionID uuid.UUID) (*types.ChatSession, error) {
	userID := ctxutil.UserID(dbc.Ctx)
	if userID == "" {
		return nil, errUnauthenticated
	}
	sess, err := s.sessions.GetByID(dbc, sessionID)
	if errors.Is(err, repos.ErrNotFound) {
		return nil, ErrChatSessionAbsent
	}
	if err != nil {
		return nil, err
	}
	if sess.UserID != userID {
		return nil, ErrChatSessionAbsent
	}
	return sess, nil
}

func (s *chatService) ListMessages(dbc dbctx.Context, sessionID uuid.UUID) ([]*types.ChatMessage, error) {
	if _, err := s.ownedSession(dbc, sessionID); err != nil {
		return nil, err
	}
	return s.messages.ListBySessionID(dbc, sessionID)
}

func (s *chatService) SendMessage(dbc dbctx.Context, sessionID uuid.UUID, message string) (*ChatReply, error) {
	if s.model == nil {
		return nil, ErrChatUnavailable
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyChatMessage
	}
	if _, err := s.ownedSession(dbc, sessionID); err != nil {
		return nil, err
	}
	log := s.log.With("session_id", sessionID.String())

	if _, err := s.messages.Create(dbc, &types.ChatMessage{SessionID: sessionID, Role: domainchat.RoleUser, Content: message}); err != nil {
		return nil, fmt.Errorf("save user message: %w", err)
	}
	if err := s.sessions.Touch(dbc, sessionID, s.now()); err != nil {
		log.Warn("failed to bump session", "error", err)
	}

	recent, err := s.messages.ListRecent(dbc, sessionID, chatHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}
	// The newest row is the message just saved; it goes out as the prompt.
	if n := len(recent); n > 0 {
		recent = recent[:n-1]
	}
	history := lo.Map(recent, func(m *types.ChatMessage, _ int) llm.Turn {
		return llm.Turn{Role: m.Role, Content: m.Content}
	})

	reply, err := s.model.Chat(dbc.Ctx, chatSystemPrompt, history, message, llm.ChatOptions)
	switch {
	case errors.Is(err, llm.ErrNoResponse):
		log.Warn("empty chat completion; using fallback")
		reply = chatFallback
	case err != nil:
		log.Error("chat completion failed", "error", err)
		return nil, apierr.New(http.StatusBadGateway, "ai_error", fmt.Errorf("chat completion: %w", err))
	}
	if strings.TrimSpace(reply) == "" {
		reply = chatFallback
	}

	saved, err := s.messages.Create(dbc, &types.ChatMessage{SessionID: sessionID, Role: domainchat.RoleModel, Content: reply})
	if err != nil {
		return nil, fmt.Errorf("save model reply: %w", err)
	}
	return &ChatReply{Reply: reply, MessageID: saved.ID}, nil
}
