package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/tutorialhub-backend/internal/clients/llm"
	"github.com/yungbote/tutorialhub-backend/internal/platform/apierr"
)

type fakeChatModel struct {
	history []llm.Turn
	message string
	reply   string
	err     error
}

func (m *fakeChatModel) Chat(ctx context.Context, system string, history []llm.Turn, message string, opts llm.Options) (string, error) {
	m.history = history
	m.message = message
	return m.reply, m.err
}

func TestSendMessageUsesPriorHistory(t *testing.T) {
	f := newFixture(t)
	model := &fakeChatModel{reply: "first answer"}
	svc := NewChatService(f.log, model, f.sessions, f.messages)
	dbc := asUser(t, "u1")

	sess, err := svc.CreateSession(dbc, "")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if !strings.HasPrefix(sess.SessionName, "Chat - ") {
		t.Fatalf("default name: %q", sess.SessionName)
	}

	if _, err := svc.SendMessage(dbc, sess.ID, "hello"); err != nil {
		t.Fatalf("SendMessage 1: %v", err)
	}
	if len(model.history) != 0 || model.message != "hello" {
		t.Fatalf("first turn should have no history: %+v", model.history)
	}

	model.reply = "second answer"
	reply, err := svc.SendMessage(dbc, sess.ID, "  and then?  ")
	if err != nil {
		t.Fatalf("SendMessage 2: %v", err)
	}
	if reply.Reply != "second answer" || reply.MessageID == uuid.Nil {
		t.Fatalf("unexpected reply: %+v", reply)
	}
	if len(model.history) != 2 || model.history[0].Role != llm.RoleUser || model.history[1].Content != "first answer" {
		t.Fatalf("unexpected history: %+v", model.history)
	}

	msgs, err := svc.ListMessages(dbc, sess.ID)
	if err != nil || len(msgs) != 4 {
		t.Fatalf("ListMessages: n=%d err=%v", len(msgs), err)
	}
	if msgs[3].Role != llm.RoleModel {
		t.Fatalf("last message should be the model reply: %+v", msgs[3])
	}
}

func TestSendMessageFallbackAndErrors(t *testing.T) {
	f := newFixture(t)
	model := &fakeChatModel{err: llm.ErrNoResponse}
	svc := NewChatService(f.log, model, f.sessions, f.messages)
	dbc := asUser(t, "u1")
	sess, err := svc.CreateSession(dbc, "Study")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	reply, err := svc.SendMessage(dbc, sess.ID, "hi")
	if err != nil || reply.Reply != chatFallback {
		t.Fatalf("want fallback reply got %+v err=%v", reply, err)
	}

	model.err = errors.New("upstream down")
	_, err = svc.SendMessage(dbc, sess.ID, "hi")
	if ae, ok := apierr.As(err); !ok || ae.Status != http.StatusBadGateway {
		t.Fatalf("want 502 got %v", err)
	}

	if _, err := svc.SendMessage(asUser(t, "u2"), sess.ID, "hi"); !errors.Is(err, ErrChatSessionAbsent) {
		t.Fatalf("foreign session: want not found got %v", err)
	}
	if _, err := svc.SendMessage(dbc, sess.ID, "   "); !errors.Is(err, ErrEmptyChatMessage) {
		t.Fatalf("blank message: want bad request got %v", err)
	}

	offline := NewChatService(f.log, nil, f.sessions, f.messages)
	_, err = offline.SendMessage(dbc, sess.ID, "hi")
	if ae, ok := apierr.As(err); !ok || ae.Status != http.StatusServiceUnavailable {
		t.Fatalf("want 503 got %v", err)
	}
}

func TestListSessionsNewestFirst(t *testing.T) {
	f := newFixture(t)
	svc := NewChatService(f.log, &fakeChatModel{reply: "ok"}, f.sessions, f.messages).(*chatService)
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	dbc := asUser(t, "u1")

	older, err := svc.CreateSession(dbc, "")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if older.SessionName != "Chat - Jan 1, 2026 10:00 AM" {
		t.Fatalf("name: %q", older.SessionName)
	}
	if _, err := svc.CreateSession(dbc, "second"); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	svc.now = func() time.Time { return time.Now().Add(time.Hour) }
	if _, err := svc.SendMessage(dbc, older.ID, "bump"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	list, err := svc.ListSessions(dbc)
	if err != nil || len(list) != 2 {
		t.Fatalf("ListSessions: n=%d err=%v", len(list), err)
	}
	if list[0].ID != older.ID {
		t.Fatalf("touched session should sort first")
	}
}
