package chat

import (
	"fmt"
	"testing"
	"time"

	"github.com/yungbote/tutorialhub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/tutorialhub-backend/internal/domain"
	domainchat "github.com/yungbote/tutorialhub-backend/internal/domain/chat"
	"github.com/yungbote/tutorialhub-backend/internal/platform/dbctx"
)

func TestSessionAndMessageRepos(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	dbc := dbctx.Context{Ctx: t.Context()}
	sessions := NewSessionRepo(db, log)
	messages := NewMessageRepo(db, log)

	s, err := sessions.Create(dbc, &types.ChatSession{UserID: "user_1", SessionName: "Chat"})
	if err != nil {
		t.Fatalf("Create session: %v", err)
	}
	if _, err := sessions.Create(dbc, &types.ChatSession{UserID: "user_2", SessionName: "Other"}); err != nil {
		t.Fatalf("Create session: %v", err)
	}

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 25; i++ {
		role := domainchat.RoleUser
		if i%2 == 1 {
			role = domainchat.RoleModel
		}
		m := &types.ChatMessage{SessionID: s.ID, Role: role, Content: fmt.Sprintf("m%d", i), Timestamp: base.Add(time.Duration(i) * time.Second)}
		if _, err := messages.Create(dbc, m); err != nil {
			t.Fatalf("Create message %d: %v", i, err)
		}
	}

	all, err := messages.ListBySessionID(dbc, s.ID)
	if err != nil || len(all) != 25 || all[0].Content != "m0" {
		t.Fatalf("ListBySessionID: len=%d err=%v", len(all), err)
	}
	recent, err := messages.ListRecent(dbc, s.ID, 20)
	if err != nil || len(recent) != 20 {
		t.Fatalf("ListRecent: len=%d err=%v", len(recent), err)
	}
	if recent[0].Content != "m5" || recent[19].Content != "m24" {
		t.Fatalf("ListRecent order: first=%s last=%s", recent[0].Content, recent[19].Content)
	}

	list, err := sessions.ListByUserID(dbc, "user_1")
	if err != nil || len(list) != 1 || list[0].ID != s.ID {
		t.Fatalf("ListByUserID: %+v err=%v", list, err)
	}
	if err := sessions.Touch(dbc, s.ID, time.Now()); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	got, err := sessions.GetByID(dbc, s.ID)
	if err != nil || got.UserID != "user_1" {
		t.Fatalf("GetByID: %+v err=%v", got, err)
	}
}
