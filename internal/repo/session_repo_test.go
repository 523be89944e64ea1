package repo

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gmcdash/go-content-backend/internal/domain"
)

// test DB helper
func newSessionRepoDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("session_repo_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := db.AutoMigrate(&domain.CoachingSession{}, &domain.CoachingMessage{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestCreateSession_InsertsWithZeroCounters(t *testing.T) {
	db := newSessionRepoDB(t)
	ctx := context.Background()

	s, err := CreateSession(ctx, db, "p1", "u1")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if s.ID == "" || s.ProjectID != "p1" || s.UserID != "u1" {
		t.Fatalf("unexpected session: %+v", s)
	}
	if s.TotalInteractions != 0 || s.CoachingEffectiveness != 0 || s.LastInteraction != nil {
		t.Fatalf("counters not zeroed: %+v", s)
	}
}

func TestCreateSession_DuplicatePair(t *testing.T) {
	db := newSessionRepoDB(t)
	ctx := context.Background()

	if _, err := CreateSession(ctx, db, "p1", "u1"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := CreateSession(ctx, db, "p1", "u1"); err != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	// Same user in another project is a distinct session.
	if _, err := CreateSession(ctx, db, "p2", "u1"); err != nil {
		t.Fatalf("other project create: %v", err)
	}
}

func TestGetSessionByScope_ProjectIsolation(t *testing.T) {
	db := newSessionRepoDB(t)
	ctx := context.Background()

	created, err := CreateSession(ctx, db, "p1", "u1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := GetSessionByScope(ctx, db, "p1", "u1")
	if err != nil {
		t.Fatalf("GetSessionByScope: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("scope lookup mismatch: %+v", got)
	}

	if _, err := GetSessionByScope(ctx, db, "p2", "u1"); err != gorm.ErrRecordNotFound {
		t.Fatalf("expected not found across projects, got %v", err)
	}
}

func TestAppendMessage_SequencesAndCounters(t *testing.T) {
	db := newSessionRepoDB(t)
	ctx := context.Background()

	s, err := CreateSession(ctx, db, "p1", "u1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for i, content := range []string{"first", "second", "third"} {
		msg := &domain.CoachingMessage{Sender: domain.SenderUser, Content: content}
		if err := AppendMessage(ctx, db, s.ID, msg); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if msg.Seq != i+1 {
			t.Fatalf("seq mismatch: got %d want %d", msg.Seq, i+1)
		}
		if msg.MessageID == "" || msg.Timestamp.IsZero() {
			t.Fatalf("message defaults missing: %+v", msg)
		}
	}

	got, err := GetSession(ctx, db, s.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.TotalInteractions != 3 {
		t.Fatalf("total_interactions = %d, want 3", got.TotalInteractions)
	}
	if got.LastInteraction == nil || got.LastInteraction.IsZero() {
		t.Fatalf("last_interaction not refreshed: %+v", got)
	}

	msgs, err := ListMessages(ctx, db, s.ID, 0)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != 3 || msgs[0].Content != "first" || msgs[2].Content != "third" {
		t.Fatalf("arrival order broken: %+v", msgs)
	}

	total, err := CountMessages(ctx, db, s.ID)
	if err != nil || total != 3 {
		t.Fatalf("CountMessages = %d, %v", total, err)
	}
}

func TestAppendMessage_MissingSession(t *testing.T) {
	db := newSessionRepoDB(t)
	err := AppendMessage(context.Background(), db, "nope", &domain.CoachingMessage{
		Sender: domain.SenderUser, Content: "x",
	})
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListMessages_Limit(t *testing.T) {
	db := newSessionRepoDB(t)
	ctx := context.Background()

	s, _ := CreateSession(ctx, db, "p1", "u1")
	for i := 0; i < 5; i++ {
		if err := AppendMessage(ctx, db, s.ID, &domain.CoachingMessage{
			Sender: domain.SenderUser, Content: fmt.Sprintf("m%d", i),
		}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	msgs, err := ListMessages(ctx, db, s.ID, 2)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Seq != 1 || msgs[1].Seq != 2 {
		t.Fatalf("limited history wrong: %+v", msgs)
	}
}

func TestGetMessage_Roundtrip(t *testing.T) {
	db := newSessionRepoDB(t)
	ctx := context.Background()

	s, _ := CreateSession(ctx, db, "p1", "u1")
	msg := &domain.CoachingMessage{Sender: domain.SenderAI, Content: "reply", AIProvider: domain.ProviderAnthropic}
	if err := AppendMessage(ctx, db, s.ID, msg); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := GetMessage(ctx, db, msg.MessageID)
	if err != nil {
		t.Fatalf("GetMessage: %v", err)
	}
	if got.Content != "reply" || got.AIProvider != domain.ProviderAnthropic {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}
}

func TestUpdateSessionAnalytics_AndEffectiveness(t *testing.T) {
	db := newSessionRepoDB(t)
	ctx := context.Background()

	s, _ := CreateSession(ctx, db, "p1", "u1")

	if err := UpdateSessionAnalytics(ctx, db, s.ID, map[string]any{"risk_tolerance": "moderate"}); err != nil {
		t.Fatalf("UpdateSessionAnalytics: %v", err)
	}
	if err := UpdateEffectiveness(ctx, db, s.ID, 0.75); err != nil {
		t.Fatalf("UpdateEffectiveness: %v", err)
	}

	got, err := GetSession(ctx, db, s.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.RiskTolerance != domain.RiskModerate || got.CoachingEffectiveness != 0.75 {
		t.Fatalf("updates not applied: %+v", got)
	}

	if err := UpdateSessionAnalytics(ctx, db, "missing", map[string]any{"risk_tolerance": "moderate"}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := UpdateEffectiveness(ctx, db, "missing", 0.5); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListSessionsByUser_CrossProjectRecencyOrder(t *testing.T) {
	db := newSessionRepoDB(t)
	ctx := context.Background()

	s1, _ := CreateSession(ctx, db, "p1", "u1")
	s2, _ := CreateSession(ctx, db, "p2", "u1")
	if _, err := CreateSession(ctx, db, "p1", "other"); err != nil {
		t.Fatalf("create other: %v", err)
	}

	// Only s2 gets activity; s1 keeps NULL last_interaction and sorts last.
	if err := AppendMessage(ctx, db, s2.ID, &domain.CoachingMessage{Sender: domain.SenderUser, Content: "hi"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	out, err := ListSessionsByUser(ctx, db, "u1")
	if err != nil {
		t.Fatalf("ListSessionsByUser: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(out))
	}
	if out[0].ID != s2.ID || out[1].ID != s1.ID {
		t.Fatalf("recency order wrong: %+v", out)
	}
}

func TestRankSessionsByEffectiveness(t *testing.T) {
	db := newSessionRepoDB(t)
	ctx := context.Background()

	low, _ := CreateSession(ctx, db, "p1", "u-low")
	high, _ := CreateSession(ctx, db, "p1", "u-high")
	if _, err := CreateSession(ctx, db, "p2", "u-else"); err != nil {
		t.Fatalf("create: %v", err)
	}
	_ = UpdateEffectiveness(ctx, db, low.ID, 0.2)
	_ = UpdateEffectiveness(ctx, db, high.ID, 0.9)

	out, err := RankSessionsByEffectiveness(ctx, db, "p1", 0)
	if err != nil {
		t.Fatalf("RankSessionsByEffectiveness: %v", err)
	}
	if len(out) != 2 || out[0].ID != high.ID || out[1].ID != low.ID {
		t.Fatalf("ranking wrong: %+v", out)
	}

	top, err := RankSessionsByEffectiveness(ctx, db, "p1", 1)
	if err != nil || len(top) != 1 || top[0].ID != high.ID {
		t.Fatalf("limited ranking wrong: %+v %v", top, err)
	}
}
