// Package repo implements the data persistence layer for the three content
// collections, backed by GORM. This file provides repository functions for
// the CoachingSession and CoachingMessage models.
//
// Concurrency notes:
//   - CreateSession relies on the ux_session_project_user unique index so
//     that two concurrent first-interaction events for the same
//     (project_id, user_id) pair cannot produce two rows; the loser gets
//     ErrDuplicate and re-reads the winner's row.
//   - AppendMessage runs in one transaction: the message insert (the atomic
//     array-append), the interaction counter bump, and the last_interaction
//     refresh either all apply or none do.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gmcdash/go-content-backend/internal/domain"
)

// CreateSession inserts a fresh session row for (projectID, userID) with
// zeroed counters and empty sub-documents. Returns ErrDuplicate when a
// session for the pair already exists.
func CreateSession(ctx context.Context, db *gorm.DB, projectID, userID string) (*domain.CoachingSession, error) {
	now := time.Now().UTC()
	s := &domain.CoachingSession{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		if IsDuplicate(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return s, nil
}

// GetSession fetches a session by its identifier, or ErrNotFound.
func GetSession(ctx context.Context, db *gorm.DB, sessionID string) (*domain.CoachingSession, error) {
	var s domain.CoachingSession
	err := db.WithContext(ctx).
		Where("coaching_session_id = ?", sessionID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetSessionByScope fetches the session for (projectID, userID), or
// ErrNotFound. All session reads except ListSessionsByUser are
// project-scoped by construction.
func GetSessionByScope(ctx context.Context, db *gorm.DB, projectID, userID string) (*domain.CoachingSession, error) {
	var s domain.CoachingSession
	err := db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// AppendMessage appends msg to the session's conversation history and
// updates the session counters atomically. The message receives the next
// per-session sequence number so history reads preserve arrival order.
// Returns ErrNotFound when the session does not exist.
func AppendMessage(ctx context.Context, db *gorm.DB, sessionID string, msg *domain.CoachingMessage) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.CoachingSession{}).
			Where("coaching_session_id = ?", sessionID).
			Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}

		var nextSeq int
		if err := tx.Raw(
			"SELECT COALESCE(MAX(seq), 0) + 1 FROM coaching_messages WHERE session_id = ?",
			sessionID,
		).Scan(&nextSeq).Error; err != nil {
			return err
		}

		msg.SessionID = sessionID
		msg.Seq = nextSeq
		if msg.MessageID == "" {
			msg.MessageID = uuid.NewString()
		}
		if msg.Timestamp.IsZero() {
			msg.Timestamp = time.Now().UTC()
		}
		if err := tx.Create(msg).Error; err != nil {
			return err
		}

		return tx.Model(&domain.CoachingSession{}).
			Where("coaching_session_id = ?", sessionID).
			Updates(map[string]any{
				"total_interactions": gorm.Expr("total_interactions + 1"),
				"last_interaction":   msg.Timestamp,
				"updated_at":         time.Now().UTC(),
			}).Error
	})
}

// GetMessage fetches one conversation message by its identifier. Used by
// the idempotent-replay path of message submission.
func GetMessage(ctx context.Context, db *gorm.DB, messageID string) (*domain.CoachingMessage, error) {
	var m domain.CoachingMessage
	err := db.WithContext(ctx).
		Where("message_id = ?", messageID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMessages returns the session's conversation history in arrival order
// (seq ASC). A limit <= 0 returns the full history.
func ListMessages(ctx context.Context, db *gorm.DB, sessionID string, limit int) ([]domain.CoachingMessage, error) {
	q := db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("seq ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []domain.CoachingMessage
	err := q.Find(&out).Error
	return out, err
}

// CountMessages uses a raw COUNT so a missing table surfaces as an error.
func CountMessages(ctx context.Context, db *gorm.DB, sessionID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM coaching_messages WHERE session_id = ?", sessionID).
		Scan(&total).Error
	return total, err
}

// UpdateSessionAnalytics overwrites the derived learning-analytics fields
// of a session (decision patterns, preferences, progress, risk profile)
// and refreshes updated_at. Only non-nil arguments are written. Returns
// ErrNotFound when no row matches.
func UpdateSessionAnalytics(ctx context.Context, db *gorm.DB, sessionID string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now().UTC()
	res := db.WithContext(ctx).
		Model(&domain.CoachingSession{}).
		Where("coaching_session_id = ?", sessionID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateEffectiveness overwrites the session's coaching_effectiveness.
// Bound checking ([0,1]) happens in the service layer before persistence;
// the DB check constraint is the backstop. Returns ErrNotFound when no row
// matches.
func UpdateEffectiveness(ctx context.Context, db *gorm.DB, sessionID string, value float64) error {
	res := db.WithContext(ctx).
		Model(&domain.CoachingSession{}).
		Where("coaching_session_id = ?", sessionID).
		Updates(map[string]any{
			"coaching_effectiveness": value,
			"updated_at":             time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListSessionsByUser returns all sessions for userID across projects,
// most recently active first (last_interaction DESC, NULLs last). This is
// the one intentionally cross-project read path: a user's own dashboard.
func ListSessionsByUser(ctx context.Context, db *gorm.DB, userID string) ([]domain.CoachingSession, error) {
	var out []domain.CoachingSession
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_interaction IS NULL, last_interaction DESC").
		Find(&out).Error
	return out, err
}

// RankSessionsByEffectiveness returns the sessions of one project ordered
// by coaching_effectiveness descending, backed by the
// idx_project_effectiveness compound index.
func RankSessionsByEffectiveness(ctx context.Context, db *gorm.DB, projectID string, limit int) ([]domain.CoachingSession, error) {
	q := db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("coaching_effectiveness DESC, coaching_session_id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []domain.CoachingSession
	err := q.Find(&out).Error
	return out, err
}
