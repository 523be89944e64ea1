// Package services – CoachingService
//
// This file implements the CoachingService, which manages per-(project, user)
// AI coaching sessions: lazy session creation, ordered conversation appends,
// decision-pattern aggregation, learning-profile updates, effectiveness
// scoring, and the read paths (history, per-user dashboard, per-project
// effectiveness ranking).
//
// All operations are project-scoped except ListByUser, which is the one
// deliberate cross-project read: a user looking at their own sessions.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/gmcdash/go-content-backend/internal/domain"
	"github.com/gmcdash/go-content-backend/internal/repo"
)

// MessageInput is one conversation utterance to append.
type MessageInput struct {
	Sender             domain.Sender
	Content            string
	ProjectContextTags []string
	AIProvider         domain.AIProvider
}

// DecisionInput records one decision event against a named parameter.
type DecisionInput struct {
	ParameterName string
	Value         float64
	Frequency     int
	ContextTags   []string
}

// ProfileInput carries the optional learning-profile fields to overwrite on
// a session. Nil pointers leave the corresponding field untouched.
type ProfileInput struct {
	StrategyPreferences *domain.StrategyPreferences
	LearningProgress    *domain.LearningProgress
	RiskTolerance       *domain.RiskTolerance
}

// CoachingService provides operations on AI coaching sessions.
type CoachingService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// IdempotencyTTL bounds how long a message idempotency key is honored.
	IdempotencyTTL time.Duration
}

// NewCoachingService constructs a CoachingService with a 24h idempotency TTL.
func NewCoachingService(db *gorm.DB) *CoachingService {
	return &CoachingService{DB: db, IdempotencyTTL: 24 * time.Hour}
}

func requireScope(projectID, userID string) error {
	if strings.TrimSpace(projectID) == "" {
		return fmt.Errorf("project_id is required: %w", ErrValidation)
	}
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("user_id is required: %w", ErrValidation)
	}
	return nil
}

// GetOrCreate returns the session for (projectID, userID), creating it on
// first interaction. Losing a creation race falls back to reading the
// winner's row, so concurrent callers always converge on the same session.
func (s *CoachingService) GetOrCreate(ctx context.Context, projectID, userID string) (*domain.CoachingSession, error) {
	tr := otel.Tracer("services/CoachingService")
	ctx, span := tr.Start(ctx, "GetOrCreate",
		trace.WithAttributes(
			attribute.String("coaching.project_id", projectID),
			attribute.String("coaching.user_id", userID),
		),
	)
	defer span.End()

	if err := requireScope(projectID, userID); err != nil {
		return nil, err
	}

	sess, err := repo.GetSessionByScope(ctx, s.DB, projectID, userID)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapStorage("get session", err)
	}

	sess, err = repo.CreateSession(ctx, s.DB, projectID, userID)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, repo.ErrDuplicate) {
		return nil, wrapStorage("create session", err)
	}

	// Lost the race; the winner's row must exist now.
	sess, err = repo.GetSessionByScope(ctx, s.DB, projectID, userID)
	if err != nil {
		return nil, wrapStorage("get session after duplicate", err)
	}
	return sess, nil
}

// AppendMessage records one conversation message on the (projectID, userID)
// session, creating the session if needed. The append also bumps the
// interaction counter and refreshes last_interaction atomically.
//
// When idemKey is non-empty a previously recorded submission with the same
// (user, project, key) is replayed instead of re-appended.
func (s *CoachingService) AppendMessage(ctx context.Context, projectID, userID, idemKey string, in MessageInput) (*domain.CoachingMessage, *domain.CoachingSession, error) {
	tr := otel.Tracer("services/CoachingService")
	ctx, span := tr.Start(ctx, "AppendMessage",
		trace.WithAttributes(
			attribute.String("coaching.project_id", projectID),
			attribute.String("coaching.sender", string(in.Sender)),
		),
	)
	defer span.End()

	if err := requireScope(projectID, userID); err != nil {
		return nil, nil, err
	}
	if !in.Sender.Valid() {
		return nil, nil, fmt.Errorf("sender %q: %w", in.Sender, ErrValidation)
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, nil, fmt.Errorf("content is required: %w", ErrValidation)
	}
	if !in.AIProvider.Valid() {
		return nil, nil, fmt.Errorf("ai_provider %q: %w", in.AIProvider, ErrValidation)
	}

	if idemKey != "" {
		rec, err := repo.GetIdempotency(ctx, s.DB, userID, projectID, idemKey, time.Now().UTC())
		if err == nil {
			return s.replayMessage(ctx, projectID, userID, rec.MessageID)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, wrapStorage("get idempotency", err)
		}
	}

	sess, err := s.GetOrCreate(ctx, projectID, userID)
	if err != nil {
		return nil, nil, err
	}

	msg := &domain.CoachingMessage{
		Sender:             in.Sender,
		Content:            in.Content,
		ProjectContextTags: datatypes.NewJSONSlice(in.ProjectContextTags),
		AIProvider:         in.AIProvider,
	}
	if err := repo.AppendMessage(ctx, s.DB, sess.ID, msg); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, fmt.Errorf("session %q: %w", sess.ID, ErrNotFound)
		}
		return nil, nil, wrapStorage("append message", err)
	}

	if idemKey != "" {
		if _, err := repo.CreateIdempotency(ctx, s.DB, userID, projectID, idemKey, msg.MessageID, 201, s.IdempotencyTTL); err != nil && !errors.Is(err, repo.ErrDuplicate) {
			return nil, nil, wrapStorage("create idempotency", err)
		}
	}

	sess, err = s.refetchSession(ctx, sess.ID)
	if err != nil {
		return nil, nil, err
	}
	return msg, sess, nil
}

// refetchSession reloads a session after a write so callers return the row
// they just touched, mapping a driver failure to ErrBackendUnavailable and a
// vanished row to ErrNotFound rather than leaking the raw error.
func (s *CoachingService) refetchSession(ctx context.Context, sessionID string) (*domain.CoachingSession, error) {
	sess, err := repo.GetSession(ctx, s.DB, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session %q: %w", sessionID, ErrNotFound)
		}
		return nil, wrapStorage("reload session", err)
	}
	return sess, nil
}

// replayMessage serves a repeated idempotent submission from the stored
// message without appending again.
func (s *CoachingService) replayMessage(ctx context.Context, projectID, userID, messageID string) (*domain.CoachingMessage, *domain.CoachingSession, error) {
	msg, err := repo.GetMessage(ctx, s.DB, messageID)
	if err != nil {
		return nil, nil, wrapStorage("replay message", err)
	}
	sess, err := repo.GetSessionByScope(ctx, s.DB, projectID, userID)
	if err != nil {
		return nil, nil, wrapStorage("replay session", err)
	}
	return msg, sess, nil
}

// History returns the conversation for (projectID, userID) in arrival order,
// plus the total number of recorded messages. A limit <= 0 returns the full
// history. Returns ErrNotFound when the session does not exist.
func (s *CoachingService) History(ctx context.Context, projectID, userID string, limit int) ([]domain.CoachingMessage, int64, error) {
	if err := requireScope(projectID, userID); err != nil {
		return nil, 0, err
	}
	sess, err := repo.GetSessionByScope(ctx, s.DB, projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, fmt.Errorf("session for user %q: %w", userID, ErrNotFound)
		}
		return nil, 0, wrapStorage("get session", err)
	}
	msgs, err := repo.ListMessages(ctx, s.DB, sess.ID, limit)
	if err != nil {
		return nil, 0, wrapStorage("list messages", err)
	}
	total, err := repo.CountMessages(ctx, s.DB, sess.ID)
	if err != nil {
		return nil, 0, wrapStorage("count messages", err)
	}
	return msgs, total, nil
}

// RecordDecision folds one decision event into the session's decision
// patterns, creating the session if needed.
//
// An existing pattern for the parameter accumulates: frequency rises by the
// event's weight (at least 1), the value range widens to include the new
// value, the preferred value becomes the incoming one, and context tags are
// unioned. A new parameter starts a fresh pattern.
func (s *CoachingService) RecordDecision(ctx context.Context, projectID, userID string, in DecisionInput) (*domain.CoachingSession, error) {
	tr := otel.Tracer("services/CoachingService")
	ctx, span := tr.Start(ctx, "RecordDecision",
		trace.WithAttributes(
			attribute.String("coaching.project_id", projectID),
			attribute.String("coaching.parameter", in.ParameterName),
		),
	)
	defer span.End()

	if err := requireScope(projectID, userID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.ParameterName) == "" {
		return nil, fmt.Errorf("parameter_name is required: %w", ErrValidation)
	}

	sess, err := s.GetOrCreate(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}

	weight := in.Frequency
	if weight < 1 {
		weight = 1
	}

	patterns := sess.DecisionPatterns.Data()
	merged := false
	for i := range patterns {
		if patterns[i].ParameterName != in.ParameterName {
			continue
		}
		p := &patterns[i]
		p.DecisionFrequency += weight
		if in.Value < p.ValueRanges.Min {
			p.ValueRanges.Min = in.Value
		}
		if in.Value > p.ValueRanges.Max {
			p.ValueRanges.Max = in.Value
		}
		p.ValueRanges.Preferred = in.Value
		p.ContextTags = unionTags(p.ContextTags, in.ContextTags)
		merged = true
		break
	}
	if !merged {
		patterns = append(patterns, domain.DecisionPattern{
			ParameterName:     in.ParameterName,
			DecisionFrequency: weight,
			ValueRanges: domain.ValueRange{
				Min:       in.Value,
				Max:       in.Value,
				Preferred: in.Value,
			},
			ContextTags: in.ContextTags,
		})
	}

	err = repo.UpdateSessionAnalytics(ctx, s.DB, sess.ID, map[string]any{
		"decision_patterns": datatypes.NewJSONType(patterns),
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("session %q: %w", sess.ID, ErrNotFound)
		}
		return nil, wrapStorage("update decision patterns", err)
	}
	return s.refetchSession(ctx, sess.ID)
}

// UpdateProfile overwrites the learning-profile fields supplied in in on the
// (projectID, userID) session, creating it if needed. Absent fields keep
// their stored values.
func (s *CoachingService) UpdateProfile(ctx context.Context, projectID, userID string, in ProfileInput) (*domain.CoachingSession, error) {
	if err := requireScope(projectID, userID); err != nil {
		return nil, err
	}
	if in.RiskTolerance != nil && !in.RiskTolerance.Valid() {
		return nil, fmt.Errorf("risk_tolerance %q: %w", *in.RiskTolerance, ErrValidation)
	}

	sess, err := s.GetOrCreate(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if in.StrategyPreferences != nil {
		fields["strategy_preferences"] = datatypes.NewJSONType(*in.StrategyPreferences)
	}
	if in.LearningProgress != nil {
		fields["learning_progress"] = datatypes.NewJSONType(*in.LearningProgress)
	}
	if in.RiskTolerance != nil {
		fields["risk_tolerance"] = string(*in.RiskTolerance)
	}
	if len(fields) == 0 {
		return sess, nil
	}

	if err := repo.UpdateSessionAnalytics(ctx, s.DB, sess.ID, fields); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("session %q: %w", sess.ID, ErrNotFound)
		}
		return nil, wrapStorage("update profile", err)
	}
	return s.refetchSession(ctx, sess.ID)
}

// UpdateEffectiveness overwrites the session's effectiveness score. Values
// outside [0, 1] yield ErrOutOfRange without touching the store.
func (s *CoachingService) UpdateEffectiveness(ctx context.Context, projectID, userID string, value float64) error {
	if err := requireScope(projectID, userID); err != nil {
		return err
	}
	if value < 0 || value > 1 {
		return fmt.Errorf("coaching_effectiveness %v: %w", value, ErrOutOfRange)
	}
	sess, err := repo.GetSessionByScope(ctx, s.DB, projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("session for user %q: %w", userID, ErrNotFound)
		}
		return wrapStorage("get session", err)
	}
	if err := repo.UpdateEffectiveness(ctx, s.DB, sess.ID, value); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("session %q: %w", sess.ID, ErrNotFound)
		}
		return wrapStorage("update effectiveness", err)
	}
	return nil
}

// ListByUser returns the user's sessions across all projects, most recently
// active first. An empty result is a valid answer, not an error.
func (s *CoachingService) ListByUser(ctx context.Context, userID string) ([]domain.CoachingSession, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user_id is required: %w", ErrValidation)
	}
	out, err := repo.ListSessionsByUser(ctx, s.DB, userID)
	if err != nil {
		return nil, wrapStorage("list sessions", err)
	}
	return out, nil
}

// RankByEffectiveness returns projectID's sessions ordered by effectiveness
// descending, for the coaching leaderboard.
func (s *CoachingService) RankByEffectiveness(ctx context.Context, projectID string, limit int) ([]domain.CoachingSession, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, fmt.Errorf("project_id is required: %w", ErrValidation)
	}
	out, err := repo.RankSessionsByEffectiveness(ctx, s.DB, projectID, limit)
	if err != nil {
		return nil, wrapStorage("rank sessions", err)
	}
	return out, nil
}

// unionTags appends the tags of add not already present in base, preserving
// first-seen order.
func unionTags(base, add []string) []string {
	seen := make(map[string]struct{}, len(base))
	for _, t := range base {
		seen[t] = struct{}{}
	}
	for _, t := range add {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		base = append(base, t)
	}
	return base
}
