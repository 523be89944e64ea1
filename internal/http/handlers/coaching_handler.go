// Coaching HTTP handlers.
//
// This file exposes REST endpoints for AI coaching sessions:
//   - POST /coaching/message        (append a conversation message)
//   - GET  /coaching/conversations  (scoped conversation history)
//   - GET  /coaching/sessions       (caller's sessions across projects)
//   - GET  /coaching/leaderboard    (rank by effectiveness within project)
//   - POST /coaching/decision       (record a decision event)
//   - PUT  /coaching/profile        (overwrite learning-profile fields)
//   - PUT  /coaching/effectiveness  (set the effectiveness score)
//
// The session itself is never created explicitly: the first message or
// decision for a (project, user) pair creates it.
//
// Idempotency:
// If the client supplies an Idempotency-Key header on POST /coaching/message
// and a previous successful result exists for (user, project, key), the
// handler returns that recorded message and sets `Idempotency-Replayed: true`.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gmcdash/go-content-backend/internal/domain"
	"github.com/gmcdash/go-content-backend/internal/http/middleware"
	"github.com/gmcdash/go-content-backend/internal/services"
)

//
// DTOs
//

// PostCoachingMessageRequest is the JSON payload for appending a message.
type PostCoachingMessageRequest struct {
	// Sender is "user" or "ai".
	Sender  string `json:"sender" binding:"required" example:"user"`
	Content string `json:"content" binding:"required,min=1" example:"How do I improve my contribution margin?"`
	// ProjectContextTags relate the message to game context (markets, periods).
	ProjectContextTags []string `json:"project_context_tags,omitempty"`
	// AIProvider names the LLM backend for AI messages (empty for user messages).
	AIProvider string `json:"ai_provider,omitempty" example:"anthropic"`
}

// PostCoachingMessageResponse wraps the stored message and the refreshed
// session counters.
type PostCoachingMessageResponse struct {
	Message *domain.CoachingMessage `json:"message"`
	Session *domain.CoachingSession `json:"session"`
}

// ConversationsResponse contains the scoped conversation history in arrival
// order plus the total number of recorded messages.
type ConversationsResponse struct {
	Messages []domain.CoachingMessage `json:"messages"`
	Total    int64                    `json:"total"`
}

// SessionsResponse lists the caller's sessions across projects.
type SessionsResponse struct {
	Sessions []domain.CoachingSession `json:"sessions"`
}

// RecordDecisionRequest is the JSON payload for a decision event.
type RecordDecisionRequest struct {
	ParameterName string  `json:"parameter_name" binding:"required" example:"price_eu"`
	Value         float64 `json:"value"`
	// Frequency weights the event; values below 1 count as 1.
	Frequency   int      `json:"frequency,omitempty"`
	ContextTags []string `json:"context_tags,omitempty"`
}

// UpdateProfileRequest carries the optional learning-profile fields. Absent
// fields keep their stored values.
type UpdateProfileRequest struct {
	StrategyPreferences *domain.StrategyPreferences `json:"strategy_preferences,omitempty"`
	LearningProgress    *domain.LearningProgress    `json:"learning_progress,omitempty"`
	RiskTolerance       *string                     `json:"risk_tolerance,omitempty" example:"moderate"`
}

// UpdateEffectivenessRequest sets the session effectiveness score.
type UpdateEffectivenessRequest struct {
	// Effectiveness must lie within [0, 1].
	Effectiveness *float64 `json:"effectiveness" binding:"required" example:"0.85"`
}

//
// Handlers
//

// PostCoachingMessage godoc
// @ID          postCoachingMessage
// @Summary     Append a coaching message
// @Description Records one conversation message on the caller's session within the project, creating the session on first interaction.
// @Description Supports idempotency via the Idempotency-Key header (same key → same result).
// @Tags        Coaching
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  true   "Caller identity"   example(user123)
// @Param       X-Project-ID     header  string  true   "Project scope"     example(proj-42)
// @Param       Idempotency-Key  header  string  false  "Idempotency key for safe retries (UUID recommended)"
// @Param       body             body    handlers.PostCoachingMessageRequest  true  "Message payload"
//
// @Success     201  {object}  handlers.PostCoachingMessageResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     503  {object}  handlers.ErrorResponse  "Store unavailable"
// @Router      /coaching/message [post]
func (h *Handlers) PostCoachingMessage(c *gin.Context) {
	var req PostCoachingMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "sender and content required")
		return
	}

	idemKey, _ := middleware.GetIdempotencyKey(c)
	if idemKey == "" {
		idemKey = strings.TrimSpace(c.GetHeader(middleware.HeaderIdempotencyKey))
	}
	replay := middleware.IsReplay(c)

	msg, sess, err := h.coachingSvc.AppendMessage(c.Request.Context(), projectScope(c), userID(c), idemKey, services.MessageInput{
		Sender:             domain.Sender(req.Sender),
		Content:            req.Content,
		ProjectContextTags: req.ProjectContextTags,
		AIProvider:         domain.AIProvider(req.AIProvider),
	})
	if err != nil {
		failErr(c, err)
		return
	}

	status := http.StatusCreated
	if replay {
		c.Header("Idempotency-Replayed", "true")
		status = http.StatusOK
	}
	ok(c, status, PostCoachingMessageResponse{Message: msg, Session: sess})
}

// GetConversations godoc
// @ID          getConversations
// @Summary     Get conversation history
// @Description Returns the caller's conversation within the project in arrival order.
// @Tags        Coaching
// @Produce     json
//
// @Param       X-User-ID     header  string  true   "Caller identity"  example(user123)
// @Param       X-Project-ID  header  string  true   "Project scope"    example(proj-42)
// @Param       limit         query   int     false  "Maximum messages" minimum(1) maximum(500) default(100)
//
// @Success     200  {object}  handlers.ConversationsResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "No session for this scope"
// @Failure     503  {object}  handlers.ErrorResponse  "Store unavailable"
// @Router      /coaching/conversations [get]
func (h *Handlers) GetConversations(c *gin.Context) {
	limit := clampLimit(c, 100, 500)
	msgs, total, err := h.coachingSvc.History(c.Request.Context(), projectScope(c), userID(c), limit)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, ConversationsResponse{Messages: msgs, Total: total})
}

// ListSessions godoc
// @ID          listSessions
// @Summary     List the caller's sessions
// @Description Returns the caller's coaching sessions across all projects, most recently active first.
// @Tags        Coaching
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Caller identity"  example(user123)
//
// @Success     200  {object}  handlers.SessionsResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     503  {object}  handlers.ErrorResponse  "Store unavailable"
// @Router      /coaching/sessions [get]
func (h *Handlers) ListSessions(c *gin.Context) {
	sessions, err := h.coachingSvc.ListByUser(c.Request.Context(), userID(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, SessionsResponse{Sessions: sessions})
}

// Leaderboard godoc
// @ID          coachingLeaderboard
// @Summary     Rank sessions by effectiveness
// @Description Returns the project's sessions ordered by coaching effectiveness, best first.
// @Tags        Coaching
// @Produce     json
//
// @Param       X-Project-ID  header  string  true   "Project scope"  example(proj-42)
// @Param       limit         query   int     false  "Maximum rows"   minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.SessionsResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     503  {object}  handlers.ErrorResponse  "Store unavailable"
// @Router      /coaching/leaderboard [get]
func (h *Handlers) Leaderboard(c *gin.Context) {
	limit := clampLimit(c, 20, 100)
	sessions, err := h.coachingSvc.RankByEffectiveness(c.Request.Context(), projectScope(c), limit)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, SessionsResponse{Sessions: sessions})
}

// RecordDecision godoc
// @ID          recordDecision
// @Summary     Record a decision event
// @Description Folds one decision event into the session's per-parameter patterns, creating the session if needed.
// @Tags        Coaching
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID     header  string  true  "Caller identity"  example(user123)
// @Param       X-Project-ID  header  string  true  "Project scope"    example(proj-42)
// @Param       body          body    handlers.RecordDecisionRequest  true  "Decision payload"
//
// @Success     200  {object}  domain.CoachingSession
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     503  {object}  handlers.ErrorResponse  "Store unavailable"
// @Router      /coaching/decision [post]
func (h *Handlers) RecordDecision(c *gin.Context) {
	var req RecordDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "parameter_name required")
		return
	}
	sess, err := h.coachingSvc.RecordDecision(c.Request.Context(), projectScope(c), userID(c), services.DecisionInput{
		ParameterName: req.ParameterName,
		Value:         req.Value,
		Frequency:     req.Frequency,
		ContextTags:   req.ContextTags,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, sess)
}

// UpdateProfile godoc
// @ID          updateCoachingProfile
// @Summary     Update the learning profile
// @Description Overwrites the supplied profile fields (strategy preferences, learning progress, risk tolerance) on the scoped session, creating it if needed.
// @Tags        Coaching
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID     header  string  true  "Caller identity"  example(user123)
// @Param       X-Project-ID  header  string  true  "Project scope"    example(proj-42)
// @Param       body          body    handlers.UpdateProfileRequest  true  "Profile fields"
//
// @Success     200  {object}  domain.CoachingSession
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     503  {object}  handlers.ErrorResponse  "Store unavailable"
// @Router      /coaching/profile [put]
func (h *Handlers) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	in := services.ProfileInput{
		StrategyPreferences: req.StrategyPreferences,
		LearningProgress:    req.LearningProgress,
	}
	if req.RiskTolerance != nil {
		rt := domain.RiskTolerance(*req.RiskTolerance)
		in.RiskTolerance = &rt
	}
	sess, err := h.coachingSvc.UpdateProfile(c.Request.Context(), projectScope(c), userID(c), in)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, sess)
}

// UpdateEffectiveness godoc
// @ID          updateEffectiveness
// @Summary     Set the coaching effectiveness score
// @Description Overwrites the scoped session's effectiveness. Values outside [0, 1] are rejected.
// @Tags        Coaching
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID     header  string  true  "Caller identity"  example(user123)
// @Param       X-Project-ID  header  string  true  "Project scope"    example(proj-42)
// @Param       body          body    handlers.UpdateEffectivenessRequest  true  "Score payload"
//
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request or out of range"
// @Failure     404  {object}  handlers.ErrorResponse  "No session for this scope"
// @Failure     503  {object}  handlers.ErrorResponse  "Store unavailable"
// @Router      /coaching/effectiveness [put]
func (h *Handlers) UpdateEffectiveness(c *gin.Context) {
	var req UpdateEffectivenessRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Effectiveness == nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "effectiveness required")
		return
	}
	if err := h.coachingSvc.UpdateEffectiveness(c.Request.Context(), projectScope(c), userID(c), *req.Effectiveness); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}
