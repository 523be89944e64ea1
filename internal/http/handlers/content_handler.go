// Manual content HTTP handlers.
//
// This file exposes REST endpoints for the GMC manual content store:
//   - POST /content          (create a content record)
//   - PUT  /content/{id}     (update an existing record)
//   - GET  /content/{id}     (fetch one record)
//   - GET  /content          (search: filters + optional text relevance, ETag)
//
// It also hosts the shared handler wiring: service contracts, the Handlers
// aggregate, and the identity/scope helpers used across all endpoint files.
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gmcdash/go-content-backend/internal/domain"
	"github.com/gmcdash/go-content-backend/internal/http/middleware"
	"github.com/gmcdash/go-content-backend/internal/repo"
	"github.com/gmcdash/go-content-backend/internal/services"
	"github.com/gmcdash/go-content-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// ContentService defines manual content operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ContentService interface {
	// Create inserts a new content record; duplicate ids are rejected.
	Create(ctx context.Context, rec *domain.ManualContent) (*domain.ManualContent, error)
	// Update overwrites the mutable fields of an existing record.
	Update(ctx context.Context, rec *domain.ManualContent) (*domain.ManualContent, error)
	// GetByID fetches one record by document id.
	GetByID(ctx context.Context, documentID string) (*domain.ManualContent, error)
	// Search filters and optionally relevance-ranks the content store.
	Search(ctx context.Context, q services.ContentQuery) ([]domain.ManualContent, error)
}

// CoachingService defines coaching session operations consumed by HTTP handlers.
type CoachingService interface {
	// AppendMessage records a conversation message, creating the session lazily.
	AppendMessage(ctx context.Context, projectID, userID, idemKey string, in services.MessageInput) (*domain.CoachingMessage, *domain.CoachingSession, error)
	// History returns the scoped conversation in arrival order plus its size.
	History(ctx context.Context, projectID, userID string, limit int) ([]domain.CoachingMessage, int64, error)
	// RecordDecision folds a decision event into the session's patterns.
	RecordDecision(ctx context.Context, projectID, userID string, in services.DecisionInput) (*domain.CoachingSession, error)
	// UpdateProfile overwrites the supplied learning-profile fields.
	UpdateProfile(ctx context.Context, projectID, userID string, in services.ProfileInput) (*domain.CoachingSession, error)
	// UpdateEffectiveness sets the session's effectiveness score in [0,1].
	UpdateEffectiveness(ctx context.Context, projectID, userID string, value float64) error
	// ListByUser returns the caller's sessions across all projects.
	ListByUser(ctx context.Context, userID string) ([]domain.CoachingSession, error)
	// RankByEffectiveness orders a project's sessions for the leaderboard.
	RankByEffectiveness(ctx context.Context, projectID string, limit int) ([]domain.CoachingSession, error)
}

// DocumentService defines project document operations consumed by HTTP handlers.
type DocumentService interface {
	// Create stores a new document within the project scope.
	Create(ctx context.Context, projectID string, in services.DocumentInput) (*domain.ProjectDocument, error)
	// Get fetches one document within the project scope.
	Get(ctx context.Context, projectID, documentID string) (*domain.ProjectDocument, error)
	// Update applies a content revision under optimistic concurrency.
	Update(ctx context.Context, projectID, documentID string, upd services.DocumentUpdate) (*domain.ProjectDocument, error)
	// Share replaces the document's collaborator set.
	Share(ctx context.Context, projectID, documentID string, collaborators []string) (*domain.ProjectDocument, error)
	// SetArchived flips the soft-delete flag.
	SetArchived(ctx context.Context, projectID, documentID string, archived bool) error
	// Authorize reports whether userID may modify the document.
	Authorize(ctx context.Context, projectID, documentID, userID string) (bool, error)
	// Search filters and optionally relevance-ranks the project's documents.
	Search(ctx context.Context, projectID string, q services.DocumentQuery) ([]domain.ProjectDocument, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for manual content, coaching sessions, and
// project documents. It depends on abstract service interfaces to keep
// transport concerns separate from business logic.
type Handlers struct {
	contentSvc  ContentService
	coachingSvc CoachingService
	docSvc      DocumentService

	// searchDefault and searchMax bound the limit parameter on the search
	// endpoints. Zero values fall back to 20 and 100.
	searchDefault int
	searchMax     int
}

// New constructs and returns a Handlers instance bound to the given services.
func New(contentSvc ContentService, coachingSvc CoachingService, docSvc DocumentService) *Handlers {
	return &Handlers{contentSvc: contentSvc, coachingSvc: coachingSvc, docSvc: docSvc}
}

// SetSearchLimits overrides the default and maximum result limits applied to
// the content and document search endpoints.
func (h *Handlers) SetSearchLimits(def, max int) {
	h.searchDefault = def
	h.searchMax = max
}

// searchLimits returns the configured search bounds, defaulting to (20, 100).
func (h *Handlers) searchLimits() (def, max int) {
	def, max = h.searchDefault, h.searchMax
	if def < 1 {
		def = 20
	}
	if max < def {
		max = 100
	}
	return def, max
}

// userID extracts the authenticated user id from Gin context (set by upstream
// middleware). If absent, it falls back to the X-User-ID header (tests use it),
// and finally to "demo-user". It never touches c.Request if it's nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader(middleware.HeaderUserID)); h != "" {
			return h
		}
	}
	return "demo-user"
}

// projectScope returns the validated project id for this request, falling
// back to the raw header when the scoping middleware is not installed
// (unit tests exercise handlers directly).
func projectScope(c *gin.Context) string {
	if pid, ok := middleware.ProjectID(c); ok {
		return pid
	}
	if c != nil && c.Request != nil {
		return strings.TrimSpace(c.GetHeader(middleware.HeaderProjectID))
	}
	return ""
}

// clampLimit parses the limit query parameter and bounds it to (0, max].
func clampLimit(c *gin.Context, def, max int) int {
	return utils.ClampLimit(c.Query("limit"), def, max)
}

//
// DTOs
//

// UpsertContentRequest is the JSON payload for creating or updating a manual
// content record. DocumentID is ignored on update; the path parameter wins.
type UpsertContentRequest struct {
	// DocumentID is the stable identifier, e.g. "manual-section-5.1".
	DocumentID string `json:"document_id" example:"manual-section-5.1"`
	// ContentType classifies the record (section, formula, example, ...).
	ContentType string `json:"content_type" binding:"required" example:"formula"`
	Title       string `json:"title" binding:"required,min=1,max=255" example:"Unit contribution margin"`
	Content     string `json:"content" binding:"required,min=1"`
	// EducationalLevel is optional (beginner, intermediate, advanced).
	EducationalLevel string   `json:"educational_level,omitempty" example:"intermediate"`
	Tags             []string `json:"tags,omitempty"`
	RelatedFormulas  []string `json:"related_formulas,omitempty"`
	// Version is the manual edition this record was authored against.
	Version string `json:"version" binding:"required" example:"2025.1"`
}

// SearchContentResponse contains the matched content records.
type SearchContentResponse struct {
	Results []domain.ManualContent `json:"results"`
	Total   int                    `json:"total"`
}

func (r *UpsertContentRequest) toModel(documentID string) *domain.ManualContent {
	return &domain.ManualContent{
		DocumentID:       documentID,
		ContentType:      domain.ContentType(r.ContentType),
		Title:            strings.TrimSpace(r.Title),
		Content:          r.Content,
		EducationalLevel: domain.EducationalLevel(r.EducationalLevel),
		Tags:             r.Tags,
		RelatedFormulas:  r.RelatedFormulas,
		Version:          strings.TrimSpace(r.Version),
	}
}

//
// Handlers
//

// CreateContent godoc
// @ID          createContent
// @Summary     Create a manual content record
// @Description Stores a new globally visible content record. The document id must be unique.
// @Tags        Content
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.UpsertContentRequest  true  "Content payload"
//
// @Success     201  {object}  domain.ManualContent
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse  "Duplicate document id"
// @Failure     503  {object}  handlers.ErrorResponse  "Store unavailable"
// @Router      /content [post]
func (h *Handlers) CreateContent(c *gin.Context) {
	var req UpsertContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	rec, err := h.contentSvc.Create(c.Request.Context(), req.toModel(strings.TrimSpace(req.DocumentID)))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, rec)
}

// UpdateContent godoc
// @ID          updateContent
// @Summary     Update a manual content record
// @Description Overwrites the mutable fields of an existing record. Repeating the same update is a no-op.
// @Tags        Content
// @Accept      json
// @Produce     json
//
// @Param       id    path  string                         true  "Document ID"  example(manual-section-5.1)
// @Param       body  body  handlers.UpsertContentRequest  true  "Content payload"
//
// @Success     200  {object}  domain.ManualContent
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown document id"
// @Failure     503  {object}  handlers.ErrorResponse  "Store unavailable"
// @Router      /content/{id} [put]
func (h *Handlers) UpdateContent(c *gin.Context) {
	var req UpsertContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	rec, err := h.contentSvc.Update(c.Request.Context(), req.toModel(c.Param("id")))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, rec)
}

// GetContent godoc
// @ID          getContent
// @Summary     Fetch one manual content record
// @Tags        Content
// @Produce     json
//
// @Param       id  path  string  true  "Document ID"  example(manual-section-5.1)
//
// @Success     200  {object}  domain.ManualContent
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown document id"
// @Failure     503  {object}  handlers.ErrorResponse  "Store unavailable"
// @Router      /content/{id} [get]
func (h *Handlers) GetContent(c *gin.Context) {
	rec, err := h.contentSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, rec)
}

// SearchContent godoc
// @ID          searchContent
// @Summary     Search manual content
// @Description Filters by type, level and tag (AND semantics); an optional q parameter switches the order to text relevance. Supports weak ETag via If-None-Match.
// @Tags        Content
// @Produce     json
//
// @Param       type           query   string  false "Content type filter"        example(formula)
// @Param       level          query   string  false "Educational level filter"   example(beginner)
// @Param       tag            query   string  false "Tag filter (exact match)"
// @Param       q              query   string  false "Full-text query"
// @Param       limit          query   int     false "Maximum results"            minimum(1) maximum(100) default(20)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
//
// @Success     200  {object}  handlers.SearchContentResponse
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string "Not Modified"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     503  {object}  handlers.ErrorResponse  "Store unavailable"
// @Router      /content [get]
func (h *Handlers) SearchContent(c *gin.Context) {
	ctx := c.Request.Context()

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, okSvc := h.contentSvc.(*services.ContentService); okSvc {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.ContentStats(ctx, db)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"content:%d:%d"`, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	def, max := h.searchLimits()
	q := services.ContentQuery{
		ContentType:      domain.ContentType(c.Query("type")),
		EducationalLevel: domain.EducationalLevel(c.Query("level")),
		Tag:              c.Query("tag"),
		Text:             c.Query("q"),
		Limit:            clampLimit(c, def, max),
	}
	results, err := h.contentSvc.Search(ctx, q)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, SearchContentResponse{Results: results, Total: len(results)})
}
