// Project document HTTP handlers.
//
// This file exposes REST endpoints for project-scoped collaborative documents:
//   - POST /documents                      (create)
//   - GET  /documents/{id}                 (fetch one)
//   - PUT  /documents/{id}                 (content revision, optimistic concurrency)
//   - PUT  /documents/{id}/collaborators   (author-only share)
//   - POST /documents/{id}/archive         (soft delete)
//   - POST /documents/{id}/unarchive       (restore)
//   - GET  /documents                      (project-scoped search, ETag)
//
// All endpoints require the X-Project-ID header; a valid document id from a
// different project is indistinguishable from a missing one.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gmcdash/go-content-backend/internal/domain"
	"github.com/gmcdash/go-content-backend/internal/repo"
	"github.com/gmcdash/go-content-backend/internal/services"
)

//
// DTOs
//

// CreateDocumentRequest is the JSON payload for creating a project document.
type CreateDocumentRequest struct {
	// DocumentID is the stable identifier, e.g. "analysis-p3-team1".
	DocumentID string `json:"document_id" binding:"required" example:"analysis-p3-team1"`
	// DocumentType classifies the record (analysis_notes, strategy_memo, ...).
	DocumentType string `json:"document_type" binding:"required" example:"analysis_notes"`
	// Title defaults to a humanized form of the document type when empty.
	Title string `json:"title,omitempty" example:"Period 3 market analysis"`
	// Content is a free-form JSON object whose schema varies by type.
	Content       json.RawMessage `json:"content" binding:"required"`
	Collaborators []string        `json:"collaborators,omitempty"`
	Tags          []string        `json:"tags,omitempty"`
}

// UpdateDocumentRequest carries a content revision. ExpectedVersion is the
// version the caller last read; omitting it revises without a version guard.
type UpdateDocumentRequest struct {
	ExpectedVersion int             `json:"expected_version,omitempty" binding:"omitempty,min=1" example:"3"`
	Content         json.RawMessage `json:"content" binding:"required"`
	Title           string          `json:"title,omitempty"`
	Tags            []string        `json:"tags,omitempty"`
}

// ShareDocumentRequest replaces the document's collaborator set.
type ShareDocumentRequest struct {
	Collaborators []string `json:"collaborators" binding:"required"`
}

// SearchDocumentsResponse contains the matched project documents.
type SearchDocumentsResponse struct {
	Results []domain.ProjectDocument `json:"results"`
	Total   int                      `json:"total"`
}

//
// Handlers
//

// CreateDocument godoc
// @ID          createDocument
// @Summary     Create a project document
// @Description Stores a new document within the project scope. The caller becomes the author.
// @Tags        Documents
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID     header  string  true  "Caller identity (author)"  example(user123)
// @Param       X-Project-ID  header  string  true  "Project scope"             example(proj-42)
// @Param       body          body    handlers.CreateDocumentRequest  true  "Document payload"
//
// @Success     201  {object}  domain.ProjectDocument
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse  "Duplicate document id"
// @Failure     503  {object}  handlers.ErrorResponse  "Store unavailable"
// @Router      /documents [post]
func (h *Handlers) CreateDocument(c *gin.Context) {
	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "document_id, document_type and content required")
		return
	}
	doc, err := h.docSvc.Create(c.Request.Context(), projectScope(c), services.DocumentInput{
		DocumentID:    strings.TrimSpace(req.DocumentID),
		DocumentType:  domain.DocumentType(req.DocumentType),
		Title:         req.Title,
		Content:       req.Content,
		AuthorUserID:  userID(c),
		Collaborators: req.Collaborators,
		Tags:          req.Tags,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, doc)
}

// GetDocument godoc
// @ID          getDocument
// @Summary     Fetch one project document
// @Description Returns the document by id within the project scope. Archived documents remain readable.
// @Tags        Documents
// @Produce     json
//
// @Param       X-Project-ID  header  string  true  "Project scope"  example(proj-42)
// @Param       id            path    string  true  "Document ID"    example(analysis-p3-team1)
//
// @Success     200  {object}  domain.ProjectDocument
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown document id"
// @Failure     503  {object}  handlers.ErrorResponse  "Store unavailable"
// @Router      /documents/{id} [get]
func (h *Handlers) GetDocument(c *gin.Context) {
	doc, err := h.docSvc.Get(c.Request.Context(), projectScope(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, doc)
}

// UpdateDocument godoc
// @ID          updateDocument
// @Summary     Revise a project document
// @Description Applies a content revision, bumping the version by one. When expected_version
// @Description is supplied the write succeeds only while the stored version still equals it;
// @Description omitting it revises unconditionally.
// @Description Only the author or a collaborator may revise a document.
// @Tags        Documents
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID     header  string  true  "Caller identity"  example(user123)
// @Param       X-Project-ID  header  string  true  "Project scope"    example(proj-42)
// @Param       id            path    string  true  "Document ID"      example(analysis-p3-team1)
// @Param       body          body    handlers.UpdateDocumentRequest  true  "Revision payload"
//
// @Success     200  {object}  domain.ProjectDocument
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     403  {object}  handlers.ErrorResponse  "Caller has no access"
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown document id"
// @Failure     409  {object}  handlers.ErrorResponse  "Version conflict"
// @Failure     503  {object}  handlers.ErrorResponse  "Store unavailable"
// @Router      /documents/{id} [put]
func (h *Handlers) UpdateDocument(c *gin.Context) {
	var req UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required; expected_version must be >= 1 when supplied")
		return
	}

	pid, docID := projectScope(c), c.Param("id")
	allowed, err := h.docSvc.Authorize(c.Request.Context(), pid, docID, userID(c))
	if err != nil {
		failErr(c, err)
		return
	}
	if !allowed {
		fail(c, http.StatusForbidden, ErrCodeForbidden, "caller is not an author or collaborator")
		return
	}

	doc, err := h.docSvc.Update(c.Request.Context(), pid, docID, services.DocumentUpdate{
		ExpectedVersion: req.ExpectedVersion,
		Content:         req.Content,
		Title:           req.Title,
		Tags:            req.Tags,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, doc)
}

// ShareDocument godoc
// @ID          shareDocument
// @Summary     Replace a document's collaborators
// @Description Replaces the collaborator set. Only the author may share; authorship itself never moves.
// @Tags        Documents
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID     header  string  true  "Caller identity (must be the author)"  example(user123)
// @Param       X-Project-ID  header  string  true  "Project scope"                         example(proj-42)
// @Param       id            path    string  true  "Document ID"                           example(analysis-p3-team1)
// @Param       body          body    handlers.ShareDocumentRequest  true  "Collaborator list"
//
// @Success     200  {object}  domain.ProjectDocument
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     403  {object}  handlers.ErrorResponse  "Caller is not the author"
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown document id"
// @Failure     503  {object}  handlers.ErrorResponse  "Store unavailable"
// @Router      /documents/{id}/collaborators [put]
func (h *Handlers) ShareDocument(c *gin.Context) {
	var req ShareDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "collaborators required")
		return
	}

	pid, docID := projectScope(c), c.Param("id")
	cur, err := h.docSvc.Get(c.Request.Context(), pid, docID)
	if err != nil {
		failErr(c, err)
		return
	}
	if cur.AuthorUserID != userID(c) {
		fail(c, http.StatusForbidden, ErrCodeForbidden, "only the author can share a document")
		return
	}

	doc, err := h.docSvc.Share(c.Request.Context(), pid, docID, req.Collaborators)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, doc)
}

// ArchiveDocument godoc
// @ID          archiveDocument
// @Summary     Archive a project document
// @Description Soft-deletes the document. Archived documents stay readable by id and are excluded from default search.
// @Tags        Documents
// @Produce     json
//
// @Param       X-Project-ID  header  string  true  "Project scope"  example(proj-42)
// @Param       id            path    string  true  "Document ID"    example(analysis-p3-team1)
//
// @Success     204  {string}  string  "No Content"
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown document id"
// @Failure     503  {object}  handlers.ErrorResponse  "Store unavailable"
// @Router      /documents/{id}/archive [post]
func (h *Handlers) ArchiveDocument(c *gin.Context) {
	if err := h.docSvc.SetArchived(c.Request.Context(), projectScope(c), c.Param("id"), true); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// UnarchiveDocument godoc
// @ID          unarchiveDocument
// @Summary     Restore an archived document
// @Tags        Documents
// @Produce     json
//
// @Param       X-Project-ID  header  string  true  "Project scope"  example(proj-42)
// @Param       id            path    string  true  "Document ID"    example(analysis-p3-team1)
//
// @Success     204  {string}  string  "No Content"
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown document id"
// @Failure     503  {object}  handlers.ErrorResponse  "Store unavailable"
// @Router      /documents/{id}/unarchive [post]
func (h *Handlers) UnarchiveDocument(c *gin.Context) {
	if err := h.docSvc.SetArchived(c.Request.Context(), projectScope(c), c.Param("id"), false); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// SearchDocuments godoc
// @ID          searchDocuments
// @Summary     Search project documents
// @Description Filters the project's documents by type, author and tag (AND semantics); an optional q parameter
// @Description switches the order to text relevance. Archived documents are excluded unless include_archived=true.
// @Description Supports weak ETag via If-None-Match.
// @Tags        Documents
// @Produce     json
//
// @Param       X-Project-ID      header  string  true   "Project scope"              example(proj-42)
// @Param       type              query   string  false  "Document type filter"       example(strategy_memo)
// @Param       author            query   string  false  "Author user id filter"
// @Param       tag               query   string  false  "Tag filter (exact match)"
// @Param       q                 query   string  false  "Full-text query"
// @Param       include_archived  query   bool    false  "Include archived documents"
// @Param       limit             query   int     false  "Maximum results"            minimum(1) maximum(100) default(20)
// @Param       If-None-Match     header  string  false  "Return 304 if ETag matches"
//
// @Success     200  {object}  handlers.SearchDocumentsResponse
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string  "Not Modified"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     503  {object}  handlers.ErrorResponse  "Store unavailable"
// @Router      /documents [get]
func (h *Handlers) SearchDocuments(c *gin.Context) {
	ctx := c.Request.Context()
	pid := projectScope(c)

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, okSvc := h.docSvc.(*services.DocumentService); okSvc {
		db = svc.DB
	}
	if db != nil && pid != "" {
		count, maxTS, err := repo.DocumentsStats(ctx, db, pid)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"documents:%s:%d:%d"`, pid, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	def, max := h.searchLimits()
	q := services.DocumentQuery{
		DocumentType:    domain.DocumentType(c.Query("type")),
		AuthorUserID:    c.Query("author"),
		Tag:             c.Query("tag"),
		Text:            c.Query("q"),
		IncludeArchived: c.Query("include_archived") == "true",
		Limit:           clampLimit(c, def, max),
	}
	results, err := h.docSvc.Search(ctx, pid, q)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, SearchDocumentsResponse{Results: results, Total: len(results)})
}
