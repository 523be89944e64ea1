// Package services – DocumentService
//
// This file implements the DocumentService, which manages project-scoped
// collaborative documents: creation, optimistic-concurrency content
// revisions, collaborator management, archival, and project-local search.
//
// Every operation takes the project scope explicitly; a document id from a
// different project is indistinguishable from a missing one.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/gmcdash/go-content-backend/internal/domain"
	"github.com/gmcdash/go-content-backend/internal/repo"
	"github.com/gmcdash/go-content-backend/internal/search"
)

// titleCaser renders default document titles from the document type,
// e.g. "analysis_notes" becomes "Analysis Notes".
var titleCaser = cases.Title(language.English)

// DocumentQuery describes a project-document search. Filters combine with
// AND semantics. Archived documents are excluded unless IncludeArchived.
type DocumentQuery struct {
	DocumentType    domain.DocumentType
	AuthorUserID    string
	Tag             string
	Text            string
	IncludeArchived bool
	Limit           int
}

// DocumentInput carries the caller-supplied fields for a new document.
type DocumentInput struct {
	DocumentID    string
	DocumentType  domain.DocumentType
	Title         string
	Content       json.RawMessage
	AuthorUserID  string
	Collaborators []string
	Tags          []string
}

// DocumentUpdate carries a content revision. ExpectedVersion is the version
// the caller last read; when supplied the update applies only if it still
// matches, while 0 (absent) revises unconditionally.
type DocumentUpdate struct {
	ExpectedVersion int
	Content         json.RawMessage
	Title           string
	Tags            []string
}

// DocumentService provides operations on the project document store.
type DocumentService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Ranker orders text-query results by relevance.
	Ranker *search.Ranker
	// CandidateCap bounds the candidate set pulled for a text query.
	// Zero means defaultCandidateCap.
	CandidateCap int
}

// NewDocumentService constructs a DocumentService with a default ranker.
func NewDocumentService(db *gorm.DB) *DocumentService {
	return &DocumentService{
		DB:     db,
		Ranker: search.NewRanker(search.WithStopwords(search.DefaultStopwords)),
	}
}

// isJSONObject reports whether raw parses as a JSON object (not an array,
// string, or scalar). The per-type content schema is not checked here.
func isJSONObject(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(trimmed, "{") {
		return false
	}
	var m map[string]any
	return json.Unmarshal(raw, &m) == nil
}

// Create stores a new document in projectID. The title defaults to a
// humanized form of the document type when empty. A document_id collision
// yields ErrDuplicateID.
func (s *DocumentService) Create(ctx context.Context, projectID string, in DocumentInput) (*domain.ProjectDocument, error) {
	tr := otel.Tracer("services/DocumentService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(
			attribute.String("document.project_id", projectID),
			attribute.String("document.id", in.DocumentID),
			attribute.String("document.type", string(in.DocumentType)),
		),
	)
	defer span.End()

	if strings.TrimSpace(projectID) == "" {
		return nil, fmt.Errorf("project_id is required: %w", ErrValidation)
	}
	if strings.TrimSpace(in.DocumentID) == "" {
		return nil, fmt.Errorf("document_id is required: %w", ErrValidation)
	}
	if !in.DocumentType.Valid() {
		return nil, fmt.Errorf("document_type %q: %w", in.DocumentType, ErrValidation)
	}
	if strings.TrimSpace(in.AuthorUserID) == "" {
		return nil, fmt.Errorf("author_user_id is required: %w", ErrValidation)
	}
	if !isJSONObject(in.Content) {
		return nil, fmt.Errorf("content must be a JSON object: %w", ErrValidation)
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = titleCaser.String(strings.ReplaceAll(string(in.DocumentType), "_", " "))
	}

	doc := &domain.ProjectDocument{
		DocumentID:    in.DocumentID,
		ProjectID:     projectID,
		DocumentType:  in.DocumentType,
		Title:         title,
		Content:       datatypes.JSON(in.Content),
		AuthorUserID:  in.AuthorUserID,
		Collaborators: datatypes.NewJSONSlice(in.Collaborators),
		Tags:          datatypes.NewJSONSlice(in.Tags),
	}
	if err := repo.CreateDocument(ctx, s.DB, doc); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("document_id %q: %w", in.DocumentID, ErrDuplicateID)
		}
		return nil, wrapStorage("create document", err)
	}
	return doc, nil
}

// Get returns the document, or ErrNotFound. Archived documents remain
// readable by id.
func (s *DocumentService) Get(ctx context.Context, projectID, documentID string) (*domain.ProjectDocument, error) {
	doc, err := repo.GetDocument(ctx, s.DB, projectID, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("document %q: %w", documentID, ErrNotFound)
		}
		return nil, wrapStorage("get document", err)
	}
	return doc, nil
}

// Update applies a content revision. With a positive upd.ExpectedVersion the
// write runs under optimistic concurrency: it succeeds only while the stored
// version still equals the expectation, and a stale expectation yields
// ErrVersionConflict leaving the document untouched. ExpectedVersion 0 means
// the caller sent none, and the revision applies unguarded. Either way the
// stored version advances by one.
func (s *DocumentService) Update(ctx context.Context, projectID, documentID string, upd DocumentUpdate) (*domain.ProjectDocument, error) {
	tr := otel.Tracer("services/DocumentService")
	ctx, span := tr.Start(ctx, "Update",
		trace.WithAttributes(
			attribute.String("document.project_id", projectID),
			attribute.String("document.id", documentID),
			attribute.Int("document.expected_version", upd.ExpectedVersion),
		),
	)
	defer span.End()

	if upd.ExpectedVersion < 0 {
		return nil, fmt.Errorf("expected_version must be >= 1 when supplied: %w", ErrValidation)
	}
	if !isJSONObject(upd.Content) {
		return nil, fmt.Errorf("content must be a JSON object: %w", ErrValidation)
	}

	cur, err := s.Get(ctx, projectID, documentID)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(upd.Title)
	if title == "" {
		title = cur.Title
	}
	tags := cur.Tags
	if upd.Tags != nil {
		tags = datatypes.NewJSONSlice(upd.Tags)
	}

	err = repo.UpdateDocumentContent(ctx, s.DB, projectID, documentID,
		upd.ExpectedVersion, datatypes.JSON(upd.Content), title, tags)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, fmt.Errorf("document %q: %w", documentID, ErrNotFound)
		case errors.Is(err, repo.ErrVersionMismatch):
			return nil, fmt.Errorf("document %q at version %d: %w", documentID, upd.ExpectedVersion, ErrVersionConflict)
		default:
			return nil, wrapStorage("update document", err)
		}
	}
	return s.Get(ctx, projectID, documentID)
}

// Share replaces the document's collaborator set. The author always retains
// access regardless of the list contents.
func (s *DocumentService) Share(ctx context.Context, projectID, documentID string, collaborators []string) (*domain.ProjectDocument, error) {
	err := repo.SetCollaborators(ctx, s.DB, projectID, documentID, datatypes.NewJSONSlice(collaborators))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("document %q: %w", documentID, ErrNotFound)
		}
		return nil, wrapStorage("set collaborators", err)
	}
	return s.Get(ctx, projectID, documentID)
}

// SetArchived flips the document's soft-delete flag. Repeating the call
// with the same value is a no-op success.
func (s *DocumentService) SetArchived(ctx context.Context, projectID, documentID string, archived bool) error {
	if err := repo.SetArchived(ctx, s.DB, projectID, documentID, archived); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("document %q: %w", documentID, ErrNotFound)
		}
		return wrapStorage("set archived", err)
	}
	return nil
}

// Authorize reports whether userID may modify the document (author or
// collaborator). Returns ErrNotFound when the document does not exist.
func (s *DocumentService) Authorize(ctx context.Context, projectID, documentID, userID string) (bool, error) {
	doc, err := s.Get(ctx, projectID, documentID)
	if err != nil {
		return false, err
	}
	return doc.HasAccess(userID), nil
}

// Search returns projectID's documents matching q. With a text query the
// order is relevance over title+content text values; otherwise identifier
// order. Archived documents are excluded unless q.IncludeArchived.
func (s *DocumentService) Search(ctx context.Context, projectID string, q DocumentQuery) ([]domain.ProjectDocument, error) {
	tr := otel.Tracer("services/DocumentService")
	ctx, span := tr.Start(ctx, "Search",
		trace.WithAttributes(
			attribute.String("document.project_id", projectID),
			attribute.Bool("document.text_query", q.Text != ""),
		),
	)
	defer span.End()

	if strings.TrimSpace(projectID) == "" {
		return nil, fmt.Errorf("project_id is required: %w", ErrValidation)
	}
	if q.DocumentType != "" && !q.DocumentType.Valid() {
		return nil, fmt.Errorf("document_type %q: %w", q.DocumentType, ErrValidation)
	}

	filter := repo.DocumentFilter{
		DocumentType: q.DocumentType,
		AuthorUserID: q.AuthorUserID,
		Tag:          q.Tag,
		Limit:        q.Limit,
	}
	if !q.IncludeArchived {
		active := false
		filter.Archived = &active
	}
	text := strings.TrimSpace(q.Text)
	if text != "" {
		// Pull a wider candidate set; ranking decides the final order.
		n := s.CandidateCap
		if n < 1 {
			n = defaultCandidateCap
		}
		filter.Limit = n
	}

	rows, err := repo.ListDocuments(ctx, s.DB, projectID, filter)
	if err != nil {
		return nil, wrapStorage("search documents", err)
	}
	rows = filterDocumentTag(rows, q.Tag)

	if text == "" {
		return rows, nil
	}

	docs := make([]search.Document, len(rows))
	byID := make(map[string]domain.ProjectDocument, len(rows))
	for i, r := range rows {
		docs[i] = search.Document{
			ID:    r.DocumentID,
			Title: r.Title,
			Body:  flattenJSONText(r.Content),
		}
		byID[r.DocumentID] = r
	}
	ranked := s.Ranker.Rank(text, docs)

	out := make([]domain.ProjectDocument, 0, len(ranked))
	for _, res := range ranked {
		out = append(out, byID[res.ID])
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
	}
	return out, nil
}

// filterDocumentTag re-checks tag membership exactly after the repository's
// LIKE prefilter over the JSON tags column.
func filterDocumentTag(rows []domain.ProjectDocument, tag string) []domain.ProjectDocument {
	if tag == "" {
		return rows
	}
	out := rows[:0]
	for _, r := range rows {
		for _, t := range r.Tags {
			if t == tag {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// flattenJSONText collects every string value in a JSON document, depth
// first, into one space-joined blob for relevance matching. Numbers and
// booleans are ignored; the content schema is open so only text matters.
func flattenJSONText(raw datatypes.JSON) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	var parts []string
	var walk func(any)
	walk = func(node any) {
		switch n := node.(type) {
		case string:
			parts = append(parts, n)
		case []any:
			for _, e := range n {
				walk(e)
			}
		case map[string]any:
			for _, e := range n {
				walk(e)
			}
		}
	}
	walk(v)
	return strings.Join(parts, " ")
}
