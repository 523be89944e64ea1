// Package services – ContentService
//
// This file implements the ContentService, which manages the globally
// visible GMC manual content collection. It validates records before any
// persistence attempt, distinguishes insert from update (inserts collide on
// document_id, updates require an existing record), and serves search with
// compound filtering plus relevance ranking for text queries.
//
// Service-level errors (ErrValidation, ErrDuplicateID, ErrNotFound) are
// returned for predictable cases so handlers can map them to HTTP results
// consistently.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/gmcdash/go-content-backend/internal/domain"
	"github.com/gmcdash/go-content-backend/internal/repo"
	"github.com/gmcdash/go-content-backend/internal/search"
)

// defaultCandidateCap bounds how many filtered rows are pulled for
// in-process relevance ranking of a text query when no cap is configured.
// Tunable via SEARCH_CANDIDATE_CAP.
const defaultCandidateCap = 500

// ContentQuery describes a manual-content search. Set filters combine with
// AND semantics; Text switches the result order from identifier order to
// relevance order over title+content.
type ContentQuery struct {
	ContentType      domain.ContentType
	EducationalLevel domain.EducationalLevel
	Tag              string
	Text             string
	Limit            int
}

// ContentService provides operations on the manual content store. There is
// deliberately no delete: manual content is append/curate-only.
type ContentService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Ranker orders text-query results by relevance.
	Ranker *search.Ranker
	// CandidateCap bounds the candidate set pulled for a text query.
	// Zero means defaultCandidateCap.
	CandidateCap int
}

// NewContentService constructs a ContentService with a default ranker.
func NewContentService(db *gorm.DB) *ContentService {
	return &ContentService{
		DB:     db,
		Ranker: search.NewRanker(search.WithStopwords(search.DefaultStopwords)),
	}
}

// validateContent checks the mandatory fields and enum membership shared by
// the insert and update paths. It never touches the database.
func validateContent(rec *domain.ManualContent) error {
	if strings.TrimSpace(rec.DocumentID) == "" {
		return fmt.Errorf("document_id is required: %w", ErrValidation)
	}
	if strings.TrimSpace(rec.Title) == "" {
		return fmt.Errorf("title is required: %w", ErrValidation)
	}
	if strings.TrimSpace(rec.Content) == "" {
		return fmt.Errorf("content is required: %w", ErrValidation)
	}
	if strings.TrimSpace(rec.Version) == "" {
		return fmt.Errorf("version is required: %w", ErrValidation)
	}
	if !rec.ContentType.Valid() {
		return fmt.Errorf("content_type %q: %w", rec.ContentType, ErrValidation)
	}
	if !rec.EducationalLevel.Valid() {
		return fmt.Errorf("educational_level %q: %w", rec.EducationalLevel, ErrValidation)
	}
	return nil
}

// Create inserts a new record. A document_id collision yields ErrDuplicateID.
func (s *ContentService) Create(ctx context.Context, rec *domain.ManualContent) (*domain.ManualContent, error) {
	tr := otel.Tracer("services/ContentService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.String("content.document_id", rec.DocumentID)),
	)
	defer span.End()

	if err := validateContent(rec); err != nil {
		return nil, err
	}
	if err := repo.InsertContent(ctx, s.DB, rec); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("document_id %q: %w", rec.DocumentID, ErrDuplicateID)
		}
		return nil, wrapStorage("insert content", err)
	}
	return rec, nil
}

// Update overwrites the mutable fields of an existing record matched by
// document_id. Re-applying the same update produces the same stored state;
// only updated_at moves. Returns ErrNotFound when the record is missing.
func (s *ContentService) Update(ctx context.Context, rec *domain.ManualContent) (*domain.ManualContent, error) {
	tr := otel.Tracer("services/ContentService")
	ctx, span := tr.Start(ctx, "Update",
		trace.WithAttributes(attribute.String("content.document_id", rec.DocumentID)),
	)
	defer span.End()

	if err := validateContent(rec); err != nil {
		return nil, err
	}
	if err := repo.UpdateContent(ctx, s.DB, rec); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("document_id %q: %w", rec.DocumentID, ErrNotFound)
		}
		return nil, wrapStorage("update content", err)
	}
	return repo.GetContent(ctx, s.DB, rec.DocumentID)
}

// GetByID returns the record for documentID or ErrNotFound.
func (s *ContentService) GetByID(ctx context.Context, documentID string) (*domain.ManualContent, error) {
	rec, err := repo.GetContent(ctx, s.DB, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("document_id %q: %w", documentID, ErrNotFound)
		}
		return nil, wrapStorage("get content", err)
	}
	return rec, nil
}

// Search returns records matching q. With a text query the sequence is
// relevance-ordered over title+content; otherwise it is identifier order.
// A record never appears when it fails one of the AND filters, regardless
// of how well its text matches.
func (s *ContentService) Search(ctx context.Context, q ContentQuery) ([]domain.ManualContent, error) {
	tr := otel.Tracer("services/ContentService")
	ctx, span := tr.Start(ctx, "Search",
		trace.WithAttributes(
			attribute.String("content.type", string(q.ContentType)),
			attribute.String("content.level", string(q.EducationalLevel)),
			attribute.Bool("content.text_query", q.Text != ""),
		),
	)
	defer span.End()

	if q.ContentType != "" && !q.ContentType.Valid() {
		return nil, fmt.Errorf("content_type %q: %w", q.ContentType, ErrValidation)
	}
	if !q.EducationalLevel.Valid() {
		return nil, fmt.Errorf("educational_level %q: %w", q.EducationalLevel, ErrValidation)
	}

	filter := repo.ContentFilter{
		ContentType:      q.ContentType,
		EducationalLevel: q.EducationalLevel,
		Tag:              q.Tag,
		Limit:            q.Limit,
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

	rows, err := repo.ListContent(ctx, s.DB, filter)
	if err != nil {
		return nil, wrapStorage("search content", err)
	}
	rows = filterContentTag(rows, q.Tag)

	if text == "" {
		return rows, nil
	}

	docs := make([]search.Document, len(rows))
	byID := make(map[string]domain.ManualContent, len(rows))
	for i, r := range rows {
		docs[i] = search.Document{ID: r.DocumentID, Title: r.Title, Body: r.Content}
		byID[r.DocumentID] = r
	}
	ranked := s.Ranker.Rank(text, docs)

	out := make([]domain.ManualContent, 0, len(ranked))
	for _, res := range ranked {
		out = append(out, byID[res.ID])
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
	}
	return out, nil
}

// filterContentTag re-checks tag membership exactly. The repository uses a
// quoted LIKE prefilter over the JSON column, which can admit records where
// the tag appears as a substring of another tag.
func filterContentTag(rows []domain.ManualContent, tag string) []domain.ManualContent {
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
