package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/gmcdash/go-content-backend/internal/domain"
)

func newContentDB(t *testing.T) *gorm.DB {
	t.Helper()
	return newSvcDB(t, &domain.ManualContent{})
}

func validManualContent(id string) *domain.ManualContent {
	return &domain.ManualContent{
		DocumentID:       id,
		ContentType:      domain.ContentFormula,
		Title:            "Contribution margin",
		Content:          "Contribution margin equals price minus variable cost.",
		Version:          "1.0",
		Tags:             datatypes.JSONSlice[string]{"finance", "margin"},
		EducationalLevel: domain.LevelBeginner,
	}
}

func TestContent_Create_Validation(t *testing.T) {
	s := NewContentService(newContentDB(t))
	ctx := context.Background()

	mutations := map[string]func(*domain.ManualContent){
		"missing id":      func(r *domain.ManualContent) { r.DocumentID = "  " },
		"missing title":   func(r *domain.ManualContent) { r.Title = "" },
		"missing content": func(r *domain.ManualContent) { r.Content = "" },
		"missing version": func(r *domain.ManualContent) { r.Version = "" },
		"bad type":        func(r *domain.ManualContent) { r.ContentType = "poem" },
		"empty type":      func(r *domain.ManualContent) { r.ContentType = "" },
		"bad level":       func(r *domain.ManualContent) { r.EducationalLevel = "expert" },
	}
	for name, mutate := range mutations {
		rec := validManualContent("doc-1")
		mutate(rec)
		if _, err := s.Create(ctx, rec); !errors.Is(err, ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", name, err)
		}
	}

	// Empty level is optional, not invalid.
	rec := validManualContent("doc-ok")
	rec.EducationalLevel = ""
	if _, err := s.Create(ctx, rec); err != nil {
		t.Fatalf("empty level should pass: %v", err)
	}
}

func TestContent_Create_Duplicate(t *testing.T) {
	s := NewContentService(newContentDB(t))
	ctx := context.Background()

	if _, err := s.Create(ctx, validManualContent("doc-1")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Create(ctx, validManualContent("doc-1")); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestContent_Update(t *testing.T) {
	s := NewContentService(newContentDB(t))
	ctx := context.Background()

	if _, err := s.Update(ctx, validManualContent("ghost")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	created, err := s.Create(ctx, validManualContent("doc-1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	upd := validManualContent("doc-1")
	upd.Title = "Contribution margin (revised)"
	upd.Version = "1.1"
	got, err := s.Update(ctx, upd)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Title != "Contribution margin (revised)" || got.Version != "1.1" {
		t.Fatalf("update not applied: %+v", got)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("created_at moved on update: %v vs %v", got.CreatedAt, created.CreatedAt)
	}
}

func TestContent_GetByID(t *testing.T) {
	s := NewContentService(newContentDB(t))
	ctx := context.Background()

	if _, err := s.GetByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Create(ctx, validManualContent("doc-1")); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := s.GetByID(ctx, "doc-1")
	if err != nil || got.DocumentID != "doc-1" {
		t.Fatalf("GetByID: %+v %v", got, err)
	}
}

func TestContent_Search_FiltersAndRanking(t *testing.T) {
	s := NewContentService(newContentDB(t))
	ctx := context.Background()

	a := validManualContent("doc-a")
	a.Title = "Pricing strategy overview"
	a.Content = "How price elasticity drives market share."
	a.ContentType = domain.ContentStrategyGuide
	a.EducationalLevel = domain.LevelAdvanced
	a.Tags = datatypes.JSONSlice[string]{"pricing"}

	b := validManualContent("doc-b")
	b.Title = "Demand formula"
	b.Content = "Demand as a function of price and advertising."
	b.Tags = datatypes.JSONSlice[string]{"pricing-advanced"}

	c := validManualContent("doc-c")
	c.Title = "Logistics constraints"
	c.Content = "Shipping capacity limits per quarter."
	c.ContentType = domain.ContentConstraint
	c.Tags = datatypes.JSONSlice[string]{"logistics"}

	for _, rec := range []*domain.ManualContent{a, b, c} {
		if _, err := s.Create(ctx, rec); err != nil {
			t.Fatalf("create %s: %v", rec.DocumentID, err)
		}
	}

	byType, err := s.Search(ctx, ContentQuery{ContentType: domain.ContentStrategyGuide})
	if err != nil || len(byType) != 1 || byType[0].DocumentID != "doc-a" {
		t.Fatalf("type filter wrong: %+v %v", byType, err)
	}

	byLevel, err := s.Search(ctx, ContentQuery{EducationalLevel: domain.LevelAdvanced})
	if err != nil || len(byLevel) != 1 || byLevel[0].DocumentID != "doc-a" {
		t.Fatalf("level filter wrong: %+v %v", byLevel, err)
	}

	// Tag matching is exact: "pricing" must not admit "pricing-advanced".
	byTag, err := s.Search(ctx, ContentQuery{Tag: "pricing"})
	if err != nil || len(byTag) != 1 || byTag[0].DocumentID != "doc-a" {
		t.Fatalf("tag filter wrong: %+v %v", byTag, err)
	}

	// A text query orders by relevance and drops non-matching records.
	ranked, err := s.Search(ctx, ContentQuery{Text: "price elasticity"})
	if err != nil {
		t.Fatalf("text search: %v", err)
	}
	if len(ranked) == 0 || ranked[0].DocumentID != "doc-a" {
		t.Fatalf("relevance order wrong: %+v", ranked)
	}
	for _, r := range ranked {
		if r.DocumentID == "doc-c" {
			t.Fatalf("irrelevant record ranked: %+v", ranked)
		}
	}

	// Filters stay AND-ed with the text query.
	both, err := s.Search(ctx, ContentQuery{ContentType: domain.ContentConstraint, Text: "price elasticity"})
	if err != nil {
		t.Fatalf("filtered text search: %v", err)
	}
	if len(both) != 0 {
		t.Fatalf("filter bypassed by text match: %+v", both)
	}

	limited, err := s.Search(ctx, ContentQuery{Text: "price", Limit: 1})
	if err != nil || len(limited) != 1 {
		t.Fatalf("limit not applied: %+v %v", limited, err)
	}
}

// The configured candidate cap bounds how many rows a text query pulls
// before ranking: with a cap of 1, only one record can appear at all.
func TestContent_Search_CandidateCapBoundsTextQuery(t *testing.T) {
	s := NewContentService(newContentDB(t))
	s.CandidateCap = 1
	ctx := context.Background()

	a := validManualContent("doc-a")
	a.Title = "Pricing basics"
	a.Content = "Price levels and elasticity."
	b := validManualContent("doc-b")
	b.Title = "Pricing advanced"
	b.Content = "Price wars and elasticity curves."
	for _, rec := range []*domain.ManualContent{a, b} {
		if _, err := s.Create(ctx, rec); err != nil {
			t.Fatalf("create %s: %v", rec.DocumentID, err)
		}
	}

	got, err := s.Search(ctx, ContentQuery{Text: "price elasticity"})
	if err != nil {
		t.Fatalf("text search: %v", err)
	}
	if len(got) > 1 {
		t.Fatalf("candidate cap not applied: got %d records", len(got))
	}
}

func TestContent_Search_RejectsBadEnums(t *testing.T) {
	s := NewContentService(newContentDB(t))
	ctx := context.Background()

	if _, err := s.Search(ctx, ContentQuery{ContentType: "poem"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for bad type, got %v", err)
	}
	if _, err := s.Search(ctx, ContentQuery{EducationalLevel: "expert"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for bad level, got %v", err)
	}
}
