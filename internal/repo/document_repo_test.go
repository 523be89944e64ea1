package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gmcdash/go-content-backend/internal/domain"
)

// test DB helper
func newDocRepoDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("document_repo_%d.db", time.Now().UnixNano()))
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
	if err := db.AutoMigrate(&domain.ProjectDocument{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func sampleDocument(id, projectID string) *domain.ProjectDocument {
	return &domain.ProjectDocument{
		DocumentID:   id,
		ProjectID:    projectID,
		DocumentType: domain.DocAnalysisNotes,
		Title:        "Market analysis",
		Content:      datatypes.JSON(`{"summary":"initial"}`),
		AuthorUserID: "author-1",
		Tags:         datatypes.JSONSlice[string]{"market", "q3"},
	}
}

func TestCreateDocument_DefaultsAndDuplicate(t *testing.T) {
	db := newDocRepoDB(t)
	ctx := context.Background()

	doc := sampleDocument("doc-1", "p1")
	if err := CreateDocument(ctx, db, doc); err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}
	if doc.Version != 1 {
		t.Fatalf("version default = %d, want 1", doc.Version)
	}
	if doc.CreatedAt.IsZero() || doc.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not set: %+v", doc)
	}

	if err := CreateDocument(ctx, db, sampleDocument("doc-1", "p1")); err != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestGetDocument_ProjectScoped(t *testing.T) {
	db := newDocRepoDB(t)
	ctx := context.Background()

	if err := CreateDocument(ctx, db, sampleDocument("doc-1", "p1")); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := GetDocument(ctx, db, "p1", "doc-1")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if got.Title != "Market analysis" || len(got.Tags) != 2 {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}

	// A valid id under the wrong project behaves like a missing document.
	if _, err := GetDocument(ctx, db, "p2", "doc-1"); err != gorm.ErrRecordNotFound {
		t.Fatalf("expected not found across projects, got %v", err)
	}
}

func TestUpdateDocumentContent_GuardedVersion(t *testing.T) {
	db := newDocRepoDB(t)
	ctx := context.Background()

	if err := CreateDocument(ctx, db, sampleDocument("doc-1", "p1")); err != nil {
		t.Fatalf("create: %v", err)
	}

	newContent := datatypes.JSON(`{"summary":"revised"}`)
	newTags := datatypes.JSONSlice[string]{"market"}
	if err := UpdateDocumentContent(ctx, db, "p1", "doc-1", 1, newContent, "Revised analysis", newTags); err != nil {
		t.Fatalf("guarded update: %v", err)
	}

	got, err := GetDocument(ctx, db, "p1", "doc-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Version != 2 || got.Title != "Revised analysis" {
		t.Fatalf("revision not applied: %+v", got)
	}
	var payload map[string]any
	if err := json.Unmarshal(got.Content, &payload); err != nil || payload["summary"] != "revised" {
		t.Fatalf("content not replaced: %s (%v)", got.Content, err)
	}

	// Stale expected version leaves the row untouched.
	if err := UpdateDocumentContent(ctx, db, "p1", "doc-1", 1, newContent, "Stale", newTags); err != ErrVersionMismatch {
		t.Fatalf("expected ErrVersionMismatch, got %v", err)
	}
	got, _ = GetDocument(ctx, db, "p1", "doc-1")
	if got.Version != 2 || got.Title != "Revised analysis" {
		t.Fatalf("stale write leaked through: %+v", got)
	}

	if err := UpdateDocumentContent(ctx, db, "p1", "missing", 1, newContent, "x", nil); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetCollaborators(t *testing.T) {
	db := newDocRepoDB(t)
	ctx := context.Background()

	if err := CreateDocument(ctx, db, sampleDocument("doc-1", "p1")); err != nil {
		t.Fatalf("create: %v", err)
	}

	collab := datatypes.JSONSlice[string]{"user-2", "user-3"}
	if err := SetCollaborators(ctx, db, "p1", "doc-1", collab); err != nil {
		t.Fatalf("SetCollaborators: %v", err)
	}
	got, _ := GetDocument(ctx, db, "p1", "doc-1")
	if len(got.Collaborators) != 2 || got.Collaborators[0] != "user-2" {
		t.Fatalf("collaborators not replaced: %+v", got.Collaborators)
	}
	if !got.HasAccess("user-3") || got.HasAccess("stranger") {
		t.Fatalf("access check wrong after share: %+v", got.Collaborators)
	}

	if err := SetCollaborators(ctx, db, "p2", "doc-1", collab); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound across projects, got %v", err)
	}
}

func TestSetArchived_Idempotent(t *testing.T) {
	db := newDocRepoDB(t)
	ctx := context.Background()

	if err := CreateDocument(ctx, db, sampleDocument("doc-1", "p1")); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := SetArchived(ctx, db, "p1", "doc-1", true); err != nil {
		t.Fatalf("archive: %v", err)
	}
	got, _ := GetDocument(ctx, db, "p1", "doc-1")
	if !got.IsArchived {
		t.Fatalf("not archived: %+v", got)
	}
	// Archiving again is a no-op, not an error.
	if err := SetArchived(ctx, db, "p1", "doc-1", true); err != nil {
		t.Fatalf("repeat archive: %v", err)
	}
	if err := SetArchived(ctx, db, "p1", "doc-1", false); err != nil {
		t.Fatalf("unarchive: %v", err)
	}
	got, _ = GetDocument(ctx, db, "p1", "doc-1")
	if got.IsArchived {
		t.Fatalf("still archived: %+v", got)
	}

	if err := SetArchived(ctx, db, "p1", "missing", true); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListDocuments_Filters(t *testing.T) {
	db := newDocRepoDB(t)
	ctx := context.Background()

	a := sampleDocument("doc-a", "p1")
	b := sampleDocument("doc-b", "p1")
	b.DocumentType = domain.DocStrategyMemo
	b.AuthorUserID = "author-2"
	b.Tags = datatypes.JSONSlice[string]{"pricing"}
	c := sampleDocument("doc-c", "p1")
	other := sampleDocument("doc-z", "p2")
	for _, doc := range []*domain.ProjectDocument{a, b, c, other} {
		if err := CreateDocument(ctx, db, doc); err != nil {
			t.Fatalf("create %s: %v", doc.DocumentID, err)
		}
	}
	if err := SetArchived(ctx, db, "p1", "doc-c", true); err != nil {
		t.Fatalf("archive: %v", err)
	}

	all, err := ListDocuments(ctx, db, "p1", DocumentFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].DocumentID != "doc-a" || all[2].DocumentID != "doc-c" {
		t.Fatalf("project listing wrong: %+v", all)
	}

	byType, err := ListDocuments(ctx, db, "p1", DocumentFilter{DocumentType: domain.DocStrategyMemo})
	if err != nil || len(byType) != 1 || byType[0].DocumentID != "doc-b" {
		t.Fatalf("type filter wrong: %+v %v", byType, err)
	}

	byAuthor, err := ListDocuments(ctx, db, "p1", DocumentFilter{AuthorUserID: "author-1"})
	if err != nil || len(byAuthor) != 2 {
		t.Fatalf("author filter wrong: %+v %v", byAuthor, err)
	}

	byTag, err := ListDocuments(ctx, db, "p1", DocumentFilter{Tag: "pricing"})
	if err != nil || len(byTag) != 1 || byTag[0].DocumentID != "doc-b" {
		t.Fatalf("tag filter wrong: %+v %v", byTag, err)
	}

	active := false
	activeOnly, err := ListDocuments(ctx, db, "p1", DocumentFilter{Archived: &active})
	if err != nil || len(activeOnly) != 2 {
		t.Fatalf("active filter wrong: %+v %v", activeOnly, err)
	}

	limited, err := ListDocuments(ctx, db, "p1", DocumentFilter{Limit: 1})
	if err != nil || len(limited) != 1 || limited[0].DocumentID != "doc-a" {
		t.Fatalf("limit wrong: %+v %v", limited, err)
	}
}

func TestDocumentsStats(t *testing.T) {
	db := newDocRepoDB(t)
	ctx := context.Background()

	count, maxAt, err := DocumentsStats(ctx, db, "p1")
	if err != nil || count != 0 || maxAt != nil {
		t.Fatalf("empty stats: %d %v %v", count, maxAt, err)
	}

	if err := CreateDocument(ctx, db, sampleDocument("doc-1", "p1")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := CreateDocument(ctx, db, sampleDocument("doc-2", "p2")); err != nil {
		t.Fatalf("create: %v", err)
	}

	count, maxAt, err = DocumentsStats(ctx, db, "p1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if count != 1 || maxAt == nil || maxAt.IsZero() {
		t.Fatalf("stats wrong: %d %v", count, maxAt)
	}
}
