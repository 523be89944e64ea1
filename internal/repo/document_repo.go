// Package repo implements the data persistence layer for the three content
// collections, backed by GORM. This file provides repository functions for
// the ProjectDocument model.
//
// Error semantics:
//   - ErrNotFound when no document matches.
//   - ErrDuplicate on document_id collision at insert.
//   - ErrVersionMismatch when an optimistic-concurrency guarded update
//     touches zero rows while the document itself exists.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/gmcdash/go-content-backend/internal/domain"
)

// ErrVersionMismatch indicates that a guarded update found the document at
// a different version than expected. The stored row is left untouched.
var ErrVersionMismatch = errors.New("version mismatch")

// DocumentFilter narrows a project-document listing. ProjectID is mandatory
// everywhere in this file: documents are never visible across projects.
type DocumentFilter struct {
	DocumentType domain.DocumentType
	AuthorUserID string
	Tag          string
	// Archived filters on the soft-delete flag when non-nil. The store
	// itself applies no default "active only" view; that policy belongs
	// to the caller.
	Archived *bool
	Limit    int
}

// CreateDocument inserts a new ProjectDocument row. Version defaults to 1
// when unset. A document_id collision returns ErrDuplicate.
func CreateDocument(ctx context.Context, db *gorm.DB, doc *domain.ProjectDocument) error {
	now := time.Now().UTC()
	if doc.Version < 1 {
		doc.Version = 1
	}
	doc.CreatedAt = now
	doc.UpdatedAt = now
	if err := db.WithContext(ctx).Create(doc).Error; err != nil {
		if IsDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetDocument fetches a document by id within projectID, or ErrNotFound.
// The project scope is part of the lookup so a valid id from another
// project behaves exactly like a missing one.
func GetDocument(ctx context.Context, db *gorm.DB, projectID, documentID string) (*domain.ProjectDocument, error) {
	var doc domain.ProjectDocument
	err := db.WithContext(ctx).
		Where("document_id = ? AND project_id = ?", documentID, projectID).
		First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// UpdateDocumentContent applies a content revision and bumps version by one.
// When expectedVersion > 0 the UPDATE is guarded on (document_id, project_id,
// version == expectedVersion) for optimistic concurrency; expectedVersion 0
// skips the guard and applies unconditionally. When a guarded write touches
// no rows, the document is re-read to distinguish ErrNotFound from
// ErrVersionMismatch.
func UpdateDocumentContent(ctx context.Context, db *gorm.DB, projectID, documentID string, expectedVersion int, content datatypes.JSON, title string, tags datatypes.JSONSlice[string]) error {
	q := db.WithContext(ctx).
		Model(&domain.ProjectDocument{}).
		Where("document_id = ? AND project_id = ?", documentID, projectID)
	if expectedVersion > 0 {
		q = q.Where("version = ?", expectedVersion)
	}
	res := q.
		Updates(map[string]any{
			"content":    content,
			"title":      title,
			"tags":       tags,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := GetDocument(ctx, db, projectID, documentID); err != nil {
			return ErrNotFound
		}
		return ErrVersionMismatch
	}
	return nil
}

// SetCollaborators replaces the collaborator set of a document.
func SetCollaborators(ctx context.Context, db *gorm.DB, projectID, documentID string, collaborators datatypes.JSONSlice[string]) error {
	res := db.WithContext(ctx).
		Model(&domain.ProjectDocument{}).
		Where("document_id = ? AND project_id = ?", documentID, projectID).
		Updates(map[string]any{
			"collaborators": collaborators,
			"updated_at":    time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetArchived toggles the soft-delete flag. The operation is idempotent:
// archiving an already-archived document succeeds without touching
// updated_at again only when the flag actually changes.
func SetArchived(ctx context.Context, db *gorm.DB, projectID, documentID string, archived bool) error {
	res := db.WithContext(ctx).
		Model(&domain.ProjectDocument{}).
		Where("document_id = ? AND project_id = ? AND is_archived != ?", documentID, projectID, archived).
		Updates(map[string]any{
			"is_archived": archived,
			"updated_at":  time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Flag already in the requested state, or the document is missing.
		if _, err := GetDocument(ctx, db, projectID, documentID); err != nil {
			return ErrNotFound
		}
	}
	return nil
}

// ListDocuments returns the project's documents matching f in identifier
// order. Text relevance ranking happens above the repository.
func ListDocuments(ctx context.Context, db *gorm.DB, projectID string, f DocumentFilter) ([]domain.ProjectDocument, error) {
	q := db.WithContext(ctx).
		Model(&domain.ProjectDocument{}).
		Where("project_id = ?", projectID)
	if f.DocumentType != "" {
		q = q.Where("document_type = ?", f.DocumentType)
	}
	if f.AuthorUserID != "" {
		q = q.Where("author_user_id = ?", f.AuthorUserID)
	}
	if f.Tag != "" {
		q = q.Where("tags LIKE ?", `%"`+f.Tag+`"%`)
	}
	if f.Archived != nil {
		q = q.Where("is_archived = ?", *f.Archived)
	}
	q = q.Order("document_id ASC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var out []domain.ProjectDocument
	err := q.Find(&out).Error
	return out, err
}
