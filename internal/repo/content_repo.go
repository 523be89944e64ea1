// Package repo implements the data persistence layer for the three content
// collections, backed by GORM. This file provides repository functions for
// the ManualContent model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a record is not found, functions return ErrNotFound.
//   - A document_id collision on insert is returned as ErrDuplicate.
//   - On other DB errors, the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/gmcdash/go-content-backend/internal/domain"
)

// ContentFilter narrows a manual-content listing. Zero-valued fields are
// ignored; set fields combine with AND semantics, matching the compound
// (content_type, educational_level) index.
type ContentFilter struct {
	ContentType      domain.ContentType
	EducationalLevel domain.EducationalLevel
	Tag              string
	Limit            int
}

// InsertContent inserts a new ManualContent row. CreatedAt/UpdatedAt are set
// to the same UTC instant. A document_id collision returns ErrDuplicate.
func InsertContent(ctx context.Context, db *gorm.DB, rec *domain.ManualContent) error {
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		if IsDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// UpdateContent overwrites the mutable fields of an existing record matched
// by document_id. CreatedAt and DocumentID are never touched; UpdatedAt is
// refreshed. Re-applying the same update is idempotent with respect to the
// stored state. Returns ErrNotFound when no row matches.
func UpdateContent(ctx context.Context, db *gorm.DB, rec *domain.ManualContent) error {
	rec.UpdatedAt = time.Now().UTC()
	res := db.WithContext(ctx).
		Model(&domain.ManualContent{}).
		Where("document_id = ?", rec.DocumentID).
		Updates(map[string]any{
			"content_type":      rec.ContentType,
			"title":             rec.Title,
			"content":           rec.Content,
			"version":           rec.Version,
			"tags":              rec.Tags,
			"educational_level": rec.EducationalLevel,
			"related_formulas":  rec.RelatedFormulas,
			"updated_at":        rec.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetContent fetches a single record by document_id, or ErrNotFound.
func GetContent(ctx context.Context, db *gorm.DB, documentID string) (*domain.ManualContent, error) {
	var rec domain.ManualContent
	err := db.WithContext(ctx).
		Where("document_id = ?", documentID).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ContentExists reports whether a record with documentID is stored.
func ContentExists(ctx context.Context, db *gorm.DB, documentID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.ManualContent{}).
		Where("document_id = ?", documentID).
		Count(&n).Error
	return n > 0, err
}

// ListContent returns records matching f in identifier order. Text-query
// relevance ranking happens above the repository (see services + search);
// this function only applies the indexed filters.
//
// Tag filtering matches records whose JSON tags array contains the literal
// tag string. SQLite stores JSONSlice columns as JSON text, so a quoted
// LIKE match is used; exactness is re-checked in the service layer.
func ListContent(ctx context.Context, db *gorm.DB, f ContentFilter) ([]domain.ManualContent, error) {
	q := db.WithContext(ctx).Model(&domain.ManualContent{})
	if f.ContentType != "" {
		q = q.Where("content_type = ?", f.ContentType)
	}
	if f.EducationalLevel != "" {
		q = q.Where("educational_level = ?", f.EducationalLevel)
	}
	if f.Tag != "" {
		q = q.Where("tags LIKE ?", `%"`+f.Tag+`"%`)
	}
	q = q.Order("document_id ASC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var out []domain.ManualContent
	err := q.Find(&out).Error
	return out, err
}
