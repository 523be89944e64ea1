// Package repo implements the data persistence layer for the three content
// collections, backed by GORM. This file provides small aggregate queries
// used primarily for conditional responses (ETag generation) in the HTTP
// layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/gmcdash/go-content-backend/internal/domain"
)

// ContentStats returns aggregate metadata for the manual-content collection:
// the total number of rows and the maximum UpdatedAt timestamp. When the
// collection is empty, count is 0 and maxUpdatedAt is nil.
func ContentStats(ctx context.Context, db *gorm.DB) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.ManualContent{})

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

// DocumentsStats returns aggregate metadata for one project's documents:
// the total number of rows and the maximum UpdatedAt timestamp among them.
// When the project has no documents, count is 0 and maxUpdatedAt is nil.
func DocumentsStats(ctx context.Context, db *gorm.DB, projectID string) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.ProjectDocument{}).Where("project_id = ?", projectID)

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
