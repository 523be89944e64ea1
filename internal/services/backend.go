package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gmcdash/go-content-backend/internal/repo"
)

// wrapStorage translates low-level persistence failures into the service
// taxonomy. Record-level conditions (not found, duplicates, version
// mismatches) pass through untouched for the individual service methods to
// map; everything else is a driver or transport failure surfaced as
// ErrBackendUnavailable so the caller can decide retry vs. user-facing
// failure.
func wrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repo.ErrNotFound) ||
		errors.Is(err, repo.ErrDuplicate) ||
		errors.Is(err, repo.ErrVersionMismatch) ||
		errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return fmt.Errorf("%s: %v: %w", op, err, ErrBackendUnavailable)
}
