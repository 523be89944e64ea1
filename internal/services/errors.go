// Package services defines the business logic for the manual content,
// coaching session, and project document stores. This file centralizes the
// service-level error taxonomy so that errors can be consistently returned
// by service methods and checked by callers.
//
// Every error is a stable sentinel: services wrap them with detail via
// fmt.Errorf("...: %w", Err...) and callers branch with errors.Is. The
// translation into user-facing messages or HTTP status codes is performed
// at the handler layer. No error is logged-and-swallowed inside the
// services; everything surfaces to the caller.
package services

import "errors"

var (
	// ErrValidation indicates a missing required field or an enum value
	// outside its declared set. Validation always happens before any
	// persistence attempt, so a validation failure is never partially
	// applied.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateID indicates a unique-identifier collision on insert.
	ErrDuplicateID = errors.New("identifier already exists")

	// ErrNotFound indicates that a lookup by identifier found nothing.
	ErrNotFound = errors.New("record not found")

	// ErrOutOfRange indicates a numeric field outside its declared bound
	// (e.g. an effectiveness score not in [0,1]).
	ErrOutOfRange = errors.New("value out of range")

	// ErrVersionConflict indicates an optimistic-concurrency mismatch on a
	// project-document update; the stored document is left unchanged.
	ErrVersionConflict = errors.New("version conflict")

	// ErrBackendUnavailable indicates a transport or storage failure. It is
	// transient and retryable from the caller's perspective; the services
	// themselves never retry.
	ErrBackendUnavailable = errors.New("storage backend unavailable")
)
