// Package errors provides standardized error handling for the arakh world
// engine.
//
// # Core Types
//
//   - AppError: application-level error with HTTP context, error code, and message
//   - ErrorResponse: JSON structure for HTTP inspector error responses
//
// # Usage
//
// Using predefined errors:
//
//	if species == nil {
//	    return errors.ErrSpeciesNotFound
//	}
//
// Wrapping errors with context:
//
//	if err := snapshot.Write(path, doc); err != nil {
//	    return errors.Wrap(errors.ErrSnapshotIO, "failed to write checkpoint", err)
//	}
//
// # Error Categories
//
// Domain-specific errors are defined in domain.go:
//   - Contract violations: ErrUnknownParent, ErrDuplicateID, ErrSpeciesNotFound, etc.
//   - Action refusals: ErrNotAlive, ErrNotMature, ErrNoSuitablePrey, etc.
//   - Snapshot/engine: ErrCorruptSnapshot, ErrSnapshotIO
//   - Auth/session: ErrAuthTokenInvalid, ErrSessionNotFound
//
// Contract violations are fatal at registration time and abort world boot.
// Action refusals are never raised as Go errors — the action kernel returns
// them embedded in a structured ActionResult so a tick never aborts because
// a single action was refused.
package errors
