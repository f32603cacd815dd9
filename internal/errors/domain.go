package errors

import (
	"fmt"
	"net/http"
)

// Domain-specific error codes for consistent responses across the engine.

// Contract violations (programmer-facing; fatal at registration time).
var (
	ErrUnknownParent   = &AppError{Code: "UNKNOWN_PARENT", Message: "taxonomy parent not registered", HTTPStatus: http.StatusConflict}
	ErrDuplicateID     = &AppError{Code: "DUPLICATE_ID", Message: "entity already registered under this id", HTTPStatus: http.StatusConflict}
	ErrSpeciesNotFound = &AppError{Code: "SPECIES_NOT_FOUND", Message: "species not found", HTTPStatus: http.StatusNotFound}
	ErrRegionNotFound  = &AppError{Code: "REGION_NOT_FOUND", Message: "region not found", HTTPStatus: http.StatusNotFound}
	ErrCharacterMiss   = &AppError{Code: "CHARACTER_NOT_FOUND", Message: "character not found", HTTPStatus: http.StatusNotFound}
	ErrFamilyTreeMiss  = &AppError{Code: "FAMILY_TREE_NOT_FOUND", Message: "family tree not found", HTTPStatus: http.StatusNotFound}
	ErrMissionNotFound = &AppError{Code: "MISSION_NOT_FOUND", Message: "mission not found", HTTPStatus: http.StatusNotFound}
	ErrPactNotFound    = &AppError{Code: "PACT_NOT_FOUND", Message: "pact not found", HTTPStatus: http.StatusNotFound}
)

// Action refusals (gameplay; returned as structured ActionResult, never raised).
var (
	ErrNotAlive             = &AppError{Code: "NOT_ALIVE", Message: "character is not alive", HTTPStatus: http.StatusOK}
	ErrNotMature            = &AppError{Code: "NOT_MATURE", Message: "character has not reached maturity", HTTPStatus: http.StatusOK}
	ErrWrongRegion          = &AppError{Code: "WRONG_REGION", Message: "target is not reachable from this region", HTTPStatus: http.StatusOK}
	ErrInsufficientEnergy   = &AppError{Code: "INSUFFICIENT_ENERGY", Message: "not enough energy for this action", HTTPStatus: http.StatusOK}
	ErrNoSuitablePrey       = &AppError{Code: "NO_SUITABLE_PREY", Message: "no suitable prey nearby", HTTPStatus: http.StatusOK}
	ErrHabitatIncompatible  = &AppError{Code: "HABITAT_INCOMPATIBLE", Message: "habitats do not overlap", HTTPStatus: http.StatusOK}
	ErrSizeIncompatible     = &AppError{Code: "SIZE_INCOMPATIBLE", Message: "size ratio too extreme", HTTPStatus: http.StatusOK}
	ErrOnCooldown           = &AppError{Code: "ON_COOLDOWN", Message: "character is on cooldown", HTTPStatus: http.StatusOK}
	ErrOnMission            = &AppError{Code: "ON_MISSION", Message: "character is already on a mission", HTTPStatus: http.StatusOK}
	ErrTargetUnreachable    = &AppError{Code: "TARGET_UNREACHABLE", Message: "target is unreachable", HTTPStatus: http.StatusOK}
	ErrNoHuntingInstinct    = &AppError{Code: "NO_HUNTING_INSTINCT", Message: "species has no hunting instinct", HTTPStatus: http.StatusOK}
	ErrResourceAbsent       = &AppError{Code: "RESOURCE_ABSENT", Message: "no such resource in this region", HTTPStatus: http.StatusOK}
	ErrRefused              = &AppError{Code: "REFUSED", Message: "action refused", HTTPStatus: http.StatusOK}
)

// Snapshot / engine errors.
var (
	ErrCorruptSnapshot = &AppError{Code: "CORRUPT_SNAPSHOT", Message: "snapshot could not be parsed", HTTPStatus: http.StatusUnprocessableEntity}
	ErrSnapshotIO      = &AppError{Code: "SNAPSHOT_IO", Message: "snapshot write failed", HTTPStatus: http.StatusServiceUnavailable}
)

// Auth / session errors.
var (
	ErrAuthTokenInvalid = &AppError{Code: "AUTH_TOKEN_INVALID", Message: "authentication token is invalid", HTTPStatus: http.StatusUnauthorized}
	ErrSessionNotFound  = &AppError{Code: "SESSION_NOT_FOUND", Message: "session not found", HTTPStatus: http.StatusNotFound}
)

// NewNotFound returns a NotFound error with a custom message.
func NewNotFound(format string, args ...any) error {
	return &AppError{Code: ErrNotFound.Code, Message: fmt.Sprintf(format, args...), HTTPStatus: ErrNotFound.HTTPStatus}
}

// NewInvalidInput returns an InvalidInput error with a custom message.
func NewInvalidInput(format string, args ...any) error {
	return &AppError{Code: ErrInvalidInput.Code, Message: fmt.Sprintf(format, args...), HTTPStatus: ErrInvalidInput.HTTPStatus}
}

// NewInternalError returns an AppError for internal errors.
func NewInternalError(format string, args ...any) error {
	return &AppError{Code: ErrInternalServer.Code, Message: fmt.Sprintf(format, args...), HTTPStatus: ErrInternalServer.HTTPStatus}
}
