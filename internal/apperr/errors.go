package apperr

import "errors"

// ErrValidation is returned when input or a state guard fails domain validation.
var ErrValidation = errors.New("validation failed")

// ErrConflict indicates a uniqueness or state conflict (HTTP 409),
// including a lost assignment-claim race.
var ErrConflict = errors.New("conflict")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrPermission indicates a mismatched actor/resource pair,
// e.g. a rider acting on another rider's assignment.
var ErrPermission = errors.New("permission denied")

// ErrExternal indicates a failure of an external collaborator
// (notification sink, distance provider).
var ErrExternal = errors.New("external service failure")
