// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict indicates an attempt to replace an entity that may not be replaced.
var ErrConflict = errors.New("conflict")

// ErrValidation indicates a definition or request failed validation.
var ErrValidation = errors.New("validation")
