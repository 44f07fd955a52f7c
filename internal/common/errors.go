// Package common defines shared constants and sentinel errors used across
// hapi components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Request-shape errors raised by the ingestion pipeline.
	ErrorValidation      = errors.New("validation error")
	ErrorLengthRequired  = errors.New("content length required")
	ErrorPayloadTooLarge = errors.New("payload too large")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
