// Package common provides shared utilities and types used across the application.
package common

import "errors"

// Common application errors.
var (
	// Database errors.
	ErrNotFound = errors.New("not found")

	// Input validation errors.
	ErrInvalidPercentage = errors.New("split percentage must be between 0 and 100")
	ErrInvalidAmount     = errors.New("amount must not be negative")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
)
