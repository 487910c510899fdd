package constants

import "time"

// Context keys
const (
	ContextKeyActor = "actor"
)

// Authentication
const (
	MinPasswordLength = 8
	TokenLifetime     = 7 * 24 * time.Hour
)

// Pagination
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)
