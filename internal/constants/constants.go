package constants

import "time"

// Context keys
const (
	ContextKeyUserID = "user_id"
	ContextKeyUser   = "user"
)

// Auth
const (
	MinPasswordLength = 8
	TokenLifetime     = 24 * time.Hour
)

// Pagination
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Uploads
const (
	// MaxImageSize is the client-side ceiling for blog images.
	MaxImageSize = 5 * 1024 * 1024
)

// ImageExtensions lists the extensions the upload endpoint accepts.
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// DocumentExtensions lists the extensions accepted as onboarding attachments.
var DocumentExtensions = []string{".pdf", ".docx", ".json"}
