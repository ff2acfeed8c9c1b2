package api

// API limits and constants.
const (
	// MaxBodySize bounds request bodies (1 MB). Sync payloads are the largest.
	MaxBodySize = 1 << 20

	// SessionCookieName carries the admin session token.
	SessionCookieName = "admin_session"
)

// Cache-Control header values.
const (
	CacheCatalog = "public, max-age=60"
	CacheNoStore = "no-store"
)
