package scriptsearch

import "github.com/kailas-cloud/scriptsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrViewNotFound      = domain.ErrViewNotFound
	ErrInvalidRequest    = domain.ErrInvalidRequest
	ErrUnsupportedLookup = domain.ErrUnsupportedLookup
)
