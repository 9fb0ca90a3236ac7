package fuzzdex

import "github.com/kailas-cloud/fuzzdex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidRequest = domain.ErrInvalidRequest
	ErrTableNotFound  = domain.ErrTableNotFound
	ErrUnknownField   = domain.ErrUnknownField
)
