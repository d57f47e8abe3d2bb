package segmenter

import "github.com/kailas-cloud/segmenter/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidInput    = domain.ErrInvalidInput
	ErrUnknownSegment  = domain.ErrUnknownSegment
	ErrFeatureMismatch = domain.ErrFeatureMismatch
	ErrArtifact        = domain.ErrArtifact
)
