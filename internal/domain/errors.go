package domain

import "errors"

var (
	// ErrInvalidInput signals a customer profile that fails form validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownSegment signals a cluster label with no business meaning attached.
	ErrUnknownSegment = errors.New("unknown segment")
	// ErrFeatureMismatch signals a feature vector that does not match the artifact layout.
	ErrFeatureMismatch = errors.New("feature mismatch")
	// ErrArtifact signals a missing or malformed model artifact.
	ErrArtifact = errors.New("invalid artifact")
)
