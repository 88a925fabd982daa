// Package aierrors holds the provider error sentinels in a leaf package so
// the provider subpackages can wrap them without importing internal/ai,
// which imports the providers from its factory.
package aierrors

import "errors"

var (
	ErrProviderUnavailable = errors.New("ai provider unavailable")
	ErrInferenceTimeout    = errors.New("ai inference timeout")
	ErrInvalidResponse     = errors.New("ai provider returned invalid response")
)
