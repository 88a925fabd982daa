package ai

import "github.com/rgummadi/vidscribe/internal/ai/aierrors"

// The sentinels are defined in aierrors so provider subpackages can wrap
// them without creating an import cycle through the factory; these aliases
// keep ai.Err* as the public names with identical error values.
var (
	ErrProviderUnavailable = aierrors.ErrProviderUnavailable
	ErrInferenceTimeout    = aierrors.ErrInferenceTimeout
	ErrInvalidResponse     = aierrors.ErrInvalidResponse
)
