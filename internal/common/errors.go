// Package common defines shared constants and sentinel errors used across
// GenStudio components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Precondition errors, rejected before any backend call.
	ErrorEmptyPrompt   = errors.New("prompt is empty and no input image is attached")
	ErrorMissingAPIKey = errors.New("missing API key")
	ErrorBatchSize     = errors.New("batch size must be between 1 and 4")
	ErrorNotAnImage    = errors.New("operation is only valid for image artifacts")

	// Backend response classification.
	ErrorBlocked      = errors.New("blocked by content filters")
	ErrorRefused      = errors.New("request refused by the model")
	ErrorFalseSuccess = errors.New("model reported success but returned no image")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")
)
