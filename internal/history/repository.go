// Package history keeps two small capped lists in the local database:
// recently used prompts and recently used style tags. Both are most-recent-
// first, de-duplicated by exact text match and trimmed to a fixed limit.
package history

import "context"

// Limit is the maximum number of entries kept per list kind.
const Limit = 20

// Kind selects which capped list an operation targets.
type Kind string

const (
	KindPrompt Kind = "prompt"
	KindStyle  Kind = "style"
)

// Repository describes the capped-list operations.
type Repository interface {
	// Add records text at the head of the list. An exact duplicate moves to
	// the head instead of being inserted twice; the list is then trimmed to
	// Limit entries.
	Add(ctx context.Context, kind Kind, text string) error

	// List returns up to Limit entries, most-recent-first.
	List(ctx context.Context, kind Kind) ([]string, error)
}
