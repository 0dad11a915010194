// Package memstore provides a pluggable long-term memory layer.
//
// Memory drivers distill durable facts from conversation messages and recall
// them on demand. Memories are persistent knowledge derived from what the
// user said — not raw transcripts.
//
// The [Driver] interface is intentionally minimal: Store extracts memories
// from a batch of messages, Search retrieves memories relevant to a query,
// All dumps a user's memories, and Close releases resources. Backend systems
// manage their own lifecycle and eviction policies.
//
// Drivers are pluggable via configuration:
//
//	[memory]
//	provider = "local"   # or "mem0"
package memstore

import "context"

// Message is one conversation message submitted for memory extraction.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Memory represents a distilled, durable piece of knowledge extracted from
// conversations.
type Memory struct {
	// ID identifies the memory in the backing store. Empty for drivers
	// that do not assign ids.
	ID string `json:"id,omitempty"`

	// Content is the extracted memory text.
	Content string `json:"memory"`

	// Score is the relevance score for search results, zero otherwise.
	Score float64 `json:"score,omitempty"`
}

// Driver handles storage and recall of long-term user memory.
type Driver interface {
	// Store persists a batch of conversation messages into memory for the
	// given user. The driver extracts what is worth keeping.
	Store(ctx context.Context, userID string, messages []Message) error

	// Search retrieves memories relevant to the query for the given user.
	Search(ctx context.Context, userID, query string) ([]Memory, error)

	// All returns every memory held for the given user.
	All(ctx context.Context, userID string) ([]Memory, error)

	// Close releases driver resources.
	Close() error
}
