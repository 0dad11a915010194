// Package local provides an in-process implementation of the memstore.Driver
// interface.
//
// Memories are the raw text of user messages, keyed by user id. Search is a
// case-insensitive substring match. This is a simple local-dev story —
// hosted backends (e.g., mem0) use ML pipelines to extract and rank
// memories.
package local

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/reverielabs/reverie/pkg/memstore"
)

// Config holds configuration for the local memory driver.
type Config struct {
	// Enabled controls whether the driver stores and recalls memories.
	// When false, Store is a no-op and Search/All return nil.
	Enabled bool
}

// Driver implements memstore.Driver using in-process data structures.
type Driver struct {
	config Config

	mu sync.RWMutex

	// memories maps user id -> memories extracted for that user.
	memories map[string][]memstore.Memory

	nextID int
}

// NewDriver creates a local in-process memory driver.
func NewDriver(config Config) *Driver {
	return &Driver{
		config:   config,
		memories: make(map[string][]memstore.Memory),
	}
}

// Store keeps the text of user-role messages as memories for the user.
// Assistant and system messages are not memorable.
func (d *Driver) Store(_ context.Context, userID string, messages []memstore.Message) error {
	if len(messages) == 0 {
		return nil
	}

	if !d.config.Enabled {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, msg := range messages {
		if msg.Role != "user" || msg.Content == "" {
			continue
		}

		d.nextID++
		d.memories[userID] = append(d.memories[userID], memstore.Memory{
			ID:      fmt.Sprintf("local-%d", d.nextID),
			Content: msg.Content,
		})
	}

	return nil
}

// Search returns the user's memories containing the query, newest last.
// Returns nil if the driver is disabled or nothing matches.
func (d *Driver) Search(_ context.Context, userID, query string) ([]memstore.Memory, error) {
	if !d.config.Enabled {
		return nil, nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	needle := strings.ToLower(query)

	var results []memstore.Memory
	for _, mem := range d.memories[userID] {
		if strings.Contains(strings.ToLower(mem.Content), needle) {
			results = append(results, mem)
		}
	}
	return results, nil
}

// All returns a copy of every memory held for the user.
func (d *Driver) All(_ context.Context, userID string) ([]memstore.Memory, error) {
	if !d.config.Enabled {
		return nil, nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	memories, ok := d.memories[userID]
	if !ok {
		return nil, nil
	}

	// Return a copy to avoid callers mutating internal state.
	result := make([]memstore.Memory, len(memories))
	copy(result, memories)

	return result, nil
}

// Close is a no-op for the in-process driver.
func (d *Driver) Close() error {
	return nil
}
