package testutils

import (
	"context"
	"fmt"

	"github.com/reverielabs/reverie/pkg/memstore"
)

// MockMemoryDriver is a test memory driver that records calls and returns
// configurable results.
type MockMemoryDriver struct {
	// StoredMessages accumulates all messages passed to Store, keyed
	// by user id.
	StoredMessages map[string][]memstore.Message

	// SearchResults is returned by Search for any query.
	SearchResults []memstore.Memory

	// SearchQueries records every query passed to Search.
	SearchQueries []string

	// FailStore causes Store to return an error.
	FailStore bool

	// FailSearch causes Search to return an error.
	FailSearch bool
}

// NewMockMemoryDriver creates a new mock memory driver.
func NewMockMemoryDriver() *MockMemoryDriver {
	return &MockMemoryDriver{
		StoredMessages: make(map[string][]memstore.Message),
		SearchResults:  make([]memstore.Memory, 0),
	}
}

func (m *MockMemoryDriver) Store(_ context.Context, userID string, messages []memstore.Message) error {
	if m.FailStore {
		return fmt.Errorf("mock store failure")
	}
	m.StoredMessages[userID] = append(m.StoredMessages[userID], messages...)
	return nil
}

func (m *MockMemoryDriver) Search(_ context.Context, _ string, query string) ([]memstore.Memory, error) {
	if m.FailSearch {
		return nil, fmt.Errorf("mock search failure")
	}
	m.SearchQueries = append(m.SearchQueries, query)
	return m.SearchResults, nil
}

func (m *MockMemoryDriver) All(_ context.Context, userID string) ([]memstore.Memory, error) {
	memories := make([]memstore.Memory, 0, len(m.StoredMessages[userID]))
	for _, msg := range m.StoredMessages[userID] {
		memories = append(memories, memstore.Memory{Content: msg.Content})
	}
	return memories, nil
}

func (m *MockMemoryDriver) Close() error {
	return nil
}
