package testutils

import (
	"context"
	"math"

	"github.com/reverielabs/reverie/pkg/vector"
)

// MockVectorDriver is an in-memory vector driver for tests. Add, All,
// Count, and Reset operate on a plain slice; Query ranks stored documents
// by cosine similarity so nearest-neighbor assertions behave like a real
// store.
type MockVectorDriver struct {
	Documents []vector.Document

	// QueryResults, when set, is returned by Query verbatim instead of
	// ranking Documents.
	QueryResults []vector.QueryResult

	// FailWith causes every operation to return this error.
	FailWith error
}

func NewMockVectorDriver() *MockVectorDriver {
	return &MockVectorDriver{}
}

func (m *MockVectorDriver) Add(_ context.Context, docs []vector.Document) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	for _, doc := range docs {
		replaced := false
		for i := range m.Documents {
			if m.Documents[i].ID == doc.ID {
				m.Documents[i] = doc
				replaced = true
				break
			}
		}
		if !replaced {
			m.Documents = append(m.Documents, doc)
		}
	}
	return nil
}

func (m *MockVectorDriver) All(_ context.Context) ([]vector.Document, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	out := make([]vector.Document, len(m.Documents))
	copy(out, m.Documents)
	return out, nil
}

func (m *MockVectorDriver) Query(_ context.Context, embedding []float32, topK int) ([]vector.QueryResult, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	if m.QueryResults != nil {
		return m.QueryResults, nil
	}

	results := make([]vector.QueryResult, 0, len(m.Documents))
	for _, doc := range m.Documents {
		results = append(results, vector.QueryResult{
			Document: doc,
			Score:    cosine(embedding, doc.Embedding),
		})
	}
	for i := 0; i < len(results); i++ {
		for j := i + 1; j < len(results); j++ {
			if results[j].Score > results[i].Score {
				results[i], results[j] = results[j], results[i]
			}
		}
	}
	if topK > 0 && topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

func (m *MockVectorDriver) Count(_ context.Context) (int, error) {
	if m.FailWith != nil {
		return 0, m.FailWith
	}
	return len(m.Documents), nil
}

func (m *MockVectorDriver) Reset(_ context.Context) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.Documents = nil
	return nil
}

func (m *MockVectorDriver) Close() error {
	return nil
}

func cosine(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
