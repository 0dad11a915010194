package testutils

import (
	"context"

	"github.com/reverielabs/reverie/pkg/speech"
)

// MockSynthesizer is a test text-to-speech backend with a canned result.
type MockSynthesizer struct {
	// Result is returned by Synthesize.
	Result speech.Synthesis

	// Requests records every request passed to Synthesize.
	Requests []speech.Request

	// FailWith causes Synthesize to return this error.
	FailWith error
}

// NewMockSynthesizer creates a mock synthesizer returning audio.
func NewMockSynthesizer(audioBase64 string) *MockSynthesizer {
	return &MockSynthesizer{
		Result: speech.Synthesis{AudioBase64: audioBase64},
	}
}

func (m *MockSynthesizer) Synthesize(_ context.Context, req speech.Request) (*speech.Synthesis, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.Requests = append(m.Requests, req)
	result := m.Result
	return &result, nil
}
