// Package speech defines the text-to-speech surface used to narrate
// memories aloud.
package speech

import (
	"context"
	"errors"
)

var (
	// ErrNotConfigured indicates the synthesizer is missing required
	// configuration (e.g., an API key).
	ErrNotConfigured = errors.New("speech backend not configured")

	// ErrSynthesis indicates the synthesis backend failed.
	ErrSynthesis = errors.New("speech synthesis failed")
)

// Request is a text-to-speech request. Voice and Model fall back to the
// synthesizer's configured defaults when empty.
type Request struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
	Model string `json:"model,omitempty"`
}

// Alignment maps each character of the synthesized text to its time span
// in the audio.
type Alignment struct {
	Characters []string  `json:"characters"`
	StartTimes []float64 `json:"character_start_times_seconds"`
	EndTimes   []float64 `json:"character_end_times_seconds"`
}

// Synthesis is synthesized audio with character-level timing.
type Synthesis struct {
	// AudioBase64 is the base64-encoded audio payload.
	AudioBase64 string `json:"audio_base64"`

	// Alignment carries per-character timestamps, when the backend
	// provides them.
	Alignment *Alignment `json:"alignment,omitempty"`
}

// Synthesizer converts text into spoken audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) (*Synthesis, error)
}
