// Package elevenlabs implements pkg/speech's Synthesizer against the
// ElevenLabs text-to-speech API.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/reverielabs/reverie/pkg/speech"
)

const (
	// DefaultBaseURL is the hosted ElevenLabs API endpoint.
	DefaultBaseURL = "https://api.elevenlabs.io"

	// DefaultVoice is the Rachel voice id.
	DefaultVoice = "21m00Tcm4TlvDq8ikWAM"

	// DefaultModel is the multilingual synthesis model.
	DefaultModel = "eleven_multilingual_v2"

	// DefaultOutputFormat is 44.1kHz 128kbps MP3.
	DefaultOutputFormat = "mp3_44100_128"

	defaultTimeout = 60 * time.Second
)

// Config holds configuration for the ElevenLabs synthesizer.
type Config struct {
	// APIKey authenticates against the ElevenLabs API. Required.
	APIKey string

	// BaseURL overrides the hosted endpoint, mainly for tests.
	BaseURL string

	// Voice is the default voice id. Defaults to DefaultVoice.
	Voice string

	// Model is the default synthesis model. Defaults to DefaultModel.
	Model string
}

// Synthesizer wraps the ElevenLabs with-timestamps TTS endpoint.
type Synthesizer struct {
	apiKey  string
	baseURL string
	voice   string
	model   string
	client  *http.Client
}

// NewSynthesizer creates an ElevenLabs-backed synthesizer.
func NewSynthesizer(cfg Config) (*Synthesizer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: elevenlabs api key is required", speech.ErrNotConfigured)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	voice := cfg.Voice
	if voice == "" {
		voice = DefaultVoice
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Synthesizer{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		voice:   voice,
		model:   model,
		client:  &http.Client{Timeout: defaultTimeout},
	}, nil
}

type synthesizeRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

type synthesizeResponse struct {
	AudioBase64 string `json:"audio_base64"`
	Alignment   *struct {
		Characters []string  `json:"characters"`
		StartTimes []float64 `json:"character_start_times_seconds"`
		EndTimes   []float64 `json:"character_end_times_seconds"`
	} `json:"alignment"`
}

// Synthesize converts text to audio with character-level timestamps.
func (s *Synthesizer) Synthesize(ctx context.Context, req speech.Request) (*speech.Synthesis, error) {
	if req.Text == "" {
		return nil, fmt.Errorf("%w: text is required", speech.ErrSynthesis)
	}

	voice := req.Voice
	if voice == "" {
		voice = s.voice
	}

	model := req.Model
	if model == "" {
		model = s.model
	}

	body, err := json.Marshal(synthesizeRequest{
		Text:    req.Text,
		ModelID: model,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encoding request: %v", speech.ErrSynthesis, err)
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s/with-timestamps?output_format=%s",
		s.baseURL, url.PathEscape(voice), DefaultOutputFormat)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", speech.ErrSynthesis, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("xi-api-key", s.apiKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: sending request: %v", speech.ErrSynthesis, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: elevenlabs returned status %d: %s", speech.ErrSynthesis, resp.StatusCode, string(respBody))
	}

	var decoded synthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", speech.ErrSynthesis, err)
	}

	out := &speech.Synthesis{AudioBase64: decoded.AudioBase64}
	if decoded.Alignment != nil {
		out.Alignment = &speech.Alignment{
			Characters: decoded.Alignment.Characters,
			StartTimes: decoded.Alignment.StartTimes,
			EndTimes:   decoded.Alignment.EndTimes,
		}
	}
	return out, nil
}
