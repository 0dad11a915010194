package chat

import (
	"log/slog"

	"github.com/reverielabs/reverie/pkg/memstore"
)

// Option configures a chat Service.
type Option func(*Service)

// WithLogger sets the logger used by the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMemory attaches a long-term memory driver. Replies recall from and
// store back to it.
func WithMemory(driver memstore.Driver) Option {
	return func(s *Service) {
		s.memories = driver
	}
}

// WithModel overrides the completion model.
func WithModel(model string) Option {
	return func(s *Service) {
		if model != "" {
			s.model = model
		}
	}
}

// WithPersona overrides the persona framing the system prompt.
func WithPersona(persona string) Option {
	return func(s *Service) {
		if persona != "" {
			s.persona = persona
		}
	}
}
