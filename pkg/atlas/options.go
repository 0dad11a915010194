package atlas

import "log/slog"

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used by the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCollectionName sets the collection name reported by CollectionStats.
func WithCollectionName(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.collection = name
		}
	}
}

// WithModelName sets the embedding model name reported by CollectionStats.
func WithModelName(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.model = name
		}
	}
}
