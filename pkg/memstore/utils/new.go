// Package utils provides a factory for constructing memory drivers from
// configuration.
package utils

import (
	"fmt"
	"log/slog"

	"github.com/reverielabs/reverie/pkg/memstore"
	"github.com/reverielabs/reverie/pkg/memstore/local"
	"github.com/reverielabs/reverie/pkg/memstore/mem0"
)

// NewDriverOpts carries the configuration needed to construct a memory driver.
type NewDriverOpts struct {
	// ProviderType selects the driver: "local" or "mem0".
	ProviderType string

	// Enabled controls whether memory is active at all.
	Enabled bool

	// Target overrides the mem0 endpoint, mainly for tests.
	Target string

	// APIKey authenticates against hosted providers.
	APIKey string

	// Logger receives driver diagnostics.
	Logger *slog.Logger
}

// NewDriver constructs a memory driver for the given provider type.
func NewDriver(opts NewDriverOpts) (memstore.Driver, error) {
	switch opts.ProviderType {
	case "local", "":
		return local.NewDriver(local.Config{Enabled: opts.Enabled}), nil

	case "mem0":
		return mem0.NewDriver(mem0.Config{
			APIKey:  opts.APIKey,
			BaseURL: opts.Target,
			Logger:  opts.Logger,
		})

	default:
		return nil, fmt.Errorf("unknown memory provider: %q (must be local or mem0)", opts.ProviderType)
	}
}
