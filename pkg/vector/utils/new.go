package vectorutils

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/reverielabs/reverie/pkg/vector"
	"github.com/reverielabs/reverie/pkg/vector/chroma"
	"github.com/reverielabs/reverie/pkg/vector/qdrant"
	"github.com/reverielabs/reverie/pkg/vector/sqlitevec"
)

// defaultQdrantPort is Qdrant's gRPC port.
const defaultQdrantPort = 6334

type NewVectorDriverOpts struct {
	ProviderType string
	TargetURL    string
	APIKey       string
	Collection   string
	Dimensions   uint
	Logger       *slog.Logger
}

func NewVectorDriver(o *NewVectorDriverOpts) (vector.Driver, error) {
	switch o.ProviderType {
	case "chroma":
		return chroma.NewDriver(chroma.Config{
			URL:            o.TargetURL,
			CollectionName: o.Collection,
		}, o.Logger)
	case "qdrant":
		host, port, useTLS, err := splitHostPort(o.TargetURL)
		if err != nil {
			return nil, fmt.Errorf("parsing qdrant target: %w", err)
		}
		return qdrant.NewDriver(qdrant.Config{
			Host:           host,
			Port:           port,
			APIKey:         o.APIKey,
			UseTLS:         useTLS,
			CollectionName: o.Collection,
			Dimensions:     o.Dimensions,
		}, o.Logger)
	case "sqlite":
		return sqlitevec.NewDriver(sqlitevec.Config{
			DBPath:     o.TargetURL,
			Dimensions: o.Dimensions,
		}, o.Logger)
	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", o.ProviderType)
	}
}

// splitHostPort parses a qdrant target: either host, host:port, or a URL
// (an https scheme enables TLS).
func splitHostPort(target string) (host string, port int, useTLS bool, err error) {
	if strings.Contains(target, "://") {
		u, err := url.Parse(target)
		if err != nil {
			return "", 0, false, err
		}
		host = u.Hostname()
		port = defaultQdrantPort
		if p := u.Port(); p != "" {
			port, err = strconv.Atoi(p)
			if err != nil {
				return "", 0, false, err
			}
		}
		return host, port, u.Scheme == "https", nil
	}

	host, portStr, splitErr := net.SplitHostPort(target)
	if splitErr != nil {
		// No port in target
		return target, defaultQdrantPort, false, nil
	}
	port, err = strconv.Atoi(portStr)
	return host, port, false, err
}
