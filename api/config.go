// Package api provides the HTTP surface for the reverie backend: the
// embedding geometry pipeline, chat, speech, video, and analysis-record
// endpoints, plus the MCP mount.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string
}
