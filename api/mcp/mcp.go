// Package mcp provides a Model Context Protocol server exposing the
// reverie memory atlas to LLM agents.
package mcp

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/reverielabs/reverie/pkg/atlas"
	"github.com/reverielabs/reverie/pkg/memstore"
	"github.com/reverielabs/reverie/pkg/utils"
)

type Config struct {
	// Atlas is the embedding geometry pipeline backing the search and
	// keyword tools.
	Atlas *atlas.Service

	// MemoryDriver enables the recall_memories tool when set.
	MemoryDriver memstore.Driver

	// Noop for empty MCP server
	Noop bool

	// Logger is the configured slog logger
	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the atlas tools.
func NewServer(c Config) (*Server, error) {
	s := &Server{
		config: c,
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "reverie",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	if c.Noop {
		// return the empty MCP server with no tools configured
		// if the noop flag is set (i.e., MCP capabilities are disabled)
		s.mcpServer = mcpServer
		return s, nil
	}

	if c.Atlas == nil {
		return nil, errors.New("atlas service is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        searchToolName,
		Description: searchDescription,
	}, s.handleSearch)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        storeKeywordsToolName,
		Description: storeKeywordsDescription,
	}, s.handleStoreKeywords)

	if c.MemoryDriver != nil {
		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        recallToolName,
			Description: recallDescription,
		}, s.handleRecall)
	}

	s.mcpServer = mcpServer

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}
