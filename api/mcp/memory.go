package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/reverielabs/reverie/pkg/memstore"
)

var (
	recallToolName    = "recall_memories"
	recallDescription = "Recall long-term memories for a user. Given a user id and a query, returns the stored memories most relevant to the query. Use this to retrieve persistent knowledge from past conversations."
)

// RecallInput represents the input arguments for the recall_memories tool.
type RecallInput struct {
	UserID string `json:"user_id" jsonschema:"the user whose memories to search"`
	Query  string `json:"query" jsonschema:"the text to find relevant memories for"`
}

// RecallOutput represents the structured output of a memory recall.
type RecallOutput struct {
	Memories []memstore.Memory `json:"memories"`
}

// handleRecall processes a memory recall request via MCP.
func (s *Server) handleRecall(ctx context.Context, _ *mcp.CallToolRequest, input RecallInput) (*mcp.CallToolResult, RecallOutput, error) {
	if input.UserID == "" {
		return toolError("user_id is required"), RecallOutput{}, nil
	}

	memories, err := s.config.MemoryDriver.Search(ctx, input.UserID, input.Query)
	if err != nil {
		return toolError(fmt.Sprintf("Memory recall failed: %v", err)), RecallOutput{}, nil
	}

	if memories == nil {
		memories = []memstore.Memory{}
	}

	output := RecallOutput{Memories: memories}
	return toolSuccess(output), output, nil
}
