package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	searchToolName    = "search_videos"
	searchDescription = "Search stored video memories by keyword similarity. Returns the most relevant videos for the query text, including their keywords and metadata."
)

// SearchInput represents the input arguments for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query text to find relevant videos"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"number of results to return (default: 10)"`
}

// SearchResult represents a single search result.
type SearchResult struct {
	DocID    string         `json:"doc_id"`
	Score    float32        `json:"score"`
	Keywords string         `json:"keywords"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// SearchOutput represents the output of the search tool.
type SearchOutput struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`
}

// handleSearch processes a search request.
func (s *Server) handleSearch(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	logger := s.config.Logger

	logger.Debug("MCP search request",
		"query", input.Query,
		"topK", input.TopK,
	)

	results, err := s.config.Atlas.Search(ctx, input.Query, input.TopK)
	if err != nil {
		logger.Error("failed to search videos", "error", err)
		return toolError(fmt.Sprintf("Failed to search videos: %v", err)), SearchOutput{}, nil
	}

	searchResults := make([]SearchResult, len(results))
	for i, result := range results {
		searchResults[i] = SearchResult{
			DocID:    result.ID,
			Score:    result.Score,
			Keywords: result.Text,
			Metadata: result.Metadata,
		}
	}

	output := SearchOutput{
		Query:   input.Query,
		Results: searchResults,
		Count:   len(searchResults),
	}

	return toolSuccess(output), output, nil
}

// toolError builds an error tool result with the given message.
func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
	}
}

// toolSuccess serializes the structured output as JSON for the text field.
// Per MCP spec: tools returning structured content should also return
// serialized JSON in a TextContent block for backwards compatibility.
func toolSuccess(output any) *mcp.CallToolResult {
	jsonBytes, err := json.Marshal(output)
	if err != nil {
		return toolError(fmt.Sprintf("Failed to serialize results: %v", err))
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}
}
