package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	storeKeywordsToolName    = "store_keywords"
	storeKeywordsDescription = "Store keywords for an analyzed video as a vector embedding. The keywords become searchable and appear in the 3D memory map."
)

// StoreKeywordsInput represents the input arguments for the store_keywords tool.
type StoreKeywordsInput struct {
	IndexedAssetID string   `json:"indexed_asset_id" jsonschema:"the id of the indexed video asset the keywords describe"`
	Keywords       []string `json:"keywords" jsonschema:"the keywords extracted from the video analysis"`
}

// StoreKeywordsOutput represents the structured output of a keyword store.
type StoreKeywordsOutput struct {
	DocID string `json:"doc_id"`
}

// handleStoreKeywords processes a keyword store request via MCP.
func (s *Server) handleStoreKeywords(ctx context.Context, _ *mcp.CallToolRequest, input StoreKeywordsInput) (*mcp.CallToolResult, StoreKeywordsOutput, error) {
	if input.IndexedAssetID == "" {
		return toolError("indexed_asset_id is required"), StoreKeywordsOutput{}, nil
	}
	if len(input.Keywords) == 0 {
		return toolError("keywords are required"), StoreKeywordsOutput{}, nil
	}

	docID, err := s.config.Atlas.StoreKeywords(ctx, input.IndexedAssetID, input.Keywords, nil)
	if err != nil {
		return toolError(fmt.Sprintf("Failed to store keywords: %v", err)), StoreKeywordsOutput{}, nil
	}

	output := StoreKeywordsOutput{DocID: docID}
	return toolSuccess(output), output, nil
}
