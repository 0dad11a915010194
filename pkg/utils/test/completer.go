package testutils

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// MockCompleter is a test chat-completion backend that records requests and
// returns a canned reply.
type MockCompleter struct {
	// ReplyText is returned as the single completion choice.
	ReplyText string

	// Requests accumulates every request passed to CreateChatCompletion.
	Requests []openai.ChatCompletionRequest

	// Fail causes CreateChatCompletion to return an error.
	Fail bool
}

// NewMockCompleter creates a mock completer that replies with text.
func NewMockCompleter(text string) *MockCompleter {
	return &MockCompleter{ReplyText: text}
}

func (m *MockCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if m.Fail {
		return openai.ChatCompletionResponse{}, fmt.Errorf("mock completion failure")
	}
	m.Requests = append(m.Requests, req)
	return openai.ChatCompletionResponse{
		Model: req.Model,
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: m.ReplyText,
			}},
		},
	}, nil
}
