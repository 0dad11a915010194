// Package chat generates conversational replies about stored video
// memories. Replies are grounded in long-term memory: relevant memories are
// recalled before the completion call and the finished exchange is stored
// back for future recall.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/reverielabs/reverie/pkg/memstore"
	"github.com/reverielabs/reverie/pkg/utils"
)

const (
	// DefaultModel is the chat completion model used when none is
	// configured.
	DefaultModel = "gpt-4o-mini"

	// DefaultPersona frames every reply in the voice of the memory's
	// owner.
	DefaultPersona = "Talk as if you were speaking in first person about your own memories and experiences."

	defaultTemperature = 0.5
	defaultTopP        = 0.9
	defaultMaxTokens   = 200
)

// Completer is the slice of the OpenAI client the chat service needs.
// *openai.Client satisfies it.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Request asks for a reply to a user prompt, optionally grounded in an
// externally supplied context (e.g., a video analysis).
type Request struct {
	// UserID scopes memory recall and storage. Required when the service
	// has a memory driver.
	UserID string `json:"user_id"`

	// Prompt is the user's message.
	Prompt string `json:"prompt"`

	// Context is extra grounding text injected into the system prompt,
	// typically a video summary.
	Context string `json:"context,omitempty"`
}

// Reply is a generated response plus the memories that grounded it.
type Reply struct {
	Text     string            `json:"text"`
	Model    string            `json:"model"`
	Memories []memstore.Memory `json:"memories,omitempty"`
}

// Service produces memory-grounded conversational replies.
type Service struct {
	completer Completer
	memories  memstore.Driver
	model     string
	persona   string
	logger    *slog.Logger
}

// New creates a chat service around a completion backend.
func New(completer Completer, opts ...Option) *Service {
	s := &Service{
		completer: completer,
		model:     DefaultModel,
		persona:   DefaultPersona,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reply generates a response to the prompt. When a memory driver is
// configured, memories relevant to the prompt are recalled into the system
// prompt and the finished exchange is stored back.
func (s *Service) Reply(ctx context.Context, req Request) (*Reply, error) {
	if req.Prompt == "" {
		return nil, fmt.Errorf("%w: prompt is required", ErrEmptyPrompt)
	}

	memories, err := s.recall(ctx, req)
	if err != nil {
		// Recall failures degrade the reply, they don't block it.
		s.logger.Warn("memory recall failed", "error", err)
		memories = nil
	}

	resp, err := s.completer.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: s.systemPrompt(req.Context, memories),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Prompt,
			},
		},
		Temperature: defaultTemperature,
		TopP:        defaultTopP,
		MaxTokens:   defaultMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompletion, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no completion choices returned", ErrCompletion)
	}

	text := resp.Choices[0].Message.Content

	s.remember(ctx, req, text)

	s.logger.Info("generated chat reply",
		"userID", req.UserID,
		"model", s.model,
		"memories", len(memories),
		"prompt", utils.Truncate(req.Prompt, 80),
	)

	return &Reply{
		Text:     text,
		Model:    s.model,
		Memories: memories,
	}, nil
}

func (s *Service) recall(ctx context.Context, req Request) ([]memstore.Memory, error) {
	if s.memories == nil || req.UserID == "" {
		return nil, nil
	}
	return s.memories.Search(ctx, req.UserID, req.Prompt)
}

func (s *Service) remember(ctx context.Context, req Request, reply string) {
	if s.memories == nil || req.UserID == "" {
		return
	}

	err := s.memories.Store(ctx, req.UserID, []memstore.Message{
		{Role: "user", Content: req.Prompt},
		{Role: "assistant", Content: reply},
	})
	if err != nil {
		s.logger.Warn("failed to store chat exchange", "error", err)
	}
}

// systemPrompt assembles the persona, recalled memories, and any caller
// context into a single system message.
func (s *Service) systemPrompt(context string, memories []memstore.Memory) string {
	var b strings.Builder
	b.WriteString(s.persona)

	if len(memories) > 0 {
		b.WriteString("\n\nThings you remember:\n")
		for _, mem := range memories {
			b.WriteString("- ")
			b.WriteString(mem.Content)
			b.WriteString("\n")
		}
	}

	if context != "" {
		b.WriteString("\nContext from your memory:\n")
		b.WriteString(context)
		b.WriteString("\n")
	}

	b.WriteString("\nPlease respond naturally in first person, as if you're recalling and talking about your own memory.")
	return b.String()
}
