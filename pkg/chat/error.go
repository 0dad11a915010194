package chat

import "errors"

var (
	// ErrEmptyPrompt indicates a request with no prompt text.
	ErrEmptyPrompt = errors.New("empty prompt")

	// ErrCompletion indicates the completion backend failed.
	ErrCompletion = errors.New("completion failed")
)
