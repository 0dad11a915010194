package testutils

import (
	"context"

	"github.com/reverielabs/reverie/pkg/videoai"
)

// MockVideoProvider is a test video understanding backend with canned
// responses.
type MockVideoProvider struct {
	// TaskResult is returned by CreateTask and Task.
	TaskResult videoai.Task

	// VideoList is returned by Videos.
	VideoList []videoai.Video

	// GistResult is returned by Gist.
	GistResult videoai.Gist

	// SummaryText is returned by Summarize.
	SummaryText string

	// AnalysisText is returned by Analyze.
	AnalysisText string

	// Prompts records every prompt passed to Analyze.
	Prompts []string

	// FailWith causes every operation to return this error.
	FailWith error
}

// NewMockVideoProvider creates a mock video provider.
func NewMockVideoProvider() *MockVideoProvider {
	return &MockVideoProvider{
		TaskResult: videoai.Task{ID: "task-1", Status: "pending"},
	}
}

func (m *MockVideoProvider) CreateTask(_ context.Context, _ string) (*videoai.Task, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	task := m.TaskResult
	return &task, nil
}

func (m *MockVideoProvider) Task(_ context.Context, id string) (*videoai.Task, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	task := m.TaskResult
	task.ID = id
	return &task, nil
}

func (m *MockVideoProvider) Videos(_ context.Context) ([]videoai.Video, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	return m.VideoList, nil
}

func (m *MockVideoProvider) Video(_ context.Context, id string) (*videoai.Video, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	for _, v := range m.VideoList {
		if v.ID == id {
			video := v
			return &video, nil
		}
	}
	return &videoai.Video{ID: id}, nil
}

func (m *MockVideoProvider) Gist(_ context.Context, _ string) (*videoai.Gist, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	gist := m.GistResult
	return &gist, nil
}

func (m *MockVideoProvider) Summarize(_ context.Context, _ string) (string, error) {
	if m.FailWith != nil {
		return "", m.FailWith
	}
	return m.SummaryText, nil
}

func (m *MockVideoProvider) Analyze(_ context.Context, _, prompt string) (string, error) {
	if m.FailWith != nil {
		return "", m.FailWith
	}
	m.Prompts = append(m.Prompts, prompt)
	return m.AnalysisText, nil
}
