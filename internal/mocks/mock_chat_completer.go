package mocks

import (
	"context"

	"github.com/AyushS-03/IndieMentor-AI/domain"
)

// MockChatCompleter implements domain.ChatCompleter interface for testing
type MockChatCompleter struct {
	CompleteFunc func(ctx context.Context, systemPrompt string, history []domain.ChatMessage, userMessage string) (string, error)

	Calls []CompleteCall
}

// CompleteCall records the arguments of one Complete invocation
type CompleteCall struct {
	SystemPrompt string
	History      []domain.ChatMessage
	UserMessage  string
}

// NewMockChatCompleter creates a new MockChatCompleter
func NewMockChatCompleter() *MockChatCompleter {
	return &MockChatCompleter{}
}

// Complete produces one reply
func (m *MockChatCompleter) Complete(ctx context.Context, systemPrompt string, history []domain.ChatMessage, userMessage string) (string, error) {
	m.Calls = append(m.Calls, CompleteCall{SystemPrompt: systemPrompt, History: history, UserMessage: userMessage})
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, systemPrompt, history, userMessage)
	}
	// Default behavior: a fixed reply
	return "Here is my advice.", nil
}
