// Package ai holds the chat completion clients: a real one fronting an
// OpenAI-compatible endpoint and a canned responder for unconfigured
// environments.
package ai

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/AyushS-03/IndieMentor-AI/domain"
)

// GroqClient implements domain.ChatCompleter against an OpenAI-compatible
// chat completion endpoint. No local retry, no streaming; remote failures
// surface to the caller.
type GroqClient struct {
	llm         *openai.LLM
	model       string
	temperature float64
	maxTokens   int
}

// NewGroqClient creates a new completion client
func NewGroqClient(apiKey, baseURL, model string, temperature float64, maxTokens int) (*GroqClient, error) {
	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithBaseURL(baseURL),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize completion client: %w", err)
	}
	return &GroqClient{
		llm:         llm,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}, nil
}

// Complete implements domain.ChatCompleter
func (c *GroqClient) Complete(ctx context.Context, systemPrompt string, history []domain.ChatMessage, userMessage string) (string, error) {
	messages := make([]llms.MessageContent, 0, len(history)+2)
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt))
	for _, msg := range history {
		role := llms.ChatMessageTypeHuman
		if msg.Sender == domain.SenderMentor {
			role = llms.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, msg.Content))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, userMessage))

	resp, err := c.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(c.temperature),
		llms.WithMaxTokens(c.maxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCompletionFailed, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return "", fmt.Errorf("%w: no response generated", domain.ErrCompletionFailed)
	}
	return resp.Choices[0].Content, nil
}
