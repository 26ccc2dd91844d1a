package ai

import (
	"context"
	"math/rand"

	"github.com/AyushS-03/IndieMentor-AI/domain"
)

// cannedReplies are the simulated mentor responses used when no completion
// endpoint is configured.
var cannedReplies = []string{
	"That's a great question! Based on my experience, I'd recommend focusing on these key areas...",
	"I understand your challenge. Here's how I've approached similar situations in the past...",
	"Let me share some insights that might help you with this...",
	"That's an interesting perspective. Have you considered this approach?",
	"I've seen this scenario many times. The key is to...",
}

// CannedResponder implements domain.ChatCompleter with fixed simulated
// replies. It stands in for the real endpoint in unconfigured environments.
type CannedResponder struct{}

// NewCannedResponder creates a new canned responder
func NewCannedResponder() *CannedResponder {
	return &CannedResponder{}
}

// Complete implements domain.ChatCompleter
func (c *CannedResponder) Complete(_ context.Context, _ string, _ []domain.ChatMessage, _ string) (string, error) {
	return cannedReplies[rand.Intn(len(cannedReplies))], nil
}
