package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/AyushS-03/IndieMentor-AI/domain"
	"github.com/AyushS-03/IndieMentor-AI/internal/mocks"
)

func testMentor() *domain.Mentor {
	return &domain.Mentor{
		ID:          "mentor-1",
		CreatorID:   "creator-1",
		Name:        "Ada",
		Title:       "Startup Advisor",
		Description: "Twenty years building companies.",
		Expertise:   []string{"fundraising", "product strategy"},
		Status:      domain.MentorActive,
	}
}

func newTestChatService(convRepo *mocks.MockConversationRepository, mentorRepo *mocks.MockMentorRepository, completer *mocks.MockChatCompleter) *ChatService {
	return NewChatService(convRepo, mentorRepo, completer, nil, nil)
}

func TestChatService_LoadOrCreate(t *testing.T) {
	t.Run("creates on first contact and bumps the counter", func(t *testing.T) {
		convRepo := mocks.NewMockConversationRepository()
		mentorRepo := mocks.NewMockMentorRepository()
		svc := newTestChatService(convRepo, mentorRepo, mocks.NewMockChatCompleter())

		conv, err := svc.LoadOrCreate(context.Background(), "user-1", "mentor-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if conv.ID == "" {
			t.Error("expected conversation id assigned")
		}
		if len(conv.Messages) != 0 {
			t.Errorf("expected empty log, got %d messages", len(conv.Messages))
		}
		if mentorRepo.IncrementCalls != 1 {
			t.Errorf("expected 1 counter increment, got %d", mentorRepo.IncrementCalls)
		}
	})

	t.Run("returns the existing conversation without a second increment", func(t *testing.T) {
		convRepo := mocks.NewMockConversationRepository()
		mentorRepo := mocks.NewMockMentorRepository()
		svc := newTestChatService(convRepo, mentorRepo, mocks.NewMockChatCompleter())

		first, _ := svc.LoadOrCreate(context.Background(), "user-1", "mentor-1")
		second, err := svc.LoadOrCreate(context.Background(), "user-1", "mentor-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first.ID != second.ID {
			t.Error("expected the same conversation for the pair")
		}
		if mentorRepo.IncrementCalls != 1 {
			t.Errorf("expected 1 counter increment, got %d", mentorRepo.IncrementCalls)
		}
	})
}

func TestChatService_SendMessage(t *testing.T) {
	t.Run("appends user message and generated reply", func(t *testing.T) {
		convRepo := mocks.NewMockConversationRepository()
		mentorRepo := mocks.NewMockMentorRepository()
		mentorRepo.FindByIDFunc = func(ctx context.Context, id string) (*domain.Mentor, error) {
			return testMentor(), nil
		}
		completer := mocks.NewMockChatCompleter()
		completer.CompleteFunc = func(ctx context.Context, systemPrompt string, history []domain.ChatMessage, userMessage string) (string, error) {
			return "Focus on your runway first.", nil
		}
		svc := newTestChatService(convRepo, mentorRepo, completer)

		messages, err := svc.SendMessage(context.Background(), "user-1", "mentor-1", "How do I raise a seed round?")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(messages) != 2 {
			t.Fatalf("expected user message plus reply, got %d", len(messages))
		}
		if messages[0].Sender != domain.SenderUser || messages[1].Sender != domain.SenderMentor {
			t.Error("expected user then mentor message")
		}
		if messages[1].Content != "Focus on your runway first." {
			t.Errorf("unexpected reply %q", messages[1].Content)
		}

		conv, _ := convRepo.FindByUserAndMentor(context.Background(), "user-1", "mentor-1")
		if len(conv.Messages) != 2 {
			t.Errorf("expected 2 persisted messages, got %d", len(conv.Messages))
		}
	})

	t.Run("persona prompt carries identity and expertise", func(t *testing.T) {
		convRepo := mocks.NewMockConversationRepository()
		mentorRepo := mocks.NewMockMentorRepository()
		mentorRepo.FindByIDFunc = func(ctx context.Context, id string) (*domain.Mentor, error) {
			return testMentor(), nil
		}
		completer := mocks.NewMockChatCompleter()
		svc := newTestChatService(convRepo, mentorRepo, completer)

		if _, err := svc.SendMessage(context.Background(), "user-1", "mentor-1", "Hello"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		prompt := completer.Calls[0].SystemPrompt
		if !strings.Contains(prompt, "You are Ada") {
			t.Errorf("prompt missing mentor name: %q", prompt)
		}
		if !strings.Contains(prompt, "fundraising, product strategy") {
			t.Errorf("prompt missing expertise: %q", prompt)
		}
		if !strings.Contains(prompt, "Twenty years building companies.") {
			t.Errorf("prompt missing background: %q", prompt)
		}
	})

	t.Run("failed completion keeps the user message", func(t *testing.T) {
		convRepo := mocks.NewMockConversationRepository()
		mentorRepo := mocks.NewMockMentorRepository()
		mentorRepo.FindByIDFunc = func(ctx context.Context, id string) (*domain.Mentor, error) {
			return testMentor(), nil
		}
		completer := mocks.NewMockChatCompleter()
		completer.CompleteFunc = func(ctx context.Context, systemPrompt string, history []domain.ChatMessage, userMessage string) (string, error) {
			return "", domain.ErrCompletionFailed
		}
		svc := newTestChatService(convRepo, mentorRepo, completer)

		_, err := svc.SendMessage(context.Background(), "user-1", "mentor-1", "Hello")
		if !errors.Is(err, domain.ErrCompletionFailed) {
			t.Fatalf("expected ErrCompletionFailed, got %v", err)
		}

		conv, _ := convRepo.FindByUserAndMentor(context.Background(), "user-1", "mentor-1")
		if len(conv.Messages) != 1 || conv.Messages[0].Sender != domain.SenderUser {
			t.Errorf("expected only the user message persisted, got %d", len(conv.Messages))
		}
	})

	t.Run("conversation locks are released after the append", func(t *testing.T) {
		convRepo := mocks.NewMockConversationRepository()
		mentorRepo := mocks.NewMockMentorRepository()
		mentorRepo.FindByIDFunc = func(ctx context.Context, id string) (*domain.Mentor, error) {
			return testMentor(), nil
		}
		svc := newTestChatService(convRepo, mentorRepo, mocks.NewMockChatCompleter())

		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := svc.SendMessage(context.Background(), "user-1", "mentor-1", "Hello"); err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()

		svc.mu.Lock()
		remaining := len(svc.locks)
		svc.mu.Unlock()
		if remaining != 0 {
			t.Errorf("expected empty lock registry, got %d entries", remaining)
		}
	})

	t.Run("unknown mentor", func(t *testing.T) {
		svc := newTestChatService(mocks.NewMockConversationRepository(), mocks.NewMockMentorRepository(), mocks.NewMockChatCompleter())
		_, err := svc.SendMessage(context.Background(), "user-1", "missing", "Hello")
		if !errors.Is(err, domain.ErrMentorNotFound) {
			t.Fatalf("expected ErrMentorNotFound, got %v", err)
		}
	})

	t.Run("history sent to the completer excludes the new message", func(t *testing.T) {
		convRepo := mocks.NewMockConversationRepository()
		mentorRepo := mocks.NewMockMentorRepository()
		mentorRepo.FindByIDFunc = func(ctx context.Context, id string) (*domain.Mentor, error) {
			return testMentor(), nil
		}
		completer := mocks.NewMockChatCompleter()
		svc := newTestChatService(convRepo, mentorRepo, completer)

		if _, err := svc.SendMessage(context.Background(), "user-1", "mentor-1", "first"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := svc.SendMessage(context.Background(), "user-1", "mentor-1", "second"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := len(completer.Calls[0].History); got != 0 {
			t.Errorf("first call should have empty history, got %d", got)
		}
		// Second call sees the first exchange but not its own message.
		if got := len(completer.Calls[1].History); got != 2 {
			t.Errorf("second call should see 2 history messages, got %d", got)
		}
		if completer.Calls[1].UserMessage != "second" {
			t.Errorf("unexpected user message %q", completer.Calls[1].UserMessage)
		}
	})
}
