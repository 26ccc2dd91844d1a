package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AyushS-03/IndieMentor-AI/domain"
	"github.com/AyushS-03/IndieMentor-AI/internal/metrics"
)

// historyWindow caps how much of the message log is replayed to the
// completion endpoint.
const historyWindow = 20

// ChatService produces mentor replies and maintains the per-pair
// conversation logs. Appends are full read-modify-write replacements of the
// message list, serialized per conversation id within this process; across
// processes the last writer wins.
type ChatService struct {
	conversations domain.ConversationRepository
	mentors       domain.MentorRepository
	completer     domain.ChatCompleter
	audit         domain.AuditLogger
	metrics       *metrics.Metrics

	mu    sync.Mutex
	locks map[string]*convLock
}

// convLock is a conversation mutex plus the number of goroutines holding or
// waiting on it. The registry entry is removed when the count drops to zero,
// so idle conversations do not accumulate locks.
type convLock struct {
	sync.Mutex
	refs int
}

// NewChatService creates a new chat service
func NewChatService(
	conversations domain.ConversationRepository,
	mentors domain.MentorRepository,
	completer domain.ChatCompleter,
	audit domain.AuditLogger,
	m *metrics.Metrics,
) *ChatService {
	return &ChatService{
		conversations: conversations,
		mentors:       mentors,
		completer:     completer,
		audit:         audit,
		metrics:       m,
		locks:         make(map[string]*convLock),
	}
}

// LoadOrCreate returns the single conversation for the (user, mentor) pair,
// creating an empty one on first contact. Creation bumps the mentor's
// conversation counter.
func (s *ChatService) LoadOrCreate(ctx context.Context, userID, mentorID string) (*domain.Conversation, error) {
	conv, err := s.conversations.FindByUserAndMentor(ctx, userID, mentorID)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, domain.ErrConversationNotFound) {
		return nil, err
	}

	conv = &domain.Conversation{
		UserID:   userID,
		MentorID: mentorID,
		Messages: []domain.ChatMessage{},
	}
	if err := s.conversations.Create(ctx, conv); err != nil {
		return nil, err
	}
	if err := s.mentors.IncrementConversations(ctx, mentorID); err != nil {
		// The counter is advisory; the conversation itself is already durable.
		s.logEvent(ctx, domain.NewAuditEvent(domain.ChatCompletionFailureEvent).
			WithMetadata("mentor_id", mentorID).WithError(err))
	}
	return conv, nil
}

// ListConversations returns the user's conversations, most recent first.
func (s *ChatService) ListConversations(ctx context.Context, userID string) ([]domain.Conversation, error) {
	convs, err := s.conversations.ListByUser(ctx, userID)
	if err != nil {
		return []domain.Conversation{}, err
	}
	return convs, nil
}

// SendMessage appends the user's message, generates the mentor's reply in the
// mentor's persona and appends that too. Both messages are returned; the
// second is the reply. A failed completion leaves the user message persisted.
func (s *ChatService) SendMessage(ctx context.Context, userID, mentorID, content string) ([]domain.ChatMessage, error) {
	mentor, err := s.mentors.FindByID(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	conv, err := s.LoadOrCreate(ctx, userID, mentorID)
	if err != nil {
		return nil, err
	}

	lock := s.acquire(conv.ID)
	defer s.release(conv.ID, lock)

	// Re-read under the lock so a concurrent append is not clobbered.
	conv, err = s.conversations.FindByUserAndMentor(ctx, userID, mentorID)
	if err != nil {
		return nil, err
	}

	userMsg := domain.ChatMessage{
		ID:        uuid.NewString(),
		Sender:    domain.SenderUser,
		Content:   content,
		Timestamp: time.Now().UTC(),
		Type:      "text",
	}
	history := conv.Messages
	messages := append(conv.Messages, userMsg)
	if err := s.conversations.UpdateMessages(ctx, conv.ID, messages); err != nil {
		return nil, err
	}

	reply, err := s.completer.Complete(ctx, personaPrompt(mentor), tail(history, historyWindow), content)
	if err != nil {
		s.countCompletion("failure")
		s.logEvent(ctx, domain.NewAuditEvent(domain.ChatCompletionFailureEvent).
			WithUser(userID, "").
			WithMetadata("mentor_id", mentorID).
			WithError(err))
		return nil, err
	}

	mentorMsg := domain.ChatMessage{
		ID:        uuid.NewString(),
		Sender:    domain.SenderMentor,
		Content:   reply,
		Timestamp: time.Now().UTC(),
		Type:      "text",
	}
	messages = append(messages, mentorMsg)
	if err := s.conversations.UpdateMessages(ctx, conv.ID, messages); err != nil {
		return nil, err
	}

	s.countCompletion("success")
	s.logEvent(ctx, domain.NewAuditEvent(domain.ChatCompletionEvent).
		WithUser(userID, "").
		WithMetadata("mentor_id", mentorID))
	return []domain.ChatMessage{userMsg, mentorMsg}, nil
}

// acquire takes the append lock for one conversation id, registering it on
// first use.
func (s *ChatService) acquire(conversationID string) *convLock {
	s.mu.Lock()
	lock, ok := s.locks[conversationID]
	if !ok {
		lock = &convLock{}
		s.locks[conversationID] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.Lock()
	return lock
}

// release unlocks and drops the registry entry once no goroutine holds or
// waits on it.
func (s *ChatService) release(conversationID string, lock *convLock) {
	lock.Unlock()

	s.mu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(s.locks, conversationID)
	}
	s.mu.Unlock()
}

// personaPrompt renders the mentor's identity, expertise and background into
// the system prompt that keeps the model in character.
func personaPrompt(mentor *domain.Mentor) string {
	expertise := strings.Join(mentor.Expertise, ", ")
	return fmt.Sprintf(`You are %s, an AI mentor specializing in %s.

Your background: %s

Your personality and communication style:
- Professional yet approachable
- Encouraging and supportive
- Provide actionable advice
- Ask clarifying questions when needed
- Share relevant examples from your expertise
- Keep responses concise but comprehensive
- Always maintain a mentoring tone

Guidelines:
- Stay in character as %s
- Focus on your areas of expertise: %s
- Provide practical, actionable advice
- Be encouraging and motivational
- If asked about topics outside your expertise, acknowledge limitations but offer related insights where possible
- Remember previous conversation context
`, mentor.Name, expertise, mentor.Description, mentor.Name, expertise)
}

// tail returns the last n messages of the log.
func tail(messages []domain.ChatMessage, n int) []domain.ChatMessage {
	if len(messages) <= n {
		return messages
	}
	return messages[len(messages)-n:]
}

func (s *ChatService) logEvent(ctx context.Context, event *domain.AuditEvent) {
	if s.audit != nil {
		_ = s.audit.LogEvent(ctx, event)
	}
}

func (s *ChatService) countCompletion(result string) {
	if s.metrics != nil {
		s.metrics.ChatCompletions.WithLabelValues(result).Inc()
	}
}
