package mocks

import (
	"context"

	"github.com/AyushS-03/IndieMentor-AI/domain"
)

// MockProfileRepository implements domain.ProfileRepository interface for testing
type MockProfileRepository struct {
	CreateFunc   func(ctx context.Context, profile *domain.Profile) error
	FindByIDFunc func(ctx context.Context, id string) (*domain.Profile, error)
	UpdateFunc   func(ctx context.Context, profile *domain.Profile) error

	UpdateCalls int
}

// NewMockProfileRepository creates a new MockProfileRepository
func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{}
}

// Create creates a profile row
func (m *MockProfileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, profile)
	}
	return nil
}

// FindByID finds a profile by id
func (m *MockProfileRepository) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrProfileNotFound
}

// Update updates a profile row
func (m *MockProfileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	m.UpdateCalls++
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, profile)
	}
	return nil
}

// MockMentorRepository implements domain.MentorRepository interface for testing
type MockMentorRepository struct {
	CreateFunc                 func(ctx context.Context, mentor *domain.Mentor) error
	FindByIDFunc               func(ctx context.Context, id string) (*domain.Mentor, error)
	ListActiveFunc             func(ctx context.Context) ([]domain.Mentor, error)
	ListByCreatorFunc          func(ctx context.Context, creatorID string) ([]domain.Mentor, error)
	UpdateFunc                 func(ctx context.Context, id string, patch domain.MentorPatch) error
	DeleteFunc                 func(ctx context.Context, id string) error
	IncrementConversationsFunc func(ctx context.Context, id string) error

	IncrementCalls int
}

// NewMockMentorRepository creates a new MockMentorRepository
func NewMockMentorRepository() *MockMentorRepository {
	return &MockMentorRepository{}
}

// Create creates a mentor row
func (m *MockMentorRepository) Create(ctx context.Context, mentor *domain.Mentor) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, mentor)
	}
	return nil
}

// FindByID finds a mentor by id
func (m *MockMentorRepository) FindByID(ctx context.Context, id string) (*domain.Mentor, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrMentorNotFound
}

// ListActive lists active mentors
func (m *MockMentorRepository) ListActive(ctx context.Context) ([]domain.Mentor, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	return []domain.Mentor{}, nil
}

// ListByCreator lists a creator's mentors
func (m *MockMentorRepository) ListByCreator(ctx context.Context, creatorID string) ([]domain.Mentor, error) {
	if m.ListByCreatorFunc != nil {
		return m.ListByCreatorFunc(ctx, creatorID)
	}
	return []domain.Mentor{}, nil
}

// Update patches a mentor row
func (m *MockMentorRepository) Update(ctx context.Context, id string, patch domain.MentorPatch) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, patch)
	}
	return nil
}

// Delete removes a mentor row
func (m *MockMentorRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// IncrementConversations bumps the conversation counter
func (m *MockMentorRepository) IncrementConversations(ctx context.Context, id string) error {
	m.IncrementCalls++
	if m.IncrementConversationsFunc != nil {
		return m.IncrementConversationsFunc(ctx, id)
	}
	return nil
}

// MockSubscriptionRepository implements domain.SubscriptionRepository interface for testing
type MockSubscriptionRepository struct {
	CreateFunc     func(ctx context.Context, sub *domain.Subscription) error
	FindActiveFunc func(ctx context.Context, userID, mentorID string) (*domain.Subscription, error)
	ListByUserFunc func(ctx context.Context, userID string) ([]domain.Subscription, error)
}

// NewMockSubscriptionRepository creates a new MockSubscriptionRepository
func NewMockSubscriptionRepository() *MockSubscriptionRepository {
	return &MockSubscriptionRepository{}
}

// Create creates a subscription row
func (m *MockSubscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, sub)
	}
	return nil
}

// FindActive finds an unexpired subscription
func (m *MockSubscriptionRepository) FindActive(ctx context.Context, userID, mentorID string) (*domain.Subscription, error) {
	if m.FindActiveFunc != nil {
		return m.FindActiveFunc(ctx, userID, mentorID)
	}
	return nil, domain.ErrSubscriptionNotFound
}

// ListByUser lists a user's subscriptions
func (m *MockSubscriptionRepository) ListByUser(ctx context.Context, userID string) ([]domain.Subscription, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return []domain.Subscription{}, nil
}

// MockConversationRepository implements domain.ConversationRepository interface
// for testing. Without overrides it behaves as an in-memory store keyed by
// (user, mentor).
type MockConversationRepository struct {
	FindByUserAndMentorFunc func(ctx context.Context, userID, mentorID string) (*domain.Conversation, error)
	CreateFunc              func(ctx context.Context, conv *domain.Conversation) error
	UpdateMessagesFunc      func(ctx context.Context, id string, messages []domain.ChatMessage) error
	ListByUserFunc          func(ctx context.Context, userID string) ([]domain.Conversation, error)

	Conversations []*domain.Conversation
}

// NewMockConversationRepository creates a new MockConversationRepository
func NewMockConversationRepository() *MockConversationRepository {
	return &MockConversationRepository{}
}

// FindByUserAndMentor finds the pair's conversation
func (m *MockConversationRepository) FindByUserAndMentor(ctx context.Context, userID, mentorID string) (*domain.Conversation, error) {
	if m.FindByUserAndMentorFunc != nil {
		return m.FindByUserAndMentorFunc(ctx, userID, mentorID)
	}
	for _, conv := range m.Conversations {
		if conv.UserID == userID && conv.MentorID == mentorID {
			return conv, nil
		}
	}
	return nil, domain.ErrConversationNotFound
}

// Create creates a conversation row
func (m *MockConversationRepository) Create(ctx context.Context, conv *domain.Conversation) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, conv)
	}
	if conv.ID == "" {
		conv.ID = "conv-" + conv.UserID + "-" + conv.MentorID
	}
	m.Conversations = append(m.Conversations, conv)
	return nil
}

// UpdateMessages replaces the message log
func (m *MockConversationRepository) UpdateMessages(ctx context.Context, id string, messages []domain.ChatMessage) error {
	if m.UpdateMessagesFunc != nil {
		return m.UpdateMessagesFunc(ctx, id, messages)
	}
	for _, conv := range m.Conversations {
		if conv.ID == id {
			conv.Messages = messages
			return nil
		}
	}
	return domain.ErrConversationNotFound
}

// ListByUser lists a user's conversations
func (m *MockConversationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Conversation, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	convs := []domain.Conversation{}
	for _, conv := range m.Conversations {
		if conv.UserID == userID {
			convs = append(convs, *conv)
		}
	}
	return convs, nil
}
