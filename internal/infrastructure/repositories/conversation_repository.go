package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AyushS-03/IndieMentor-AI/domain"
)

// ConversationRepositoryImpl implements domain.ConversationRepository using GORM
type ConversationRepositoryImpl struct {
	db *gorm.DB
}

// DBConversation represents the database model for Conversation (with GORM tags).
// The message log is stored as a JSON document; there is no server-side append
// primitive and no concurrency token, so message updates are full replacements
// and last writer wins.
type DBConversation struct {
	ID        string               `gorm:"primaryKey;size:64"`
	UserID    string               `gorm:"uniqueIndex:idx_conv_user_mentor;size:64"`
	MentorID  string               `gorm:"uniqueIndex:idx_conv_user_mentor;size:64"`
	Messages  []domain.ChatMessage `gorm:"serializer:json"`
	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBConversation) TableName() string {
	return "conversations"
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(db *gorm.DB) domain.ConversationRepository {
	return &ConversationRepositoryImpl{db: db}
}

// FindByUserAndMentor implements domain.ConversationRepository. Not-found is
// the expected trigger for lazy creation, reported as ErrConversationNotFound.
func (r *ConversationRepositoryImpl) FindByUserAndMentor(ctx context.Context, userID, mentorID string) (*domain.Conversation, error) {
	var dbConv DBConversation
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND mentor_id = ?", userID, mentorID).
		First(&dbConv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrConversationNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbConv), nil
}

// Create implements domain.ConversationRepository
func (r *ConversationRepositoryImpl) Create(ctx context.Context, conv *domain.Conversation) error {
	if conv.ID == "" {
		conv.ID = uuid.NewString()
	}
	if conv.Messages == nil {
		conv.Messages = []domain.ChatMessage{}
	}
	dbConv := &DBConversation{
		ID:       conv.ID,
		UserID:   conv.UserID,
		MentorID: conv.MentorID,
		Messages: conv.Messages,
	}
	if err := r.db.WithContext(ctx).Create(dbConv).Error; err != nil {
		return err
	}
	conv.CreatedAt = dbConv.CreatedAt
	conv.UpdatedAt = dbConv.UpdatedAt
	return nil
}

// UpdateMessages implements domain.ConversationRepository
func (r *ConversationRepositoryImpl) UpdateMessages(ctx context.Context, id string, messages []domain.ChatMessage) error {
	result := r.db.WithContext(ctx).
		Model(&DBConversation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"messages":   mustEncodeMessages(messages),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrConversationNotFound
	}
	return nil
}

// ListByUser implements domain.ConversationRepository, most recently updated first.
func (r *ConversationRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]domain.Conversation, error) {
	var dbConvs []DBConversation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&dbConvs).Error
	if err != nil {
		return nil, err
	}
	convs := make([]domain.Conversation, 0, len(dbConvs))
	for i := range dbConvs {
		convs = append(convs, *r.dbToDomain(&dbConvs[i]))
	}
	return convs, nil
}

// mustEncodeMessages marshals the log the way the json serializer stores the
// column. ChatMessage contains nothing unmarshalable, so errors cannot occur.
func mustEncodeMessages(messages []domain.ChatMessage) string {
	if messages == nil {
		messages = []domain.ChatMessage{}
	}
	data, _ := json.Marshal(messages)
	return string(data)
}

func (r *ConversationRepositoryImpl) dbToDomain(c *DBConversation) *domain.Conversation {
	return &domain.Conversation{
		ID:        c.ID,
		UserID:    c.UserID,
		MentorID:  c.MentorID,
		Messages:  c.Messages,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
