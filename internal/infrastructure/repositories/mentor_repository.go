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

// MentorRepositoryImpl implements domain.MentorRepository using GORM
type MentorRepositoryImpl struct {
	db *gorm.DB
}

// DBMentor represents the database model for Mentor (with GORM tags)
type DBMentor struct {
	ID                 string   `gorm:"primaryKey;size:64"`
	CreatorID          string   `gorm:"index;size:64"`
	Name               string   `gorm:"size:255"`
	Title              string   `gorm:"size:255"`
	Description        string   `gorm:"type:text"`
	AvatarURL          string   `gorm:"size:512"`
	Price              int      `gorm:"not null;default:0"`
	Expertise          []string `gorm:"serializer:json"`
	Status             string   `gorm:"index;size:16"`
	SubscribersCount   int      `gorm:"not null;default:0"`
	ConversationsCount int      `gorm:"not null;default:0"`
	Revenue            int      `gorm:"not null;default:0"`
	CreatedAt          time.Time `gorm:"index"`
	UpdatedAt          time.Time
}

// TableName returns the table name for GORM
func (DBMentor) TableName() string {
	return "mentors"
}

// NewMentorRepository creates a new mentor repository
func NewMentorRepository(db *gorm.DB) domain.MentorRepository {
	return &MentorRepositoryImpl{db: db}
}

// Create implements domain.MentorRepository
func (r *MentorRepositoryImpl) Create(ctx context.Context, mentor *domain.Mentor) error {
	if mentor.ID == "" {
		mentor.ID = uuid.NewString()
	}
	if mentor.Status == "" {
		mentor.Status = domain.MentorDraft
	}
	dbMentor := r.domainToDB(mentor)
	if err := r.db.WithContext(ctx).Create(dbMentor).Error; err != nil {
		return err
	}
	mentor.CreatedAt = dbMentor.CreatedAt
	mentor.UpdatedAt = dbMentor.UpdatedAt
	return nil
}

// FindByID implements domain.MentorRepository
func (r *MentorRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Mentor, error) {
	var dbMentor DBMentor
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbMentor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMentorNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbMentor), nil
}

// ListActive implements domain.MentorRepository, newest first.
func (r *MentorRepositoryImpl) ListActive(ctx context.Context) ([]domain.Mentor, error) {
	var dbMentors []DBMentor
	err := r.db.WithContext(ctx).
		Where("status = ?", string(domain.MentorActive)).
		Order("created_at DESC").
		Find(&dbMentors).Error
	if err != nil {
		return nil, err
	}
	return r.dbToDomainList(dbMentors), nil
}

// ListByCreator implements domain.MentorRepository
func (r *MentorRepositoryImpl) ListByCreator(ctx context.Context, creatorID string) ([]domain.Mentor, error) {
	var dbMentors []DBMentor
	err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		Find(&dbMentors).Error
	if err != nil {
		return nil, err
	}
	return r.dbToDomainList(dbMentors), nil
}

// Update implements domain.MentorRepository
func (r *MentorRepositoryImpl) Update(ctx context.Context, id string, patch domain.MentorPatch) error {
	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.AvatarURL != nil {
		updates["avatar_url"] = *patch.AvatarURL
	}
	if patch.Price != nil {
		updates["price"] = *patch.Price
	}
	if patch.Expertise != nil {
		data, err := encodeExpertise(patch.Expertise)
		if err != nil {
			return err
		}
		updates["expertise"] = data
	}
	if patch.Status != nil {
		updates["status"] = string(*patch.Status)
	}
	if len(updates) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).Model(&DBMentor{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrMentorNotFound
	}
	return nil
}

// Delete implements domain.MentorRepository
func (r *MentorRepositoryImpl) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&DBMentor{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrMentorNotFound
	}
	return nil
}

// IncrementConversations implements domain.MentorRepository
func (r *MentorRepositoryImpl) IncrementConversations(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&DBMentor{}).
		Where("id = ?", id).
		UpdateColumn("conversations_count", gorm.Expr("conversations_count + 1")).
		Error
}

// encodeExpertise marshals tags the same way the json serializer stores the
// column, for use in map-based updates that bypass the model serializer.
func encodeExpertise(tags []string) (string, error) {
	data, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (r *MentorRepositoryImpl) domainToDB(m *domain.Mentor) *DBMentor {
	return &DBMentor{
		ID:                 m.ID,
		CreatorID:          m.CreatorID,
		Name:               m.Name,
		Title:              m.Title,
		Description:        m.Description,
		AvatarURL:          m.AvatarURL,
		Price:              m.Price,
		Expertise:          m.Expertise,
		Status:             string(m.Status),
		SubscribersCount:   m.SubscribersCount,
		ConversationsCount: m.ConversationsCount,
		Revenue:            m.Revenue,
	}
}

func (r *MentorRepositoryImpl) dbToDomain(m *DBMentor) *domain.Mentor {
	return &domain.Mentor{
		ID:                 m.ID,
		CreatorID:          m.CreatorID,
		Name:               m.Name,
		Title:              m.Title,
		Description:        m.Description,
		AvatarURL:          m.AvatarURL,
		Price:              m.Price,
		Expertise:          m.Expertise,
		Status:             domain.MentorStatus(m.Status),
		SubscribersCount:   m.SubscribersCount,
		ConversationsCount: m.ConversationsCount,
		Revenue:            m.Revenue,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func (r *MentorRepositoryImpl) dbToDomainList(rows []DBMentor) []domain.Mentor {
	mentors := make([]domain.Mentor, 0, len(rows))
	for i := range rows {
		mentors = append(mentors, *r.dbToDomain(&rows[i]))
	}
	return mentors
}
