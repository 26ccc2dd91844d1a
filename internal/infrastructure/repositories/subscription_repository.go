package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AyushS-03/IndieMentor-AI/domain"
)

// SubscriptionRepositoryImpl implements domain.SubscriptionRepository using GORM
type SubscriptionRepositoryImpl struct {
	db *gorm.DB
}

// DBSubscription represents the database model for Subscription (with GORM tags)
type DBSubscription struct {
	ID        string `gorm:"primaryKey;size:64"`
	UserID    string `gorm:"index:idx_sub_user_mentor;size:64"`
	MentorID  string `gorm:"index:idx_sub_user_mentor;size:64"`
	Status    string `gorm:"index;size:16"`
	ExpiresAt time.Time
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (DBSubscription) TableName() string {
	return "subscriptions"
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB) domain.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{db: db}
}

// Create implements domain.SubscriptionRepository
func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, sub *domain.Subscription) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.Status == "" {
		sub.Status = "active"
	}
	dbSub := &DBSubscription{
		ID:        sub.ID,
		UserID:    sub.UserID,
		MentorID:  sub.MentorID,
		Status:    sub.Status,
		ExpiresAt: sub.ExpiresAt,
	}
	if err := r.db.WithContext(ctx).Create(dbSub).Error; err != nil {
		return err
	}
	sub.CreatedAt = dbSub.CreatedAt
	return nil
}

// FindActive implements domain.SubscriptionRepository
func (r *SubscriptionRepositoryImpl) FindActive(ctx context.Context, userID, mentorID string) (*domain.Subscription, error) {
	var dbSub DBSubscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND mentor_id = ? AND status = ? AND expires_at > ?",
			userID, mentorID, "active", time.Now()).
		First(&dbSub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSubscriptionNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbSub), nil
}

// ListByUser implements domain.SubscriptionRepository
func (r *SubscriptionRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]domain.Subscription, error) {
	var dbSubs []DBSubscription
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&dbSubs).Error
	if err != nil {
		return nil, err
	}
	subs := make([]domain.Subscription, 0, len(dbSubs))
	for i := range dbSubs {
		subs = append(subs, *r.dbToDomain(&dbSubs[i]))
	}
	return subs, nil
}

func (r *SubscriptionRepositoryImpl) dbToDomain(s *DBSubscription) *domain.Subscription {
	return &domain.Subscription{
		ID:        s.ID,
		UserID:    s.UserID,
		MentorID:  s.MentorID,
		Status:    s.Status,
		ExpiresAt: s.ExpiresAt,
		CreatedAt: s.CreatedAt,
	}
}
