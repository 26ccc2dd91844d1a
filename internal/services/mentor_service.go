package services

import (
	"context"
	"errors"
	"time"

	"github.com/AyushS-03/IndieMentor-AI/domain"
)

// MentorService handles mentor catalog and subscription operations. It is a
// thin layer over the repositories: fetch, map, and report errors; no caching
// and no cross-entity transactions.
type MentorService struct {
	mentors         domain.MentorRepository
	subscriptions   domain.SubscriptionRepository
	subscriptionTTL time.Duration
}

// NewMentorService creates a new mentor service
func NewMentorService(
	mentors domain.MentorRepository,
	subscriptions domain.SubscriptionRepository,
	subscriptionTTL time.Duration,
) *MentorService {
	return &MentorService{
		mentors:         mentors,
		subscriptions:   subscriptions,
		subscriptionTTL: subscriptionTTL,
	}
}

// ListActive returns the browsable catalog. On failure the error travels with
// an empty list so callers always have a usable slice.
func (s *MentorService) ListActive(ctx context.Context) ([]domain.Mentor, error) {
	mentors, err := s.mentors.ListActive(ctx)
	if err != nil {
		return []domain.Mentor{}, err
	}
	return mentors, nil
}

// ListByCreator returns the creator's own mentors in every lifecycle state.
func (s *MentorService) ListByCreator(ctx context.Context, creatorID string) ([]domain.Mentor, error) {
	mentors, err := s.mentors.ListByCreator(ctx, creatorID)
	if err != nil {
		return []domain.Mentor{}, err
	}
	return mentors, nil
}

// Get returns a single mentor by id.
func (s *MentorService) Get(ctx context.Context, id string) (*domain.Mentor, error) {
	return s.mentors.FindByID(ctx, id)
}

// Create inserts a mentor owned by the given creator and returns the stored
// row. New mentors start as drafts unless a status is supplied.
func (s *MentorService) Create(ctx context.Context, creatorID string, mentor *domain.Mentor) (*domain.Mentor, error) {
	mentor.CreatorID = creatorID
	if err := s.mentors.Create(ctx, mentor); err != nil {
		return nil, err
	}
	return s.mentors.FindByID(ctx, mentor.ID)
}

// Update applies the patch and returns the refreshed row. Only the owning
// creator may update; the ownership check belongs to the caller's
// authorization layer.
func (s *MentorService) Update(ctx context.Context, id string, patch domain.MentorPatch) (*domain.Mentor, error) {
	if err := s.mentors.Update(ctx, id, patch); err != nil {
		return nil, err
	}
	return s.mentors.FindByID(ctx, id)
}

// Delete removes a mentor listing.
func (s *MentorService) Delete(ctx context.Context, id string) error {
	return s.mentors.Delete(ctx, id)
}

// Subscribe grants the user timed access to a mentor. An already-active
// subscription is returned as-is rather than duplicated.
func (s *MentorService) Subscribe(ctx context.Context, userID, mentorID string) (*domain.Subscription, error) {
	if _, err := s.mentors.FindByID(ctx, mentorID); err != nil {
		return nil, err
	}

	existing, err := s.subscriptions.FindActive(ctx, userID, mentorID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrSubscriptionNotFound) {
		return nil, err
	}

	sub := &domain.Subscription{
		UserID:    userID,
		MentorID:  mentorID,
		Status:    "active",
		ExpiresAt: time.Now().Add(s.subscriptionTTL),
	}
	if err := s.subscriptions.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// IsSubscribed reports whether the user holds an unexpired subscription for
// the mentor.
func (s *MentorService) IsSubscribed(ctx context.Context, userID, mentorID string) (bool, error) {
	_, err := s.subscriptions.FindActive(ctx, userID, mentorID)
	if err != nil {
		if errors.Is(err, domain.ErrSubscriptionNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListSubscriptions returns the user's subscriptions, active or not.
func (s *MentorService) ListSubscriptions(ctx context.Context, userID string) ([]domain.Subscription, error) {
	subs, err := s.subscriptions.ListByUser(ctx, userID)
	if err != nil {
		return []domain.Subscription{}, err
	}
	return subs, nil
}
