package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/AyushS-03/IndieMentor-AI/domain"
)

// ProfileRepositoryImpl implements domain.ProfileRepository using GORM
type ProfileRepositoryImpl struct {
	db *gorm.DB
}

// DBProfile represents the database model for Profile (with GORM tags)
type DBProfile struct {
	ID        string `gorm:"primaryKey;size:64"`
	Email     string `gorm:"uniqueIndex;size:255"`
	Name      string `gorm:"size:255"`
	AvatarURL string `gorm:"size:512"`
	IsCreator bool   `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (DBProfile) TableName() string {
	return "profiles"
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) domain.ProfileRepository {
	return &ProfileRepositoryImpl{db: db}
}

// Create implements domain.ProfileRepository
func (r *ProfileRepositoryImpl) Create(ctx context.Context, profile *domain.Profile) error {
	dbProfile := r.domainToDB(profile)
	if err := r.db.WithContext(ctx).Create(dbProfile).Error; err != nil {
		return err
	}
	profile.CreatedAt = dbProfile.CreatedAt
	profile.UpdatedAt = dbProfile.UpdatedAt
	return nil
}

// FindByID implements domain.ProfileRepository
func (r *ProfileRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	var dbProfile DBProfile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbProfile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbProfile), nil
}

// Update implements domain.ProfileRepository
func (r *ProfileRepositoryImpl) Update(ctx context.Context, profile *domain.Profile) error {
	dbProfile := r.domainToDB(profile)
	return r.db.WithContext(ctx).Save(dbProfile).Error
}

func (r *ProfileRepositoryImpl) domainToDB(p *domain.Profile) *DBProfile {
	return &DBProfile{
		ID:        p.ID,
		Email:     p.Email,
		Name:      p.Name,
		AvatarURL: p.AvatarURL,
		IsCreator: p.IsCreator,
	}
}

func (r *ProfileRepositoryImpl) dbToDomain(p *DBProfile) *domain.Profile {
	return &domain.Profile{
		ID:        p.ID,
		Email:     p.Email,
		Name:      p.Name,
		AvatarURL: p.AvatarURL,
		IsCreator: p.IsCreator,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
