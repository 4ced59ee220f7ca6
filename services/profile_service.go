package services

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/cppla/folio/models"
)

// ProfileUpdate carries the editable header of a portfolio. Nil fields are left unchanged.
type ProfileUpdate struct {
	Name      *string
	Email     *string
	Tagline   *string
	Bio       *string
	Phone     *string
	Location  *string
	Website   *string
	AvatarURL *string
}

// ProfileService reads and edits a user's own profile.
type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// Get returns the user with their profile, creating an empty profile on first access.
func (s *ProfileService) Get(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, notFoundAs(err, ErrUserNotFound, "load user")
	}
	profile := models.Profile{UserID: userID}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).FirstOrCreate(&profile).Error; err != nil {
		return nil, errors.Wrap(err, "load profile")
	}
	user.Profile = &profile
	return &user, nil
}

// Update applies u to the user and profile in one transaction and returns the result.
func (s *ProfileService) Update(ctx context.Context, userID uint, u ProfileUpdate) (*models.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := user.Profile
	set(&user.Name, u.Name)
	set(&user.Email, u.Email)
	set(&p.Tagline, u.Tagline)
	set(&p.Bio, u.Bio)
	set(&p.Phone, u.Phone)
	set(&p.Location, u.Location)
	set(&p.Website, u.Website)
	set(&p.AvatarURL, u.AvatarURL)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(user).Select("name", "email", "updated_at").Updates(user).Error; err != nil {
			return errors.Wrap(err, "update user")
		}
		return errors.Wrap(tx.Save(p).Error, "update profile")
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
