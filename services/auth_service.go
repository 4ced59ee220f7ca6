package services

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/cppla/folio/models"
	"github.com/cppla/folio/utils"
)

// Registration is the validated input of a new account.
type Registration struct {
	Username string
	Email    string
	Name     string
	Password string
}

// AuthService owns account creation and credential checks.
type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// Register creates a user together with an empty profile.
func (s *AuthService) Register(ctx context.Context, r Registration) (*models.User, error) {
	username := strings.TrimSpace(r.Username)
	if username == "" {
		return nil, ErrParamInvalid
	}
	hash, err := utils.HashPassword(r.Password)
	if err != nil {
		return nil, errors.Wrap(ErrParamInvalid, err.Error())
	}

	user := &models.User{
		Username:     username,
		Email:        strings.TrimSpace(r.Email),
		Name:         strings.TrimSpace(r.Name),
		PasswordHash: hash,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return errors.Wrap(err, "check username")
		}
		if count > 0 {
			return ErrUsernameTaken
		}
		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUsernameTaken
			}
			return errors.Wrap(err, "create user")
		}
		return errors.Wrap(tx.Create(&models.Profile{UserID: user.ID}).Error, "create profile")
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate returns the user matching the credentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "load user")
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// User returns the user with id.
func (s *AuthService) User(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Profile").First(&user, id).Error; err != nil {
		return nil, notFoundAs(err, ErrUserNotFound, "load user")
	}
	return &user, nil
}
