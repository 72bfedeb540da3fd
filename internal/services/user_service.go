// Package services holds the account lifecycle core: it translates identity
// provider events into local state changes, independent of HTTP.
package services

import (
	"context"
	"errors"

	"github.com/Abdisalan-Osman/evently/internal/apperror"
	"github.com/Abdisalan-Osman/evently/internal/models"
	"gorm.io/gorm"
)

// Revalidator receives a cache-invalidation signal when an account deletion
// changes the public event listing.
type Revalidator interface {
	Invalidate(path string)
}

type CreateUserInput struct {
	ClerkID   string
	Email     string
	Username  string
	FirstName string
	LastName  string
	Photo     string
}

// UpdateUserInput carries the mutable profile subset. The provider sends the
// full profile on every user.updated delivery, so the patch replaces all of
// these fields.
type UpdateUserInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Photo     string
}

type UserService struct {
	db          *gorm.DB
	revalidator Revalidator
}

func NewUserService(db *gorm.DB, revalidator Revalidator) *UserService {
	return &UserService{
		db:          db,
		revalidator: revalidator,
	}
}

func (in CreateUserInput) validate() error {
	required := []struct {
		field string
		value string
	}{
		{"clerkId", in.ClerkID},
		{"email", in.Email},
		{"username", in.Username},
		{"firstName", in.FirstName},
		{"lastName", in.LastName},
		{"photo", in.Photo},
	}
	for _, r := range required {
		if r.value == "" {
			return apperror.ValidationFailed(r.field, r.field+" is required")
		}
	}
	return nil
}

// CreateUser provisions the local record for a freshly created identity.
// Validation runs before any write; a duplicate external id is a conflict.
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	var existing models.User
	err := db.Where("clerk_id = ?", in.ClerkID).First(&existing).Error
	if err == nil {
		return nil, apperror.Conflict("user", in.ClerkID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, translate("create user", err)
	}

	user := models.User{
		ClerkID:   in.ClerkID,
		Email:     in.Email,
		Username:  in.Username,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Photo:     in.Photo,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, translate("create user", err)
	}
	return &user, nil
}

// UpdateUser applies the mutable profile subset to the record with the given
// external id. An unknown id fails with a not-found error rather than
// upserting: upsert-on-update would silently mask provider/local
// desynchronization.
func (s *UserService) UpdateUser(ctx context.Context, clerkID string, in UpdateUserInput) (*models.User, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.Where("clerk_id = ?", clerkID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user", clerkID)
		}
		return nil, translate("update user", err)
	}

	user.Email = in.Email
	user.Username = in.Username
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Photo = in.Photo

	if err := db.Save(&user).Error; err != nil {
		return nil, translate("update user", err)
	}
	return &user, nil
}

// DeleteUser removes the record with the given external id. Unlinking the
// user's events and orders and deleting the row run in one transaction, so a
// failure partway rolls everything back instead of leaving dangling
// references. Exactly one cache-invalidation signal is emitted after a
// successful deletion, before returning.
func (s *UserService) DeleteUser(ctx context.Context, clerkID string) (*models.User, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.Where("clerk_id = ?", clerkID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user", clerkID)
		}
		return nil, translate("delete user", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Event{}).Where("organizer_id = ?", user.ID).Update("organizer_id", nil).Error; err != nil {
			return apperror.CascadeFailed("unlink events", err)
		}
		if err := tx.Model(&models.Order{}).Where("buyer_id = ?", user.ID).Update("buyer_id", nil).Error; err != nil {
			return apperror.CascadeFailed("unlink orders", err)
		}
		if err := tx.Delete(&models.User{}, "id = ?", user.ID).Error; err != nil {
			return apperror.CascadeFailed("delete user", err)
		}
		return nil
	})
	if err != nil {
		return nil, translate("delete user", err)
	}

	s.revalidator.Invalidate("/")
	return &user, nil
}

func translate(operation string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperror.Timeout(operation)
	}
	return err
}
