package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is provisioned exclusively by identity-provider webhooks. ClerkID is
// the join key between the provider and the local record.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ClerkID   string    `gorm:"unique;not null" json:"clerkId"`
	Email     string    `gorm:"not null" json:"email"`
	Username  string    `gorm:"not null" json:"username"`
	FirstName string    `gorm:"not null" json:"firstName"`
	LastName  string    `gorm:"not null" json:"lastName"`
	Photo     string    `gorm:"not null" json:"photo"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return
}
