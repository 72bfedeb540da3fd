package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event keeps a nullable organizer reference: when the organizer's account is
// deleted the event survives with OrganizerID cleared.
type Event struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Title       string     `gorm:"unique;not null" json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	ImageURL    string     `gorm:"not null" json:"imageUrl"`
	StartDate   time.Time  `gorm:"not null" json:"startDate"`
	EndDate     time.Time  `gorm:"not null" json:"endDate"`
	Price       string     `json:"price"`
	IsFree      bool       `gorm:"not null;default:false" json:"isFree"`
	URL         string     `json:"url"`
	CategoryID  *uuid.UUID `gorm:"type:uuid" json:"categoryId"`
	Category    *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	OrganizerID *uuid.UUID `gorm:"type:uuid;index" json:"organizerId"`
	Organizer   *User      `gorm:"foreignKey:OrganizerID" json:"organizer,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	now := time.Now()
	if event.StartDate.IsZero() {
		event.StartDate = now
	}
	if event.EndDate.IsZero() {
		event.EndDate = now
	}
	return
}
