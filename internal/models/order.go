package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order records a ticket purchase. Checkout is handled elsewhere; locally
// orders are read and cascade-unlinked only. BuyerID is nullable so the order
// survives deletion of the buyer's account.
type Order struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	TotalAmount string     `json:"totalAmount"`
	EventID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"eventId"`
	Event       *Event     `gorm:"foreignKey:EventID" json:"event,omitempty"`
	BuyerID     *uuid.UUID `gorm:"type:uuid;index" json:"buyerId"`
	Buyer       *User      `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (order *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	return
}
