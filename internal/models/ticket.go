package models

import (
	"time"

	"gorm.io/gorm"
)

type Ticket struct {
	ID       uint      `gorm:"primaryKey"`
	EventID  uint      `gorm:"not null;index"`
	Event    *Event    `gorm:"foreignKey:EventID"`
	Redeemed bool      `gorm:"not null;default:false"`
	SoldAt   time.Time `gorm:"not null"`
}

func (ticket *Ticket) BeforeCreate(tx *gorm.DB) (err error) {
	if ticket.SoldAt.IsZero() {
		ticket.SoldAt = time.Now()
	}
	return
}
