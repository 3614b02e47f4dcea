package models

import (
	"time"
)

const (
	MinTotalTickets = 1
	MaxTotalTickets = 300
)

type Event struct {
	ID           uint      `gorm:"primaryKey"`
	Name         string    `gorm:"size:100;not null"`
	StartDate    time.Time `gorm:"not null"`
	EndDate      time.Time `gorm:"not null"`
	TotalTickets int       `gorm:"not null"`
	TicketsSold  int       `gorm:"not null;default:0"`
	Tickets      []Ticket  `gorm:"constraint:OnDelete:CASCADE;"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SeatsLeft reports how many tickets can still be sold.
func (event *Event) SeatsLeft() int {
	return event.TotalTickets - event.TicketsSold
}
