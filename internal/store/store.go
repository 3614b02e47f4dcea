// Package store persists events and tickets. Every unit of work runs inside
// Store.WithinTx and talks to storage only through the Tx handle it receives:
// the work commits when the callback returns nil and rolls back otherwise.
package store

import (
	"context"
	"errors"

	"github.com/farellandr/ticketdesk/internal/models"
)

var ErrNotFound = errors.New("record not found")

type Store interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is a transaction handle. Lock* variants hold the row until the
// transaction ends, serializing read-modify-write sequences on it.
type Tx interface {
	CreateEvent(event *models.Event) error
	GetEvent(id uint) (*models.Event, error)
	LockEvent(id uint) (*models.Event, error)
	SaveEvent(event *models.Event) error
	// DeleteEvent removes the event together with all of its tickets.
	DeleteEvent(id uint) error
	ListEvents() ([]models.Event, error)

	CreateTicket(ticket *models.Ticket) error
	GetTicket(id uint) (*models.Ticket, error)
	LockTicket(id uint) (*models.Ticket, error)
	SaveTicket(ticket *models.Ticket) error
	CountRedeemed(eventID uint) (int64, error)
}
