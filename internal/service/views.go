package service

import (
	"time"

	"github.com/farellandr/ticketdesk/internal/models"
)

type EventView struct {
	ID              uint      `json:"id"`
	Name            string    `json:"name"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	TotalTickets    int       `json:"total_tickets"`
	TicketsSold     int       `json:"tickets_sold"`
	TicketsRedeemed int64     `json:"tickets_redeemed"`
}

func newEventView(event *models.Event, redeemed int64) EventView {
	return EventView{
		ID:              event.ID,
		Name:            event.Name,
		StartDate:       calendarDate(event.StartDate),
		EndDate:         calendarDate(event.EndDate),
		TotalTickets:    event.TotalTickets,
		TicketsSold:     event.TicketsSold,
		TicketsRedeemed: redeemed,
	}
}

type ListingResult int

const (
	ListingEmpty ListingResult = iota
	ListingFound
)

// EventListing separates "there are no events" from a failed lookup; the
// HTTP layer decides how an empty listing is reported.
type EventListing struct {
	Result ListingResult
	Events []EventView
}

type TicketView struct {
	ID       uint      `json:"id"`
	EventID  uint      `json:"event_id"`
	Redeemed bool      `json:"redeemed"`
	SoldAt   time.Time `json:"sold_at"`
}

func newTicketView(ticket *models.Ticket) TicketView {
	return TicketView{
		ID:       ticket.ID,
		EventID:  ticket.EventID,
		Redeemed: ticket.Redeemed,
		SoldAt:   ticket.SoldAt,
	}
}

// SaleConfirmation describes a completed sale. ConfirmationID is the id of
// the event the ticket was sold for, which is what clients have always
// received as "ticket_id"; TicketID is the new ticket's own id.
type SaleConfirmation struct {
	ConfirmationID uint
	TicketID       uint
	EventID        uint
	SoldAt         time.Time
}
