package service

import (
	"time"

	"github.com/farellandr/ticketdesk/internal/models"
)

// Routing keys of the domain events published after a commit.
const (
	TopicEventCreated   = "event.created"
	TopicEventUpdated   = "event.updated"
	TopicEventDeleted   = "event.deleted"
	TopicTicketSold     = "ticket.sold"
	TopicTicketRedeemed = "ticket.redeemed"
)

type EventMessage struct {
	EventID      uint      `json:"event_id"`
	Name         string    `json:"name,omitempty"`
	StartDate    string    `json:"start_date,omitempty"`
	EndDate      string    `json:"end_date,omitempty"`
	TotalTickets int       `json:"total_tickets,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type TicketMessage struct {
	TicketID    uint      `json:"ticket_id"`
	EventID     uint      `json:"event_id"`
	TicketsSold int       `json:"tickets_sold,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func eventMessage(event *models.Event, at time.Time) EventMessage {
	return EventMessage{
		EventID:      event.ID,
		Name:         event.Name,
		StartDate:    FormatDate(event.StartDate),
		EndDate:      FormatDate(event.EndDate),
		TotalTickets: event.TotalTickets,
		OccurredAt:   at,
	}
}
