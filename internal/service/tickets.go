package service

import (
	"context"
	"fmt"

	"github.com/farellandr/ticketdesk/internal/models"
	"github.com/farellandr/ticketdesk/internal/store"
)

// SellTicket issues one ticket for the event. The event row stays locked
// from the capacity check until the ticket and the incremented counter are
// committed, so two sales can never both take the last slot.
func (s *Service) SellTicket(ctx context.Context, eventID uint) (SaleConfirmation, error) {
	var (
		ticket models.Ticket
		sold   int
	)
	err := s.store.WithinTx(ctx, func(tx store.Tx) error {
		event, err := tx.LockEvent(eventID)
		if err != nil {
			return eventLookup(err)
		}
		if event.SeatsLeft() <= 0 {
			return ErrCapacityExceeded
		}

		ticket = models.Ticket{EventID: eventID, SoldAt: s.now()}
		if err := tx.CreateTicket(&ticket); err != nil {
			return err
		}
		event.TicketsSold++
		sold = event.TicketsSold
		return tx.SaveEvent(event)
	})
	if err != nil {
		return SaleConfirmation{}, fmt.Errorf("sell ticket for event %d: %w", eventID, err)
	}

	s.cache.InvalidateEvent(ctx, eventID)
	s.logger.Info("ticket sold", "event_id", eventID, "ticket_id", ticket.ID, "tickets_sold", sold)
	s.publish(ctx, TopicTicketSold, TicketMessage{
		TicketID:    ticket.ID,
		EventID:     eventID,
		TicketsSold: sold,
		OccurredAt:  ticket.SoldAt,
	})

	return SaleConfirmation{
		ConfirmationID: ticket.EventID,
		TicketID:       ticket.ID,
		EventID:        ticket.EventID,
		SoldAt:         ticket.SoldAt,
	}, nil
}

// RedeemTicket marks a ticket as used. It fails on a second attempt and
// outside the event's start..end dates, both ends inclusive.
func (s *Service) RedeemTicket(ctx context.Context, ticketID uint) error {
	var eventID uint
	err := s.store.WithinTx(ctx, func(tx store.Tx) error {
		ticket, err := tx.LockTicket(ticketID)
		if err != nil {
			return ticketLookup(err)
		}
		event, err := tx.GetEvent(ticket.EventID)
		if err != nil {
			return fmt.Errorf("load event of ticket: %w", err)
		}

		if ticket.Redeemed {
			return ErrAlreadyRedeemed
		}
		today := localDay(s.now())
		if today.Before(calendarDate(event.StartDate)) || today.After(calendarDate(event.EndDate)) {
			return ErrOutOfWindow
		}

		ticket.Redeemed = true
		eventID = ticket.EventID
		return tx.SaveTicket(ticket)
	})
	if err != nil {
		return fmt.Errorf("redeem ticket %d: %w", ticketID, err)
	}

	s.cache.InvalidateEvent(ctx, eventID)
	s.logger.Info("ticket redeemed", "ticket_id", ticketID, "event_id", eventID)
	s.publish(ctx, TopicTicketRedeemed, TicketMessage{
		TicketID:   ticketID,
		EventID:    eventID,
		OccurredAt: s.now(),
	})
	return nil
}

func (s *Service) GetTicket(ctx context.Context, ticketID uint) (TicketView, error) {
	var view TicketView
	err := s.store.WithinTx(ctx, func(tx store.Tx) error {
		ticket, err := tx.GetTicket(ticketID)
		if err != nil {
			return ticketLookup(err)
		}
		view = newTicketView(ticket)
		return nil
	})
	if err != nil {
		return TicketView{}, fmt.Errorf("get ticket %d: %w", ticketID, err)
	}
	return view, nil
}
