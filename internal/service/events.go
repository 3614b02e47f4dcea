package service

import (
	"context"
	"fmt"

	"github.com/farellandr/ticketdesk/internal/models"
	"github.com/farellandr/ticketdesk/internal/store"
)

type CreateEventInput struct {
	Name         string
	StartDate    string
	EndDate      string
	TotalTickets int
}

// UpdateEventInput mirrors CreateEventInput: every field is required even
// though only changed values matter to the caller.
type UpdateEventInput struct {
	Name         string
	StartDate    string
	EndDate      string
	TotalTickets int
}

func validCapacity(total int) bool {
	return total >= models.MinTotalTickets && total <= models.MaxTotalTickets
}

func (s *Service) CreateEvent(ctx context.Context, in CreateEventInput) (uint, error) {
	// A zero ticket count is treated the same as a missing one.
	if in.Name == "" || in.StartDate == "" || in.EndDate == "" || in.TotalTickets == 0 {
		return 0, invalid(msgMissingFields)
	}

	startDate, err := ParseDate(in.StartDate)
	if err != nil {
		return 0, invalid(err.Error())
	}
	endDate, err := ParseDate(in.EndDate)
	if err != nil {
		return 0, invalid(err.Error())
	}

	if startDate.Before(localDay(s.now())) {
		return 0, invalid(msgStartInPast)
	}
	if endDate.Before(startDate) {
		return 0, invalid(msgEndBeforeStart)
	}
	if !validCapacity(in.TotalTickets) {
		return 0, invalid(msgTicketsOutOfRange)
	}

	event := &models.Event{
		Name:         in.Name,
		StartDate:    startDate,
		EndDate:      endDate,
		TotalTickets: in.TotalTickets,
	}
	err = s.store.WithinTx(ctx, func(tx store.Tx) error {
		return tx.CreateEvent(event)
	})
	if err != nil {
		return 0, fmt.Errorf("create event: %w", err)
	}

	s.logger.Info("event created", "event_id", event.ID, "total_tickets", event.TotalTickets)
	s.publish(ctx, TopicEventCreated, eventMessage(event, s.now()))
	return event.ID, nil
}

// UpdateEvent applies the fields in a fixed order: name, start date, end
// date, total tickets. The end date is checked against the start date as it
// stands at that point, which may be the one set earlier in the same call.
func (s *Service) UpdateEvent(ctx context.Context, id uint, in UpdateEventInput) error {
	var updated models.Event
	err := s.store.WithinTx(ctx, func(tx store.Tx) error {
		event, err := tx.LockEvent(id)
		if err != nil {
			return eventLookup(err)
		}
		if err := s.applyUpdate(event, in); err != nil {
			return err
		}
		if err := tx.SaveEvent(event); err != nil {
			return err
		}
		updated = *event
		return nil
	})
	if err != nil {
		return fmt.Errorf("update event %d: %w", id, err)
	}

	s.cache.InvalidateEvent(ctx, id)
	s.logger.Info("event updated", "event_id", id)
	s.publish(ctx, TopicEventUpdated, eventMessage(&updated, s.now()))
	return nil
}

func (s *Service) applyUpdate(event *models.Event, in UpdateEventInput) error {
	if in.Name == "" || in.StartDate == "" || in.EndDate == "" || in.TotalTickets == 0 {
		return invalid(msgMissingFields)
	}

	event.Name = in.Name

	startDate, err := ParseDate(in.StartDate)
	if err != nil {
		return invalid(err.Error())
	}
	if startDate.Before(localDay(s.now())) {
		return invalid(msgStartInPast)
	}
	event.StartDate = startDate

	endDate, err := ParseDate(in.EndDate)
	if err != nil {
		return invalid(err.Error())
	}
	if endDate.Before(calendarDate(event.StartDate)) {
		return invalid(msgEndBeforeStart)
	}
	event.EndDate = endDate

	if in.TotalTickets < event.TicketsSold {
		return invalid(msgTicketsBelowSold)
	}
	if !validCapacity(in.TotalTickets) {
		return invalid(msgTicketsOutOfRange)
	}
	event.TotalTickets = in.TotalTickets
	return nil
}

// DeleteEvent refuses to drop an event that has sold tickets until its end
// date has passed. Tickets go with the event.
func (s *Service) DeleteEvent(ctx context.Context, id uint) error {
	err := s.store.WithinTx(ctx, func(tx store.Tx) error {
		event, err := tx.LockEvent(id)
		if err != nil {
			return eventLookup(err)
		}
		now := s.now()
		if event.TicketsSold > 0 && midnightIn(event.EndDate, now.Location()).After(now) {
			return invalid(msgCannotDeleteActive)
		}
		return tx.DeleteEvent(id)
	})
	if err != nil {
		return fmt.Errorf("delete event %d: %w", id, err)
	}

	s.cache.InvalidateEvent(ctx, id)
	s.logger.Info("event deleted", "event_id", id)
	s.publish(ctx, TopicEventDeleted, EventMessage{EventID: id, OccurredAt: s.now()})
	return nil
}

func (s *Service) GetEventDetails(ctx context.Context, id uint) (EventView, error) {
	if view, ok := s.cache.GetEvent(ctx, id); ok {
		return view, nil
	}
	generation, cacheable := s.cache.Generation(ctx, id)

	var view EventView
	err := s.store.WithinTx(ctx, func(tx store.Tx) error {
		event, err := tx.GetEvent(id)
		if err != nil {
			return eventLookup(err)
		}
		redeemed, err := tx.CountRedeemed(id)
		if err != nil {
			return err
		}
		view = newEventView(event, redeemed)
		return nil
	})
	if err != nil {
		return EventView{}, fmt.Errorf("get event %d: %w", id, err)
	}

	if cacheable {
		s.cache.SetEvent(ctx, view, generation)
	}
	return view, nil
}

func (s *Service) ListEvents(ctx context.Context) (EventListing, error) {
	var views []EventView
	err := s.store.WithinTx(ctx, func(tx store.Tx) error {
		events, err := tx.ListEvents()
		if err != nil {
			return err
		}
		views = make([]EventView, 0, len(events))
		for i := range events {
			redeemed, err := tx.CountRedeemed(events[i].ID)
			if err != nil {
				return err
			}
			views = append(views, newEventView(&events[i], redeemed))
		}
		return nil
	})
	if err != nil {
		return EventListing{}, fmt.Errorf("list events: %w", err)
	}

	if len(views) == 0 {
		return EventListing{Result: ListingEmpty}, nil
	}
	return EventListing{Result: ListingFound, Events: views}, nil
}
