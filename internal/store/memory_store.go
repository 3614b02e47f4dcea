package store

import (
	"context"
	"sort"
	"sync"

	"github.com/farellandr/ticketdesk/internal/models"
)

// MemoryStore keeps everything in process. Transactions are serialized by a
// single mutex and run against a copy of the state that replaces the live
// one only on commit.
type MemoryStore struct {
	mu    sync.Mutex
	state *memState
}

type memState struct {
	events       map[uint]models.Event
	tickets      map[uint]models.Ticket
	nextEventID  uint
	nextTicketID uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		state: &memState{
			events:  make(map[uint]models.Event),
			tickets: make(map[uint]models.Ticket),
		},
	}
}

func (s *MemoryStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(&memTx{state: work}); err != nil {
		return err
	}
	s.state = work
	return nil
}

func (s *memState) clone() *memState {
	out := &memState{
		events:       make(map[uint]models.Event, len(s.events)),
		tickets:      make(map[uint]models.Ticket, len(s.tickets)),
		nextEventID:  s.nextEventID,
		nextTicketID: s.nextTicketID,
	}
	for id, event := range s.events {
		out.events[id] = event
	}
	for id, ticket := range s.tickets {
		out.tickets[id] = ticket
	}
	return out
}

type memTx struct {
	state *memState
}

func (t *memTx) CreateEvent(event *models.Event) error {
	t.state.nextEventID++
	event.ID = t.state.nextEventID
	stored := *event
	stored.Tickets = nil
	t.state.events[event.ID] = stored
	return nil
}

func (t *memTx) GetEvent(id uint) (*models.Event, error) {
	event, ok := t.state.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &event, nil
}

func (t *memTx) LockEvent(id uint) (*models.Event, error) {
	return t.GetEvent(id)
}

func (t *memTx) SaveEvent(event *models.Event) error {
	if _, ok := t.state.events[event.ID]; !ok {
		return ErrNotFound
	}
	stored := *event
	stored.Tickets = nil
	t.state.events[event.ID] = stored
	return nil
}

func (t *memTx) DeleteEvent(id uint) error {
	if _, ok := t.state.events[id]; !ok {
		return ErrNotFound
	}
	delete(t.state.events, id)
	for ticketID, ticket := range t.state.tickets {
		if ticket.EventID == id {
			delete(t.state.tickets, ticketID)
		}
	}
	return nil
}

func (t *memTx) ListEvents() ([]models.Event, error) {
	events := make([]models.Event, 0, len(t.state.events))
	for _, event := range t.state.events {
		events = append(events, event)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events, nil
}

func (t *memTx) CreateTicket(ticket *models.Ticket) error {
	if _, ok := t.state.events[ticket.EventID]; !ok {
		return ErrNotFound
	}
	t.state.nextTicketID++
	ticket.ID = t.state.nextTicketID
	stored := *ticket
	stored.Event = nil
	t.state.tickets[ticket.ID] = stored
	return nil
}

func (t *memTx) GetTicket(id uint) (*models.Ticket, error) {
	ticket, ok := t.state.tickets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &ticket, nil
}

func (t *memTx) LockTicket(id uint) (*models.Ticket, error) {
	return t.GetTicket(id)
}

func (t *memTx) SaveTicket(ticket *models.Ticket) error {
	if _, ok := t.state.tickets[ticket.ID]; !ok {
		return ErrNotFound
	}
	stored := *ticket
	stored.Event = nil
	t.state.tickets[ticket.ID] = stored
	return nil
}

func (t *memTx) CountRedeemed(eventID uint) (int64, error) {
	var count int64
	for _, ticket := range t.state.tickets {
		if ticket.EventID == eventID && ticket.Redeemed {
			count++
		}
	}
	return count, nil
}
