// Package service holds the ticketing rules: event lifecycle, ticket sales
// against capacity and redemption inside the event window. Each operation
// is one store transaction; cache invalidation and domain-event publishing
// run after commit and never fail the operation.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/farellandr/ticketdesk/internal/clock"
	"github.com/farellandr/ticketdesk/internal/store"
)

// ViewCache stores computed event views between reads. Every invalidation
// bumps the event's generation; SetEvent stores a view only while the
// generation still equals the one read before the view was computed.
type ViewCache interface {
	GetEvent(ctx context.Context, id uint) (EventView, bool)
	Generation(ctx context.Context, id uint) (uint64, bool)
	SetEvent(ctx context.Context, view EventView, generation uint64)
	InvalidateEvent(ctx context.Context, id uint)
}

// Publisher delivers domain events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

type Service struct {
	store     store.Store
	clock     clock.Clock
	cache     ViewCache
	publisher Publisher
	logger    *slog.Logger
}

type Option func(*Service)

func WithCache(cache ViewCache) Option {
	return func(s *Service) {
		if cache != nil {
			s.cache = cache
		}
	}
}

func WithPublisher(publisher Publisher) Option {
	return func(s *Service) {
		if publisher != nil {
			s.publisher = publisher
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(st store.Store, clk clock.Clock, opts ...Option) *Service {
	s := &Service{
		store:     st,
		clock:     clk,
		cache:     noCache{},
		publisher: noPublisher{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) now() time.Time {
	return s.clock.Now()
}

func (s *Service) publish(ctx context.Context, topic string, payload any) {
	if err := s.publisher.Publish(ctx, topic, payload); err != nil {
		s.logger.Warn("publish domain event", "topic", topic, "error", err)
	}
}

func eventLookup(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrEventNotFound
	}
	return err
}

func ticketLookup(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrTicketNotFound
	}
	return err
}

type noCache struct{}

func (noCache) GetEvent(context.Context, uint) (EventView, bool) { return EventView{}, false }
func (noCache) Generation(context.Context, uint) (uint64, bool)  { return 0, false }
func (noCache) SetEvent(context.Context, EventView, uint64)      {}
func (noCache) InvalidateEvent(context.Context, uint)            {}

type noPublisher struct{}

func (noPublisher) Publish(context.Context, string, any) error { return nil }
