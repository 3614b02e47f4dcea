// Package cache keeps computed event views in Redis so repeated detail
// reads skip the redeemed-ticket count. Every Redis failure degrades to a
// cache miss.
//
// Each event has a generation counter next to its view. Invalidation bumps
// the counter and drops the view in one MULTI; a fill is written under
// WATCH on the counter and is discarded when the counter moved since the
// reader sampled it.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/farellandr/ticketdesk/internal/service"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL    = 30 * time.Second
	DefaultPrefix = "ticketdesk"

	generationTTL = 24 * time.Hour
)

var errStaleFill = errors.New("event changed since read")

type EventCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

func NewEventCache(rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *EventCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EventCache{
		rdb:    rdb,
		ttl:    ttl,
		prefix: DefaultPrefix,
		logger: logger,
	}
}

func (c *EventCache) key(id uint) string {
	return fmt.Sprintf("%s:event:%d", c.prefix, id)
}

func (c *EventCache) generationKey(id uint) string {
	return c.key(id) + ":gen"
}

func (c *EventCache) GetEvent(ctx context.Context, id uint) (service.EventView, bool) {
	bs, err := c.rdb.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache get", "event_id", id, "error", err)
		}
		return service.EventView{}, false
	}

	var view service.EventView
	if err := json.Unmarshal(bs, &view); err != nil {
		c.logger.Warn("cache decode", "event_id", id, "error", err)
		return service.EventView{}, false
	}
	return view, true
}

// Generation samples the event's counter. A missing counter reads as zero.
func (c *EventCache) Generation(ctx context.Context, id uint) (uint64, bool) {
	gen, err := c.rdb.Get(ctx, c.generationKey(id)).Uint64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.logger.Warn("cache generation", "event_id", id, "error", err)
		return 0, false
	}
	return gen, true
}

func (c *EventCache) SetEvent(ctx context.Context, view service.EventView, generation uint64) {
	bs, err := json.Marshal(view)
	if err != nil {
		c.logger.Warn("cache encode", "event_id", view.ID, "error", err)
		return
	}

	genKey := c.generationKey(view.ID)
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Uint64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key(view.ID), bs, c.ttl)
			return nil
		})
		return err
	}, genKey)
	switch {
	case err == nil:
	case errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
		c.logger.Debug("cache fill skipped", "event_id", view.ID)
	default:
		c.logger.Warn("cache set", "event_id", view.ID, "error", err)
	}
}

func (c *EventCache) InvalidateEvent(ctx context.Context, id uint) {
	genKey := c.generationKey(id)
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, generationTTL)
		pipe.Del(ctx, c.key(id))
		return nil
	})
	if err != nil {
		c.logger.Warn("cache invalidate", "event_id", id, "error", err)
	}
}
