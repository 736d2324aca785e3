package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/oncall-service/internal/domain"
	"github.com/spec-kit/oncall-service/internal/events"
)

const dutyCacheKeyPrefix = "oncall:duty:"

// DutyCache keeps short-lived per-date duty resolutions in Redis for the
// current on-call endpoint. Entries are invalidated precisely when a swap
// approval or a day override changes the dates they cover; the TTL is only a
// backstop.
type DutyCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewDutyCache constructs the cache. A nil client disables it.
func NewDutyCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *DutyCache {
	return &DutyCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached assignment for the date, if present.
func (c *DutyCache) Get(ctx context.Context, date time.Time) (*domain.DutyAssignment, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, cacheKey(date)).Bytes()
	if err != nil {
		return nil, false
	}
	var assignment domain.DutyAssignment
	if err := json.Unmarshal(raw, &assignment); err != nil {
		return nil, false
	}
	return &assignment, true
}

// Set stores the assignment under its date.
func (c *DutyCache) Set(ctx context.Context, assignment *domain.DutyAssignment) {
	if c == nil || c.client == nil || assignment == nil {
		return
	}
	raw, err := json.Marshal(assignment)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(assignment.Date), raw, c.ttl).Err(); err != nil {
		c.logger.Debug("duty cache set failed", zap.Error(err))
	}
}

// RegisterInvalidation subscribes to the mutation events that can change a
// date's resolution.
func (c *DutyCache) RegisterInvalidation(dispatcher events.Dispatcher) {
	if c == nil || dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventOverrideCreated, func(ctx context.Context, event events.Event) error {
		if payload, ok := event.Payload.(events.OverrideCreatedPayload); ok {
			c.invalidate(ctx, payload.Date)
		}
		return nil
	})
	dispatcher.Subscribe(events.EventSwapApproved, func(ctx context.Context, event events.Event) error {
		if payload, ok := event.Payload.(events.SwapResolvedPayload); ok {
			// A swap moves a whole week; drop all seven dates.
			for i := 0; i < 7; i++ {
				c.invalidate(ctx, payload.WeekStart.AddDate(0, 0, i))
			}
		}
		return nil
	})
}

func (c *DutyCache) invalidate(ctx context.Context, date time.Time) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, cacheKey(date)).Err(); err != nil {
		c.logger.Debug("duty cache invalidation failed", zap.Error(err))
	}
}

func cacheKey(date time.Time) string {
	return dutyCacheKeyPrefix + domain.DateOnly(date).Format("2006-01-02")
}
