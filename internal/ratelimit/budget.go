package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DraftBudget caps how many remote drafts may be generated per UTC day.
// The counter lives in Redis so the cap survives restarts. A Redis failure
// denies the draft; the caller surfaces the reason instead of silently
// skipping the cap.
type DraftBudget struct {
	rdb *redis.Client
	cap int
}

// NewDraftBudget creates a daily draft budget. If rdb is nil or cap is not
// positive, every check passes.
func NewDraftBudget(rdb *redis.Client, cap int) *DraftBudget {
	return &DraftBudget{rdb: rdb, cap: cap}
}

func dailyDraftKey(now time.Time) string {
	return fmt.Sprintf("hause:drafts:remote:%s", now.UTC().Format("2006-01-02"))
}

// Allow consumes one slot from today's budget. It returns false once the
// cap is reached; the consumed count is never decremented, so a denied call
// stays denied for the rest of the day.
func (b *DraftBudget) Allow(ctx context.Context) (bool, error) {
	if b.rdb == nil || b.cap <= 0 {
		return true, nil
	}

	now := time.Now()
	key := dailyDraftKey(now)

	pipe := b.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttlUntilNextDay(now))
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("draft budget check: %w", err)
	}

	return incr.Val() <= int64(b.cap), nil
}

// Used returns how many remote drafts were counted today.
func (b *DraftBudget) Used(ctx context.Context) (int64, error) {
	if b.rdb == nil {
		return 0, nil
	}
	n, err := b.rdb.Get(ctx, dailyDraftKey(time.Now())).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("draft budget read: %w", err)
	}
	return n, nil
}

// Cap returns the configured daily cap.
func (b *DraftBudget) Cap() int { return b.cap }

// ttlUntilNextDay keeps the key one hour past midnight UTC so late reads
// around the rollover still see the old counter.
func ttlUntilNextDay(now time.Time) time.Duration {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	return next.Sub(now) + time.Hour
}
