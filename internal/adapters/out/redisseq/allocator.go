// Package redisseq issues order numbers from per-day Redis counters.
package redisseq

import (
	"context"
	"fmt"
	"time"

	"exportflow/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "order-seq:"
	// maxPerDay is the largest sequence that fits the four-digit suffix.
	maxPerDay = 9999
	// keyTTL keeps a day's counter around a little longer than the day.
	keyTTL = 48 * time.Hour
)

// Allocator implements ports.OrderNumberAllocator with INCR on
// order-seq:YYYYMMDD. Numbers look like EX-20240102-0001.
type Allocator struct {
	client redis.Cmdable
}

// NewAllocator creates an allocator on client.
func NewAllocator(client redis.Cmdable) *Allocator {
	return &Allocator{client: client}
}

// Next returns the next number for the UTC day of createdAt.
//
// Returns:
//   - ValueIsRequiredError for a zero createdAt
//   - ValueIsOutOfRangeError once a day has used all 9999 numbers
func (a *Allocator) Next(ctx context.Context, createdAt time.Time) (string, error) {
	if createdAt.IsZero() {
		return "", errs.NewValueIsRequiredError("created at")
	}

	day := createdAt.UTC().Format("20060102")
	key := keyPrefix + day

	seq, err := a.client.Incr(ctx, key).Result()
	if err != nil {
		return "", fmt.Errorf("increment %s: %w", key, err)
	}
	if seq == 1 {
		if err = a.client.Expire(ctx, key, keyTTL).Err(); err != nil {
			return "", fmt.Errorf("expire %s: %w", key, err)
		}
	}
	if seq > maxPerDay {
		return "", errs.NewValueIsOutOfRangeError("order sequence", seq, 1, maxPerDay)
	}

	return fmt.Sprintf("EX-%s-%04d", day, seq), nil
}
