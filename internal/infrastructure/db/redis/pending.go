package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPendingTTL = 10 * time.Minute

// PendingMarker records which users already have a summary job queued, so
// that further requests can be coalesced into it.
// Key format: summary:pending:<user_id>
type PendingMarker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPendingMarker wraps client. The ttl bounds how long a marker survives a
// worker that died before clearing it; ttl <= 0 uses defaultPendingTTL.
func NewPendingMarker(client *redis.Client, ttl time.Duration) *PendingMarker {
	if ttl <= 0 {
		ttl = defaultPendingTTL
	}
	return &PendingMarker{client: client, ttl: ttl}
}

// MarkPending sets the marker and reports whether it was newly set.
func (p *PendingMarker) MarkPending(ctx context.Context, userID uint) (bool, error) {
	ok, err := p.client.SetNX(ctx, pendingKey(userID), "1", p.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("mark pending: %w", err)
	}
	return ok, nil
}

// Clear removes the marker once the job has started.
func (p *PendingMarker) Clear(ctx context.Context, userID uint) error {
	if err := p.client.Del(ctx, pendingKey(userID)).Err(); err != nil {
		return fmt.Errorf("clear pending: %w", err)
	}
	return nil
}

func pendingKey(userID uint) string {
	return fmt.Sprintf("summary:pending:%d", userID)
}
