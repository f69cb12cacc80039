package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyWebhookEvent = "webhook:event:"

// WebhookDedup remembers processed webhook delivery IDs so duplicate
// deliveries can be short-circuited. Processing is idempotent anyway, so a
// missed mark only costs a redundant reconcile, never correctness.
type WebhookDedup struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewWebhookDedup returns a new WebhookDedup.
func NewWebhookDedup(rdb *redis.Client, ttl time.Duration) *WebhookDedup {
	return &WebhookDedup{rdb: rdb, ttl: ttl}
}

// Seen reports whether the delivery ID was already processed.
func (d *WebhookDedup) Seen(ctx context.Context, deliveryID string) (bool, error) {
	n, err := d.rdb.Exists(ctx, keyWebhookEvent+deliveryID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkSeen records the delivery ID. Called after processing succeeds, so a
// failed delivery is retried rather than skipped.
func (d *WebhookDedup) MarkSeen(ctx context.Context, deliveryID string) error {
	return d.rdb.Set(ctx, keyWebhookEvent+deliveryID, "1", d.ttl).Err()
}
