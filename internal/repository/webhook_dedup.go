package repository

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/swharr/storm-surge/internal/constant"
)

// WebhookDedup tracks webhook delivery digests so replayed deliveries can be
// short-circuited. Entries expire after constant.WebhookDedupTTL, a provider
// retrying after that window is treated as a fresh delivery.
type WebhookDedup interface {
	MarkDelivery(ctx context.Context, digest string) (bool, error)
}

type webhookDedup struct {
	redisClient *redis.Client
}

func newWebhookDedup(redisClient *redis.Client) WebhookDedup {
	return &webhookDedup{
		redisClient: redisClient,
	}
}

// MarkDelivery records the digest and reports whether this is the first time
// it has been seen.
func (d *webhookDedup) MarkDelivery(ctx context.Context, digest string) (bool, error) {
	status := d.redisClient.SetNX(
		ctx,
		fmt.Sprintf("webhook_delivery_%s", digest),
		1,
		constant.WebhookDedupTTL,
	)
	if err := status.Err(); err != nil {
		return false, err
	}
	return status.Val(), nil
}
