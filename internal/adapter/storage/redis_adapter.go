package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const cartKeyPrefix = "cart:"

// RedisAdapter holds per-user shopping carts. Checkout only ever clears a
// cart; writing it belongs to the storefront, not this core.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) Clear(ctx context.Context, userID string) error {
	return r.client.Del(ctx, cartKeyPrefix+userID).Err()
}

// SaveCart stores a cart snapshot as JSON. Used by the storefront and by
// tests; not part of the checkout port.
func (r *RedisAdapter) SaveCart(ctx context.Context, userID string, cart interface{}) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	return r.client.Set(ctx, cartKeyPrefix+userID, payload, 0).Err()
}
