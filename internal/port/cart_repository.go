package port

import "context"

type CartRepository interface {
	// Clear drops the persisted cart of a user after a successful checkout.
	// Idempotent; clearing an absent cart is not an error.
	Clear(ctx context.Context, userID string) error
}
