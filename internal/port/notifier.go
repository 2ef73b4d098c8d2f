package port

import (
	"context"

	"github.com/tastebite/checkout/internal/core/domain"
)

type Notifier interface {
	// Send delivers an order-confirmation message. Callers treat failure as
	// log-only; delivery is at-least-once across retries by the caller's
	// worker, never awaited by a request handler.
	Send(ctx context.Context, email string, order domain.Order) error
}
