package port

import (
	"context"

	"github.com/tastebite/checkout/internal/core/domain"
)

type OrderRepository interface {
	// CreateOrder persists a new order row. The order id is generated by the
	// caller before the gateway session exists.
	CreateOrder(ctx context.Context, order domain.Order) error

	// InsertItems persists the line-item snapshot for an order.
	InsertItems(ctx context.Context, items []domain.OrderItem) error

	// GetOrder retrieves an order by id, nil when absent.
	GetOrder(ctx context.Context, id string) (*domain.Order, error)

	// GetItems retrieves the item snapshot for an order.
	GetItems(ctx context.Context, orderID string) ([]domain.OrderItem, error)

	// ListByUser retrieves all orders for a user, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)

	// ConfirmOrder atomically transitions an order to Confirmed/Completed,
	// recording paymentID and userID when non-nil. It updates only rows not
	// already completed and reports whether a row actually changed.
	ConfirmOrder(ctx context.Context, id string, paymentID, userID *string) (bool, error)

	// DeleteByUser removes all orders owned by a user; item snapshots go with
	// their parent rows.
	DeleteByUser(ctx context.Context, userID string) error
}
