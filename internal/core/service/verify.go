package service

import (
	"context"
	"fmt"
	"log"

	"github.com/tastebite/checkout/internal/core/domain"
)

// Verify is the reconciliation handler invoked when the buyer returns from the
// gateway or when a client polls for status. The transition to
// Confirmed/Completed happens at most once: the repository performs a single
// conditional update, and only the call that actually flipped the row enqueues
// the confirmation email. Repeated calls are no-ops returning current state.
func (s *OrderService) Verify(ctx context.Context, orderID string, paymentID *string) (*domain.Order, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("fetch order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	// Fast path. Correctness does not depend on it; the conditional update
	// below closes the race between a redirect and a polling client.
	if order.Confirmed() {
		return order, nil
	}

	userID := order.UserID
	if userID == nil && order.GuestInfo.Email != "" {
		id, err := s.users.FindByEmail(ctx, order.GuestInfo.Email)
		if err != nil {
			return nil, fmt.Errorf("resolve account for %s: %w", order.GuestInfo.Email, err)
		}
		if id != "" {
			userID = &id
		}
	}

	changed, err := s.repo.ConfirmOrder(ctx, orderID, paymentID, userID)
	if err != nil {
		return nil, fmt.Errorf("confirm order: %w", err)
	}

	updated, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("reload order: %w", err)
	}
	if updated == nil {
		return nil, ErrOrderNotFound
	}

	if !changed {
		// Another reconciliation won the update; it owns the notification.
		return updated, nil
	}

	if order.GuestInfo.Email == "" {
		log.Printf("verify: order %s confirmed without a guest email, skipping notification", orderID)
		return updated, nil
	}

	items, err := s.repo.GetItems(ctx, orderID)
	if err != nil {
		log.Printf("verify: order %s: failed to load items for notification: %v", orderID, err)
	}
	snapshot := *updated
	snapshot.Items = items
	s.enqueueNotification(Notification{Email: order.GuestInfo.Email, Order: snapshot})

	return updated, nil
}
