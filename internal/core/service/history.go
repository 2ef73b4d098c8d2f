package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/tastebite/checkout/internal/core/domain"
)

// Get returns one order with its item snapshot, for invoices. An order with no
// items comes back with an empty list; the caller renders that explicitly.
func (s *OrderService) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("fetch order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	items, err := s.repo.GetItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("fetch items: %w", err)
	}
	if items == nil {
		items = []domain.OrderItem{}
	}
	order.Items = items
	return order, nil
}

// History returns all orders for a user, newest first, each with its items.
func (s *OrderService) History(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i := range orders {
		g.Go(func() error {
			items, err := s.repo.GetItems(ctx, orders[i].ID)
			if err != nil {
				return err
			}
			orders[i].Items = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load item snapshots: %w", err)
	}
	return orders, nil
}

// ClearHistory irreversibly deletes every order owned by userID; the item
// snapshots go with their parent rows.
func (s *OrderService) ClearHistory(ctx context.Context, userID string) error {
	if err := s.repo.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("delete orders: %w", err)
	}
	return nil
}
