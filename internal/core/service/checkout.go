package service

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tastebite/checkout/internal/core/domain"
	"github.com/tastebite/checkout/internal/port"
)

// Buyer describes who is paying. UserID is set for an authenticated identity
// and empty for a guest; Name and Email are always snapshotted onto the order.
type Buyer struct {
	UserID string
	Name   string
	Email  string
}

type CartLine struct {
	ID       string
	Name     string
	Price    float64
	Quantity int
	Image    string
}

type CheckoutInput struct {
	Amount   float64
	Currency string
	Buyer    Buyer
	Cart     []CartLine
}

type CheckoutResult struct {
	PaymentLink string
	SessionID   string
	OrderID     string
}

// Checkout turns a cart into a persisted order plus a gateway session and
// returns the redirect URL. The order row exists and is addressable by its id
// before the buyer is sent to the gateway; if the session cannot be created
// nothing is written at all.
func (s *OrderService) Checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	base, err := normalizeBaseURL(s.returnBase)
	if err != nil {
		return nil, fmt.Errorf("return base url: %w", err)
	}

	// The id is generated before the gateway call so the return URL can
	// already carry it.
	orderID := uuid.NewString()
	returnURL := fmt.Sprintf("%s/orders/verify?orderId=%s", base, orderID)

	lineItems := make([]port.SessionLineItem, 0, len(in.Cart))
	for _, line := range in.Cart {
		lineItems = append(lineItems, port.SessionLineItem{
			Name:     line.Name,
			Price:    line.Price,
			Quantity: line.Quantity,
		})
	}

	sess, err := s.gateway.CreateSession(ctx, port.SessionRequest{
		Amount:        in.Amount,
		Currency:      in.Currency,
		CustomerName:  in.Buyer.Name,
		CustomerEmail: in.Buyer.Email,
		LineItems:     lineItems,
		ReturnURL:     returnURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create gateway session: %w", err)
	}

	order := domain.Order{
		ID:            orderID,
		GuestInfo:     domain.GuestInfo{Name: in.Buyer.Name, Email: in.Buyer.Email},
		TotalAmount:   in.Amount,
		Currency:      in.Currency,
		PaymentID:     &sess.SessionID,
		PaymentLink:   sess.CheckoutURL,
		PaymentStatus: domain.PaymentStatusPending,
		OrderStatus:   domain.OrderStatusPlaced,
		CreatedAt:     time.Now(),
	}
	if in.Buyer.UserID != "" {
		userID := in.Buyer.UserID
		order.UserID = &userID
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	if len(in.Cart) > 0 {
		items := make([]domain.OrderItem, 0, len(in.Cart))
		for _, line := range in.Cart {
			items = append(items, domain.OrderItem{
				OrderID:  orderID,
				FoodID:   catalogID(orderID, line.ID),
				Name:     line.Name,
				Price:    line.Price,
				Quantity: line.Quantity,
				Image:    line.Image,
			})
		}
		// The order itself is the source of truth for the charge; a failed
		// snapshot insert is logged loudly (invoices depend on it) but does
		// not fail the sale.
		if err := s.repo.InsertItems(ctx, items); err != nil {
			log.Printf("checkout: order %s: failed to save item snapshot: %v", orderID, err)
		}
	}

	if in.Buyer.UserID != "" {
		if err := s.carts.Clear(ctx, in.Buyer.UserID); err != nil {
			log.Printf("checkout: failed to clear cart for user %s: %v", in.Buyer.UserID, err)
		}
	}

	return &CheckoutResult{
		PaymentLink: sess.CheckoutURL,
		SessionID:   sess.SessionID,
		OrderID:     orderID,
	}, nil
}

// catalogID validates a cart-supplied reference against the catalog id format.
// A malformed id must not block the sale, so the item is kept without a food
// reference.
func catalogID(orderID, raw string) *string {
	if _, err := uuid.Parse(raw); err != nil {
		log.Printf("checkout: order %s: cart line id %q is not a catalog id, keeping snapshot only", orderID, raw)
		return nil
	}
	id := raw
	return &id
}

func normalizeBaseURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%q is not an absolute http(s) url", raw)
	}
	return strings.TrimRight(raw, "/"), nil
}
