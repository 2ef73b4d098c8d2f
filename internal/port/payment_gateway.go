package port

import "context"

type SessionLineItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type SessionRequest struct {
	Amount        float64           `json:"amount"`
	Currency      string            `json:"currency"`
	CustomerName  string            `json:"customer_name"`
	CustomerEmail string            `json:"customer_email"`
	LineItems     []SessionLineItem `json:"line_items"`
	ReturnURL     string            `json:"return_url"`
}

type CheckoutSession struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

type PaymentGateway interface {
	// CreateSession creates a priced, single-use checkout session. Failure
	// aborts checkout before anything is persisted.
	CreateSession(ctx context.Context, req SessionRequest) (*CheckoutSession, error)
}
