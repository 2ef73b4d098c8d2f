package service

import (
	"errors"
	"log"

	"github.com/tastebite/checkout/internal/core/domain"
	"github.com/tastebite/checkout/internal/port"
)

var (
	ErrInvalidAmount = errors.New("amount must be a positive number")
	ErrOrderNotFound = errors.New("order not found")
)

// Notification is a queued order-confirmation job. Jobs are drained by workers
// started in cmd/server; the queue is detached from request handling.
type Notification struct {
	Email string
	Order domain.Order
}

type OrderService struct {
	repo    port.OrderRepository
	users   port.UserDirectory
	carts   port.CartRepository
	gateway port.PaymentGateway

	// returnBase is the absolute URL the gateway redirects the buyer back to;
	// the order id is appended so the redirect carries its own correlation.
	returnBase string

	notifyQueue chan Notification
}

func NewOrderService(
	repo port.OrderRepository,
	users port.UserDirectory,
	carts port.CartRepository,
	gateway port.PaymentGateway,
	returnBase string,
	queueSize int,
) *OrderService {
	return &OrderService{
		repo:        repo,
		users:       users,
		carts:       carts,
		gateway:     gateway,
		returnBase:  returnBase,
		notifyQueue: make(chan Notification, queueSize),
	}
}

// Notifications exposes the confirmation queue for the worker pool.
func (s *OrderService) Notifications() <-chan Notification {
	return s.notifyQueue
}

func (s *OrderService) Close() {
	close(s.notifyQueue)
}

// enqueueNotification never blocks a request; a full queue drops the job and
// logs, which is acceptable for an at-least-once, non-fatal side effect.
func (s *OrderService) enqueueNotification(n Notification) {
	select {
	case s.notifyQueue <- n:
	default:
		log.Printf("notify: queue full, dropping confirmation for order %s", n.Order.ID)
	}
}
