package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/tastebite/checkout/internal/core/domain"
	"github.com/tastebite/checkout/internal/port"
)

// Mock OrderRepository backed by maps.
type mockRepo struct {
	mu     sync.Mutex
	orders map[string]domain.Order
	items  map[string][]domain.OrderItem

	createErr      error
	insertItemsErr error
	confirmErr     error
	getItemsErr    error
	forceNoChange  bool
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		orders: make(map[string]domain.Order),
		items:  make(map[string][]domain.OrderItem),
	}
}

func (m *mockRepo) CreateOrder(ctx context.Context, order domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.orders[order.ID] = order
	return nil
}

func (m *mockRepo) InsertItems(ctx context.Context, items []domain.OrderItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertItemsErr != nil {
		return m.insertItemsErr
	}
	for _, item := range items {
		m.items[item.OrderID] = append(m.items[item.OrderID], item)
	}
	return nil
}

func (m *mockRepo) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	copied := order
	return &copied, nil
}

func (m *mockRepo) GetItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getItemsErr != nil {
		return nil, m.getItemsErr
	}
	return append([]domain.OrderItem(nil), m.items[orderID]...), nil
}

func (m *mockRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []domain.Order
	for _, order := range m.orders {
		if order.UserID != nil && *order.UserID == userID {
			res = append(res, order)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}

func (m *mockRepo) ConfirmOrder(ctx context.Context, id string, paymentID, userID *string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.confirmErr != nil {
		return false, m.confirmErr
	}
	order, ok := m.orders[id]
	if !ok || order.PaymentStatus == domain.PaymentStatusCompleted || m.forceNoChange {
		return false, nil
	}
	order.PaymentStatus = domain.PaymentStatusCompleted
	order.OrderStatus = domain.OrderStatusConfirmed
	if paymentID != nil {
		order.PaymentID = paymentID
	}
	if userID != nil {
		order.UserID = userID
	}
	m.orders[id] = order
	return true, nil
}

func (m *mockRepo) DeleteByUser(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, order := range m.orders {
		if order.UserID != nil && *order.UserID == userID {
			delete(m.orders, id)
			delete(m.items, id)
		}
	}
	return nil
}

// Mock UserDirectory.
type mockUsers struct {
	byEmail map[string]string
	err     error
}

func (m *mockUsers) FindByEmail(ctx context.Context, email string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.byEmail[email], nil
}

// Mock CartRepository.
type mockCarts struct {
	mu       sync.Mutex
	cleared  []string
	clearErr error
}

func (m *mockCarts) Clear(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clearErr != nil {
		return m.clearErr
	}
	m.cleared = append(m.cleared, userID)
	return nil
}

// Mock PaymentGateway recording the last session request.
type mockGateway struct {
	mu      sync.Mutex
	session *port.CheckoutSession
	err     error
	calls   int
	lastReq port.SessionRequest
}

func (m *mockGateway) CreateSession(ctx context.Context, req port.SessionRequest) (*port.CheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

var errBoom = errors.New("boom")

type fixture struct {
	repo    *mockRepo
	users   *mockUsers
	carts   *mockCarts
	gateway *mockGateway
	svc     *OrderService
}

func newFixture(returnBase string) *fixture {
	f := &fixture{
		repo:  newMockRepo(),
		users: &mockUsers{byEmail: make(map[string]string)},
		carts: &mockCarts{},
		gateway: &mockGateway{session: &port.CheckoutSession{
			SessionID:   "sess_123",
			CheckoutURL: "https://pay.example.com/c/sess_123",
		}},
	}
	f.svc = NewOrderService(f.repo, f.users, f.carts, f.gateway, returnBase, 16)
	return f
}
