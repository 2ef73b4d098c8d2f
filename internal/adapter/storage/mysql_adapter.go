package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tastebite/checkout/internal/core/domain"
)

// MySQLAdapter is the order store and the read-only user directory. It is the
// single source of truth for order state.
type MySQLAdapter struct {
	db *sqlx.DB
}

func NewMySQLAdapter(db *sqlx.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

var insertOrderQuery = `
	INSERT INTO orders
		(id, user_id, guest_info, total_amount, currency, payment_id,
		 payment_link, payment_status, order_status, created_at)
	VALUES
		(:id, :user_id, :guest_info, :total_amount, :currency, :payment_id,
		 :payment_link, :payment_status, :order_status, :created_at)`

func (m *MySQLAdapter) CreateOrder(ctx context.Context, order domain.Order) error {
	_, err := m.db.NamedExecContext(ctx, insertOrderQuery, order)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

var insertItemsQuery = `
	INSERT INTO order_items (order_id, food_id, name, price, quantity, image)
	VALUES (:order_id, :food_id, :name, :price, :quantity, :image)`

func (m *MySQLAdapter) InsertItems(ctx context.Context, items []domain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	_, err := m.db.NamedExecContext(ctx, insertItemsQuery, items)
	if err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}
	return nil
}

var getOrderQuery = `
	SELECT id, user_id, guest_info, total_amount, currency, payment_id,
	       payment_link, payment_status, order_status, created_at
	FROM orders WHERE id = ?`

func (m *MySQLAdapter) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	err := m.db.GetContext(ctx, &order, getOrderQuery, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}
	return &order, nil
}

var getItemsQuery = `
	SELECT order_id, food_id, name, price, quantity, image
	FROM order_items WHERE order_id = ?`

func (m *MySQLAdapter) GetItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	var items []domain.OrderItem
	err := m.db.SelectContext(ctx, &items, getItemsQuery, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	return items, nil
}

var listByUserQuery = `
	SELECT id, user_id, guest_info, total_amount, currency, payment_id,
	       payment_link, payment_status, order_status, created_at
	FROM orders WHERE user_id = ? ORDER BY created_at DESC, id DESC`

func (m *MySQLAdapter) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	var orders []domain.Order
	err := m.db.SelectContext(ctx, &orders, listByUserQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	return orders, nil
}

// confirmOrderQuery only touches rows that are not already completed, so two
// racing reconciliations cannot both observe a changed row.
var confirmOrderQuery = `
	UPDATE orders
	SET payment_status = ?, order_status = ?,
	    payment_id = COALESCE(?, payment_id),
	    user_id = COALESCE(?, user_id)
	WHERE id = ? AND payment_status <> ?`

func (m *MySQLAdapter) ConfirmOrder(ctx context.Context, id string, paymentID, userID *string) (bool, error) {
	result, err := m.db.ExecContext(ctx, confirmOrderQuery,
		domain.PaymentStatusCompleted, domain.OrderStatusConfirmed,
		paymentID, userID, id, domain.PaymentStatusCompleted,
	)
	if err != nil {
		return false, fmt.Errorf("confirm order: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("confirm order: rows affected: %w", err)
	}
	return rows > 0, nil
}

var deleteByUserQuery = `DELETE FROM orders WHERE user_id = ?`

func (m *MySQLAdapter) DeleteByUser(ctx context.Context, userID string) error {
	// order_items rows go with their parent via ON DELETE CASCADE.
	_, err := m.db.ExecContext(ctx, deleteByUserQuery, userID)
	if err != nil {
		return fmt.Errorf("delete orders: %w", err)
	}
	return nil
}

var findUserByEmailQuery = `SELECT id FROM users WHERE email = ?`

func (m *MySQLAdapter) FindByEmail(ctx context.Context, email string) (string, error) {
	var id string
	err := m.db.GetContext(ctx, &id, findUserByEmailQuery, email)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query user by email: %w", err)
	}
	return id, nil
}
