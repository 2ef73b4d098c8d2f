package storage

import (
	"context"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastebite/checkout/internal/core/domain"
)

func getMySQLDB(t *testing.T) *sqlx.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/tastebite?parseTime=true"
	}

	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	return db
}

func testOrder(userID *string) domain.Order {
	sessionID := "sess_" + uuid.NewString()[:8]
	return domain.Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		GuestInfo:     domain.GuestInfo{Name: "Test Guest", Email: "guest@example.com"},
		TotalAmount:   499.50,
		Currency:      "INR",
		PaymentID:     &sessionID,
		PaymentLink:   "https://pay.example.com/c/" + sessionID,
		PaymentStatus: domain.PaymentStatusPending,
		OrderStatus:   domain.OrderStatusPlaced,
		CreatedAt:     time.Now().Truncate(time.Second),
	}
}

func cleanupOrder(t *testing.T, db *sqlx.DB, id string) {
	t.Cleanup(func() {
		db.Exec(`DELETE FROM orders WHERE id = ?`, id)
	})
}

func TestCreateAndGetOrder(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)
	order := testOrder(nil)
	cleanupOrder(t, db, order.ID)

	require.NoError(t, adapter.CreateOrder(ctx, order))

	got, err := adapter.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, order.ID, got.ID)
	assert.Nil(t, got.UserID)
	assert.Equal(t, order.GuestInfo, got.GuestInfo, "guest snapshot round-trips through the JSON column")
	assert.Equal(t, order.TotalAmount, got.TotalAmount)
	assert.Equal(t, domain.PaymentStatusPending, got.PaymentStatus)
	assert.Equal(t, domain.OrderStatusPlaced, got.OrderStatus)
}

func TestGetOrder_NotFound(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	got, err := NewMySQLAdapter(db).GetOrder(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestConfirmOrder_FlipsRowOnlyOnce(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)
	order := testOrder(nil)
	cleanupOrder(t, db, order.ID)
	require.NoError(t, adapter.CreateOrder(ctx, order))

	paymentID := "txn_" + uuid.NewString()[:8]
	userID := uuid.NewString()

	changed, err := adapter.ConfirmOrder(ctx, order.ID, &paymentID, &userID)
	require.NoError(t, err)
	assert.True(t, changed, "first confirmation flips the row")

	changed, err = adapter.ConfirmOrder(ctx, order.ID, &paymentID, &userID)
	require.NoError(t, err)
	assert.False(t, changed, "second confirmation must not match the row")

	got, err := adapter.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.PaymentStatusCompleted, got.PaymentStatus)
	assert.Equal(t, domain.OrderStatusConfirmed, got.OrderStatus)
	require.NotNil(t, got.PaymentID)
	assert.Equal(t, paymentID, *got.PaymentID)
	require.NotNil(t, got.UserID)
	assert.Equal(t, userID, *got.UserID)
}

func TestConfirmOrder_NilArgsKeepExistingValues(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)
	order := testOrder(nil)
	cleanupOrder(t, db, order.ID)
	require.NoError(t, adapter.CreateOrder(ctx, order))

	changed, err := adapter.ConfirmOrder(ctx, order.ID, nil, nil)
	require.NoError(t, err)
	require.True(t, changed)

	got, err := adapter.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PaymentID)
	assert.Equal(t, *order.PaymentID, *got.PaymentID, "session id survives a nil payment id")
	assert.Nil(t, got.UserID)
}

func TestItems_InsertAndGet(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)
	order := testOrder(nil)
	cleanupOrder(t, db, order.ID)
	require.NoError(t, adapter.CreateOrder(ctx, order))

	foodID := uuid.NewString()
	items := []domain.OrderItem{
		{OrderID: order.ID, FoodID: &foodID, Name: "Pizza", Price: 299, Quantity: 2, Image: "pizza.png"},
		{OrderID: order.ID, FoodID: nil, Name: "Mystery Side", Price: 99, Quantity: 1},
	}
	require.NoError(t, adapter.InsertItems(ctx, items))

	got, err := adapter.GetItems(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	byName := map[string]domain.OrderItem{got[0].Name: got[0], got[1].Name: got[1]}
	require.NotNil(t, byName["Pizza"].FoodID)
	assert.Equal(t, foodID, *byName["Pizza"].FoodID)
	assert.Nil(t, byName["Mystery Side"].FoodID, "malformed catalog ids are stored as null references")
	assert.Equal(t, 99.0, byName["Mystery Side"].Price)
}

func TestListByUser_NewestFirstAndScoped(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)
	userID := uuid.NewString()
	otherID := uuid.NewString()

	older := testOrder(&userID)
	older.CreatedAt = time.Now().Add(-time.Hour).Truncate(time.Second)
	newer := testOrder(&userID)
	foreign := testOrder(&otherID)
	for _, o := range []domain.Order{older, newer, foreign} {
		cleanupOrder(t, db, o.ID)
		require.NoError(t, adapter.CreateOrder(ctx, o))
	}

	orders, err := adapter.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, newer.ID, orders[0].ID)
	assert.Equal(t, older.ID, orders[1].ID)
}

func TestDeleteByUser_CascadesToItems(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)
	userID := uuid.NewString()
	order := testOrder(&userID)
	cleanupOrder(t, db, order.ID)
	require.NoError(t, adapter.CreateOrder(ctx, order))
	require.NoError(t, adapter.InsertItems(ctx, []domain.OrderItem{
		{OrderID: order.ID, Name: "Pizza", Price: 299, Quantity: 1},
	}))

	require.NoError(t, adapter.DeleteByUser(ctx, userID))

	got, err := adapter.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	var itemCount int
	require.NoError(t, db.Get(&itemCount,
		`SELECT COUNT(*) FROM order_items WHERE order_id = ?`, order.ID))
	assert.Zero(t, itemCount, "item snapshots go with their parent order")
}

func TestFindByEmail(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)
	userID := uuid.NewString()
	email := userID[:8] + "@example.com"

	_, err := db.Exec(`INSERT INTO users (id, name, email) VALUES (?, ?, ?)`,
		userID, "Directory User", email)
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Exec(`DELETE FROM users WHERE id = ?`, userID)
	})

	got, err := adapter.FindByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	got, err = adapter.FindByEmail(ctx, "nobody-"+email)
	require.NoError(t, err)
	assert.Empty(t, got)
}
