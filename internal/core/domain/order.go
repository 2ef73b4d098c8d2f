package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "Placed"
	OrderStatusConfirmed OrderStatus = "Confirmed"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusCompleted PaymentStatus = "Completed"
)

// GuestInfo is the buyer snapshot captured at checkout time. It is stored as a
// JSON column and never rewritten after the order is reconciled.
type GuestInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (g GuestInfo) Value() (driver.Value, error) {
	return json.Marshal(g)
}

func (g *GuestInfo) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, g)
	case string:
		return json.Unmarshal([]byte(v), g)
	case nil:
		*g = GuestInfo{}
		return nil
	default:
		return fmt.Errorf("guest_info: cannot scan %T", src)
	}
}

// Order is one checkout attempt, tracked from Placed/Pending through the
// at-most-once transition to Confirmed/Completed. TotalAmount is fixed at
// creation; items are display snapshots, not the pricing source of truth.
type Order struct {
	ID            string        `db:"id" json:"id"`
	UserID        *string       `db:"user_id" json:"userId"`
	GuestInfo     GuestInfo     `db:"guest_info" json:"guestInfo"`
	TotalAmount   float64       `db:"total_amount" json:"totalAmount"`
	Currency      string        `db:"currency" json:"currency"`
	PaymentID     *string       `db:"payment_id" json:"paymentId"`
	PaymentLink   string        `db:"payment_link" json:"paymentLink"`
	PaymentStatus PaymentStatus `db:"payment_status" json:"paymentStatus"`
	OrderStatus   OrderStatus   `db:"order_status" json:"orderStatus"`
	CreatedAt     time.Time     `db:"created_at" json:"createdAt"`

	// Items is populated by the read model; it is not a column.
	Items []OrderItem `db:"-" json:"items,omitempty"`
}

// Confirmed reports whether the order has already been reconciled.
func (o Order) Confirmed() bool {
	return o.OrderStatus == OrderStatusConfirmed || o.PaymentStatus == PaymentStatusCompleted
}

// OrderItem is a point-in-time copy of a cart line. FoodID is nil when the
// cart supplied an id that is not a well-formed catalog identifier; the
// snapshot fields still record what was sold.
type OrderItem struct {
	OrderID  string  `db:"order_id" json:"orderId"`
	FoodID   *string `db:"food_id" json:"foodId"`
	Name     string  `db:"name" json:"name"`
	Price    float64 `db:"price" json:"price"`
	Quantity int     `db:"quantity" json:"quantity"`
	Image    string  `db:"image" json:"image"`
}
