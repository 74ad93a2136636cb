package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus enumerates the manual QR payment flow states.
type OrderStatus string

const (
	OrderStatusPendingPayment       OrderStatus = "PENDING_PAYMENT"
	OrderStatusAwaitingVerification OrderStatus = "AWAITING_VERIFICATION"
	OrderStatusPaid                 OrderStatus = "PAID"
	OrderStatusCancelled            OrderStatus = "CANCELLED"
)

// Order represents a checkout of the student's cart.
type Order struct {
	ID            uuid.UUID   `json:"id"`
	UserID        int         `json:"user_id"`
	Status        OrderStatus `json:"status"`
	SubtotalPaise int64       `json:"subtotal_paise"`
	DiscountPaise int64       `json:"discount_paise"`
	TotalPaise    int64       `json:"total_paise"`
	Reference     string      `json:"reference"`
	CreatedAt     time.Time   `json:"created_at"`
	PaidAt        *time.Time  `json:"paid_at,omitempty"`
}

// OrderItem is a single course line within an order. The title and price
// are snapshotted so later catalog edits don't rewrite purchase history.
type OrderItem struct {
	OrderID    uuid.UUID `json:"order_id"`
	CourseID   int       `json:"course_id"`
	Title      string    `json:"title"`
	PricePaise int64     `json:"price_paise"`
}

// OrderDetail bundles an order with its line items.
type OrderDetail struct {
	Order Order       `json:"order"`
	Items []OrderItem `json:"items"`
}

// ConfirmPaymentRequest is the payload for a student confirming they
// completed the QR transfer.
type ConfirmPaymentRequest struct {
	Confirmed bool `json:"confirmed" binding:"required"`
}

// VerifyOrderRequest is the payload for an admin verifying or rejecting
// a payment.
type VerifyOrderRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note" binding:"omitempty,max=500"`
}
