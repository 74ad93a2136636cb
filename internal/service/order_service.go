package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/repository"
	"github.com/rs/zerolog"
)

// Order errors.
var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrOrderNotPending = errors.New("order is not awaiting this action")
	ErrNotConfirmed    = errors.New("payment confirmation required")
)

// PaymentInstructions bundles the manual QR transfer details shown at checkout.
type PaymentInstructions struct {
	QRImageURL string `json:"qr_image_url"`
	UPIID      string `json:"upi_id"`
	Note       string `json:"note"`
}

// CheckoutResponse is returned when an order is created from the cart.
type CheckoutResponse struct {
	Order   model.Order         `json:"order"`
	Items   []model.OrderItem   `json:"items"`
	Payment PaymentInstructions `json:"payment"`
}

// OrderService handles checkout and the manual QR payment flow. Payment runs
// in three steps: the order is created PENDING_PAYMENT, the student confirms
// the transfer moving it to AWAITING_VERIFICATION, and an admin marks it PAID.
type OrderService struct {
	orders   *repository.OrderRepository
	settings *repository.SettingRepository
	cart     *CartService
	log      zerolog.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(orders *repository.OrderRepository, settings *repository.SettingRepository, cart *CartService, log zerolog.Logger) *OrderService {
	return &OrderService{
		orders:   orders,
		settings: settings,
		cart:     cart,
		log:      log.With().Str("component", "order_service").Logger(),
	}
}

// Checkout snapshots the cart into a PENDING_PAYMENT order and clears the cart.
func (s *OrderService) Checkout(ctx context.Context, userID int) (*CheckoutResponse, error) {
	summary, err := s.cart.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(summary.Items) == 0 {
		return nil, ErrCartEmpty
	}

	order := &model.Order{
		ID:            uuid.New(),
		UserID:        userID,
		Status:        model.OrderStatusPendingPayment,
		SubtotalPaise: summary.SubtotalPaise,
		DiscountPaise: summary.DiscountPaise,
		TotalPaise:    summary.TotalPaise,
		Reference:     newOrderReference(),
	}

	items := make([]model.OrderItem, 0, len(summary.Items))
	for _, it := range summary.Items {
		items = append(items, model.OrderItem{
			OrderID:    order.ID,
			CourseID:   it.CourseID,
			Title:      it.Title,
			PricePaise: it.PricePaise,
		})
	}

	if err := s.orders.CreateWithItems(ctx, order, items); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.cart.Clear(ctx, userID); err != nil {
		s.log.Warn().Err(err).Int("user_id", userID).Msg("Failed to clear cart after checkout")
	}

	payment, err := s.paymentInstructions(ctx)
	if err != nil {
		return nil, err
	}

	return &CheckoutResponse{Order: *order, Items: items, Payment: payment}, nil
}

// ConfirmPayment records the student's claim that the QR transfer was made,
// moving the order to AWAITING_VERIFICATION.
func (s *OrderService) ConfirmPayment(ctx context.Context, orderID uuid.UUID, userID int, confirmed bool) (*model.Order, error) {
	if !confirmed {
		return nil, ErrNotConfirmed
	}

	order, err := s.ownedOrder(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}

	err = s.orders.TransitionStatus(ctx, order.ID,
		model.OrderStatusPendingPayment, model.OrderStatusAwaitingVerification)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidStatusTransition) {
			return nil, ErrOrderNotPending
		}
		return nil, err
	}

	return s.orders.GetByID(ctx, orderID)
}

// Cancel withdraws an unpaid order.
func (s *OrderService) Cancel(ctx context.Context, orderID uuid.UUID, userID int) error {
	order, err := s.ownedOrder(ctx, orderID, userID)
	if err != nil {
		return err
	}

	err = s.orders.TransitionStatus(ctx, order.ID,
		model.OrderStatusPendingPayment, model.OrderStatusCancelled)
	if errors.Is(err, repository.ErrInvalidStatusTransition) {
		return ErrOrderNotPending
	}
	return err
}

// ListMine returns the user's order history.
func (s *OrderService) ListMine(ctx context.Context, userID int) ([]model.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, nil
}

// GetDetail returns one of the user's orders with line items and payment
// instructions for unpaid orders.
func (s *OrderService) GetDetail(ctx context.Context, orderID uuid.UUID, userID int) (*model.OrderDetail, *PaymentInstructions, error) {
	detail, err := s.orders.GetDetail(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrOrderNotFound
		}
		return nil, nil, err
	}
	if detail.Order.UserID != userID {
		return nil, nil, ErrOrderNotFound
	}

	if detail.Order.Status == model.OrderStatusPendingPayment {
		payment, err := s.paymentInstructions(ctx)
		if err != nil {
			return nil, nil, err
		}
		return detail, &payment, nil
	}
	return detail, nil, nil
}

// ListForVerification returns orders awaiting admin review.
func (s *OrderService) ListForVerification(ctx context.Context, limit, offset int) ([]model.Order, int, error) {
	return s.orders.ListByStatus(ctx, model.OrderStatusAwaitingVerification, limit, offset)
}

// Verify resolves an order awaiting verification. Approval marks it PAID;
// rejection sends it back to PENDING_PAYMENT so the student can retry.
func (s *OrderService) Verify(ctx context.Context, orderID uuid.UUID, approve bool) (*model.Order, error) {
	var err error
	if approve {
		err = s.orders.MarkPaid(ctx, orderID, time.Now())
	} else {
		err = s.orders.TransitionStatus(ctx, orderID,
			model.OrderStatusAwaitingVerification, model.OrderStatusPendingPayment)
	}
	if err != nil {
		if errors.Is(err, repository.ErrInvalidStatusTransition) {
			return nil, ErrOrderNotPending
		}
		return nil, err
	}
	return s.orders.GetByID(ctx, orderID)
}

func (s *OrderService) ownedOrder(ctx context.Context, orderID uuid.UUID, userID int) (*model.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) paymentInstructions(ctx context.Context) (PaymentInstructions, error) {
	var p PaymentInstructions
	for key, dst := range map[string]*string{
		model.SettingKeyPaymentQRImageURL: &p.QRImageURL,
		model.SettingKeyPaymentUPIID:      &p.UPIID,
		model.SettingKeyPaymentNote:       &p.Note,
	} {
		setting, err := s.settings.GetByKey(ctx, key)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return p, err
		}
		*dst = setting.Value
	}
	return p, nil
}

// newOrderReference generates a short human-readable payment reference.
func newOrderReference() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "PN-" + time.Now().Format("20060102") + "-" + raw[:6]
}
