package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/inventory"
	"storefront/internal/models"
	"storefront/internal/payment"
	"storefront/internal/util"

	"go.uber.org/zap"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidQuantity = errors.New("item quantity must be positive")
)

// InsufficientStockError reports a cart item that exceeds current stock.
type InsufficientStockError struct {
	Color     string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.Color, e.Requested, e.Available)
}

// SessionCreator creates hosted checkout sessions with the processor.
type SessionCreator interface {
	CreateCheckoutSession(ctx context.Context, params payment.CreateSessionParams) (*payment.CheckoutSession, error)
}

// CheckoutParams are the fixed business parameters applied to every
// checkout session.
type CheckoutParams struct {
	ProductName     string
	UnitPriceCents  int64
	ShippingFee     int64
	Currency        string
	ShippingCountry string
	SuccessURL      string
	CancelURL       string
	NotifyEmail     string
}

// CheckoutService validates carts and creates hosted checkout sessions.
type CheckoutService struct {
	inventory *inventory.Store
	payments  SessionCreator
	params    CheckoutParams
	logger    *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(inv *inventory.Store, payments SessionCreator, params CheckoutParams) *CheckoutService {
	return &CheckoutService{
		inventory: inv,
		payments:  payments,
		params:    params,
		logger:    util.GetLogger(),
	}
}

// CreateCheckout validates the cart against current stock and requests a
// hosted checkout session. The stock check is advisory: nothing is
// reserved here, stock only moves when the completion webhook arrives.
func (s *CheckoutService) CreateCheckout(ctx context.Context, items []models.CartItem) (string, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.CreateCheckout")
	defer span.End()

	if len(items) == 0 {
		util.CheckoutsRejectedTotal.WithLabelValues("empty_cart").Inc()
		return "", ErrEmptyCart
	}

	for _, item := range items {
		if item.Qty <= 0 {
			util.CheckoutsRejectedTotal.WithLabelValues("invalid_quantity").Inc()
			return "", fmt.Errorf("%w: %s", ErrInvalidQuantity, item.Color)
		}

		available, err := s.inventory.Available(item.Color)
		if err != nil {
			util.CheckoutsRejectedTotal.WithLabelValues("unknown_color").Inc()
			return "", fmt.Errorf("%w: %s", err, item.Color)
		}

		if item.Qty > available {
			util.CheckoutsRejectedTotal.WithLabelValues("insufficient_stock").Inc()
			return "", &InsufficientStockError{
				Color:     item.Color,
				Requested: item.Qty,
				Available: available,
			}
		}
	}

	cartJSON, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to serialize cart: %w", err)
	}

	lineItems := make([]payment.LineItem, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, payment.LineItem{
			Name:       fmt.Sprintf("%s (%s)", s.params.ProductName, item.Color),
			UnitAmount: s.params.UnitPriceCents,
			Quantity:   item.Qty,
			Currency:   s.params.Currency,
		})
	}

	start := time.Now()
	session, err := s.payments.CreateCheckoutSession(ctx, payment.CreateSessionParams{
		LineItems:        lineItems,
		ShippingFee:      s.params.ShippingFee,
		AllowedCountries: []string{s.params.ShippingCountry},
		AutomaticTax:     true,
		SuccessURL:       s.params.SuccessURL,
		CancelURL:        s.params.CancelURL,
		Metadata: map[string]string{
			payment.MetadataCartKey:        string(cartJSON),
			payment.MetadataNotifyEmailKey: s.params.NotifyEmail,
		},
	})
	util.CheckoutSessionLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	util.CheckoutSessionsCreatedTotal.Inc()
	s.logger.Info("Checkout session created",
		zap.String("session_id", session.ID),
		zap.Int("items", len(items)))

	return session.URL, nil
}
