package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"storefront/internal/inventory"
	"storefront/internal/models"
	"storefront/internal/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessionCreator struct {
	lastParams payment.CreateSessionParams
	calls      int
	err        error
}

func (f *fakeSessionCreator) CreateCheckoutSession(ctx context.Context, params payment.CreateSessionParams) (*payment.CheckoutSession, error) {
	f.calls++
	f.lastParams = params
	if f.err != nil {
		return nil, f.err
	}
	return &payment.CheckoutSession{ID: "cs_test", URL: "https://pay.example/cs_test"}, nil
}

func testCheckoutParams() CheckoutParams {
	return CheckoutParams{
		ProductName:     "Classic Tee",
		UnitPriceCents:  1500,
		ShippingFee:     500,
		Currency:        "usd",
		ShippingCountry: "US",
		SuccessURL:      "http://localhost:3000/success",
		CancelURL:       "http://localhost:3000/cancel",
		NotifyEmail:     "orders@example.com",
	}
}

func TestCreateCheckoutEmptyCart(t *testing.T) {
	inv := inventory.NewStore(map[string]int{"Red": 10})
	creator := &fakeSessionCreator{}
	svc := NewCheckoutService(inv, creator, testCheckoutParams())

	_, err := svc.CreateCheckout(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, creator.calls)
}

func TestCreateCheckoutInsufficientStock(t *testing.T) {
	inv := inventory.NewStore(map[string]int{"Red": 10})
	creator := &fakeSessionCreator{}
	svc := NewCheckoutService(inv, creator, testCheckoutParams())

	_, err := svc.CreateCheckout(context.Background(), []models.CartItem{
		{Color: "Red", Qty: 1000},
	})

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Red", stockErr.Color)
	assert.Equal(t, 1000, stockErr.Requested)
	assert.Equal(t, 10, stockErr.Available)
	assert.Zero(t, creator.calls, "no payment session should be created")
}

func TestCreateCheckoutUnknownColor(t *testing.T) {
	inv := inventory.NewStore(map[string]int{"Red": 10})
	creator := &fakeSessionCreator{}
	svc := NewCheckoutService(inv, creator, testCheckoutParams())

	_, err := svc.CreateCheckout(context.Background(), []models.CartItem{
		{Color: "Purple", Qty: 1},
	})
	assert.ErrorIs(t, err, inventory.ErrUnknownColor)
	assert.Zero(t, creator.calls)
}

func TestCreateCheckoutInvalidQuantity(t *testing.T) {
	inv := inventory.NewStore(map[string]int{"Red": 10})
	creator := &fakeSessionCreator{}
	svc := NewCheckoutService(inv, creator, testCheckoutParams())

	_, err := svc.CreateCheckout(context.Background(), []models.CartItem{
		{Color: "Red", Qty: 0},
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCreateCheckoutSuccess(t *testing.T) {
	inv := inventory.NewStore(map[string]int{"Red": 10, "Blue": 10})
	creator := &fakeSessionCreator{}
	svc := NewCheckoutService(inv, creator, testCheckoutParams())

	items := []models.CartItem{
		{Color: "Red", Qty: 1},
		{Color: "Blue", Qty: 2},
	}

	url, err := svc.CreateCheckout(context.Background(), items)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/cs_test", url)

	// stock is not reserved at checkout time
	assert.Equal(t, map[string]int{"Red": 10, "Blue": 10}, inv.Snapshot())

	params := creator.lastParams
	require.Len(t, params.LineItems, 2)
	assert.Equal(t, "Classic Tee (Red)", params.LineItems[0].Name)
	assert.Equal(t, int64(1500), params.LineItems[0].UnitAmount)
	assert.Equal(t, 2, params.LineItems[1].Quantity)
	assert.Equal(t, int64(500), params.ShippingFee)
	assert.Equal(t, []string{"US"}, params.AllowedCountries)
	assert.True(t, params.AutomaticTax)
	assert.Equal(t, "orders@example.com", params.Metadata[payment.MetadataNotifyEmailKey])

	var roundTripped []models.CartItem
	require.NoError(t, json.Unmarshal([]byte(params.Metadata[payment.MetadataCartKey]), &roundTripped))
	assert.Equal(t, items, roundTripped)
}

func TestCreateCheckoutProcessorFailure(t *testing.T) {
	inv := inventory.NewStore(map[string]int{"Red": 10})
	creator := &fakeSessionCreator{err: errors.New("processor down")}
	svc := NewCheckoutService(inv, creator, testCheckoutParams())

	_, err := svc.CreateCheckout(context.Background(), []models.CartItem{
		{Color: "Red", Qty: 1},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "processor down")
}
