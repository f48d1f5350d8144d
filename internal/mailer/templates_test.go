package mailer

import (
	"testing"

	"storefront/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestBuildOrderNotificationBody(t *testing.T) {
	summary := &models.OrderSummary{
		CheckoutSessionID: "cs_abc123",
		CustomerEmail:     "buyer@example.com",
		ShippingName:      "Pat Doe",
		ShippingAddress: models.ShippingAddress{
			Line1:      "1 Main St",
			City:       "Springfield",
			State:      "IL",
			PostalCode: "62701",
			Country:    "US",
		},
		Items: []models.CartItem{
			{Color: "Red", Qty: 1},
			{Color: "Blue", Qty: 2},
		},
	}

	body := BuildOrderNotificationBody(summary)

	assert.Contains(t, body, "cs_abc123")
	assert.Contains(t, body, "buyer@example.com")
	assert.Contains(t, body, "Pat Doe")
	assert.Contains(t, body, "1 Main St")
	assert.Contains(t, body, "Springfield IL 62701")
	assert.Contains(t, body, "1 x Red")
	assert.Contains(t, body, "2 x Blue")
	assert.Contains(t, body, "3 item(s) total")
}

func TestBuildOrderNotificationBodySparseAddress(t *testing.T) {
	summary := &models.OrderSummary{
		CheckoutSessionID: "cs_min",
		CustomerEmail:     "buyer@example.com",
		Items:             []models.CartItem{{Color: "Green", Qty: 1}},
	}

	body := BuildOrderNotificationBody(summary)

	assert.Contains(t, body, "1 x Green")
	assert.NotContains(t, body, "  \r\n")
}
