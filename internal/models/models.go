package models

import "time"

// CartItem is the transient request payload for one cart entry.
type CartItem struct {
	Color string `json:"color"`
	Qty   int    `json:"qty"`
}

// Colors is the fixed set of colors the shop sells.
var Colors = []string{"Red", "Blue", "Green", "Yellow"}

// DefaultStock returns the stock counts the store is reset to on startup.
func DefaultStock() map[string]int {
	return map[string]int{
		"Red":    10,
		"Blue":   10,
		"Green":  10,
		"Yellow": 10,
	}
}

// ShippingAddress is the address extracted from a completed checkout event.
type ShippingAddress struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// OrderSummary is everything the operator notification email needs.
type OrderSummary struct {
	CheckoutSessionID string
	CustomerEmail     string
	ShippingName      string
	ShippingAddress   ShippingAddress
	Items             []CartItem
}

// FulfillmentRecord is the audit row written when postgres is configured.
type FulfillmentRecord struct {
	ID                int64     `db:"id"`
	CheckoutSessionID string    `db:"checkout_session_id"`
	EventID           string    `db:"event_id"`
	CustomerEmail     string    `db:"customer_email"`
	ItemsJSON         string    `db:"items_json"`
	CreatedAt         time.Time `db:"created_at"`
}

// ProcessedEvent marks a webhook event id as already applied.
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}
