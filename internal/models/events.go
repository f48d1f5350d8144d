package models

import "time"

// Event types
const (
	EventTypeOrderFulfilled = "ORDER_FULFILLED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderFulfilledEvent is published once per completed checkout, after the
// stock deduction has been applied. The notifier consumes it to send the
// operator email, so it carries the full order summary.
type OrderFulfilledEvent struct {
	BaseEvent
	CheckoutSessionID string          `json:"checkout_session_id"`
	ProcessorEventID  string          `json:"processor_event_id"`
	CustomerEmail     string          `json:"customer_email"`
	ShippingName      string          `json:"shipping_name"`
	ShippingAddress   ShippingAddress `json:"shipping_address"`
	Items             []CartItem      `json:"items"`
	NotifyEmail       string          `json:"notify_email"`
}
