package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"storefront/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []struct {
		to      string
		summary *models.OrderSummary
	}
	err error
}

func (f *fakeSender) SendOrderNotification(to string, summary *models.OrderSummary) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, struct {
		to      string
		summary *models.OrderSummary
	}{to, summary})
	return nil
}

func (f *fakeSender) SendTestMessage(to string) error { return f.err }

func fulfilledMessage(t *testing.T) kafka.Message {
	t.Helper()

	event := &models.OrderFulfilledEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "evt-local",
			EventType: models.EventTypeOrderFulfilled,
			Timestamp: time.Now(),
		},
		CheckoutSessionID: "cs_123",
		CustomerEmail:     "buyer@example.com",
		ShippingName:      "Pat Doe",
		Items:             []models.CartItem{{Color: "Red", Qty: 1}},
		NotifyEmail:       "orders@example.com",
	}

	value, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Key: []byte("session-cs_123"), Value: value}
}

func TestNotifierSendsOneEmailPerEvent(t *testing.T) {
	sender := &fakeSender{}
	w := NewNotifierWorker(nil, sender)

	err := w.eventHandler.HandleMessage(context.Background(), fulfilledMessage(t))
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "orders@example.com", sender.sent[0].to)
	assert.Equal(t, "cs_123", sender.sent[0].summary.CheckoutSessionID)
	assert.Equal(t, "buyer@example.com", sender.sent[0].summary.CustomerEmail)
	assert.Equal(t, []models.CartItem{{Color: "Red", Qty: 1}}, sender.sent[0].summary.Items)
}

func TestNotifierMailFailureDoesNotFailMessage(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp down")}
	w := NewNotifierWorker(nil, sender)

	err := w.eventHandler.HandleMessage(context.Background(), fulfilledMessage(t))
	assert.NoError(t, err, "mail failure is logged, the message is still committed")
}

func TestNotifierIgnoresOtherEventTypes(t *testing.T) {
	sender := &fakeSender{}
	w := NewNotifierWorker(nil, sender)

	msg := kafka.Message{Value: []byte(`{"event_id":"x","event_type":"SOMETHING_ELSE"}`)}
	err := w.eventHandler.HandleMessage(context.Background(), msg)
	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}
