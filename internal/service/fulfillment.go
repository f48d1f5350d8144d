package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/inventory"
	"storefront/internal/ledger"
	"storefront/internal/models"
	"storefront/internal/payment"
	"storefront/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FulfillmentPublisher publishes the post-fulfillment notification event.
type FulfillmentPublisher interface {
	PublishOrderFulfilled(ctx context.Context, event *models.OrderFulfilledEvent) error
}

// FulfillmentRecorder writes fulfillment audit rows. Optional.
type FulfillmentRecorder interface {
	RecordFulfillment(ctx context.Context, rec *models.FulfillmentRecord) error
}

// FulfillmentService reacts to completed-checkout webhooks: it verifies the
// delivery, deduplicates it, applies the stock deduction and hands the
// notification off to the event bus.
type FulfillmentService struct {
	inventory     *inventory.Store
	ledger        ledger.Ledger
	publisher     FulfillmentPublisher
	recorder      FulfillmentRecorder
	webhookSecret string
	logger        *zap.Logger
}

// NewFulfillmentService creates a new fulfillment service. recorder may be
// nil when no database is configured.
func NewFulfillmentService(
	inv *inventory.Store,
	l ledger.Ledger,
	publisher FulfillmentPublisher,
	recorder FulfillmentRecorder,
	webhookSecret string,
) *FulfillmentService {
	return &FulfillmentService{
		inventory:     inv,
		ledger:        l,
		publisher:     publisher,
		recorder:      recorder,
		webhookSecret: webhookSecret,
		logger:        util.GetLogger(),
	}
}

// HandleWebhook processes one raw webhook delivery. payload must be the
// unmodified request body; the signature covers it byte for byte.
//
// A nil return means the delivery should be acknowledged with 200 so the
// processor does not redeliver; signature failures are the only errors.
func (s *FulfillmentService) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	ctx, span := util.StartSpan(ctx, "FulfillmentService.HandleWebhook")
	defer span.End()

	event, err := payment.ParseEvent(payload, sigHeader, s.webhookSecret)
	if err != nil {
		util.WebhookSignatureFailuresTotal.Inc()
		s.logger.Warn("Webhook rejected", zap.Error(err))
		return err
	}

	util.WebhookEventsTotal.WithLabelValues(event.Type).Inc()

	if event.Type != payment.EventTypeCheckoutCompleted {
		s.logger.Debug("Ignoring webhook event",
			zap.String("event_id", event.ID),
			zap.String("type", event.Type))
		return nil
	}

	fresh, err := s.ledger.Claim(ctx, event.ID, event.Type)
	if err != nil {
		// Fail the delivery rather than risk a double-apply: the
		// processor redelivers, and the next attempt claims against a
		// healthy ledger.
		s.logger.Error("Event ledger unavailable, deferring event",
			zap.String("event_id", event.ID),
			zap.Error(err))
		return fmt.Errorf("event ledger claim failed: %w", err)
	}
	if !fresh {
		util.DuplicateEventsSkippedTotal.Inc()
		s.logger.Info("Skipping redelivered event",
			zap.String("event_id", event.ID))
		return nil
	}

	s.fulfill(ctx, event)
	return nil
}

// fulfill applies a claimed completion event: deduct stock, record the
// audit row, publish the notification event. Failures past the ledger
// claim are logged, not returned: the 200 already belongs to the caller.
func (s *FulfillmentService) fulfill(ctx context.Context, event *payment.Event) {
	session := event.Data.Object

	items, err := s.extractCart(session.Metadata)
	if err != nil {
		s.logger.Error("Completed session has no usable cart",
			zap.String("event_id", event.ID),
			zap.String("session_id", session.ID),
			zap.Error(err))
		return
	}

	for _, item := range items {
		applied, err := s.inventory.Deduct(item.Color, item.Qty)
		if err != nil {
			util.FulfillmentUnknownColorTotal.Inc()
			s.logger.Warn("Skipping fulfillment item",
				zap.String("session_id", session.ID),
				zap.String("color", item.Color),
				zap.Error(err))
			continue
		}
		if applied < item.Qty {
			util.FulfillmentShortfallTotal.Inc()
			s.logger.Warn("Stock shortfall during fulfillment",
				zap.String("session_id", session.ID),
				zap.String("color", item.Color),
				zap.Int("purchased", item.Qty),
				zap.Int("deducted", applied))
		}
	}

	for color, qty := range s.inventory.Snapshot() {
		util.StockLevel.WithLabelValues(color).Set(float64(qty))
	}

	util.FulfillmentsAppliedTotal.Inc()
	s.logger.Info("Fulfillment applied",
		zap.String("event_id", event.ID),
		zap.String("session_id", session.ID),
		zap.Int("items", len(items)))

	if s.recorder != nil {
		itemsJSON, _ := json.Marshal(items)
		rec := &models.FulfillmentRecord{
			CheckoutSessionID: session.ID,
			EventID:           event.ID,
			CustomerEmail:     session.CustomerEmail,
			ItemsJSON:         string(itemsJSON),
		}
		if err := s.recorder.RecordFulfillment(ctx, rec); err != nil {
			s.logger.Error("Failed to record fulfillment",
				zap.String("session_id", session.ID),
				zap.Error(err))
		}
	}

	notify := &models.OrderFulfilledEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderFulfilled,
			Timestamp: time.Now(),
		},
		CheckoutSessionID: session.ID,
		ProcessorEventID:  event.ID,
		CustomerEmail:     session.CustomerEmail,
		ShippingName:      session.ShippingDetails.Name,
		ShippingAddress: models.ShippingAddress{
			Line1:      session.ShippingDetails.Address.Line1,
			Line2:      session.ShippingDetails.Address.Line2,
			City:       session.ShippingDetails.Address.City,
			State:      session.ShippingDetails.Address.State,
			PostalCode: session.ShippingDetails.Address.PostalCode,
			Country:    session.ShippingDetails.Address.Country,
		},
		Items:       items,
		NotifyEmail: session.Metadata[payment.MetadataNotifyEmailKey],
	}

	if err := s.publisher.PublishOrderFulfilled(ctx, notify); err != nil {
		util.NotificationsFailedTotal.Inc()
		s.logger.Error("Failed to publish OrderFulfilled event",
			zap.String("session_id", session.ID),
			zap.Error(err))
	}
}

func (s *FulfillmentService) extractCart(metadata map[string]string) ([]models.CartItem, error) {
	raw, ok := metadata[payment.MetadataCartKey]
	if !ok || raw == "" {
		return nil, fmt.Errorf("metadata missing %q", payment.MetadataCartKey)
	}

	var items []models.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart metadata: %w", err)
	}
	return items, nil
}
