package worker

import (
	"context"
	"log"

	"storefront/internal/broker"
	"storefront/internal/mailer"
	"storefront/internal/models"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// NotifierWorker consumes OrderFulfilled events and emails the operator an
// order summary. Mail failures are logged and counted; the event is still
// committed, matching the no-retry policy for notifications.
type NotifierWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	sender       mailer.Sender
	logger       *zap.Logger
}

// NewNotifierWorker creates a new notifier worker
func NewNotifierWorker(consumer *broker.Consumer, sender mailer.Sender) *NotifierWorker {
	w := &NotifierWorker{
		consumer: consumer,
		sender:   sender,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderFulfilled(w.handleOrderFulfilled)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *NotifierWorker) Start(ctx context.Context) error {
	log.Println("Starting notifier worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotifierWorker) Stop() error {
	log.Println("Stopping notifier worker...")
	return w.consumer.Close()
}

func (w *NotifierWorker) handleOrderFulfilled(ctx context.Context, event *models.OrderFulfilledEvent) error {
	summary := &models.OrderSummary{
		CheckoutSessionID: event.CheckoutSessionID,
		CustomerEmail:     event.CustomerEmail,
		ShippingName:      event.ShippingName,
		ShippingAddress:   event.ShippingAddress,
		Items:             event.Items,
	}

	if err := w.sender.SendOrderNotification(event.NotifyEmail, summary); err != nil {
		util.NotificationsFailedTotal.Inc()
		w.logger.Error("Failed to send order notification",
			zap.String("checkout_session_id", event.CheckoutSessionID),
			zap.String("to", event.NotifyEmail),
			zap.Error(err))
		return nil
	}

	util.NotificationsSentTotal.Inc()
	return nil
}
