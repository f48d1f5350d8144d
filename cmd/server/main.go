package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/config"
	"storefront/internal/api"
	"storefront/internal/auth"
	"storefront/internal/broker"
	"storefront/internal/inventory"
	"storefront/internal/ledger"
	"storefront/internal/mailer"
	"storefront/internal/models"
	"storefront/internal/payment"
	"storefront/internal/redisclient"
	"storefront/internal/service"
	"storefront/internal/session"
	"storefront/internal/store"
	"storefront/internal/util"
	"storefront/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting storefront service")

	tp, err := util.InitTracer("storefront", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	// The event ledger defaults to redis; with a database configured the
	// claims survive redis restarts and fulfillments get an audit trail.
	var eventLedger ledger.Ledger = ledger.NewRedisLedger(redisClient, 30*24*time.Hour)
	var recorder service.FulfillmentRecorder

	if cfg.Database.URL != "" {
		db, err := store.NewStore(cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		log.Println("Database connected")

		eventLedger = ledger.NewPostgresLedger(db)
		recorder = db
	}

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicFulfillment)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	inv := inventory.NewStore(models.DefaultStock())
	for color, qty := range inv.Snapshot() {
		util.StockLevel.WithLabelValues(color).Set(float64(qty))
	}

	sessionTTL := time.Duration(cfg.Business.SessionTTLSeconds) * time.Second
	sessions := session.NewRedisStore(redisClient, sessionTTL)

	paymentClient := payment.NewClient(cfg.Payment.APIBaseURL, cfg.Payment.SecretKey)

	checkoutService := service.NewCheckoutService(inv, paymentClient, service.CheckoutParams{
		ProductName:     cfg.Business.ProductName,
		UnitPriceCents:  cfg.Business.UnitPriceCents,
		ShippingFee:     cfg.Business.ShippingFeeCents,
		Currency:        cfg.Business.Currency,
		ShippingCountry: cfg.Business.ShippingCountry,
		SuccessURL:      cfg.Payment.SuccessURL,
		CancelURL:       cfg.Payment.CancelURL,
		NotifyEmail:     cfg.Business.NotifyEmail,
	})

	fulfillmentService := service.NewFulfillmentService(
		inv, eventLedger, eventPublisher, recorder, cfg.Payment.WebhookSecret)

	smtpMailer := mailer.NewSMTPMailer(cfg.Mail.SMTPHost, cfg.Mail.SMTPPort, cfg.Mail.From)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	notifierConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicFulfillment, cfg.Kafka.ConsumerGroup)
	notifierWorker := worker.NewNotifierWorker(notifierConsumer, smtpMailer)
	go func() {
		if err := notifierWorker.Start(workerCtx); err != nil {
			log.Printf("Notifier worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(
		checkoutService,
		fulfillmentService,
		inv,
		sessions,
		auth.Credentials{
			Username: cfg.Admin.Username,
			Password: cfg.Admin.Password,
			Hash:     cfg.Admin.PasswordHash,
		},
		smtpMailer,
		cfg.Mail.OperatorEmail,
		cfg.Server.AllowedOrigin,
		sessionTTL,
	)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	notifierWorker.Stop()

	log.Println("Server exited")
}
