package api

import (
	"errors"
	"net/http"
	"time"

	"storefront/internal/auth"
	"storefront/internal/inventory"
	"storefront/internal/mailer"
	"storefront/internal/models"
	"storefront/internal/payment"
	"storefront/internal/service"
	"storefront/internal/session"
	"storefront/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SessionCookieName is the cookie carrying the admin session token. API
// clients may send the token in the X-Session-Token header instead.
const SessionCookieName = "session_token"

// Handler contains HTTP handlers
type Handler struct {
	checkout      *service.CheckoutService
	fulfillment   *service.FulfillmentService
	inventory     *inventory.Store
	sessions      session.Store
	creds         auth.Credentials
	sender        mailer.Sender
	operatorEmail string
	allowedOrigin string
	sessionTTL    time.Duration
	logger        *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	checkout *service.CheckoutService,
	fulfillment *service.FulfillmentService,
	inv *inventory.Store,
	sessions session.Store,
	creds auth.Credentials,
	sender mailer.Sender,
	operatorEmail string,
	allowedOrigin string,
	sessionTTL time.Duration,
) *Handler {
	return &Handler{
		checkout:      checkout,
		fulfillment:   fulfillment,
		inventory:     inv,
		sessions:      sessions,
		creds:         creds,
		sender:        sender,
		operatorEmail: operatorEmail,
		allowedOrigin: allowedOrigin,
		sessionTTL:    sessionTTL,
		logger:        util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(h.allowedOrigin))
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/login", h.login)
	router.GET("/public-inventory", h.publicInventory)
	router.POST("/create-checkout-session", h.createCheckoutSession)
	router.POST("/webhook", h.webhook)

	authed := router.Group("/", h.requireSession())
	{
		authed.POST("/logout", h.logout)
		authed.GET("/inventory", h.getInventory)
		authed.POST("/inventory", h.setInventory)
		authed.POST("/test-email", h.testEmail)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// login checks the admin credentials and issues a session token
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if !h.creds.Check(req.Username, req.Password) {
		util.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.sessions.Issue(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to issue session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	util.LoginAttemptsTotal.WithLabelValues("success").Inc()
	c.SetCookie(SessionCookieName, token, int(h.sessionTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// logout destroys the current session
func (h *Handler) logout(c *gin.Context) {
	token := c.GetString(sessionTokenKey)
	if err := h.sessions.Revoke(c.Request.Context(), token); err != nil {
		h.logger.Error("Failed to revoke session", zap.Error(err))
	}

	c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// publicInventory returns current stock without auth
func (h *Handler) publicInventory(c *gin.Context) {
	c.JSON(http.StatusOK, h.inventory.Snapshot())
}

// getInventory returns current stock for the admin UI
func (h *Handler) getInventory(c *gin.Context) {
	c.JSON(http.StatusOK, h.inventory.Snapshot())
}

type setInventoryRequest struct {
	Color string `json:"color"`
	Qty   int    `json:"qty"`
}

// setInventory overwrites the stock count for one color
func (h *Handler) setInventory(c *gin.Context) {
	var req setInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.inventory.Set(req.Color, req.Qty); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	util.StockLevel.WithLabelValues(req.Color).Set(float64(req.Qty))
	h.logger.Info("Inventory updated",
		zap.String("color", req.Color),
		zap.Int("qty", req.Qty))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type createCheckoutRequest struct {
	Items []models.CartItem `json:"items"`
}

// createCheckoutSession validates the cart and returns the hosted payment URL
func (h *Handler) createCheckoutSession(c *gin.Context) {
	var req createCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	url, err := h.checkout.CreateCheckout(c.Request.Context(), req.Items)
	if err != nil {
		var stockErr *service.InsufficientStockError
		switch {
		case errors.Is(err, service.ErrEmptyCart),
			errors.Is(err, service.ErrInvalidQuantity),
			errors.Is(err, inventory.ErrUnknownColor),
			errors.As(err, &stockErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("Checkout session creation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// webhook receives signed payment-completion callbacks. The body must stay
// raw up to signature verification.
func (h *Handler) webhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.String(http.StatusBadRequest, "failed to read body")
		return
	}

	err = h.fulfillment.HandleWebhook(c.Request.Context(), payload, c.GetHeader(payment.SignatureHeader))
	switch {
	case err == nil:
		c.String(http.StatusOK, "ok")
	case errors.Is(err, payment.ErrInvalidSignature), errors.Is(err, payment.ErrStaleTimestamp):
		c.String(http.StatusBadRequest, "signature verification failed")
	default:
		// Ledger outage: let the processor redeliver.
		c.String(http.StatusInternalServerError, "temporary failure")
	}
}

// testEmail verifies SMTP connectivity
func (h *Handler) testEmail(c *gin.Context) {
	if err := h.sender.SendTestMessage(h.operatorEmail); err != nil {
		h.logger.Error("Test email failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send test email"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
