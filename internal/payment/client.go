// Package payment talks to the hosted-checkout payment processor: creating
// checkout sessions and verifying the signed webhooks it delivers.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"storefront/internal/util"

	"go.uber.org/zap"
)

// Metadata keys attached to every checkout session. The serialized cart is
// the only record of what was ordered until the completion webhook fires.
const (
	MetadataCartKey        = "cart"
	MetadataNotifyEmailKey = "notify_email"
)

// LineItem is one priced entry in a checkout session.
type LineItem struct {
	Name       string `json:"name"`
	UnitAmount int64  `json:"unit_amount"`
	Quantity   int    `json:"quantity"`
	Currency   string `json:"currency"`
}

// CreateSessionParams describes the hosted session to create.
type CreateSessionParams struct {
	LineItems        []LineItem        `json:"line_items"`
	ShippingFee      int64             `json:"shipping_fee"`
	AllowedCountries []string          `json:"allowed_countries"`
	AutomaticTax     bool              `json:"automatic_tax"`
	SuccessURL       string            `json:"success_url"`
	CancelURL        string            `json:"cancel_url"`
	Metadata         map[string]string `json:"metadata"`
}

// CheckoutSession is the processor's record of an in-progress payment flow.
// This service only ever holds the id and the hosted redirect URL.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Client is a thin HTTP client for the processor's REST API.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new processor API client
func NewClient(baseURL, secretKey string) *Client {
	return &Client{
		baseURL:   baseURL,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: util.GetLogger(),
	}
}

// CreateCheckoutSession requests a hosted checkout session and returns its
// id and redirect URL.
func (c *Client) CreateCheckoutSession(ctx context.Context, params CreateSessionParams) (*CheckoutSession, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session params: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("checkout session request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read processor response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("Processor rejected checkout session",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody))
		return nil, fmt.Errorf("processor returned status %d", resp.StatusCode)
	}

	var session CheckoutSession
	if err := json.Unmarshal(respBody, &session); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session: %w", err)
	}
	if session.URL == "" {
		return nil, fmt.Errorf("processor response missing session url")
	}

	return &session, nil
}
