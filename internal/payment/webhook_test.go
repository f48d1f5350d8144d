package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test"

func TestVerifySignatureRoundTrip(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	now := time.Now()

	header := SignHeader(testSecret, now, payload)

	err := VerifySignature(payload, header, testSecret, DefaultTolerance, now)
	assert.NoError(t, err)
}

func TestVerifySignatureTamperedBody(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()
	header := SignHeader(testSecret, now, payload)

	err := VerifySignature([]byte(`{"id":"evt_2"}`), header, testSecret, DefaultTolerance, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifySignatureWrongSecret(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()
	header := SignHeader("whsec_other", now, payload)

	err := VerifySignature(payload, header, testSecret, DefaultTolerance, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifySignatureMissingHeader(t *testing.T) {
	err := VerifySignature([]byte(`{}`), "", testSecret, DefaultTolerance, time.Now())
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifySignatureMalformedHeader(t *testing.T) {
	err := VerifySignature([]byte(`{}`), "v1=deadbeef", testSecret, DefaultTolerance, time.Now())
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifySignatureStaleTimestamp(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	signedAt := time.Now().Add(-time.Hour)
	header := SignHeader(testSecret, signedAt, payload)

	err := VerifySignature(payload, header, testSecret, DefaultTolerance, time.Now())
	assert.ErrorIs(t, err, ErrStaleTimestamp)
}

func TestParseEvent(t *testing.T) {
	payload := []byte(`{
		"id": "evt_42",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_123",
				"customer_email": "buyer@example.com",
				"metadata": {
					"cart": "[{\"color\":\"Red\",\"qty\":1}]",
					"notify_email": "orders@example.com"
				},
				"shipping_details": {
					"name": "Pat Doe",
					"address": {
						"line1": "1 Main St",
						"city": "Springfield",
						"postal_code": "12345",
						"country": "US"
					}
				}
			}
		}
	}`)

	header := SignHeader(testSecret, time.Now(), payload)

	event, err := ParseEvent(payload, header, testSecret)
	require.NoError(t, err)

	assert.Equal(t, "evt_42", event.ID)
	assert.Equal(t, EventTypeCheckoutCompleted, event.Type)
	assert.Equal(t, "cs_123", event.Data.Object.ID)
	assert.Equal(t, "buyer@example.com", event.Data.Object.CustomerEmail)
	assert.Equal(t, "Pat Doe", event.Data.Object.ShippingDetails.Name)
	assert.Equal(t, "Springfield", event.Data.Object.ShippingDetails.Address.City)
	assert.Contains(t, event.Data.Object.Metadata[MetadataCartKey], "Red")
}

func TestParseEventRejectsBadSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_42","type":"checkout.session.completed"}`)
	header := SignHeader("whsec_other", time.Now(), payload)

	_, err := ParseEvent(payload, header, testSecret)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}
