package store

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// ClaimEvent records a webhook event id as processed. Returns true if this
// call inserted the row, false if the event was already claimed.
func (s *Store) ClaimEvent(ctx context.Context, eventID, eventType string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO processed_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		eventID, eventType)
	if err != nil {
		return false, fmt.Errorf("failed to claim event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// IsEventProcessed checks if an event has been processed
func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = $1)", eventID)
	return exists, err
}

// RecordFulfillment writes an audit row for an applied fulfillment
func (s *Store) RecordFulfillment(ctx context.Context, rec *models.FulfillmentRecord) error {
	query := `
		INSERT INTO fulfillments (checkout_session_id, event_id, customer_email, items_json)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, rec, query,
		rec.CheckoutSessionID, rec.EventID, rec.CustomerEmail, rec.ItemsJSON)
}

// GetFulfillmentsBySessionID retrieves the audit rows for a checkout session
func (s *Store) GetFulfillmentsBySessionID(ctx context.Context, sessionID string) ([]models.FulfillmentRecord, error) {
	var recs []models.FulfillmentRecord
	err := s.db.SelectContext(ctx, &recs,
		"SELECT * FROM fulfillments WHERE checkout_session_id = $1 ORDER BY created_at", sessionID)
	return recs, err
}
