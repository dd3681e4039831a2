package store

import (
	"context"
	"time"
)

// Delivery records that a message has been decoded and handed to the
// user, so later polls do not announce it again.
type Delivery struct {
	ID          string    `db:"id"`
	Account     string    `db:"account"`
	UID         uint32    `db:"uid"`
	MessageID   string    `db:"message_id"`
	Subject     string    `db:"subject"`
	DeliveredAt time.Time `db:"delivered_at"`
}

// Store defines the persistence interface for the delivery log.
type Store interface {
	// MarkDelivered records d. Recording the same account and UID twice
	// keeps the first record.
	MarkDelivered(ctx context.Context, d Delivery) error

	// IsDelivered reports whether the message with uid in account has
	// already been delivered.
	IsDelivered(ctx context.Context, account string, uid uint32) (bool, error)

	// ListDeliveries returns the most recent deliveries for account,
	// newest first. A limit below 1 means no limit.
	ListDeliveries(ctx context.Context, account string, limit int) ([]Delivery, error)

	// PruneBefore deletes deliveries older than t and returns how many
	// were removed.
	PruneBefore(ctx context.Context, t time.Time) (int64, error)
}
