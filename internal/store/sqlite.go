package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// An in-memory database exists per connection.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// MarkDelivered inserts d, assigning an ID and timestamp when unset.
func (s *SQLiteStore) MarkDelivered(ctx context.Context, d Delivery) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.DeliveredAt.IsZero() {
		d.DeliveredAt = time.Now()
	}
	d.DeliveredAt = d.DeliveredAt.UTC()

	const query = `
		INSERT OR IGNORE INTO deliveries (
			id, account, uid, message_id, subject, delivered_at
		) VALUES (
			:id, :account, :uid, :message_id, :subject, :delivered_at
		)`

	if _, err := s.db.NamedExecContext(ctx, query, d); err != nil {
		return fmt.Errorf("recording delivery %s/%d: %w", d.Account, d.UID, err)
	}
	return nil
}

// IsDelivered reports whether account/uid has a delivery record.
func (s *SQLiteStore) IsDelivered(ctx context.Context, account string, uid uint32) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM deliveries WHERE account = ? AND uid = ?",
		account, uid,
	)
	if err != nil {
		return false, fmt.Errorf("checking delivery %s/%d: %w", account, uid, err)
	}
	return n > 0, nil
}

// ListDeliveries returns deliveries for account, newest first.
func (s *SQLiteStore) ListDeliveries(ctx context.Context, account string, limit int) ([]Delivery, error) {
	query := `
		SELECT id, account, uid, message_id, subject, delivered_at
		FROM deliveries
		WHERE account = ?
		ORDER BY delivered_at DESC, uid DESC`
	args := []any{account}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var out []Delivery
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("listing deliveries for %s: %w", account, err)
	}
	return out, nil
}

// PruneBefore deletes deliveries recorded before t.
func (s *SQLiteStore) PruneBefore(ctx context.Context, t time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM deliveries WHERE delivered_at < ?", t.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("pruning deliveries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting pruned deliveries: %w", err)
	}
	return n, nil
}
