package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// MySQLKV stores blobs in a single kv_store table. EnsureSchema must be
// called once before first use.
type MySQLKV struct {
	db *sql.DB
}

func NewMySQLKV(db *sql.DB) *MySQLKV {
	return &MySQLKV{db: db}
}

// EnsureSchema creates the kv_store table when it does not exist yet.
func (s *MySQLKV) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS kv_store (
			k VARCHAR(191) NOT NULL PRIMARY KEY,
			v LONGTEXT NOT NULL,
			updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)`

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("creating kv_store table: %w", err)
	}
	return nil
}

func (s *MySQLKV) Get(ctx context.Context, key string) (string, bool, error) {
	query := `SELECT v FROM kv_store WHERE k = ?`

	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying kv_store: %w", err)
	}
	return value, true, nil
}

func (s *MySQLKV) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv_store (k, v) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE v = VALUES(v)`

	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("upserting kv_store key %s: %w", key, err)
	}
	return nil
}
