package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"go-offline-worker/internal/interfaces"
	"go-offline-worker/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS deferred_writes (
	id         TEXT PRIMARY KEY,
	payload    BLOB NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_deferred_writes_created ON deferred_writes (created_at, id);
`

// Ensure Store implements interfaces.RecordStore
var _ interfaces.RecordStore = (*Store)(nil)

// Store keeps deferred writes in a SQLite table
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite store at the provided path
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := "file:" + cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Put stores the record, replacing any record with the same id
func (s *Store) Put(ctx context.Context, record *models.DeferredWrite) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if record == nil || strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("record id is required")
	}

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT OR REPLACE INTO deferred_writes (id, payload, created_at) VALUES (?, ?, ?)`,
		record.ID, []byte(record.Payload), createdAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// List returns every record ordered by creation time
func (s *Store) List(ctx context.Context) ([]*models.DeferredWrite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, payload, created_at FROM deferred_writes ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*models.DeferredWrite
	for rows.Next() {
		var (
			id        string
			payload   []byte
			createdAt int64
		)
		if err := rows.Scan(&id, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, &models.DeferredWrite{
			ID:        id,
			Payload:   payload,
			CreatedAt: time.UnixMilli(createdAt).UTC(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// Delete removes the record with the given id
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM deferred_writes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if n == 0 {
		return interfaces.ErrRecordNotFound
	}
	return nil
}

// Close closes the underlying SQLite database
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}
