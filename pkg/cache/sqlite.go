package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"aria-hq/chatbridge/pkg/providers"
)

// SQLite is a response cache backed by a SQLite database. It survives
// process restarts, which suits single-instance deployments where warm
// responses should not be lost on redeploy.
//
// The database is opened in WAL mode. Expired rows are filtered on read and
// purged opportunistically on write.
type SQLite struct {
	db        *sql.DB
	dbPath    string
	closeOnce sync.Once

	getStmt    *sql.Stmt
	setStmt    *sql.Stmt
	deleteStmt *sql.Stmt
	purgeStmt  *sql.Stmt
}

// defaultBusyTimeout is how long SQLite waits for locks before failing.
const defaultBusyTimeout = 5 * time.Second

// NewSQLite opens (or creates) a SQLite-backed response cache at dbPath.
func NewSQLite(dbPath string) (*SQLite, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		dbPath, int(defaultBusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLite{
		db:     db,
		dbPath: dbPath,
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return s, nil
}

// initSchema creates the cache table if it doesn't exist.
func (s *SQLite) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS response_cache (
		fingerprint TEXT PRIMARY KEY,
		response TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		expires_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_response_cache_expires ON response_cache(expires_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// prepareStatements prepares SQL statements for reuse.
func (s *SQLite) prepareStatements() error {
	var err error

	s.getStmt, err = s.db.Prepare(`
		SELECT response, expires_at FROM response_cache WHERE fingerprint = ?`)
	if err != nil {
		return err
	}

	s.setStmt, err = s.db.Prepare(`
		INSERT INTO response_cache (fingerprint, response, created_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (fingerprint) DO UPDATE SET
			response = excluded.response,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at`)
	if err != nil {
		return err
	}

	s.deleteStmt, err = s.db.Prepare(`DELETE FROM response_cache WHERE fingerprint = ?`)
	if err != nil {
		return err
	}

	s.purgeStmt, err = s.db.Prepare(`DELETE FROM response_cache WHERE expires_at < ?`)
	return err
}

// Get returns the cached response for the fingerprint. Expired rows read as
// absent and are deleted on the spot.
func (s *SQLite) Get(ctx context.Context, fingerprint string) (*providers.Response, bool, error) {
	var payload string
	var expiresAt int64

	err := s.getStmt.QueryRowContext(ctx, fingerprint).Scan(&payload, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get failed: %w", err)
	}

	if time.Now().UnixMilli() >= expiresAt {
		if _, err := s.deleteStmt.ExecContext(ctx, fingerprint); err != nil {
			return nil, false, fmt.Errorf("cache expiry eviction failed: %w", err)
		}
		return nil, false, nil
	}

	var resp providers.Response
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return nil, false, fmt.Errorf("cache entry decode failed: %w", err)
	}

	return &resp, true, nil
}

// Set stores a response under the fingerprint and purges any expired rows
// while it holds the writer.
func (s *SQLite) Set(ctx context.Context, fingerprint string, resp *providers.Response, ttl time.Duration) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("cache entry encode failed: %w", err)
	}

	now := time.Now().UnixMilli()
	if _, err := s.setStmt.ExecContext(ctx, fingerprint, string(payload), now, now+ttl.Milliseconds()); err != nil {
		return fmt.Errorf("cache set failed: %w", err)
	}

	if _, err := s.purgeStmt.ExecContext(ctx, now); err != nil {
		return fmt.Errorf("cache purge failed: %w", err)
	}

	return nil
}

// Delete removes an entry.
func (s *SQLite) Delete(ctx context.Context, fingerprint string) error {
	if _, err := s.deleteStmt.ExecContext(ctx, fingerprint); err != nil {
		return fmt.Errorf("cache delete failed: %w", err)
	}
	return nil
}

// Clear removes all entries.
func (s *SQLite) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM response_cache`); err != nil {
		return fmt.Errorf("cache clear failed: %w", err)
	}
	return nil
}

// Len returns the number of rows, including expired rows not yet purged.
func (s *SQLite) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM response_cache`).Scan(&n); err != nil {
		return 0, fmt.Errorf("cache len failed: %w", err)
	}
	return n, nil
}

// Close closes the prepared statements and the database.
func (s *SQLite) Close() error {
	var err error
	s.closeOnce.Do(func() {
		for _, stmt := range []*sql.Stmt{s.getStmt, s.setStmt, s.deleteStmt, s.purgeStmt} {
			if stmt != nil {
				stmt.Close()
			}
		}
		err = s.db.Close()
	})
	return err
}
