// Package store persists normalized trades in SQLite for look-ahead-free
// replay into the backtest.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"leadlag-go/internal/signal"
)

// DB wraps the SQLite handle holding the trades table.
type DB struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open creates the database file (and its parent directory) if needed and
// runs migrations.
func Open(path string, log zerolog.Logger) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	s := &DB{db: db, log: log}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	s.log.Debug().Str("path", path).Msg("connected tick store")
	return s, nil
}

func (s *DB) migrate() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`
CREATE TABLE IF NOT EXISTS trades (
  symbol TEXT NOT NULL,
  ts INTEGER NOT NULL,
  price REAL NOT NULL,
  quantity REAL NOT NULL,
  side INTEGER NOT NULL,
  PRIMARY KEY (symbol, ts, price, quantity, side)
);`,
		`CREATE INDEX IF NOT EXISTS idx_trades_ts ON trades(ts);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate trades: %w", err)
		}
	}
	return nil
}

// SaveTrades inserts trades inside one transaction, ignoring rows already
// present (the composite primary key dedupes re-fetched windows). Returns the
// number of rows actually written.
func (s *DB) SaveTrades(ctx context.Context, trades []signal.Tick) (int64, error) {
	if len(trades) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
INSERT OR IGNORE INTO trades (symbol, ts, price, quantity, side)
VALUES (?,?,?,?,?)
`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	var written int64
	for _, t := range trades {
		res, err := stmt.ExecContext(ctx, t.Symbol, t.Ts.UTC().UnixNano(), t.Price, t.Quantity, t.Side)
		if err != nil {
			return 0, fmt.Errorf("insert trade: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			written += n
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit trades: %w", err)
	}
	return written, nil
}

// LoadTrades returns every stored trade for the given symbols ordered by
// timestamp ascending, the order the backtest replays them in.
func (s *DB) LoadTrades(ctx context.Context, symbols ...string) ([]signal.Tick, error) {
	if len(symbols) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(symbols)), ",")
	args := make([]any, len(symbols))
	for i, sym := range symbols {
		args[i] = sym
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
SELECT symbol, ts, price, quantity, side
FROM trades WHERE symbol IN (%s)
ORDER BY ts ASC
`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var out []signal.Tick
	for rows.Next() {
		var t signal.Tick
		var ts int64
		if err := rows.Scan(&t.Symbol, &ts, &t.Price, &t.Quantity, &t.Side); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		t.Ts = time.Unix(0, ts).UTC()
		out = append(out, t)
	}
	return out, rows.Err()
}

// Count reports the total number of stored trades.
func (s *DB) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trades`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count trades: %w", err)
	}
	return n, nil
}

// Close releases the underlying handle.
func (s *DB) Close() error { return s.db.Close() }
