// Package persistence durably records the engine's committed ticks:
// a compressed, hash-chained transaction log of every snapshot plus a
// periodic full-state snapshot table, mirroring the teacher's
// transaction_log/daily_snapshots split (see db.go grounding note in
// DESIGN.md) but adapted to DysonForge's GameState document instead of
// the teacher's relational colony tables.
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/anderote/dysonforge/internal/core"
	"github.com/anderote/dysonforge/internal/engine"
)

// Store is a durable, append-only record of engine ticks and
// point-in-time snapshots, backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open creates (if needed) and opens the SQLite-backed store at path,
// enabling WAL mode the way the teacher's initDB does.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("persistence: creating db directory: %w", err)
		}
	}
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("persistence: opening sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("persistence: enabling WAL: %w", err)
	}
	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) createSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS transaction_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		chain_hash TEXT NOT NULL,
		payload_blob BLOB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_tx_session_tick ON transaction_log(session_id, tick);

	CREATE TABLE IF NOT EXISTS state_snapshots (
		session_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		chain_hash TEXT NOT NULL,
		state_blob BLOB NOT NULL,
		PRIMARY KEY (session_id, tick)
	);
	`
	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("persistence: creating schema: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// AppendTick records one committed tick's snapshot into the
// tamper-evident transaction log, LZ4-compressed. The chain hash
// lets a reader detect a tampered or truncated log (see
// internal/core's ChainHash) without replaying the whole history.
func (s *Store) AppendTick(ctx context.Context, sessionID string, snap *engine.GameState) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("persistence: marshaling snapshot: %w", err)
	}
	blob := core.Compress(raw)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO transaction_log (session_id, tick, chain_hash, payload_blob) VALUES (?, ?, ?, ?)`,
		sessionID, snap.Tick, snap.ChainHash, blob)
	if err != nil {
		return fmt.Errorf("persistence: appending tick %d: %w", snap.Tick, err)
	}
	return nil
}

// SaveSnapshot upserts the full-state snapshot row for (sessionID,
// snap.Tick), compressed the same way as the transaction log.
func (s *Store) SaveSnapshot(ctx context.Context, sessionID string, snap *engine.GameState) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("persistence: marshaling snapshot: %w", err)
	}
	blob := core.Compress(raw)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO state_snapshots (session_id, tick, chain_hash, state_blob) VALUES (?, ?, ?, ?)
		 ON CONFLICT(session_id, tick) DO UPDATE SET chain_hash=excluded.chain_hash, state_blob=excluded.state_blob`,
		sessionID, snap.Tick, snap.ChainHash, blob)
	if err != nil {
		return fmt.Errorf("persistence: saving snapshot at tick %d: %w", snap.Tick, err)
	}
	return nil
}

// LoadLatestSnapshot returns the most recent saved GameState for a
// session, or an error if none exists (the caller starts fresh).
func (s *Store) LoadLatestSnapshot(ctx context.Context, sessionID string) (*engine.GameState, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT state_blob FROM state_snapshots WHERE session_id = ? ORDER BY tick DESC LIMIT 1`,
		sessionID).Scan(&blob)
	if err != nil {
		return nil, fmt.Errorf("persistence: no snapshot for session %q: %w", sessionID, err)
	}
	raw, err := core.Decompress(blob)
	if err != nil {
		return nil, fmt.Errorf("persistence: decompressing snapshot: %w", err)
	}
	var state engine.GameState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("persistence: decoding snapshot: %w", err)
	}
	return &state, nil
}

// VerifyChain replays the transaction log for a session and confirms
// each row's chain hash correctly extends the previous row's, the
// same property internal/core.ChainHash is meant to make tamper-evident.
// It re-derives each link with engine.HashableBytes against the
// decoded snapshot rather than trusting the stored chain_hash column,
// so a tampered payload_blob is caught even if chain_hash was edited
// to match it.
func (s *Store) VerifyChain(ctx context.Context, sessionID string) (bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tick, chain_hash, payload_blob FROM transaction_log WHERE session_id = ? ORDER BY tick ASC`,
		sessionID)
	if err != nil {
		return false, fmt.Errorf("persistence: querying transaction log: %w", err)
	}
	defer rows.Close()

	prevHash := ""
	for rows.Next() {
		var tick int64
		var chainHash string
		var blob []byte
		if err := rows.Scan(&tick, &chainHash, &blob); err != nil {
			return false, fmt.Errorf("persistence: scanning transaction log: %w", err)
		}
		raw, err := core.Decompress(blob)
		if err != nil {
			return false, fmt.Errorf("persistence: decompressing tick %d: %w", tick, err)
		}
		var snap engine.GameState
		if err := json.Unmarshal(raw, &snap); err != nil {
			return false, fmt.Errorf("persistence: decoding tick %d: %w", tick, err)
		}
		expected := core.ChainHash(prevHash, engine.HashableBytes(&snap))
		if expected != chainHash {
			return false, nil
		}
		prevHash = chainHash
	}
	return true, rows.Err()
}
