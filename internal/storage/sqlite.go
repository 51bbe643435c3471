// Package storage provides SQLite-based persistence for finished play sessions.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
// Only summaries are stored; a game in progress is never saved.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Reasons a session ended.
const (
	EndGameOver = "game_over"
	EndRestart  = "restart"
	EndBack     = "back"
	EndQuit     = "quit"
)

// Store manages the SQLite database connection for session history.
type Store struct {
	db *sql.DB
}

// SessionRecord summarizes one finished game.
type SessionRecord struct {
	ID           int64
	GameID       string
	Player       string
	Speed        int
	Pairs        int
	Settled      int
	ChainLinks   int
	LongestChain int
	CellsCleared int
	Duration     time.Duration // simulated play time, stored in milliseconds
	EndReason    string
	CreatedAt    time.Time
}

// Summary aggregates a player's sessions.
type Summary struct {
	Player       string // empty for all players
	Sessions     int
	LongestChain int
	TotalPairs   int
	TotalCleared int
	TotalPlayed  time.Duration
	LastPlayed   time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			speed INTEGER NOT NULL,
			pairs INTEGER NOT NULL DEFAULT 0,
			settled INTEGER NOT NULL DEFAULT 0,
			chain_links INTEGER NOT NULL DEFAULT 0,
			longest_chain INTEGER NOT NULL DEFAULT 0,
			cells_cleared INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			end_reason TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_player ON sessions(player);
		CREATE INDEX IF NOT EXISTS idx_sessions_best ON sessions(longest_chain DESC, cells_cleared DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSession records a finished session.
// Returns the ID of the inserted record.
func (s *Store) SaveSession(rec SessionRecord) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO sessions
		 (game_id, player, speed, pairs, settled, chain_links, longest_chain, cells_cleared, duration_ms, end_reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.GameID,
		rec.Player,
		rec.Speed,
		rec.Pairs,
		rec.Settled,
		rec.ChainLinks,
		rec.LongestChain,
		rec.CellsCleared,
		rec.Duration.Milliseconds(),
		rec.EndReason,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const sessionColumns = `id, game_id, player, speed, pairs, settled, chain_links,
	longest_chain, cells_cleared, duration_ms, end_reason, created_at`

// RecentSessions retrieves the most recent sessions of all players.
func (s *Store) RecentSessions(limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.querySessions(
		`SELECT `+sessionColumns+` FROM sessions
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
}

// PlayerSessions retrieves the most recent sessions of one player.
func (s *Store) PlayerSessions(player string, limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.querySessions(
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE player = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		player, limit,
	)
}

// BestSessions retrieves the sessions with the longest chains.
// Ties are broken by cells cleared, then by the earlier session.
func (s *Store) BestSessions(limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.querySessions(
		`SELECT `+sessionColumns+` FROM sessions
		 ORDER BY longest_chain DESC, cells_cleared DESC, id ASC
		 LIMIT ?`,
		limit,
	)
}

func (s *Store) querySessions(query string, args ...any) ([]SessionRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		var r SessionRecord
		var durationMs int64
		var createdAt any
		if err := rows.Scan(
			&r.ID,
			&r.GameID,
			&r.Player,
			&r.Speed,
			&r.Pairs,
			&r.Settled,
			&r.ChainLinks,
			&r.LongestChain,
			&r.CellsCleared,
			&durationMs,
			&r.EndReason,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Duration = time.Duration(durationMs) * time.Millisecond
		r.CreatedAt = scanTime(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// Summary aggregates the sessions of a player, or of everyone when player is empty.
func (s *Store) Summary(player string) (*Summary, error) {
	sum := &Summary{Player: player}
	where, args := "", []any{}
	if player != "" {
		where, args = "WHERE player = ?", append(args, player)
	}

	var playedMs int64
	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(longest_chain), 0), COALESCE(SUM(pairs), 0),
		        COALESCE(SUM(cells_cleared), 0), COALESCE(SUM(duration_ms), 0), MAX(created_at)
		 FROM sessions `+where,
		args...,
	).Scan(&sum.Sessions, &sum.LongestChain, &sum.TotalPairs, &sum.TotalCleared, &playedMs, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get summary: %w", err)
	}
	sum.TotalPlayed = time.Duration(playedMs) * time.Millisecond
	sum.LastPlayed = scanTime(lastPlayed)

	return sum, nil
}

// ClearSessions deletes the sessions of a player, or all sessions when player is empty.
func (s *Store) ClearSessions(player string) error {
	var err error
	if player == "" {
		_, err = s.db.Exec("DELETE FROM sessions")
	} else {
		_, err = s.db.Exec("DELETE FROM sessions WHERE player = ?", player)
	}
	if err != nil {
		return fmt.Errorf("storage: cannot clear sessions: %w", err)
	}
	return nil
}

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("storage: session not found")

// SessionByID retrieves one session.
func (s *Store) SessionByID(id int64) (*SessionRecord, error) {
	records, err := s.querySessions(`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return &records[0], nil
}

// scanTime parses a DATETIME column, which the driver returns either as
// time.Time or as text depending on how the value was written.
func scanTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339Nano} {
			if parsed, err := time.Parse(layout, v); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}
