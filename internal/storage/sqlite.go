// Package storage provides SQLite-based persistence for the leaderboard
// and the history of SSH co-op rooms.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/brick-arcade/internal/core"
)

// timeLayout is how timestamps are written to and read back from TEXT columns.
const timeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreRecord is a stored leaderboard row.
type ScoreRecord struct {
	ID int64
	core.ScoreEntry
}

// RoomRun is the outcome of one game played in an SSH co-op room. A room
// can record several runs.
type RoomRun struct {
	ID         int64
	RoomID     string
	Code       string
	Players    int
	TeamScore  int
	Level      int
	Difficulty string
	EndReason  string // "game-over", "quit", "empty", "shutdown"
	Duration   int    // seconds
	CreatedAt  time.Time
}

// Stats summarises the leaderboard.
type Stats struct {
	TotalGames   int
	HighScore    int
	AverageScore float64
	BestLevel    int
	LastPlayed   time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
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
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			score INTEGER NOT NULL,
			level INTEGER NOT NULL DEFAULT 0,
			players INTEGER NOT NULL DEFAULT 1,
			difficulty TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(score DESC, id ASC);

		CREATE TABLE IF NOT EXISTS room_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			room_id TEXT NOT NULL,
			code TEXT NOT NULL,
			players INTEGER NOT NULL DEFAULT 1,
			team_score INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 0,
			difficulty TEXT NOT NULL DEFAULT '',
			end_reason TEXT NOT NULL,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_room_runs_room ON room_runs(room_id);
		CREATE INDEX IF NOT EXISTS idx_room_runs_created ON room_runs(created_at DESC);
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

// SaveScore records a leaderboard entry. A zero timestamp is stamped with
// the current time. Returns the ID of the inserted record.
func (s *Store) SaveScore(e core.ScoreEntry) (int64, error) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	result, err := s.db.Exec(
		`INSERT INTO scores (name, score, level, players, difficulty, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Name, e.Score, e.Level, e.Players, e.Difficulty, formatTime(e.At),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get insert ID: %w", err)
	}
	return id, nil
}

// TopScores returns the highest scores, best first. Ties keep insertion order.
func (s *Store) TopScores(limit int) ([]ScoreRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, name, score, level, players, difficulty, created_at
		 FROM scores ORDER BY score DESC, id ASC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()
	return scanScores(rows)
}

// AllScores returns every stored score, newest first.
func (s *Store) AllScores() ([]ScoreRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, name, score, level, players, difficulty, created_at
		 FROM scores ORDER BY id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()
	return scanScores(rows)
}

func scanScores(rows *sql.Rows) ([]ScoreRecord, error) {
	var scores []ScoreRecord
	for rows.Next() {
		var r ScoreRecord
		var created any
		if err := rows.Scan(&r.ID, &r.Name, &r.Score, &r.Level, &r.Players, &r.Difficulty, &created); err != nil {
			return nil, fmt.Errorf("storage: cannot scan score: %w", err)
		}
		r.At = parseTime(created)
		scores = append(scores, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: error iterating scores: %w", err)
	}
	return scores, nil
}

// HighScore returns the best score, or 0 if there are none.
func (s *Store) HighScore() (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(score) FROM scores").Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// MinTopScore returns the lowest score among the best n and how many rows
// that set holds.
func (s *Store) MinTopScore(n int) (lowest, count int, err error) {
	var low sql.NullInt64
	err = s.db.QueryRow(
		`SELECT MIN(score), COUNT(*) FROM (SELECT score FROM scores ORDER BY score DESC, id ASC LIMIT ?)`,
		n,
	).Scan(&low, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("storage: cannot query leaderboard floor: %w", err)
	}
	return int(low.Int64), count, nil
}

// ClearScores removes every leaderboard entry.
func (s *Store) ClearScores() error {
	if _, err := s.db.Exec("DELETE FROM scores"); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// Stats returns aggregate leaderboard figures.
func (s *Store) Stats() (Stats, error) {
	var st Stats
	var high, best sql.NullInt64
	var avg sql.NullFloat64
	var last sql.NullString

	err := s.db.QueryRow(
		`SELECT COUNT(*), MAX(score), AVG(score), MAX(level), MAX(created_at) FROM scores`,
	).Scan(&st.TotalGames, &high, &avg, &best, &last)
	if err != nil {
		return st, fmt.Errorf("storage: cannot query stats: %w", err)
	}

	st.HighScore = int(high.Int64)
	st.AverageScore = avg.Float64
	st.BestLevel = int(best.Int64)
	if last.Valid {
		st.LastPlayed = parseTime(last.String)
	}
	return st, nil
}

// SaveRoomRun records the outcome of a co-op room. It satisfies
// multiplayer.RunSaver.
func (s *Store) SaveRoomRun(r RoomRun) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO room_runs
		 (room_id, code, players, team_score, level, difficulty, end_reason, duration_secs, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RoomID, r.Code, r.Players, r.TeamScore, r.Level, r.Difficulty, r.EndReason, r.Duration,
		formatTime(r.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save room run: %w", err)
	}
	return nil
}

// RoomRuns returns every run recorded for a room, oldest first.
func (s *Store) RoomRuns(roomID string) ([]RoomRun, error) {
	rows, err := s.db.Query(
		`SELECT id, room_id, code, players, team_score, level, difficulty, end_reason, duration_secs, created_at
		 FROM room_runs WHERE room_id = ? ORDER BY id ASC`,
		roomID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query room runs: %w", err)
	}
	defer rows.Close()
	return scanRuns(rows)
}

// RecentRoomRuns returns the latest room outcomes, newest first.
func (s *Store) RecentRoomRuns(limit int) ([]RoomRun, error) {
	rows, err := s.db.Query(
		`SELECT id, room_id, code, players, team_score, level, difficulty, end_reason, duration_secs, created_at
		 FROM room_runs ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query room runs: %w", err)
	}
	defer rows.Close()
	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]RoomRun, error) {
	var runs []RoomRun
	for rows.Next() {
		var r RoomRun
		var created any
		if err := rows.Scan(&r.ID, &r.RoomID, &r.Code, &r.Players, &r.TeamScore, &r.Level,
			&r.Difficulty, &r.EndReason, &r.Duration, &created); err != nil {
			return nil, fmt.Errorf("storage: cannot scan room run: %w", err)
		}
		r.CreatedAt = parseTime(created)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: error iterating room runs: %w", err)
	}
	return runs, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime handles both driver representations of a timestamp column.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		parsed, _ := time.ParseInLocation(timeLayout, t, time.UTC)
		return parsed
	case []byte:
		parsed, _ := time.ParseInLocation(timeLayout, string(t), time.UTC)
		return parsed
	}
	return time.Time{}
}
