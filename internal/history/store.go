package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const defaultLimit = 20

// timeLayout is fixed-width so finished_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Record is the summary of one finished round.
type Record struct {
	RoundID     string    `json:"roundId"`
	PlayerID    string    `json:"playerId"`
	Word        string    `json:"word"`
	Attempts    int       `json:"attempts"`
	HintsUsed   int       `json:"hintsUsed"`
	HintClasses int       `json:"hintClasses"`
	ElapsedMs   int64     `json:"elapsedMs"`
	Difficulty  string    `json:"difficulty"`
	FinishedAt  time.Time `json:"finishedAt"`
}

// Store reads and writes round history.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Insert saves r. A second insert for the same round ID is ignored.
func (s *Store) Insert(ctx context.Context, r Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO rounds
			(id, player_id, word, attempts, hints_used, hint_classes, elapsed_ms, difficulty, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RoundID, r.PlayerID, r.Word, r.Attempts, r.HintsUsed, r.HintClasses,
		r.ElapsedMs, r.Difficulty, r.FinishedAt.UTC().Format(timeLayout),
	)
	return err
}

// Recent returns a player's latest rounds, newest first.
func (s *Store) Recent(ctx context.Context, playerID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	return s.query(ctx, `
		SELECT id, player_id, word, attempts, hints_used, hint_classes, elapsed_ms, difficulty, finished_at
		FROM rounds
		WHERE player_id=?
		ORDER BY finished_at DESC
		LIMIT ?`, playerID, limit)
}

// Best returns the fastest rounds across all players, fewer attempts
// breaking ties.
func (s *Store) Best(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	return s.query(ctx, `
		SELECT id, player_id, word, attempts, hints_used, hint_classes, elapsed_ms, difficulty, finished_at
		FROM rounds
		ORDER BY elapsed_ms ASC, attempts ASC, finished_at ASC
		LIMIT ?`, limit)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var r Record
		var finished string
		if err := rows.Scan(&r.RoundID, &r.PlayerID, &r.Word, &r.Attempts, &r.HintsUsed,
			&r.HintClasses, &r.ElapsedMs, &r.Difficulty, &finished); err != nil {
			return nil, err
		}
		if r.FinishedAt, err = time.Parse(timeLayout, finished); err != nil {
			return nil, fmt.Errorf("round %s finished_at: %w", r.RoundID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
