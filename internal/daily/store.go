package daily

import (
	"context"
	"database/sql"
)

// Result is one player's solve of a date's word.
type Result struct {
	PlayerID  string `json:"playerId"`
	Date      string `json:"date"`
	RoundID   string `json:"roundId"`
	WordIndex int    `json:"wordIndex"`
	Attempts  int    `json:"attempts"`
	HintsUsed int    `json:"hintsUsed"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Store reads and writes daily_results. The table comes from the embedded
// migrations.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether playerID has a result for date.
func (s *Store) AlreadyPlayed(ctx context.Context, playerID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results WHERE player_id=? AND date=?`,
		playerID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult stores r. A second result for the same player and date is
// ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results
		   (player_id, date, round_id, word_index, attempts, hints_used, elapsed_ms)
		 VALUES (?,?,?,?,?,?,?)`,
		r.PlayerID, r.Date, r.RoundID, r.WordIndex, r.Attempts, r.HintsUsed, r.ElapsedMs,
	)
	return err
}

// LBRow is one leaderboard line.
type LBRow struct {
	PlayerID  string `json:"playerId"`
	Attempts  int    `json:"attempts"`
	HintsUsed int    `json:"hintsUsed"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Leaderboard returns the fastest solves for date, fewest attempts breaking
// ties.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT player_id, attempts, hints_used, elapsed_ms
		   FROM daily_results
		  WHERE date=?
		  ORDER BY elapsed_ms ASC, attempts ASC, created_at ASC
		  LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []LBRow{}
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.PlayerID, &r.Attempts, &r.HintsUsed, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
