// Package daily picks one shared word per UTC date and keeps a per-date
// leaderboard of players who solved it.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date using
// HMAC(salt, YYYY-MM-DD) % n.
func WordIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	return int(binary.BigEndian.Uint64(sum[:8]) % uint64(n))
}

// Word returns the index and word for date drawn from candidates, which
// must be in a stable order. ok is false when candidates is empty.
func Word(date time.Time, salt string, candidates []string) (idx int, word string, ok bool) {
	if len(candidates) == 0 {
		return 0, "", false
	}
	idx = WordIndex(date, salt, len(candidates))
	return idx, candidates[idx], true
}
