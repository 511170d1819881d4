package storage

import "github.com/vovakirdan/brick-arcade/internal/core"

// Leaderboard is the game's high-score service backed by a Store. Only the
// best Slots entries count as the table.
type Leaderboard struct {
	store *Store
	slots int
}

// NewLeaderboard wraps store with a table of the given size.
func NewLeaderboard(store *Store, slots int) *Leaderboard {
	return &Leaderboard{store: store, slots: max(slots, 1)}
}

// Qualifies reports whether score would enter the table: while it has free
// slots any positive score does, afterwards it must beat the lowest entry.
// A failing database never qualifies.
func (l *Leaderboard) Qualifies(score int) bool {
	if score <= 0 {
		return false
	}
	lowest, count, err := l.store.MinTopScore(l.slots)
	if err != nil {
		return false
	}
	return count < l.slots || score > lowest
}

// Submit stores an entry.
func (l *Leaderboard) Submit(e core.ScoreEntry) error {
	_, err := l.store.SaveScore(e)
	return err
}

// Top returns at most limit entries, best first. A non-positive limit
// means the whole table.
func (l *Leaderboard) Top(limit int) ([]core.ScoreEntry, error) {
	if limit <= 0 || limit > l.slots {
		limit = l.slots
	}
	records, err := l.store.TopScores(limit)
	if err != nil {
		return nil, err
	}
	entries := make([]core.ScoreEntry, len(records))
	for i, r := range records {
		entries[i] = r.ScoreEntry
	}
	return entries, nil
}
