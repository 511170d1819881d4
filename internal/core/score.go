package core

import "time"

// ScoreEntry is one leaderboard row.
type ScoreEntry struct {
	Name       string
	Score      int
	Level      int
	Players    int
	Difficulty string
	At         time.Time
}
