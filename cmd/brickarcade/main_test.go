package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/brick-arcade/internal/breakout"
	"github.com/vovakirdan/brick-arcade/internal/core"
	"github.com/vovakirdan/brick-arcade/internal/storage"
)

func TestOwnerGrid(t *testing.T) {
	l := breakout.Layout{
		Rows: 2,
		Cols: 3,
		HP:   [][]int{{1, 0, 2}, {3, 1, 0}},
		Owner: [][]int{
			{0, -1, 1},
			{-1, 1, -1},
		},
	}
	want := "1.2\n-2."
	if got := ownerGrid(l); got != want {
		t.Errorf("ownerGrid = %q, want %q", got, want)
	}
}

func TestPrintScores(t *testing.T) {
	var buf bytes.Buffer
	printScores(&buf, nil)
	if !strings.Contains(buf.String(), "No scores recorded yet.") {
		t.Errorf("empty leaderboard output:\n%s", buf.String())
	}

	buf.Reset()
	printScores(&buf, []storage.ScoreRecord{{
		ID: 1,
		ScoreEntry: core.ScoreEntry{
			Name: "ACE", Score: 1200, Level: 4, Players: 2, Difficulty: "Hard",
			At: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	}})
	out := buf.String()
	for _, want := range []string{"ACE", "1200", "Hard"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	// Levels print 1-based.
	if !strings.Contains(out, "  5      2  ") {
		t.Errorf("level not shown 1-based:\n%s", out)
	}
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	printStats(&buf, storage.Stats{})
	if got := strings.TrimSpace(buf.String()); got != "Games recorded: 0" {
		t.Errorf("empty stats = %q", got)
	}

	buf.Reset()
	printStats(&buf, storage.Stats{TotalGames: 3, HighScore: 900, AverageScore: 500, BestLevel: 2})
	out := buf.String()
	if !strings.Contains(out, "Best score:     900") || !strings.Contains(out, "Best level:     3") {
		t.Errorf("stats output:\n%s", out)
	}
}

func TestPortOf(t *testing.T) {
	tests := map[string]string{
		":23234":         "23234",
		"localhost:2222": "2222",
		"bogus":          "bogus",
	}
	for in, want := range tests {
		if got := portOf(in); got != want {
			t.Errorf("portOf(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLevelOptionsValidation(t *testing.T) {
	defer func(l, p, c, r int, s float64, d string) {
		flagLevel, flagLevelPlay, flagCols, flagRows, flagPNGScale, flagLevelDiff = l, p, c, r, s, d
	}(flagLevel, flagLevelPlay, flagCols, flagRows, flagPNGScale, flagLevelDiff)

	flagLevel, flagLevelPlay, flagCols, flagRows, flagPNGScale, flagLevelDiff = 3, 2, 80, 24, 1, "hard"
	o, err := levelOptions()
	if err != nil {
		t.Fatalf("levelOptions: %v", err)
	}
	if o.Level != 2 || o.Players != 2 || o.Seed == 0 {
		t.Errorf("options = %+v", o)
	}

	flagLevel = 0
	if _, err := levelOptions(); err == nil {
		t.Error("level 0 accepted")
	}
	flagLevel, flagLevelPlay = 1, 9
	if _, err := levelOptions(); err == nil {
		t.Error("9 players accepted")
	}
}
