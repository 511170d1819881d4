package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/brick-arcade/internal/core"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func entry(name string, score int) core.ScoreEntry {
	return core.ScoreEntry{Name: name, Score: score, Level: 2, Players: 1, Difficulty: "Normal"}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	at := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	first := core.ScoreEntry{Name: "ANN", Score: 100, Level: 4, Players: 2, Difficulty: "Hard", At: at}
	if _, err := store.SaveScore(first); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
	for _, e := range []core.ScoreEntry{entry("BOB", 50), entry("CAT", 200)} {
		if _, err := store.SaveScore(e); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	scores, err := store.TopScores(10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	want := []int{200, 100, 50}
	for i, w := range want {
		if scores[i].Score != w {
			t.Errorf("scores[%d] = %d, want %d", i, scores[i].Score, w)
		}
	}

	got := scores[1]
	if got.Name != "ANN" || got.Level != 4 || got.Players != 2 || got.Difficulty != "Hard" {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if !got.At.Equal(at) {
		t.Errorf("At = %v, want %v", got.At, at)
	}
	if scores[0].At.IsZero() {
		t.Error("zero timestamp was not stamped")
	}
}

func TestStoreTopScoresLimitAndTies(t *testing.T) {
	store := openTestStore(t)

	for i, name := range []string{"A", "B", "C", "D", "E"} {
		store.SaveScore(entry(name, (i%3+1)*100))
	}

	scores, err := store.TopScores(3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}
	// 300 (C), then the two 200s in insertion order (B, E).
	if scores[0].Name != "C" || scores[1].Name != "B" || scores[2].Name != "E" {
		t.Errorf("order = %s %s %s, want C B E", scores[0].Name, scores[1].Name, scores[2].Name)
	}
}

func TestStoreHighScoreAndClear(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore()
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for an empty table, got %d", high)
	}

	store.SaveScore(entry("A", 100))
	store.SaveScore(entry("B", 300))
	store.SaveScore(entry("C", 200))

	if high, _ = store.HighScore(); high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}

	if err := store.ClearScores(); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}
	all, err := store.AllScores()
	if err != nil {
		t.Fatalf("AllScores() failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(all))
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	st, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if st.TotalGames != 0 || !st.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", st)
	}

	store.SaveScore(core.ScoreEntry{Name: "A", Score: 100, Level: 3})
	store.SaveScore(core.ScoreEntry{Name: "B", Score: 300, Level: 7})

	st, err = store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if st.TotalGames != 2 || st.HighScore != 300 || st.AverageScore != 200 || st.BestLevel != 7 {
		t.Errorf("stats = %+v", st)
	}
	if st.LastPlayed.IsZero() {
		t.Error("LastPlayed not set")
	}
}

func TestStoreRoomRuns(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	runs := []RoomRun{
		{RoomID: "r1", Code: "ABC123", Players: 2, TeamScore: 900, Level: 3, Difficulty: "Normal", EndReason: "game-over", Duration: 120, CreatedAt: base},
		{RoomID: "r2", Code: "XYZ789", Players: 4, TeamScore: 50, Level: 0, Difficulty: "Easy", EndReason: "empty", Duration: 15, CreatedAt: base.Add(time.Hour)},
	}
	for _, r := range runs {
		if err := store.SaveRoomRun(r); err != nil {
			t.Fatalf("SaveRoomRun() failed: %v", err)
		}
	}
	again := runs[0]
	again.TeamScore, again.EndReason, again.CreatedAt = 1500, "empty", base.Add(2*time.Hour)
	if err := store.SaveRoomRun(again); err != nil {
		t.Fatalf("second run in the same room failed: %v", err)
	}

	got, err := store.RecentRoomRuns(10)
	if err != nil {
		t.Fatalf("RecentRoomRuns() failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d runs, want 3", len(got))
	}
	if got[0].TeamScore != 1500 || got[1].RoomID != "r2" || got[2].RoomID != "r1" {
		t.Errorf("order = %+v; want newest first", got)
	}

	r1, err := store.RoomRuns("r1")
	if err != nil {
		t.Fatalf("RoomRuns() failed: %v", err)
	}
	if len(r1) != 2 {
		t.Fatalf("room r1 has %d runs, want 2", len(r1))
	}
	if r1[0].TeamScore != 900 || r1[0].Players != 2 || !r1[0].CreatedAt.Equal(base) {
		t.Errorf("round trip lost fields: %+v", r1[0])
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
