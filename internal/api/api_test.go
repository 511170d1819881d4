package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/brick-arcade/internal/config"
	"github.com/vovakirdan/brick-arcade/internal/core"
	"github.com/vovakirdan/brick-arcade/internal/multiplayer"
	"github.com/vovakirdan/brick-arcade/internal/storage"
)

type fakeStore struct {
	scores []storage.ScoreRecord
	runs   []storage.RoomRun
	stats  storage.Stats
	err    error
}

func (f *fakeStore) TopScores(limit int) ([]storage.ScoreRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.scores[:min(limit, len(f.scores))], nil
}

func (f *fakeStore) Stats() (storage.Stats, error) { return f.stats, f.err }

func (f *fakeStore) RecentRoomRuns(limit int) ([]storage.RoomRun, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.runs[:min(limit, len(f.runs))], nil
}

func newTestHub(t *testing.T) *multiplayer.Hub {
	t.Helper()
	cfg := multiplayer.DefaultHubConfig()
	cfg.Room.IdleTimeout = 0
	hub := multiplayer.NewHub(cfg)
	t.Cleanup(hub.Shutdown)
	return hub
}

func newTestServer(t *testing.T, rc RouterConfig) *httptest.Server {
	t.Helper()
	if rc.RateLimiter == nil {
		rl := NewIPRateLimiter(RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000, CleanupInterval: time.Hour})
		t.Cleanup(rl.Stop)
		rc.RateLimiter = rl
	}
	rc.Game = config.DefaultBreakoutConfig()
	rc.DisableLogging = true
	ts := httptest.NewServer(NewRouter(rc))
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, into any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if into != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, RouterConfig{Rooms: newTestHub(t)})

	var body map[string]any
	if code := getJSON(t, ts.URL+"/healthz", &body); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["status"] != "ok" || body["rooms"] != float64(0) {
		t.Errorf("body = %v", body)
	}
}

func TestScores(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{
		scores: []storage.ScoreRecord{
			{ID: 1, ScoreEntry: core.ScoreEntry{Name: "ANN", Score: 900, Level: 2, Players: 2, Difficulty: "Hard", At: at}},
			{ID: 2, ScoreEntry: core.ScoreEntry{Name: "BOB", Score: 400, Players: 1, Difficulty: "Normal", At: at}},
		},
		stats: storage.Stats{TotalGames: 2, HighScore: 900, AverageScore: 650, BestLevel: 2},
	}
	ts := newTestServer(t, RouterConfig{Scores: store})

	var scores []scoreJSON
	if code := getJSON(t, ts.URL+"/api/scores?limit=1", &scores); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(scores) != 1 {
		t.Fatalf("got %d scores, want 1", len(scores))
	}
	want := scoreJSON{Rank: 1, Name: "ANN", Score: 900, Level: 3, Players: 2, Difficulty: "Hard", At: at}
	if !scores[0].At.Equal(want.At) {
		t.Errorf("at = %v, want %v", scores[0].At, want.At)
	}
	scores[0].At = want.At
	if scores[0] != want {
		t.Errorf("score = %+v, want %+v", scores[0], want)
	}

	var stats statsJSON
	if code := getJSON(t, ts.URL+"/api/scores/stats", &stats); code != http.StatusOK {
		t.Fatalf("stats status = %d", code)
	}
	if stats.TotalGames != 2 || stats.HighScore != 900 || stats.BestLevel != 3 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestScoresErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  RouterConfig
		path string
		want int
	}{
		{"no store", RouterConfig{}, "/api/scores", http.StatusServiceUnavailable},
		{"no hub", RouterConfig{}, "/api/rooms", http.StatusServiceUnavailable},
		{"store failure", RouterConfig{Scores: &fakeStore{err: errors.New("locked")}}, "/api/scores", http.StatusInternalServerError},
		{"bad limit", RouterConfig{Scores: &fakeStore{}}, "/api/scores?limit=0", http.StatusBadRequest},
		{"huge limit", RouterConfig{Scores: &fakeStore{}}, "/api/rooms/history?limit=5000", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.cfg)
			if code := getJSON(t, ts.URL+tt.path, nil); code != tt.want {
				t.Errorf("GET %s = %d, want %d", tt.path, code, tt.want)
			}
		})
	}
}

func TestRoomHistory(t *testing.T) {
	store := &fakeStore{runs: []storage.RoomRun{
		{RoomID: "r1", Code: "ABC123", Players: 3, TeamScore: 1200, Level: 4, Difficulty: "Easy", EndReason: "game-over", Duration: 90},
	}}
	ts := newTestServer(t, RouterConfig{Scores: store})

	var runs []roomRunJSON
	if code := getJSON(t, ts.URL+"/api/rooms/history", &runs); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(runs) != 1 || runs[0].Code != "ABC123" || runs[0].Level != 5 || runs[0].Seconds != 90 {
		t.Errorf("runs = %+v", runs)
	}
}

func TestLevel(t *testing.T) {
	ts := newTestServer(t, RouterConfig{})

	var lv levelJSON
	if code := getJSON(t, ts.URL+"/api/levels/42/3?difficulty=hard&players=2&owned=true", &lv); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if lv.Seed != 42 || lv.Level != 3 || lv.Difficulty != "Hard" || lv.Players != 2 || !lv.Owned {
		t.Errorf("echoed options = %+v", lv)
	}
	if len(lv.Grid) != lv.Rows || len(lv.HP) != lv.Rows || len(lv.Owner) != lv.Rows {
		t.Fatalf("grid has %d rows, layout says %d", len(lv.Grid), lv.Rows)
	}
	for _, row := range lv.Grid {
		if len(row) != lv.Cols {
			t.Fatalf("row %q is not %d wide", row, lv.Cols)
		}
	}
	if lv.Bricks < 1 || lv.Bricks > lv.Cap {
		t.Errorf("bricks = %d, cap %d", lv.Bricks, lv.Cap)
	}

	var again levelJSON
	getJSON(t, ts.URL+"/api/levels/42/3?difficulty=hard&players=2&owned=true", &again)
	if strings.Join(again.Grid, "\n") != strings.Join(lv.Grid, "\n") {
		t.Error("same seed produced a different level")
	}
}

func TestLevelBadParams(t *testing.T) {
	ts := newTestServer(t, RouterConfig{})
	for _, path := range []string{
		"/api/levels/abc/1",
		"/api/levels/1/0",
		"/api/levels/1/1000",
		"/api/levels/1/1?difficulty=nightmare",
		"/api/levels/1/1?players=5",
		"/api/levels/1/1?owned=maybe",
		"/api/levels/1/1/preview.png?scale=10",
	} {
		if code := getJSON(t, ts.URL+path, nil); code != http.StatusBadRequest {
			t.Errorf("GET %s = %d, want 400", path, code)
		}
	}
}

func TestLevelPNG(t *testing.T) {
	ts := newTestServer(t, RouterConfig{})

	resp, err := http.Get(ts.URL + "/api/levels/7/1/preview.png?scale=0.5")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !bytes.HasPrefix(body, []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("body is not a PNG")
	}
}

func TestRooms(t *testing.T) {
	hub := newTestHub(t)
	code, _, err := hub.Create(multiplayer.NewChannelSession(multiplayer.NewSessionID(), 0))
	if err != nil {
		t.Fatal(err)
	}
	ts := newTestServer(t, RouterConfig{Rooms: hub})

	var rooms []roomJSON
	if status := getJSON(t, ts.URL+"/api/rooms", &rooms); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if len(rooms) != 1 || rooms[0].Code != code || rooms[0].Seats != 1 || rooms[0].MaxSeats != core.MaxPlayers {
		t.Errorf("rooms = %+v", rooms)
	}

	var one roomJSON
	if status := getJSON(t, ts.URL+"/api/rooms/"+strings.ToLower(code), &one); status != http.StatusOK {
		t.Fatalf("room status = %d", status)
	}
	if one.Code != code {
		t.Errorf("room = %+v", one)
	}
	if status := getJSON(t, ts.URL+"/api/rooms/ZZZZZZ", nil); status != http.StatusNotFound {
		t.Errorf("missing room = %d, want 404", status)
	}
}

func TestWatchStreamsFrames(t *testing.T) {
	hub := newTestHub(t)
	code, _, err := hub.Create(multiplayer.NewChannelSession(multiplayer.NewSessionID(), 0))
	if err != nil {
		t.Fatal(err)
	}
	ts := newTestServer(t, RouterConfig{Rooms: hub, Watch: WatchConfig{FPS: 30}})

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/rooms/" + code + "/watch"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	resp.Body.Close()
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var msg struct {
		Event string    `json:"event"`
		Data  frameJSON `json:"data"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Event != "frame" {
		t.Fatalf("event = %q, want frame", msg.Event)
	}
	if msg.Data.Width != 80 || msg.Data.Height != 24 || len(msg.Data.Rows) != 24 {
		t.Errorf("frame is %dx%d with %d rows", msg.Data.Width, msg.Data.Height, len(msg.Data.Rows))
	}
	if msg.Data.Mode != "menu" {
		t.Errorf("mode = %q, want menu", msg.Data.Mode)
	}

	// Closing the room ends the stream with a closed event.
	room, _ := hub.Room(code)
	room.Stop()
	for {
		var m wsMessage
		if err := conn.ReadJSON(&m); err != nil {
			t.Fatalf("stream ended without a closed event: %v", err)
		}
		if m.Event == "closed" {
			break
		}
	}
}

func TestWatchRejectsForeignOrigin(t *testing.T) {
	hub := newTestHub(t)
	code, _, err := hub.Create(multiplayer.NewChannelSession(multiplayer.NewSessionID(), 0))
	if err != nil {
		t.Fatal(err)
	}
	ts := newTestServer(t, RouterConfig{Rooms: hub})

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/rooms/" + code + "/watch"
	header := http.Header{"Origin": []string{"https://evil.example"}}
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		conn.Close()
		t.Fatal("dial from a foreign origin succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("response = %v, want 403", resp)
	}
}

func TestRateLimit(t *testing.T) {
	rl := NewIPRateLimiter(RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2, CleanupInterval: time.Hour})
	t.Cleanup(rl.Stop)
	ts := newTestServer(t, RouterConfig{Scores: &fakeStore{}, RateLimiter: rl})

	for i := 0; i < 2; i++ {
		if code := getJSON(t, ts.URL+"/api/scores", nil); code != http.StatusOK {
			t.Fatalf("request %d = %d, want 200", i, code)
		}
	}
	if code := getJSON(t, ts.URL+"/api/scores", nil); code != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", code)
	}
	if code := getJSON(t, ts.URL+"/healthz", nil); code != http.StatusOK {
		t.Errorf("health check limited: %d", code)
	}
	if allowed, rejected := rl.Stats(); allowed != 2 || rejected != 1 {
		t.Errorf("stats = %d allowed, %d rejected", allowed, rejected)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, RouterConfig{Scores: &fakeStore{}, Rooms: newTestHub(t)})
	getJSON(t, ts.URL+"/api/scores", nil)

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{
		`brickarcade_http_requests_total{endpoint="/api/scores",method="GET",status="200"} 1`,
		"brickarcade_rooms_open 0",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		header http.Header
		remote string
		want   string
	}{
		{"remote addr", nil, "10.0.0.1:5555", "10.0.0.1"},
		{"forwarded chain", http.Header{"X-Forwarded-For": {"1.2.3.4, 10.0.0.1"}}, "10.0.0.1:1", "1.2.3.4"},
		{"real ip", http.Header{"X-Real-Ip": {" 5.6.7.8 "}}, "10.0.0.1:1", "5.6.7.8"},
		{"bare remote", nil, "unix", "unix"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.Header = tt.header
			if r.Header == nil {
				r.Header = http.Header{}
			}
			r.RemoteAddr = tt.remote
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOriginAllowed(t *testing.T) {
	patterns := []string{"http://localhost:*", "https://*.arcade.dev", "https://play.example"}
	tests := []struct {
		origin string
		want   bool
	}{
		{"http://localhost:3000", true},
		{"HTTP://LOCALHOST:8080", true},
		{"https://eu.arcade.dev", true},
		{"https://play.example", true},
		{"https://play.example.evil", false},
		{"http://127.0.0.1:3000", false},
	}
	for _, tt := range tests {
		if got := originAllowed(patterns, tt.origin); got != tt.want {
			t.Errorf("originAllowed(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

func TestWatchLimiter(t *testing.T) {
	wl := NewWatchLimiter(2, 3)
	if !wl.Acquire("a") || !wl.Acquire("a") {
		t.Fatal("first two slots refused")
	}
	if wl.Acquire("a") {
		t.Error("per-IP limit not enforced")
	}
	if !wl.Acquire("b") {
		t.Fatal("other IP refused")
	}
	if wl.Acquire("c") {
		t.Error("total limit not enforced")
	}
	wl.Release("a")
	if !wl.Acquire("c") || wl.Active() != 3 {
		t.Errorf("release did not free a slot, active = %d", wl.Active())
	}
	wl.Release("nobody")
	if wl.Active() != 3 {
		t.Error("releasing an unknown IP changed the count")
	}
}
