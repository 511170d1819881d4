package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vovakirdan/brick-arcade/internal/config"
	"github.com/vovakirdan/brick-arcade/internal/core"
	"github.com/vovakirdan/brick-arcade/internal/multiplayer"
	"github.com/vovakirdan/brick-arcade/internal/render"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
	maxPreviewLevel  = 999
)

var errBadParam = errors.New("bad parameter")

type scoreJSON struct {
	Rank       int       `json:"rank"`
	Name       string    `json:"name"`
	Score      int       `json:"score"`
	Level      int       `json:"level"`
	Players    int       `json:"players"`
	Difficulty string    `json:"difficulty"`
	At         time.Time `json:"at"`
}

type statsJSON struct {
	TotalGames   int       `json:"totalGames"`
	HighScore    int       `json:"highScore"`
	AverageScore float64   `json:"averageScore"`
	BestLevel    int       `json:"bestLevel"`
	LastPlayed   time.Time `json:"lastPlayed,omitzero"`
}

type roomJSON struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Seats     int       `json:"seats"`
	MaxSeats  int       `json:"maxSeats"`
	Mode      string    `json:"mode"`
	Level     int       `json:"level"`
	TeamScore int       `json:"teamScore"`
	Created   time.Time `json:"created"`
}

type roomRunJSON struct {
	RoomID     string    `json:"roomId"`
	Code       string    `json:"code"`
	Players    int       `json:"players"`
	TeamScore  int       `json:"teamScore"`
	Level      int       `json:"level"`
	Difficulty string    `json:"difficulty"`
	EndReason  string    `json:"endReason"`
	Seconds    int       `json:"seconds"`
	At         time.Time `json:"at"`
}

type levelJSON struct {
	Seed       int64    `json:"seed"`
	Level      int      `json:"level"`
	Difficulty string   `json:"difficulty"`
	Players    int      `json:"players"`
	Owned      bool     `json:"owned"`
	Rows       int      `json:"rows"`
	Cols       int      `json:"cols"`
	Bricks     int      `json:"bricks"`
	Target     int      `json:"target"`
	Cap        int      `json:"cap"`
	Mirrored   bool     `json:"mirrored"`
	Silhouette string   `json:"silhouette,omitempty"`
	Grid       []string `json:"grid"`
	HP         [][]int  `json:"hp"`
	Owner      [][]int  `json:"owner"`
}

func (h *routerHandlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok"}
	if h.rooms != nil {
		resp["rooms"] = h.rooms.RoomCount()
	}
	writeJSON(w, resp)
}

func (h *routerHandlers) handleScores(w http.ResponseWriter, r *http.Request) {
	if h.scores == nil {
		writeError(w, "scores unavailable", http.StatusServiceUnavailable)
		return
	}
	limit, err := queryInt(r, "limit", defaultListLimit, 1, maxListLimit)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	records, err := h.scores.TopScores(limit)
	if err != nil {
		h.log.Error("top scores", "err", err)
		writeError(w, "cannot load scores", http.StatusInternalServerError)
		return
	}

	out := make([]scoreJSON, len(records))
	for i, rec := range records {
		out[i] = scoreJSON{
			Rank:       i + 1,
			Name:       rec.Name,
			Score:      rec.Score,
			Level:      rec.Level + 1,
			Players:    rec.Players,
			Difficulty: rec.Difficulty,
			At:         rec.At,
		}
	}
	writeJSON(w, out)
}

func (h *routerHandlers) handleScoreStats(w http.ResponseWriter, r *http.Request) {
	if h.scores == nil {
		writeError(w, "scores unavailable", http.StatusServiceUnavailable)
		return
	}
	st, err := h.scores.Stats()
	if err != nil {
		h.log.Error("score stats", "err", err)
		writeError(w, "cannot load stats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, statsJSON{
		TotalGames:   st.TotalGames,
		HighScore:    st.HighScore,
		AverageScore: st.AverageScore,
		BestLevel:    st.BestLevel + 1,
		LastPlayed:   st.LastPlayed,
	})
}

func (h *routerHandlers) handleRooms(w http.ResponseWriter, r *http.Request) {
	if h.rooms == nil {
		writeError(w, "rooms unavailable", http.StatusServiceUnavailable)
		return
	}
	infos := h.rooms.Rooms()
	out := make([]roomJSON, len(infos))
	for i, info := range infos {
		out[i] = toRoomJSON(info)
	}
	writeJSON(w, out)
}

func toRoomJSON(info multiplayer.RoomInfo) roomJSON {
	return roomJSON{
		ID:        string(info.ID),
		Code:      info.Code,
		Seats:     info.Seats,
		MaxSeats:  core.MaxPlayers,
		Mode:      info.Mode,
		Level:     info.Level + 1,
		TeamScore: info.TeamScore,
		Created:   info.Created,
	}
}

func (h *routerHandlers) handleRoom(w http.ResponseWriter, r *http.Request) {
	if h.rooms == nil {
		writeError(w, "rooms unavailable", http.StatusServiceUnavailable)
		return
	}
	room, ok := h.rooms.Room(chi.URLParam(r, "code"))
	if !ok {
		writeError(w, "no such room", http.StatusNotFound)
		return
	}
	resp := struct {
		roomJSON
		Frame *frameJSON `json:"frame,omitempty"`
	}{roomJSON: toRoomJSON(room.Info())}
	if f, ok := room.LastFrame(); ok {
		fj := toFrameJSON(f)
		resp.Frame = &fj
	}
	writeJSON(w, resp)
}

func (h *routerHandlers) handleRoomHistory(w http.ResponseWriter, r *http.Request) {
	if h.scores == nil {
		writeError(w, "history unavailable", http.StatusServiceUnavailable)
		return
	}
	limit, err := queryInt(r, "limit", defaultListLimit, 1, maxListLimit)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	runs, err := h.scores.RecentRoomRuns(limit)
	if err != nil {
		h.log.Error("room runs", "err", err)
		writeError(w, "cannot load room history", http.StatusInternalServerError)
		return
	}
	out := make([]roomRunJSON, len(runs))
	for i, run := range runs {
		out[i] = roomRunJSON{
			RoomID:     run.RoomID,
			Code:       run.Code,
			Players:    run.Players,
			TeamScore:  run.TeamScore,
			Level:      run.Level + 1,
			Difficulty: run.Difficulty,
			EndReason:  run.EndReason,
			Seconds:    run.Duration,
			At:         run.CreatedAt,
		}
	}
	writeJSON(w, out)
}

func (h *routerHandlers) handleLevel(w http.ResponseWriter, r *http.Request) {
	opts, err := levelOptions(r)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	l := render.PreviewGame(h.game, opts).Layout()
	h.metrics.levelRendered()

	writeJSON(w, levelJSON{
		Seed:       opts.Seed,
		Level:      opts.Level + 1,
		Difficulty: opts.Difficulty.String(),
		Players:    opts.Players,
		Owned:      opts.Owned,
		Rows:       l.Rows,
		Cols:       l.Cols,
		Bricks:     l.Count(),
		Target:     l.Target,
		Cap:        l.Cap,
		Mirrored:   l.Mirrored,
		Silhouette: l.StampName,
		Grid:       strings.Split(l.String(), "\n"),
		HP:         l.HP,
		Owner:      l.Owner,
	})
}

func (h *routerHandlers) handleLevelPNG(w http.ResponseWriter, r *http.Request) {
	opts, err := levelOptions(r)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	scale, err := queryFloat(r, "scale", 1, 0.25, 4)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := render.LevelPNG(h.game, opts, scale).EncodePNG(&buf); err != nil {
		h.log.Error("level png", "err", err)
		writeError(w, "cannot render level", http.StatusInternalServerError)
		return
	}
	h.metrics.levelRendered()

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

// levelOptions reads a level selection. Levels in URLs count from 1.
func levelOptions(r *http.Request) (render.LevelOptions, error) {
	var o render.LevelOptions

	seed, err := strconv.ParseInt(chi.URLParam(r, "seed"), 10, 64)
	if err != nil {
		return o, fmt.Errorf("%w: seed must be an integer", errBadParam)
	}
	level, err := strconv.Atoi(chi.URLParam(r, "level"))
	if err != nil || level < 1 || level > maxPreviewLevel {
		return o, fmt.Errorf("%w: level must be 1..%d", errBadParam, maxPreviewLevel)
	}
	o.Seed = seed
	o.Level = level - 1

	o.Difficulty = config.Normal
	if v := r.URL.Query().Get("difficulty"); v != "" {
		if o.Difficulty, err = config.ParseDifficulty(v); err != nil {
			return o, fmt.Errorf("%w: %v", errBadParam, err)
		}
	}
	if o.Players, err = queryInt(r, "players", 1, 1, core.MaxPlayers); err != nil {
		return o, err
	}
	if v := r.URL.Query().Get("owned"); v != "" {
		if o.Owned, err = strconv.ParseBool(v); err != nil {
			return o, fmt.Errorf("%w: owned must be a boolean", errBadParam)
		}
	}

	cols, err := queryInt(r, "cols", 80, 40, 240)
	if err != nil {
		return o, err
	}
	rows, err := queryInt(r, "rows", 24, 12, 80)
	if err != nil {
		return o, err
	}
	o.Viewport = core.ViewportForCells(cols, rows)
	return o, nil
}

func queryInt(r *http.Request, name string, def, lo, hi int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("%w: %s must be %d..%d", errBadParam, name, lo, hi)
	}
	return n, nil
}

func queryFloat(r *http.Request, name string, def, lo, hi float64) (float64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < lo || f > hi {
		return 0, fmt.Errorf("%w: %s must be %g..%g", errBadParam, name, lo, hi)
	}
	return f, nil
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
