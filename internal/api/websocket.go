package api

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/brick-arcade/internal/multiplayer"
)

// WatchConfig tunes room spectating.
type WatchConfig struct {
	FPS          int           // frames per second sent to a spectator
	MaxPerIP     int           // concurrent sockets per client IP
	MaxTotal     int           // concurrent sockets overall
	WriteTimeout time.Duration // per message
	PingInterval time.Duration
}

// DefaultWatchConfig returns the spectating defaults.
func DefaultWatchConfig() WatchConfig {
	return WatchConfig{
		FPS:          20,
		MaxPerIP:     4,
		MaxTotal:     200,
		WriteTimeout: 5 * time.Second,
		PingInterval: 30 * time.Second,
	}
}

func (c WatchConfig) withDefaults() WatchConfig {
	d := DefaultWatchConfig()
	if c.FPS <= 0 {
		c.FPS = d.FPS
	}
	if c.MaxPerIP <= 0 {
		c.MaxPerIP = d.MaxPerIP
	}
	if c.MaxTotal <= 0 {
		c.MaxTotal = d.MaxTotal
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.PingInterval <= 0 {
		c.PingInterval = d.PingInterval
	}
	return c
}

// frameJSON is a room frame as sent to spectators: plain text rows.
type frameJSON struct {
	Tick      uint64   `json:"tick"`
	Mode      string   `json:"mode"`
	Level     int      `json:"level"`
	TeamScore int      `json:"teamScore"`
	Players   int      `json:"players"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	Rows      []string `json:"rows"`
}

func toFrameJSON(f multiplayer.Frame) frameJSON {
	fj := frameJSON{
		Tick:      f.Tick,
		Mode:      f.Mode,
		Level:     f.Level + 1,
		TeamScore: f.TeamScore,
		Players:   f.Players,
	}
	if f.Screen != nil {
		fj.Width, fj.Height = f.Screen.Width(), f.Screen.Height()
		fj.Rows = make([]string, fj.Height)
		for y := range fj.Rows {
			fj.Rows[y] = f.Screen.Row(y)
		}
	}
	return fj
}

type wsMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type watchHandler struct {
	cfg      WatchConfig
	origins  []string
	limiter  *WatchLimiter
	metrics  *Metrics
	log      *log.Logger
	upgrader websocket.Upgrader

	stop     chan struct{}
	stopOnce sync.Once
}

func newWatchHandler(cfg WatchConfig, origins []string, m *Metrics, l *log.Logger) *watchHandler {
	cfg = cfg.withDefaults()
	wh := &watchHandler{
		cfg:     cfg,
		origins: origins,
		limiter: NewWatchLimiter(cfg.MaxPerIP, cfg.MaxTotal),
		metrics: m,
		log:     l,
		stop:    make(chan struct{}),
	}
	wh.upgrader = websocket.Upgrader{
		ReadBufferSize:  512,
		WriteBufferSize: 4096,
		CheckOrigin:     wh.checkOrigin,
	}
	return wh
}

// close ends every open spectator socket.
func (wh *watchHandler) close() {
	wh.stopOnce.Do(func() { close(wh.stop) })
}

// checkOrigin allows non-browser clients and the configured origins.
func (wh *watchHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || originAllowed(wh.origins, origin) {
		return true
	}
	wh.log.Warn("spectator rejected", "origin", origin, "remote", ClientIP(r))
	wh.metrics.rejected("origin")
	return false
}

// originAllowed matches origin against patterns holding at most one '*'.
func originAllowed(patterns []string, origin string) bool {
	origin = strings.ToLower(origin)
	for _, p := range patterns {
		p = strings.ToLower(p)
		if p == "*" || p == origin {
			return true
		}
		prefix, suffix, ok := strings.Cut(p, "*")
		if ok && len(origin) >= len(prefix)+len(suffix) &&
			strings.HasPrefix(origin, prefix) && strings.HasSuffix(origin, suffix) {
			return true
		}
	}
	return false
}

func (h *routerHandlers) handleWatch(w http.ResponseWriter, r *http.Request) {
	if h.rooms == nil {
		writeError(w, "rooms unavailable", http.StatusServiceUnavailable)
		return
	}
	room, ok := h.rooms.Room(chi.URLParam(r, "code"))
	if !ok {
		writeError(w, "no such room", http.StatusNotFound)
		return
	}
	h.watch.serve(w, r, room)
}

func (wh *watchHandler) serve(w http.ResponseWriter, r *http.Request, room *multiplayer.Room) {
	ip := ClientIP(r)
	if !wh.limiter.Acquire(ip) {
		wh.metrics.rejected("watch_limit")
		writeError(w, "too many spectators", http.StatusTooManyRequests)
		return
	}
	defer func() {
		wh.limiter.Release(ip)
		wh.metrics.watchers(wh.limiter.Active())
	}()

	conn, err := wh.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		wh.log.Debug("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()
	wh.metrics.watchers(wh.limiter.Active())
	wh.log.Info("spectator joined", "room", room.Code(), "remote", ip)

	frames, cancel := room.Watch()
	defer cancel()

	gone := make(chan struct{})
	go wh.readPump(conn, gone)

	send := func(msg wsMessage) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(wh.cfg.WriteTimeout))
		if err := conn.WriteJSON(msg); err != nil {
			wh.log.Debug("spectator write failed", "room", room.Code(), "err", err)
			return false
		}
		return true
	}

	if f, ok := room.LastFrame(); ok {
		if !send(wsMessage{Event: "frame", Data: toFrameJSON(f)}) {
			return
		}
		wh.metrics.frameSent()
	}

	throttle := time.NewTicker(time.Second / time.Duration(wh.cfg.FPS))
	defer throttle.Stop()
	ping := time.NewTicker(wh.cfg.PingInterval)
	defer ping.Stop()

	var pending *multiplayer.Frame
	for {
		select {
		case f, ok := <-frames:
			if !ok {
				send(wsMessage{Event: "closed", Data: map[string]string{"code": room.Code()}})
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "room closed"),
					time.Now().Add(wh.cfg.WriteTimeout))
				wh.log.Info("spectator released", "room", room.Code(), "remote", ip)
				return
			}
			pending = &f
		case <-throttle.C:
			if pending == nil {
				continue
			}
			if !send(wsMessage{Event: "frame", Data: toFrameJSON(*pending)}) {
				return
			}
			wh.metrics.frameSent()
			pending = nil
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wh.cfg.WriteTimeout)); err != nil {
				return
			}
		case <-gone:
			wh.log.Info("spectator left", "room", room.Code(), "remote", ip)
			return
		case <-wh.stop:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(wh.cfg.WriteTimeout))
			return
		}
	}
}

// readPump drains the socket so control frames are processed. Spectators
// never send anything meaningful.
func (wh *watchHandler) readPump(conn *websocket.Conn, gone chan<- struct{}) {
	defer close(gone)
	conn.SetReadLimit(512)
	deadline := 2 * wh.cfg.PingInterval
	_ = conn.SetReadDeadline(time.Now().Add(deadline))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(deadline))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
