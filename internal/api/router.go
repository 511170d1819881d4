// Package api serves the arcade over HTTP: health, Prometheus metrics,
// the leaderboard, level previews and live spectating of co-op rooms.
package api

import (
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vovakirdan/brick-arcade/internal/config"
	"github.com/vovakirdan/brick-arcade/internal/multiplayer"
	"github.com/vovakirdan/brick-arcade/internal/storage"
)

// ScoreStore is the part of the store the API reads.
type ScoreStore interface {
	TopScores(limit int) ([]storage.ScoreRecord, error)
	Stats() (storage.Stats, error)
	RecentRoomRuns(limit int) ([]storage.RoomRun, error)
}

// RoomDirectory lists and finds open co-op rooms.
type RoomDirectory interface {
	Rooms() []multiplayer.RoomInfo
	Room(code string) (*multiplayer.Room, bool)
	RoomCount() int
}

// RouterConfig holds the router's dependencies.
type RouterConfig struct {
	// Scores backs /api/scores. Nil answers 503.
	Scores ScoreStore

	// Rooms backs /api/rooms. Nil answers 503.
	Rooms RoomDirectory

	// Game is the tuning used for level previews.
	Game config.BreakoutConfig

	// RateLimiter is used as is when set; otherwise one is built from
	// RateLimitConfig (or the defaults). The caller owns its Stop.
	RateLimiter     *IPRateLimiter
	RateLimitConfig *RateLimitConfig

	// CORSOrigins defaults to localhost on any port.
	CORSOrigins []string

	// Metrics defaults to a fresh registry.
	Metrics *Metrics

	Watch WatchConfig

	Logger *log.Logger

	// DisableLogging turns off per-request logs.
	DisableLogging bool
}

type routerHandlers struct {
	scores  ScoreStore
	rooms   RoomDirectory
	game    config.BreakoutConfig
	metrics *Metrics
	watch   *watchHandler
	log     *log.Logger
}

var defaultCORSOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}

// NewRouter builds the HTTP handler. It opens no listeners, but a rate
// limiter built here runs a cleanup goroutine until the process exits;
// pass RateLimiter to control it.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r, _ := newRouter(cfg)
	return r
}

func newRouter(cfg RouterConfig) (*chi.Mux, *watchHandler) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	metrics := cfg.Metrics
	if metrics == nil {
		var count func() int
		if cfg.Rooms != nil {
			count = cfg.Rooms.RoomCount
		}
		metrics = NewMetrics(count)
	}

	limiter := cfg.RateLimiter
	if limiter == nil {
		rl := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rl = *cfg.RateLimitConfig
		}
		limiter = NewIPRateLimiter(rl)
	}
	limiter.metrics = metrics

	origins := cfg.CORSOrigins
	if origins == nil {
		origins = defaultCORSOrigins
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if !cfg.DisableLogging {
		r.Use(requestLogger(logger))
	}
	r.Use(metrics.Middleware)

	h := &routerHandlers{
		scores:  cfg.Scores,
		rooms:   cfg.Rooms,
		game:    cfg.Game,
		metrics: metrics,
		watch:   newWatchHandler(cfg.Watch, origins, metrics, logger),
		log:     logger,
	}

	// Probes stay outside the limiter.
	r.Get("/healthz", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))

		r.Get("/scores", h.handleScores)
		r.Get("/scores/stats", h.handleScoreStats)

		r.Get("/levels/{seed}/{level}", h.handleLevel)
		r.Get("/levels/{seed}/{level}/preview.png", h.handleLevelPNG)

		r.Get("/rooms", h.handleRooms)
		r.Get("/rooms/history", h.handleRoomHistory)
		r.Get("/rooms/{code}", h.handleRoom)
		r.Get("/rooms/{code}/watch", h.handleWatch)
	})

	return r, h.watch
}

func requestLogger(l *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			l.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"remote", ClientIP(r),
				"duration", time.Since(start).Round(time.Microsecond),
				"id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
