package multiplayer

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/brick-arcade/internal/breakout"
	"github.com/vovakirdan/brick-arcade/internal/config"
	"github.com/vovakirdan/brick-arcade/internal/core"
	"github.com/vovakirdan/brick-arcade/internal/registry"
	"github.com/vovakirdan/brick-arcade/internal/settings"
)

// HubConfig holds everything the hub needs to build rooms.
type HubConfig struct {
	Room     RoomConfig
	Game     config.BreakoutConfig
	Settings settings.Settings // starting settings for every room

	Scores breakout.HighScoreService // optional, shared by all rooms
	Saver  RunSaver                  // optional
	Logger *log.Logger
}

// DefaultHubConfig returns sensible defaults.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		Room: RoomConfig{
			TickRate:    60,
			Viewport:    core.ViewportForCells(80, 24),
			IdleTimeout: 10 * time.Minute,
		},
		Game:     config.DefaultBreakoutConfig(),
		Settings: settings.Defaults(),
	}
}

// Hub tracks open rooms and which session sits in which.
type Hub struct {
	cfg HubConfig
	log *log.Logger

	mu       sync.RWMutex
	rooms    map[string]*Room // code -> room
	sessions map[SessionID]*Room
	closed   bool
}

// NewHub creates an empty hub.
func NewHub(cfg HubConfig) *Hub {
	l := cfg.Logger
	if l == nil {
		l = log.New(io.Discard)
	}
	return &Hub{
		cfg:      cfg,
		log:      l,
		rooms:    make(map[string]*Room),
		sessions: make(map[SessionID]*Room),
	}
}

// Create opens a new room with s in the first seat.
func (h *Hub) Create(s SessionHandle) (code string, slot int, err error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return "", 0, ErrRoomClosed
	}
	if _, busy := h.sessions[s.ID()]; busy {
		h.mu.Unlock()
		return "", 0, ErrInRoom
	}
	code = h.uniqueCode()
	room := h.newRoom(code)
	h.rooms[code] = room
	h.mu.Unlock()

	go room.Run(h.roomClosed)
	h.log.Info("room created", "code", code, "room", room.ID())

	slot, err = h.seat(room, s)
	return code, slot, err
}

// Join seats s in the room with the given code.
func (h *Hub) Join(code string, s SessionHandle) (int, error) {
	code = normalizeCode(code)
	h.mu.RLock()
	room, ok := h.rooms[code]
	_, busy := h.sessions[s.ID()]
	h.mu.RUnlock()
	if busy {
		return 0, ErrInRoom
	}
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNoRoom, code)
	}
	return h.seat(room, s)
}

func (h *Hub) seat(room *Room, s SessionHandle) (int, error) {
	slot, err := room.Join(s)
	if err != nil {
		return 0, err
	}
	h.mu.Lock()
	h.sessions[s.ID()] = room
	h.mu.Unlock()
	return slot, nil
}

// Leave removes the session from its room, if any.
func (h *Hub) Leave(id SessionID) {
	h.mu.Lock()
	room, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()
	if ok {
		room.Leave(id)
	}
}

// Input routes a frame of input to the session's room.
func (h *Hub) Input(id SessionID, in core.PlayerInput) {
	h.mu.RLock()
	room, ok := h.sessions[id]
	h.mu.RUnlock()
	if ok {
		room.Input(id, in)
	}
}

// Room looks up an open room by code.
func (h *Hub) Room(code string) (*Room, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	r, ok := h.rooms[normalizeCode(code)]
	return r, ok
}

// Rooms returns a summary of every open room, oldest first.
func (h *Hub) Rooms() []RoomInfo {
	h.mu.RLock()
	infos := make([]RoomInfo, 0, len(h.rooms))
	for _, r := range h.rooms {
		infos = append(infos, r.Info())
	}
	h.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Created.Before(infos[j].Created)
	})
	return infos
}

// RoomCount returns the number of open rooms.
func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// Shutdown stops every room and waits for them to finish.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	h.closed = true
	rooms := make([]*Room, 0, len(h.rooms))
	for _, r := range h.rooms {
		rooms = append(rooms, r)
	}
	h.mu.Unlock()

	for _, r := range rooms {
		r.Stop()
	}
	for _, r := range rooms {
		<-r.Done()
	}
}

func (h *Hub) roomClosed(r *Room, reason CloseReason) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[r.Code()] == r {
		delete(h.rooms, r.Code())
	}
	for id, room := range h.sessions {
		if room == r {
			delete(h.sessions, id)
		}
	}
}

// newRoom builds a room with its own game and settings. Must hold h.mu.
func (h *Hub) newRoom(code string) *Room {
	mgr := settings.NewManager(h.cfg.Settings)

	services := registry.New()
	services.Register(registry.Settings, breakout.SettingsProvider(mgr))
	if h.cfg.Scores != nil {
		services.Register(registry.HighScores, h.cfg.Scores)
	}

	game := breakout.New(h.cfg.Game,
		breakout.WithLogger(h.log.WithPrefix("room "+code)),
		breakout.WithSeed(mgr.Current().Gameplay.Seed),
	)
	game.Load(services)

	room := NewRoom(code, h.cfg.Room, game, mgr)
	room.log = h.log
	room.saver = h.cfg.Saver
	return room
}

// uniqueCode returns a code no open room uses. Must hold h.mu.
func (h *Hub) uniqueCode() string {
	for {
		code := generateJoinCode()
		if _, exists := h.rooms[code]; !exists {
			return code
		}
	}
}

// generateJoinCode creates a 6-character uppercase alphanumeric code.
func generateJoinCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	return base32.StdEncoding.EncodeToString(b)[:6]
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
