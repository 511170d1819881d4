package multiplayer

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/brick-arcade/internal/breakout"
	"github.com/vovakirdan/brick-arcade/internal/core"
	"github.com/vovakirdan/brick-arcade/internal/settings"
	"github.com/vovakirdan/brick-arcade/internal/storage"
)

// Errors returned when joining a room.
var (
	ErrRoomFull   = errors.New("room is full")
	ErrRoomClosed = errors.New("room is closed")
	ErrNoRoom     = errors.New("room not found")
	ErrInRoom     = errors.New("already in a room")
)

// RunSaver records finished games. storage.Store implements it.
type RunSaver interface {
	SaveRoomRun(r storage.RoomRun) error
}

// RoomConfig tunes a room's loop.
type RoomConfig struct {
	TickRate    int
	Viewport    core.Size
	IdleTimeout time.Duration // zero disables the idle check
}

// RoomInfo is a point-in-time summary of a room, safe to read from any goroutine.
type RoomInfo struct {
	ID        RoomID
	Code      string
	Seats     int
	Mode      string
	Level     int
	TeamScore int
	Created   time.Time
}

type joinReq struct {
	session SessionHandle
	reply   chan joinResult
}

type joinResult struct {
	slot int
	err  error
}

type sessionInput struct {
	id SessionID
	in core.PlayerInput
}

// run tracks the game in progress for the run history.
type run struct {
	active     bool
	started    time.Time
	players    int
	score      int
	level      int
	difficulty string
}

// Room is one shared game. All game state is owned by the Run goroutine.
type Room struct {
	id      RoomID
	code    string
	created time.Time
	cfg     RoomConfig
	log     *log.Logger
	saver   RunSaver

	game     *breakout.Game
	settings *settings.Manager

	joins  chan joinReq
	leaves chan SessionID
	inputs chan sessionInput
	stop   chan struct{}
	done   chan struct{}

	stopOnce sync.Once

	// Run goroutine only.
	seats     [core.MaxPlayers]SessionHandle
	held      [core.MaxPlayers]core.PlayerInput
	pulses    [core.MaxPlayers]core.PlayerInput
	lastInput time.Time
	tick      uint64
	screen    *core.Screen
	canvas    *core.CellCanvas
	current   run

	infoMu sync.RWMutex
	info   RoomInfo
	last   *Frame

	watchMu     sync.Mutex
	watchers    map[int]chan Frame
	nextWatch   int
	watchClosed bool
}

// NewRoom creates a room around game, whose settings are mgr. Call Run to start it.
func NewRoom(code string, cfg RoomConfig, game *breakout.Game, mgr *settings.Manager) *Room {
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	if cfg.Viewport.Empty() {
		cfg.Viewport = core.ViewportForCells(80, 24)
	}
	cols := int(cfg.Viewport.W) / core.CellW
	rows := int(cfg.Viewport.H) / core.CellH
	screen := core.NewScreen(cols, rows)

	r := &Room{
		id:       RoomID(NewSessionID()),
		code:     code,
		created:  time.Now(),
		cfg:      cfg,
		log:      log.New(io.Discard),
		game:     game,
		settings: mgr,
		joins:    make(chan joinReq),
		leaves:   make(chan SessionID, core.MaxPlayers),
		inputs:   make(chan sessionInput, 256),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		screen:   screen,
		canvas:   core.NewCellCanvas(screen),
		watchers: make(map[int]chan Frame),
	}
	r.info = RoomInfo{ID: r.id, Code: code, Mode: game.Mode().String(), Created: r.created}
	game.Resize(cfg.Viewport)
	return r
}

// ID returns the room's unique ID.
func (r *Room) ID() RoomID { return r.id }

// Code returns the join code.
func (r *Room) Code() string { return r.code }

// Done closes when the room has stopped.
func (r *Room) Done() <-chan struct{} { return r.done }

// Info returns the latest summary.
func (r *Room) Info() RoomInfo {
	r.infoMu.RLock()
	defer r.infoMu.RUnlock()
	return r.info
}

// LastFrame returns the most recent frame, if any.
func (r *Room) LastFrame() (Frame, bool) {
	r.infoMu.RLock()
	defer r.infoMu.RUnlock()
	if r.last == nil {
		return Frame{}, false
	}
	return *r.last, true
}

// Join seats a session and returns its player slot.
func (r *Room) Join(s SessionHandle) (int, error) {
	req := joinReq{session: s, reply: make(chan joinResult, 1)}
	select {
	case r.joins <- req:
	case <-r.done:
		return 0, ErrRoomClosed
	}
	res := <-req.reply
	return res.slot, res.err
}

// Leave frees the session's seat.
func (r *Room) Leave(id SessionID) {
	select {
	case r.leaves <- id:
	case <-r.done:
	}
}

// Input forwards one frame of a session's input. It never blocks; input
// arriving faster than the room drains it is dropped.
func (r *Room) Input(id SessionID, in core.PlayerInput) {
	select {
	case r.inputs <- sessionInput{id: id, in: in}:
	default:
	}
}

// Stop closes the room.
func (r *Room) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// Watch subscribes to frames. Slow watchers skip frames. The returned
// function unsubscribes. On a room that has finished the channel comes
// back already closed.
func (r *Room) Watch() (<-chan Frame, func()) {
	ch := make(chan Frame, 1)
	r.watchMu.Lock()
	if r.watchClosed {
		r.watchMu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := r.nextWatch
	r.nextWatch++
	r.watchers[id] = ch
	r.watchMu.Unlock()

	return ch, func() {
		r.watchMu.Lock()
		defer r.watchMu.Unlock()
		if _, ok := r.watchers[id]; ok {
			delete(r.watchers, id)
			close(ch)
		}
	}
}

// Run is the authoritative room loop. onClose runs once, after the last
// event has been sent to the seats.
func (r *Room) Run(onClose func(*Room, CloseReason)) {
	reason := r.loop()
	r.endRun(reason.String())

	for _, s := range r.seats {
		if s != nil {
			s.Send(ClosedEvent{Reason: reason})
		}
	}
	r.watchMu.Lock()
	r.watchClosed = true
	for id, ch := range r.watchers {
		delete(r.watchers, id)
		close(ch)
	}
	r.watchMu.Unlock()

	close(r.done)
	r.log.Info("room closed", "code", r.code, "reason", reason, "ticks", r.tick)
	if onClose != nil {
		onClose(r, reason)
	}
}

func (r *Room) loop() CloseReason {
	interval := time.Second / time.Duration(r.cfg.TickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	r.lastInput = last

	for {
		select {
		case req := <-r.joins:
			req.reply <- r.seat(req.session)

		case id := <-r.leaves:
			if r.unseat(id) && r.seated() == 0 {
				return CloseEmpty
			}

		case si := <-r.inputs:
			r.accept(si)

		case now := <-ticker.C:
			r.step(now.Sub(last).Seconds())
			last = now
			if r.game.QuitRequested() {
				return CloseQuit
			}
			if r.cfg.IdleTimeout > 0 && now.Sub(r.lastInput) > r.cfg.IdleTimeout {
				return CloseIdle
			}

		case <-r.stop:
			return CloseShutdown
		}
	}
}

func (r *Room) seat(s SessionHandle) joinResult {
	for _, cur := range r.seats {
		if cur != nil && cur.ID() == s.ID() {
			return joinResult{err: ErrInRoom}
		}
	}
	for i, cur := range r.seats {
		if cur != nil {
			continue
		}
		r.seats[i] = s
		r.held[i] = core.PlayerInput{}
		r.pulses[i] = core.PlayerInput{}
		r.lastInput = time.Now()
		go r.watchSession(s)

		s.Send(JoinedEvent{Code: r.code, Slot: i})
		r.membersChanged()
		r.log.Info("player joined", "code", r.code, "slot", i, "session", s.ID())
		return joinResult{slot: i}
	}
	return joinResult{err: ErrRoomFull}
}

// watchSession frees the seat when the session ends on its own.
func (r *Room) watchSession(s SessionHandle) {
	select {
	case <-s.Done():
		r.Leave(s.ID())
	case <-r.done:
	}
}

func (r *Room) unseat(id SessionID) bool {
	for i, s := range r.seats {
		if s != nil && s.ID() == id {
			r.seats[i] = nil
			r.held[i] = core.PlayerInput{}
			r.pulses[i] = core.PlayerInput{}
			r.membersChanged()
			r.log.Info("player left", "code", r.code, "slot", i, "session", id)
			return true
		}
	}
	return false
}

func (r *Room) seated() int {
	n := 0
	for _, s := range r.seats {
		if s != nil {
			n++
		}
	}
	return n
}

// membersChanged tells every seat who is present and, while the game sits
// in the menu, matches its player count to the seats taken.
func (r *Room) membersChanged() {
	var ev MembersEvent
	for i, s := range r.seats {
		ev.Slots[i] = s != nil
	}
	for _, s := range r.seats {
		if s != nil {
			s.Send(ev)
		}
	}

	n := r.seated()
	r.infoMu.Lock()
	r.info.Seats = n
	r.infoMu.Unlock()

	if n > 0 && r.game.Mode() == breakout.ModeMenu {
		r.settings.Set(func(s *settings.Settings) { s.Gameplay.Players = n })
		if err := r.settings.Apply(); err != nil {
			r.log.Warn("apply room settings", "err", err)
		}
	}
}

// accept folds one input message into the slot's state. Movement and catch
// are held until the next message; button presses last for one tick.
func (r *Room) accept(si sessionInput) {
	for i, s := range r.seats {
		if s == nil || s.ID() != si.id {
			continue
		}
		r.pulses[i] = r.pulses[i].Merge(si.in)
		r.held[i] = core.PlayerInput{MoveX: si.in.MoveX, Catch: si.in.Catch}
		r.lastInput = time.Now()
		return
	}
}

func (r *Room) step(dt float64) {
	var inputs [core.MaxPlayers]core.PlayerInput
	for i := range inputs {
		in := r.pulses[i]
		in.MoveX = r.held[i].MoveX
		in.Catch = r.held[i].Catch || in.Catch
		inputs[i] = in
		r.pulses[i] = core.PlayerInput{}
	}

	before := r.game.Mode()
	r.game.Update(dt, inputs, r.cfg.Viewport)
	r.tick++
	r.track(before, r.game.Mode())
	r.broadcast()
}

// track follows game sessions inside the room and records each one when
// it ends.
func (r *Room) track(before, after breakout.Mode) {
	switch after {
	case breakout.ModePlaying, breakout.ModePaused, breakout.ModeLevelInterstitial:
		if !r.current.active {
			r.current = run{active: true, started: time.Now()}
		}
		r.current.players = r.game.Players()
		r.current.score = r.game.TeamScore()
		r.current.level = r.game.Level()
		r.current.difficulty = r.game.Difficulty().String()
	case breakout.ModeNameEntry, breakout.ModeGameOver:
		if before != breakout.ModeNameEntry && before != breakout.ModeGameOver {
			r.endRun("game-over")
		}
	case breakout.ModeMenu:
		r.endRun("abandoned")
	}
}

func (r *Room) endRun(reason string) {
	if !r.current.active {
		return
	}
	cur := r.current
	r.current = run{}
	if r.saver == nil {
		return
	}
	rr := storage.RoomRun{
		RoomID:     string(r.id),
		Code:       r.code,
		Players:    cur.players,
		TeamScore:  cur.score,
		Level:      cur.level,
		Difficulty: cur.difficulty,
		EndReason:  reason,
		Duration:   int(time.Since(cur.started).Seconds()),
	}
	if err := r.saver.SaveRoomRun(rr); err != nil {
		r.log.Warn("save room run", "code", r.code, "err", err)
	}
}

func (r *Room) broadcast() {
	r.screen.Clear()
	r.game.Draw(r.canvas, r.cfg.Viewport)
	r.game.DrawUI(r.canvas, r.cfg.Viewport)

	f := Frame{
		Tick:      r.tick,
		Mode:      r.game.Mode().String(),
		Level:     r.game.Level(),
		TeamScore: r.game.TeamScore(),
		Players:   r.game.Players(),
		Screen:    r.screen.Clone(),
	}

	r.infoMu.Lock()
	r.info.Seats = r.seated()
	r.info.Mode = f.Mode
	r.info.Level = f.Level
	r.info.TeamScore = f.TeamScore
	r.last = &f
	r.infoMu.Unlock()

	for _, s := range r.seats {
		if s != nil {
			s.Send(FrameEvent{Frame: f})
		}
	}

	r.watchMu.Lock()
	for _, ch := range r.watchers {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- f:
		default:
		}
	}
	r.watchMu.Unlock()
}
