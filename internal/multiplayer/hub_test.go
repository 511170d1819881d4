package multiplayer

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/brick-arcade/internal/core"
	"github.com/vovakirdan/brick-arcade/internal/storage"
)

type fakeSaver struct {
	mu   sync.Mutex
	runs []storage.RoomRun
}

func (f *fakeSaver) SaveRoomRun(r storage.RoomRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, r)
	return nil
}

func (f *fakeSaver) saved() []storage.RoomRun {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]storage.RoomRun(nil), f.runs...)
}

func newTestHub(t *testing.T, saver RunSaver) *Hub {
	t.Helper()
	cfg := DefaultHubConfig()
	cfg.Room.TickRate = 120
	cfg.Room.IdleTimeout = 0
	if saver != nil {
		cfg.Saver = saver
	}
	h := NewHub(cfg)
	t.Cleanup(h.Shutdown)
	return h
}

func newSession(t *testing.T) *ChannelSession {
	t.Helper()
	s := NewChannelSession(NewSessionID(), 256)
	t.Cleanup(s.Close)
	return s
}

// waitFor reads events until match returns true or the deadline passes.
func waitFor(t *testing.T, s *ChannelSession, what string, match func(SessionEvent) bool) SessionEvent {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case ev := <-s.Events():
			if match(ev) {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", what)
			return nil
		}
	}
}

func isFrame(ev SessionEvent) bool {
	_, ok := ev.(FrameEvent)
	return ok
}

func TestHubCreateAndJoin(t *testing.T) {
	h := newTestHub(t, nil)
	host, guest := newSession(t), newSession(t)

	code, slot, err := h.Create(host)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if slot != 0 {
		t.Errorf("host slot = %d, want 0", slot)
	}
	if len(code) != 6 {
		t.Errorf("code %q should be 6 characters", code)
	}

	slot, err = h.Join(" "+code+" ", guest)
	if err != nil {
		t.Fatalf("Join() failed: %v", err)
	}
	if slot != 1 {
		t.Errorf("guest slot = %d, want 1", slot)
	}

	ev := waitFor(t, guest, "joined", func(ev SessionEvent) bool {
		_, ok := ev.(JoinedEvent)
		return ok
	})
	if j := ev.(JoinedEvent); j.Code != code || j.Slot != 1 {
		t.Errorf("joined event = %+v", j)
	}

	waitFor(t, host, "two members", func(ev SessionEvent) bool {
		m, ok := ev.(MembersEvent)
		return ok && m.Slots[0] && m.Slots[1]
	})

	if _, err := h.Join(code, guest); !errors.Is(err, ErrInRoom) {
		t.Errorf("second join err = %v, want ErrInRoom", err)
	}
	if h.RoomCount() != 1 {
		t.Errorf("RoomCount() = %d, want 1", h.RoomCount())
	}
}

func TestHubJoinErrors(t *testing.T) {
	h := newTestHub(t, nil)

	if _, err := h.Join("NOPE00", newSession(t)); !errors.Is(err, ErrNoRoom) {
		t.Errorf("unknown code err = %v, want ErrNoRoom", err)
	}

	code, _, err := h.Create(newSession(t))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	for i := 1; i < core.MaxPlayers; i++ {
		if _, err := h.Join(code, newSession(t)); err != nil {
			t.Fatalf("join %d failed: %v", i, err)
		}
	}
	if _, err := h.Join(code, newSession(t)); !errors.Is(err, ErrRoomFull) {
		t.Errorf("fifth join err = %v, want ErrRoomFull", err)
	}
}

func TestRoomBroadcastsFrames(t *testing.T) {
	h := newTestHub(t, nil)
	host := newSession(t)

	code, _, err := h.Create(host)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	ev := waitFor(t, host, "frame", isFrame)
	f := ev.(FrameEvent).Frame
	if f.Screen == nil || f.Screen.Width() != 80 || f.Screen.Height() != 24 {
		t.Fatalf("frame screen = %+v", f.Screen)
	}
	if f.Mode != "menu" {
		t.Errorf("mode = %q, want menu", f.Mode)
	}

	room, ok := h.Room(code)
	if !ok {
		t.Fatal("room not found by code")
	}
	if _, ok := room.LastFrame(); !ok {
		t.Error("LastFrame() empty after a broadcast")
	}
	infos := h.Rooms()
	if len(infos) != 1 || infos[0].Code != code || infos[0].Seats != 1 {
		t.Errorf("Rooms() = %+v", infos)
	}
}

func TestRoomWatchers(t *testing.T) {
	h := newTestHub(t, nil)
	code, _, err := h.Create(newSession(t))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	room, _ := h.Room(code)

	frames, cancel := room.Watch()
	select {
	case f := <-frames:
		if f.Screen == nil {
			t.Error("watcher frame without a screen")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("watcher got no frame")
	}
	cancel()
	cancel()
}

func TestRoomWatchAfterClose(t *testing.T) {
	h := newTestHub(t, nil)
	code, _, err := h.Create(newSession(t))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	room, _ := h.Room(code)

	room.Stop()
	select {
	case <-room.Done():
	case <-time.After(3 * time.Second):
		t.Fatal("room did not stop")
	}

	frames, cancel := room.Watch()
	defer cancel()
	select {
	case _, ok := <-frames:
		if ok {
			t.Error("watcher of a closed room got a frame")
		}
	case <-time.After(time.Second):
		t.Fatal("watch channel of a closed room stayed open")
	}
}

func TestRoomInputStartsGameAndRecordsRun(t *testing.T) {
	saver := &fakeSaver{}
	h := newTestHub(t, saver)
	host := newSession(t)

	code, _, err := h.Create(host)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	waitFor(t, host, "first frame", isFrame)

	h.Input(host.ID(), core.PlayerInput{Confirm: true})
	waitFor(t, host, "playing frame", func(ev SessionEvent) bool {
		fe, ok := ev.(FrameEvent)
		return ok && fe.Frame.Mode == "playing"
	})

	room, _ := h.Room(code)
	h.Leave(host.ID())

	select {
	case <-room.Done():
	case <-time.After(3 * time.Second):
		t.Fatal("room did not stop")
	}

	runs := saver.saved()
	if len(runs) != 1 {
		t.Fatalf("saved %d runs, want 1", len(runs))
	}
	if runs[0].Code != code || runs[0].EndReason != "empty" || runs[0].Players != 1 {
		t.Errorf("run = %+v", runs[0])
	}
	if runs[0].RoomID != string(room.ID()) {
		t.Errorf("run room = %q, want %q", runs[0].RoomID, room.ID())
	}
}

func TestRoomClosesWhenSessionEnds(t *testing.T) {
	h := newTestHub(t, nil)
	s := NewChannelSession(NewSessionID(), 16)

	code, _, err := h.Create(s)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	room, _ := h.Room(code)
	s.Close()

	select {
	case <-room.Done():
	case <-time.After(3 * time.Second):
		t.Fatal("room kept running after its only session ended")
	}

	deadline := time.Now().Add(time.Second)
	for h.RoomCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if h.RoomCount() != 0 {
		t.Errorf("RoomCount() = %d after close, want 0", h.RoomCount())
	}
}

func TestHubShutdown(t *testing.T) {
	h := NewHub(DefaultHubConfig())
	s := newSession(t)
	code, _, err := h.Create(s)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	room, _ := h.Room(code)

	h.Shutdown()
	select {
	case <-room.Done():
	default:
		t.Fatal("Shutdown returned before the room stopped")
	}
	if _, _, err := h.Create(newSession(t)); !errors.Is(err, ErrRoomClosed) {
		t.Errorf("Create after shutdown err = %v, want ErrRoomClosed", err)
	}
}

func TestChannelSessionDropsOldest(t *testing.T) {
	s := NewChannelSession("s", 2)
	s.Send(ClosedEvent{Reason: CloseEmpty})
	s.Send(ClosedEvent{Reason: CloseQuit})
	s.Send(ClosedEvent{Reason: CloseIdle})

	first := (<-s.Events()).(ClosedEvent)
	second := (<-s.Events()).(ClosedEvent)
	if first.Reason != CloseQuit || second.Reason != CloseIdle {
		t.Errorf("got %v, %v; want quit, idle", first.Reason, second.Reason)
	}

	s.Close()
	s.Close()
	s.Send(ClosedEvent{})
	select {
	case ev := <-s.Events():
		t.Errorf("event after close: %v", ev)
	default:
	}
}

func TestGenerateJoinCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code := generateJoinCode()
		if len(code) != 6 {
			t.Fatalf("code %q has length %d", code, len(code))
		}
		if normalizeCode(code) != code {
			t.Errorf("code %q is not upper case", code)
		}
	}
}

func TestRoomQuitClosesRoom(t *testing.T) {
	h := newTestHub(t, nil)
	host, guest := newSession(t), newSession(t)

	code, _, err := h.Create(host)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if _, err := h.Join(code, guest); err != nil {
		t.Fatalf("Join() failed: %v", err)
	}
	waitFor(t, guest, "frame", isFrame)

	// Quit is the last main menu row; Up wraps the cursor onto it.
	h.Input(guest.ID(), core.PlayerInput{Up: true})
	waitFor(t, guest, "cursor frame", isFrame)
	waitFor(t, guest, "next frame", isFrame)
	h.Input(guest.ID(), core.PlayerInput{Confirm: true})

	ev := waitFor(t, host, "closed", func(ev SessionEvent) bool {
		_, ok := ev.(ClosedEvent)
		return ok
	})
	if r := ev.(ClosedEvent).Reason; r != CloseQuit {
		t.Errorf("close reason = %v, want quit", r)
	}
}
