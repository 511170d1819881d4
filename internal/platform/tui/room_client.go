package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/brick-arcade/internal/core"
	"github.com/vovakirdan/brick-arcade/internal/multiplayer"
)

// roomEventMsg wraps an event from the room for the Bubble Tea loop.
type roomEventMsg struct {
	ev multiplayer.SessionEvent
}

// RoomModel is one seat in a co-op room. The room simulates; this model
// forwards keys every tick and paints the frames it receives.
type RoomModel struct {
	hub     *multiplayer.Hub
	session *multiplayer.ChannelSession
	code    string
	slot    int

	input  *inputState
	keys   KeyMap
	help   help.Model
	render *Renderer

	frame   *multiplayer.Frame
	members [core.MaxPlayers]bool
	closed  *multiplayer.CloseReason
	left    bool
	quit    bool
}

// NewRoomModel attaches to a room the session already sits in.
func NewRoomModel(hub *multiplayer.Hub, s *multiplayer.ChannelSession, code string, slot int, r *Renderer) RoomModel {
	if r == nil {
		r = defaultRenderer
	}
	keys := SoloKeyMap()
	m := RoomModel{
		hub:     hub,
		session: s,
		code:    code,
		slot:    slot,
		input:   newInputState(keys),
		keys:    keys,
		help:    help.New(),
		render:  r,
	}
	m.members[slot] = true
	return m
}

// Init starts the input tick and the event reader.
func (m RoomModel) Init() tea.Cmd {
	return tea.Batch(tickCmd(60), m.waitForEvent())
}

// waitForEvent returns a command that waits for the next room event.
func (m RoomModel) waitForEvent() tea.Cmd {
	s := m.session
	return func() tea.Msg {
		select {
		case ev := <-s.Events():
			return roomEventMsg{ev: ev}
		case <-s.Done():
			return nil
		}
	}
}

// Update handles messages.
func (m RoomModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if m.closed != nil || m.left {
			return m, nil
		}
		m.hub.Input(m.session.ID(), m.input.frame(time.Time(msg))[0])
		return m, tickCmd(60)

	case roomEventMsg:
		return m.handleEvent(msg.ev)
	}
	return m, nil
}

func (m RoomModel) handleEvent(ev multiplayer.SessionEvent) (tea.Model, tea.Cmd) {
	switch ev := ev.(type) {
	case multiplayer.JoinedEvent:
		m.code, m.slot = ev.Code, ev.Slot
	case multiplayer.MembersEvent:
		m.members = ev.Slots
	case multiplayer.FrameEvent:
		f := ev.Frame
		m.frame = &f
	case multiplayer.ClosedEvent:
		reason := ev.Reason
		m.closed = &reason
		m.session.Close()
		return m, nil
	}
	return m, m.waitForEvent()
}

func (m RoomModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.leave()
		m.quit = true
		return m, tea.Quit
	}
	if m.closed != nil {
		// Any key returns to the lobby.
		m.left = true
		return m, nil
	}

	text := m.frame != nil && m.frame.Mode == "name-entry"
	if !text && key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	if !text && key.Matches(msg, m.keys.Leave) && (m.frame == nil || m.frame.Mode == "menu") {
		m.leave()
		return m, nil
	}
	m.input.handleKey(msg, time.Now(), text)
	return m, nil
}

func (m *RoomModel) leave() {
	if m.left {
		return
	}
	m.left = true
	m.hub.Leave(m.session.ID())
	m.session.Close()
}

// Left reports whether the seat was given up and the lobby should resume.
func (m RoomModel) Left() bool {
	return m.left
}

// Quitting reports whether the player asked to leave the program.
func (m RoomModel) Quitting() bool {
	return m.quit
}

// View renders the latest frame with a status line.
func (m RoomModel) View() string {
	if m.quit {
		return ""
	}

	var sb strings.Builder
	if m.frame != nil && m.frame.Screen != nil {
		sb.WriteString(m.render.Screen(m.frame.Screen))
	} else {
		sb.WriteString("Waiting for the room...")
	}
	sb.WriteByte('\n')

	if m.closed != nil {
		sb.WriteString(m.render.Color(core.ColorBrightYellow).Render(
			fmt.Sprintf("Room %s closed (%s). Press any key.", m.code, m.closed)))
		return sb.String()
	}
	sb.WriteString(m.status())
	sb.WriteString("  ")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func (m RoomModel) status() string {
	var seats strings.Builder
	for i, taken := range m.members {
		glyph := "○"
		if taken {
			glyph = "●"
		}
		seats.WriteString(m.render.Color(core.PlayerColors[i]).Render(glyph))
	}
	you := m.render.Color(core.PlayerColors[m.slot]).Render(fmt.Sprintf("P%d", m.slot+1))
	return fmt.Sprintf("room %s  %s  %s", m.code, you, seats.String())
}
