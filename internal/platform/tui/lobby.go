package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/brick-arcade/internal/breakout"
	"github.com/vovakirdan/brick-arcade/internal/config"
	"github.com/vovakirdan/brick-arcade/internal/core"
	"github.com/vovakirdan/brick-arcade/internal/multiplayer"
	"github.com/vovakirdan/brick-arcade/internal/settings"
)

// lobbyState is where an SSH session is in its flow.
type lobbyState int

const (
	lobbyChoose lobbyState = iota
	lobbyEnterCode
	lobbySolo
	lobbyRoom
)

var lobbyItems = []string{"Play solo", "Host a co-op room", "Join a room", "Quit"}

// SessionDeps are the server-wide pieces every session shares.
type SessionDeps struct {
	Hub      *multiplayer.Hub
	Game     config.BreakoutConfig
	Runtime  core.RuntimeConfig
	Settings settings.Settings
	Scores   breakout.HighScoreService
	Logger   *log.Logger
}

// SessionModel is the top-level model of an SSH session: a small lobby
// that leads to solo play or a co-op room, and back.
type SessionModel struct {
	deps   SessionDeps
	user   string
	render *Renderer
	done   <-chan struct{} // closes when the connection drops

	state  lobbyState
	cursor int
	code   textinput.Model
	err    string
	width  int
	height int

	solo Model
	room RoomModel

	quitting bool
}

// NewSessionModel creates the lobby for one SSH user. done closes when
// the connection ends; any room seat is given up then.
func NewSessionModel(deps SessionDeps, user string, r *Renderer, done <-chan struct{}) SessionModel {
	if r == nil {
		r = defaultRenderer
	}
	ti := textinput.New()
	ti.Placeholder = "ABC123"
	ti.CharLimit = 6
	ti.Width = 8
	ti.Prompt = "Room code: "

	return SessionModel{
		deps:   deps,
		user:   user,
		render: r,
		done:   done,
		code:   ti,
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = wsm.Width, wsm.Height
	}

	switch m.state {
	case lobbySolo:
		return m.updateSolo(msg)
	case lobbyRoom:
		return m.updateRoom(msg)
	case lobbyEnterCode:
		return m.updateCode(msg)
	}
	return m.updateChoose(msg)
}

func (m SessionModel) updateChoose(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch km.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "up", "w", "k":
		m.cursor = (m.cursor - 1 + len(lobbyItems)) % len(lobbyItems)
	case "down", "s", "j":
		m.cursor = (m.cursor + 1) % len(lobbyItems)
	case "1", "2", "3":
		m.cursor = int(km.Runes[0] - '1')
		return m.choose()
	case "enter", " ":
		return m.choose()
	}
	return m, nil
}

func (m SessionModel) choose() (tea.Model, tea.Cmd) {
	m.err = ""
	switch m.cursor {
	case 0:
		return m.startSolo()
	case 1:
		s := multiplayer.NewChannelSession(multiplayer.NewSessionID(), 0)
		code, slot, err := m.deps.Hub.Create(s)
		if err != nil {
			s.Close()
			m.err = err.Error()
			return m, nil
		}
		return m.enterRoom(s, code, slot)
	case 2:
		m.state = lobbyEnterCode
		m.code.SetValue("")
		return m, m.code.Focus()
	default:
		m.quitting = true
		return m, tea.Quit
	}
}

func (m SessionModel) updateCode(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "esc":
			m.code.Blur()
			m.state = lobbyChoose
			return m, nil
		case "enter":
			code := strings.ToUpper(strings.TrimSpace(m.code.Value()))
			s := multiplayer.NewChannelSession(multiplayer.NewSessionID(), 0)
			slot, err := m.deps.Hub.Join(code, s)
			if err != nil {
				s.Close()
				m.err = joinError(err)
				return m, nil
			}
			m.code.Blur()
			return m.enterRoom(s, code, slot)
		}
	}

	var cmd tea.Cmd
	m.code, cmd = m.code.Update(msg)
	m.code.SetValue(strings.ToUpper(m.code.Value()))
	return m, cmd
}

func joinError(err error) string {
	switch {
	case errors.Is(err, multiplayer.ErrNoRoom):
		return "No room with that code."
	case errors.Is(err, multiplayer.ErrRoomFull):
		return "That room is full."
	case errors.Is(err, multiplayer.ErrRoomClosed):
		return "That room has closed."
	}
	return err.Error()
}

func (m SessionModel) startSolo() (tea.Model, tea.Cmd) {
	rt := m.deps.Runtime
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano() & 0x7fffffff
	}
	l := m.deps.Logger
	if l != nil {
		l = l.With("user", m.user)
	}
	game, display := NewGame(m.deps.Game, rt, Services{
		Settings: settings.NewManager(m.deps.Settings),
		Scores:   m.deps.Scores,
	}, l)

	m.solo = NewModel(game, display, DefaultKeyMap(), m.render, l)
	solo, _ := m.solo.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	m.solo = solo.(Model)
	m.state = lobbySolo
	return m, m.solo.Init()
}

func (m SessionModel) updateSolo(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.solo.Update(msg)
	m.solo = next.(Model)
	switch {
	case m.solo.Finished():
		m.state = lobbyChoose
		return m, nil
	case m.solo.Quitting():
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

func (m SessionModel) enterRoom(s *multiplayer.ChannelSession, code string, slot int) (tea.Model, tea.Cmd) {
	m.releaseOnDisconnect(s)
	m.room = NewRoomModel(m.deps.Hub, s, code, slot, m.render)
	m.state = lobbyRoom
	if m.deps.Logger != nil {
		m.deps.Logger.Info("seated", "user", m.user, "room", code, "slot", slot)
	}
	return m, m.room.Init()
}

func (m SessionModel) updateRoom(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.room.Update(msg)
	m.room = next.(RoomModel)
	switch {
	case m.room.Quitting():
		m.quitting = true
		return m, tea.Quit
	case m.room.Left():
		m.state = lobbyChoose
		return m, nil
	}
	return m, cmd
}

// releaseOnDisconnect frees the seat held by s when the connection drops.
func (m SessionModel) releaseOnDisconnect(s *multiplayer.ChannelSession) {
	if m.done == nil {
		return
	}
	hub, done := m.deps.Hub, m.done
	go func() {
		select {
		case <-done:
			hub.Leave(s.ID())
			s.Close()
		case <-s.Done():
		}
	}()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.state {
	case lobbySolo:
		return m.solo.View()
	case lobbyRoom:
		return m.room.View()
	}
	return m.lobbyView()
}

func (m SessionModel) lobbyView() string {
	title := m.render.Color(core.ColorBrightCyan).Bold(true).Render("BRICK ARCADE")
	dim := m.render.Color(core.ColorGray)

	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(dim.Render("welcome, " + m.user))
	sb.WriteString("\n\n")

	if m.state == lobbyEnterCode {
		sb.WriteString(m.code.View())
		sb.WriteString("\n\n")
		sb.WriteString(dim.Render("enter join  esc back"))
	} else {
		for i, item := range lobbyItems {
			line := fmt.Sprintf("  %d. %s", i+1, item)
			if i == m.cursor {
				line = m.render.Color(core.ColorBrightYellow).Render(fmt.Sprintf("> %d. %s", i+1, item))
			}
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		if rooms := m.deps.Hub.Rooms(); len(rooms) > 0 {
			sb.WriteString("\n")
			sb.WriteString(dim.Render("open rooms:"))
			for _, r := range rooms {
				sb.WriteString(fmt.Sprintf("\n  %s  %d/%d  %s", r.Code, r.Seats, core.MaxPlayers, r.Mode))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
		sb.WriteString(dim.Render("↑/↓ move  enter select  q quit"))
	}

	if m.err != "" {
		sb.WriteString("\n\n")
		sb.WriteString(m.render.Color(core.ColorBrightRed).Render(m.err))
	}

	box := m.render.Style().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ansi[core.ColorCyan])).
		Padding(1, 3).
		Render(sb.String())

	if m.width > 0 && m.height > 0 {
		return m.render.lg.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
