package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/brick-arcade/internal/storage"
)

// maxRows is how many rows each tab loads.
const maxRows = 100

// ScoreSource is the part of the store the scoreboard reads.
type ScoreSource interface {
	TopScores(limit int) ([]storage.ScoreRecord, error)
	RecentRoomRuns(limit int) ([]storage.RoomRun, error)
}

type scoreTab int

const (
	tabLeaderboard scoreTab = iota
	tabRooms
	tabCount
)

var tabTitles = [tabCount]string{"Leaderboard", "Co-op rooms"}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.NextTab, k.PrevTab}, {k.Quit}}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
		NextTab: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next tab")),
		PrevTab: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab", "prev tab")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel browses the leaderboard and the co-op room history.
type ScoreboardModel struct {
	src    ScoreSource
	tab    scoreTab
	table  table.Model
	help   help.Model
	keys   ScoreboardKeyMap
	width  int
	height int
	err    error

	quitting bool
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(src ScoreSource, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		src:    src,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.load()
	return m
}

func (m *ScoreboardModel) load() {
	cols, rows, err := m.tabContents()
	m.err = err

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 5)),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	m.table = t
}

func (m ScoreboardModel) tabContents() ([]table.Column, []table.Row, error) {
	if m.tab == tabRooms {
		return RoomRunTable(m.src.RecentRoomRuns(maxRows))
	}
	return LeaderboardTable(m.src.TopScores(maxRows))
}

// LeaderboardTable lays out leaderboard rows, best first.
func LeaderboardTable(scores []storage.ScoreRecord, err error) ([]table.Column, []table.Row, error) {
	cols := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Name", Width: 12},
		{Title: "Score", Width: 9},
		{Title: "Level", Width: 6},
		{Title: "Players", Width: 8},
		{Title: "Difficulty", Width: 10},
		{Title: "Date", Width: 13},
	}
	rows := make([]table.Row, len(scores))
	for i, s := range scores {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			s.Name,
			strconv.Itoa(s.Score),
			strconv.Itoa(s.Level + 1),
			strconv.Itoa(s.Players),
			s.Difficulty,
			s.At.Local().Format("Jan 02 15:04"),
		}
	}
	return cols, rows, err
}

// RoomRunTable lays out co-op runs, newest first.
func RoomRunTable(runs []storage.RoomRun, err error) ([]table.Column, []table.Row, error) {
	cols := []table.Column{
		{Title: "Room", Width: 7},
		{Title: "Players", Width: 8},
		{Title: "Team score", Width: 10},
		{Title: "Level", Width: 6},
		{Title: "Difficulty", Width: 10},
		{Title: "Ended", Width: 10},
		{Title: "Time", Width: 7},
		{Title: "Date", Width: 13},
	}
	rows := make([]table.Row, len(runs))
	for i, r := range runs {
		rows[i] = table.Row{
			r.Code,
			strconv.Itoa(r.Players),
			strconv.Itoa(r.TeamScore),
			strconv.Itoa(r.Level + 1),
			r.Difficulty,
			r.EndReason,
			(time.Duration(r.Duration) * time.Second).String(),
			r.CreatedAt.Local().Format("Jan 02 15:04"),
		}
	}
	return cols, rows, err
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextTab):
			m.tab = (m.tab + 1) % tabCount
			m.load()
			return m, nil
		case key.Matches(msg, m.keys.PrevTab):
			m.tab = (m.tab + tabCount - 1) % tabCount
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.load()
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render("BRICK ARCADE SCORES"))
	b.WriteString("\n\n")

	tabStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)
	tabs := make([]string, tabCount)
	for i, title := range tabTitles {
		if scoreTab(i) == m.tab {
			tabs[i] = activeTabStyle.Render(title)
		} else {
			tabs[i] = tabStyle.Render(title)
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.tableContent()))

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m ScoreboardModel) tableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)
	switch {
	case m.err != nil:
		return emptyStyle.Render("Could not load scores:\n" + m.err.Error())
	case len(m.table.Rows()) == 0 && m.tab == tabRooms:
		return emptyStyle.Render("No co-op games recorded yet.")
	case len(m.table.Rows()) == 0:
		return emptyStyle.Render("No scores recorded yet.\nPlay a game to set a high score!")
	}
	return m.table.View()
}

// RunScoreboard runs the scoreboard screen.
func RunScoreboard(src ScoreSource) error {
	p := tea.NewProgram(NewScoreboardModel(src, 100, 30), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: scoreboard: %w", err)
	}
	return nil
}
