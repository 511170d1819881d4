package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/brick-arcade/internal/core"
)

// ansi maps core.Color to terminal palette indexes.
var ansi = map[core.Color]string{
	core.ColorRed:           "1",
	core.ColorGreen:         "2",
	core.ColorYellow:        "3",
	core.ColorBlue:          "4",
	core.ColorMagenta:       "5",
	core.ColorCyan:          "6",
	core.ColorWhite:         "7",
	core.ColorBrightRed:     "9",
	core.ColorBrightGreen:   "10",
	core.ColorBrightYellow:  "11",
	core.ColorBrightBlue:    "12",
	core.ColorBrightMagenta: "13",
	core.ColorBrightCyan:    "14",
	core.ColorBrightWhite:   "15",
	core.ColorOrange:        "208",
	core.ColorGray:          "245",
	core.ColorBackground:    "234",
}

// Renderer paints Screens with styles bound to one output. SSH sessions
// each get their own so colour detection follows the client's terminal.
type Renderer struct {
	lg     *lipgloss.Renderer
	styles map[core.Color]lipgloss.Style
	plain  lipgloss.Style
}

// NewRenderer builds styles on r, or on the default renderer when r is nil.
func NewRenderer(r *lipgloss.Renderer) *Renderer {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	styles := make(map[core.Color]lipgloss.Style, len(ansi))
	for c, code := range ansi {
		styles[c] = r.NewStyle().Foreground(lipgloss.Color(code))
	}
	return &Renderer{lg: r, styles: styles, plain: r.NewStyle()}
}

// Screen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func (r *Renderer) Screen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color
			run.Reset()
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}
			sb.WriteString(r.style(startColor).Render(run.String()))
		}
	}
	return sb.String()
}

func (r *Renderer) style(c core.Color) lipgloss.Style {
	if st, ok := r.styles[c]; ok {
		return st
	}
	return r.plain
}

// Style returns an empty style bound to the renderer's output.
func (r *Renderer) Style() lipgloss.Style {
	return r.lg.NewStyle()
}

// Color returns the foreground style used for c.
func (r *Renderer) Color(c core.Color) lipgloss.Style {
	return r.style(c)
}

var defaultRenderer = NewRenderer(nil)

// RenderScreen renders with the process's own terminal renderer.
func RenderScreen(s *core.Screen) string {
	return defaultRenderer.Screen(s)
}
