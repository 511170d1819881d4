package core

import (
	"math"
	"unicode/utf8"
)

// Canvas is the drawing surface the game renders into. Coordinates are
// viewport pixels. Implementations must ignore anything outside the clip.
type Canvas interface {
	FillRect(r RectF, c Color)
	StrokeRect(r RectF, c Color)
	FillCircle(cx, cy, radius float64, c Color)
	DrawText(x, y float64, text string, c Color)
	MeasureText(text string) float64
	SetClip(r RectF)
	ClearClip()
}

// Terminal cell size in viewport pixels.
const (
	CellW = 8
	CellH = 16
)

// ViewportForCells returns the pixel viewport that a cols×rows terminal represents.
func ViewportForCells(cols, rows int) Size {
	return Size{W: float64(cols * CellW), H: float64(rows * CellH)}
}

// CellCanvas rasterizes pixel drawing onto a Screen. A cell is painted
// when its centre falls inside the shape.
type CellCanvas struct {
	screen *Screen
	clip   Rect
	full   bool
}

// NewCellCanvas wraps a screen.
func NewCellCanvas(s *Screen) *CellCanvas {
	c := &CellCanvas{screen: s}
	c.ClearClip()
	return c
}

// Screen returns the underlying buffer.
func (c *CellCanvas) Screen() *Screen { return c.screen }

func (c *CellCanvas) set(x, y int, r rune, col Color) {
	if !c.clip.Contains(x, y) {
		return
	}
	c.screen.Set(x, y, r, col)
}

// cellSpan returns the cell range whose centres lie in [lo, hi).
func cellSpan(lo, hi, size float64) (int, int) {
	first := int(math.Ceil(lo/size - 0.5))
	last := int(math.Ceil(hi/size-0.5)) - 1
	return first, last
}

// FillRect paints the cells covered by r with a solid block. Shapes thinner
// than a cell still take one. ColorBackground blanks the cells instead.
func (c *CellCanvas) FillRect(r RectF, col Color) {
	x0, x1 := cellSpan(r.X, r.Right(), CellW)
	y0, y1 := cellSpan(r.Y, r.Bottom(), CellH)
	x1 = max(x1, x0)
	y1 = max(y1, y0)
	ch := '█'
	if col == ColorBackground {
		ch = ' '
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c.set(x, y, ch, col)
		}
	}
}

// StrokeRect draws r's outline with box characters.
func (c *CellCanvas) StrokeRect(r RectF, col Color) {
	x0, x1 := cellSpan(r.X, r.Right(), CellW)
	y0, y1 := cellSpan(r.Y, r.Bottom(), CellH)
	box := NewRect(x0, y0, x1-x0+1, y1-y0+1)
	if box.W < 2 || box.H < 2 {
		return
	}
	for y := box.Y; y < box.Bottom(); y++ {
		for x := box.X; x < box.Right(); x++ {
			var ch rune
			switch {
			case y == box.Y && x == box.X:
				ch = '┌'
			case y == box.Y && x == box.Right()-1:
				ch = '┐'
			case y == box.Bottom()-1 && x == box.X:
				ch = '└'
			case y == box.Bottom()-1 && x == box.Right()-1:
				ch = '┘'
			case y == box.Y || y == box.Bottom()-1:
				ch = '─'
			case x == box.X || x == box.Right()-1:
				ch = '│'
			default:
				continue
			}
			c.set(x, y, ch, col)
		}
	}
}

// FillCircle marks the cell holding the centre; balls are smaller than a cell.
func (c *CellCanvas) FillCircle(cx, cy, _ float64, col Color) {
	c.set(int(math.Floor(cx/CellW)), int(math.Floor(cy/CellH)), '●', col)
}

// DrawText writes text starting at the cell containing (x, y).
func (c *CellCanvas) DrawText(x, y float64, text string, col Color) {
	cx := int(math.Floor(x / CellW))
	cy := int(math.Floor(y / CellH))
	i := 0
	for _, r := range text {
		c.set(cx+i, cy, r, col)
		i++
	}
}

// MeasureText returns the text width in pixels.
func (c *CellCanvas) MeasureText(text string) float64 {
	return float64(utf8.RuneCountInString(text) * CellW)
}

// SetClip limits drawing to the cells whose centres lie in r.
func (c *CellCanvas) SetClip(r RectF) {
	x0, x1 := cellSpan(r.X, r.Right(), CellW)
	y0, y1 := cellSpan(r.Y, r.Bottom(), CellH)
	c.clip = NewRect(x0, y0, x1-x0+1, y1-y0+1)
}

// ClearClip allows drawing on the whole screen again.
func (c *CellCanvas) ClearClip() {
	c.clip = NewRect(0, 0, c.screen.Width(), c.screen.Height())
}
