package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 || s.Height() != 24 {
		t.Fatalf("size = %dx%d, expected 80x24", s.Width(), s.Height())
	}
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Get(x, y) != ' ' {
				t.Fatalf("new screen should be blank, got %q at (%d, %d)", s.Get(x, y), x, y)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.Set(5, 5, 'X', ColorRed)
	if c := s.GetCell(5, 5); c.Rune != 'X' || c.Color != ColorRed {
		t.Errorf("GetCell(5, 5) = %+v, expected X/red", c)
	}

	s.Set(-1, 0, 'A', ColorDefault)
	s.Set(100, 0, 'A', ColorDefault)
	if s.Get(-1, 0) != ' ' || s.Get(100, 0) != ' ' {
		t.Error("out of bounds Get should return space")
	}
}

func TestScreenClone(t *testing.T) {
	s := NewScreen(4, 2)
	s.Set(1, 1, 'Q', ColorCyan)

	c := s.Clone()
	s.Set(1, 1, 'Z', ColorRed)

	if got := c.GetCell(1, 1); got.Rune != 'Q' || got.Color != ColorCyan {
		t.Errorf("clone changed with the original: %+v", got)
	}
	if c.Width() != 4 || c.Height() != 2 {
		t.Errorf("clone size = %dx%d", c.Width(), c.Height())
	}
}

func TestScreenDrawTextClipped(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawText(18, 0, "Hello", ColorDefault)
	if s.Get(18, 0) != 'H' || s.Get(19, 0) != 'e' {
		t.Error("text should be clipped at right boundary")
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawBox(NewRect(1, 1, 5, 4), ColorDefault)

	corners := map[[2]int]rune{
		{1, 1}: '┌',
		{5, 1}: '┐',
		{1, 4}: '└',
		{5, 4}: '┘',
	}
	for pos, want := range corners {
		if got := s.Get(pos[0], pos[1]); got != want {
			t.Errorf("corner at %v = %q, expected %q", pos, got, want)
		}
	}
	if s.Get(3, 1) != '─' || s.Get(1, 2) != '│' {
		t.Error("box edges not drawn")
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(5, 3)
	s.DrawText(0, 0, "AAAAA", ColorDefault)
	s.DrawText(0, 1, "BBBBB", ColorDefault)
	s.DrawText(0, 2, "CCCCC", ColorDefault)

	if got := s.String(); got != "AAAAA\nBBBBB\nCCCCC" {
		t.Errorf("String() = %q", got)
	}
}

func TestScreenRow(t *testing.T) {
	s := NewScreen(10, 5)
	s.DrawText(0, 2, "Test", ColorDefault)

	if row := s.Row(2); !strings.HasPrefix(row, "Test") {
		t.Errorf("Row(2) should start with 'Test', got %q", row)
	}
	if row := s.Row(-1); row != "          " {
		t.Errorf("out of bounds row should be spaces, got %q", row)
	}
}

func TestCellCanvasFillRect(t *testing.T) {
	s := NewScreen(10, 5)
	c := NewCellCanvas(s)

	// Covers cell centres x=4,12,20 (cells 0..2) and y=8 (row 0).
	c.FillRect(RectF{X: 0, Y: 0, W: 24, H: 14}, ColorGreen)

	for x := 0; x < 3; x++ {
		if cell := s.GetCell(x, 0); cell.Rune != '█' || cell.Color != ColorGreen {
			t.Errorf("cell (%d,0) = %+v, expected filled green", x, cell)
		}
	}
	if s.Get(3, 0) != ' ' || s.Get(0, 1) != ' ' {
		t.Error("FillRect painted outside its rectangle")
	}
}

func TestCellCanvasClip(t *testing.T) {
	s := NewScreen(10, 5)
	c := NewCellCanvas(s)
	c.SetClip(RectF{X: 0, Y: 0, W: 16, H: 16})

	c.DrawText(0, 0, "abcd", ColorDefault)
	if s.Row(0)[:4] != "ab  " {
		t.Errorf("clipped row = %q, expected %q", s.Row(0)[:4], "ab  ")
	}

	c.ClearClip()
	c.DrawText(0, 16, "abcd", ColorDefault)
	if s.Row(1)[:4] != "abcd" {
		t.Errorf("unclipped row = %q", s.Row(1)[:4])
	}
}

func TestCellCanvasCircle(t *testing.T) {
	s := NewScreen(10, 5)
	NewCellCanvas(s).FillCircle(20, 40, 6, ColorWhite)
	if s.Get(2, 2) != '●' {
		t.Errorf("ball glyph missing at (2,2): %q", s.Get(2, 2))
	}
}
