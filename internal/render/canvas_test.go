package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/vovakirdan/brick-arcade/internal/breakout"
	"github.com/vovakirdan/brick-arcade/internal/config"
	"github.com/vovakirdan/brick-arcade/internal/core"
)

func TestCanvasSizeAndFill(t *testing.T) {
	c := NewCanvas(core.Size{W: 100, H: 50}, 2)
	b := c.Image().Bounds()
	if b.Dx() != 200 || b.Dy() != 100 {
		t.Fatalf("image = %dx%d, want 200x100", b.Dx(), b.Dy())
	}

	c.FillRect(core.RectF{X: 10, Y: 10, W: 20, H: 10}, core.ColorRed)
	want := core.ColorRed.RGBA()
	r, g, bl, _ := c.Image().At(40, 30).RGBA()
	if uint8(r>>8) != want.R || uint8(g>>8) != want.G || uint8(bl>>8) != want.B {
		t.Errorf("pixel inside rect = %v, want %v", c.Image().At(40, 30), want)
	}

	bg := core.ColorBackground.RGBA()
	r, g, bl, _ = c.Image().At(5, 5).RGBA()
	if uint8(r>>8) != bg.R || uint8(g>>8) != bg.G || uint8(bl>>8) != bg.B {
		t.Errorf("pixel outside rect = %v, want background", c.Image().At(5, 5))
	}
}

func TestCanvasClip(t *testing.T) {
	c := NewCanvas(core.Size{W: 40, H: 40}, 1)
	c.SetClip(core.RectF{W: 20, H: 40})
	c.FillRect(core.RectF{W: 40, H: 40}, core.ColorGreen)
	c.ClearClip()

	bg := core.ColorBackground.RGBA()
	r, _, _, _ := c.Image().At(30, 20).RGBA()
	if uint8(r>>8) != bg.R {
		t.Error("fill leaked outside the clip")
	}
	_, g, _, _ := c.Image().At(10, 20).RGBA()
	if uint8(g>>8) != core.ColorGreen.RGBA().G {
		t.Error("fill missing inside the clip")
	}
}

func TestLevelPNG(t *testing.T) {
	cfg := config.DefaultBreakoutConfig()
	o := LevelOptions{Seed: 9, Level: 3, Difficulty: config.Normal, Players: 2}

	g := PreviewGame(cfg, o)
	if g.Mode() != breakout.ModePlaying {
		t.Fatalf("preview mode = %v, want playing", g.Mode())
	}
	if g.Level() != 3 || g.Players() != 2 {
		t.Errorf("preview level %d players %d, want 3 and 2", g.Level(), g.Players())
	}

	var buf bytes.Buffer
	if err := LevelPNG(cfg, o, 1).EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG() failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 640 || b.Dy() != 384 {
		t.Errorf("png = %dx%d, want 640x384", b.Dx(), b.Dy())
	}
}
