//go:build ebiten

package gui

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/vovakirdan/brick-arcade/internal/core"
)

var face = basicfont.Face7x13

// canvas draws the game onto an ebiten image in viewport pixels.
type canvas struct {
	dst  *ebiten.Image
	clip *image.Rectangle
}

func newCanvas(dst *ebiten.Image) *canvas {
	return &canvas{dst: dst}
}

func (c *canvas) target() *ebiten.Image {
	if c.clip == nil {
		return c.dst
	}
	return c.dst.SubImage(*c.clip).(*ebiten.Image)
}

func (c *canvas) FillRect(r core.RectF, col core.Color) {
	vector.DrawFilledRect(c.target(), float32(r.X), float32(r.Y), float32(r.W), float32(r.H), col.RGBA(), false)
}

func (c *canvas) StrokeRect(r core.RectF, col core.Color) {
	vector.StrokeRect(c.target(), float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 1, col.RGBA(), false)
}

func (c *canvas) FillCircle(cx, cy, radius float64, col core.Color) {
	vector.DrawFilledCircle(c.target(), float32(cx), float32(cy), float32(radius), col.RGBA(), true)
}

// DrawText places the text's top-left corner at (x, y).
func (c *canvas) DrawText(x, y float64, s string, col core.Color) {
	ascent := face.Metrics().Ascent.Ceil()
	text.Draw(c.target(), s, face, int(x), int(y)+ascent, col.RGBA())
}

func (c *canvas) MeasureText(s string) float64 {
	return float64(font.MeasureString(face, s).Ceil())
}

func (c *canvas) SetClip(r core.RectF) {
	rect := image.Rect(int(r.X), int(r.Y), int(r.Right()), int(r.Y+r.H)).Intersect(c.dst.Bounds())
	c.clip = &rect
}

func (c *canvas) ClearClip() {
	c.clip = nil
}
