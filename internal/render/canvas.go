// Package render draws the game into raster images with gg, for level
// previews and spectator snapshots.
package render

import (
	"fmt"
	"image"
	"io"

	"github.com/fogleman/gg"

	"github.com/vovakirdan/brick-arcade/internal/core"
)

// Canvas is a core.Canvas backed by a gg context. Drawing happens in
// viewport pixels and is scaled to the image size.
type Canvas struct {
	dc    *gg.Context
	vp    core.Size
	scale float64
}

// NewCanvas creates a canvas for vp, cleared to the background colour.
func NewCanvas(vp core.Size, scale float64) *Canvas {
	if scale <= 0 {
		scale = 1
	}
	w := max(int(vp.W*scale), 1)
	h := max(int(vp.H*scale), 1)
	dc := gg.NewContext(w, h)
	dc.Scale(scale, scale)

	c := &Canvas{dc: dc, vp: vp, scale: scale}
	c.Clear()
	return c
}

// Clear fills the whole image with the background colour.
func (c *Canvas) Clear() {
	c.dc.ResetClip()
	c.dc.SetColor(core.ColorBackground.RGBA())
	c.dc.DrawRectangle(0, 0, c.vp.W, c.vp.H)
	c.dc.Fill()
}

func (c *Canvas) FillRect(r core.RectF, col core.Color) {
	c.dc.SetColor(col.RGBA())
	c.dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	c.dc.Fill()
}

func (c *Canvas) StrokeRect(r core.RectF, col core.Color) {
	c.dc.SetColor(col.RGBA())
	c.dc.SetLineWidth(1)
	c.dc.DrawRectangle(r.X+0.5, r.Y+0.5, r.W-1, r.H-1)
	c.dc.Stroke()
}

func (c *Canvas) FillCircle(cx, cy, radius float64, col core.Color) {
	c.dc.SetColor(col.RGBA())
	c.dc.DrawCircle(cx, cy, radius)
	c.dc.Fill()
}

// DrawText draws text with its top-left corner at (x, y).
func (c *Canvas) DrawText(x, y float64, text string, col core.Color) {
	c.dc.SetColor(col.RGBA())
	c.dc.DrawStringAnchored(text, x, y, 0, 1)
}

func (c *Canvas) MeasureText(text string) float64 {
	w, _ := c.dc.MeasureString(text)
	return w
}

func (c *Canvas) SetClip(r core.RectF) {
	c.dc.ResetClip()
	c.dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	c.dc.Clip()
}

func (c *Canvas) ClearClip() {
	c.dc.ResetClip()
}

// Image returns the rendered image.
func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

// EncodePNG writes the image as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	if err := c.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}

// SavePNG writes the image to path.
func (c *Canvas) SavePNG(path string) error {
	if err := c.dc.SavePNG(path); err != nil {
		return fmt.Errorf("render: save %s: %w", path, err)
	}
	return nil
}

// Drawer is anything that draws a playfield and its overlay.
type Drawer interface {
	Draw(c core.Canvas, vp core.Size)
	DrawUI(c core.Canvas, vp core.Size)
}

// Frame renders d at vp into a new canvas.
func Frame(d Drawer, vp core.Size, scale float64) *Canvas {
	c := NewCanvas(vp, scale)
	d.Draw(c, vp)
	d.DrawUI(c, vp)
	return c
}
