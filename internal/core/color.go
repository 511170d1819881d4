package core

import "image/color"

// Color is a palette entry. Terminal frontends map it to ANSI colours,
// raster frontends use RGBA.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
	ColorBackground
)

var rgba = [...]color.RGBA{
	ColorDefault:       {0xd0, 0xd0, 0xd0, 0xff},
	ColorRed:           {0xc0, 0x30, 0x30, 0xff},
	ColorGreen:         {0x30, 0xa0, 0x40, 0xff},
	ColorYellow:        {0xc8, 0xb0, 0x30, 0xff},
	ColorBlue:          {0x30, 0x50, 0xc0, 0xff},
	ColorMagenta:       {0xb0, 0x30, 0xb0, 0xff},
	ColorCyan:          {0x30, 0xb0, 0xb8, 0xff},
	ColorWhite:         {0xe0, 0xe0, 0xe0, 0xff},
	ColorBrightRed:     {0xff, 0x55, 0x55, 0xff},
	ColorBrightGreen:   {0x55, 0xff, 0x77, 0xff},
	ColorBrightYellow:  {0xff, 0xee, 0x55, 0xff},
	ColorBrightBlue:    {0x66, 0x88, 0xff, 0xff},
	ColorBrightMagenta: {0xff, 0x66, 0xff, 0xff},
	ColorBrightCyan:    {0x66, 0xff, 0xff, 0xff},
	ColorBrightWhite:   {0xff, 0xff, 0xff, 0xff},
	ColorOrange:        {0xff, 0x99, 0x22, 0xff},
	ColorGray:          {0x70, 0x70, 0x70, 0xff},
	ColorBackground:    {0x10, 0x10, 0x18, 0xff},
}

// RGBA returns the colour for raster surfaces.
func (c Color) RGBA() color.RGBA {
	if int(c) >= len(rgba) {
		return rgba[ColorDefault]
	}
	return rgba[c]
}

// PlayerColors gives each player slot a distinct colour.
var PlayerColors = [MaxPlayers]Color{ColorBrightCyan, ColorBrightMagenta, ColorBrightGreen, ColorOrange}
