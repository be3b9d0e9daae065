// This file is not part of the upstream tinyterm v0.1.0 release. The release
// tree vendored here references the SGR constants and color table without
// defining them, so they are added locally to let the package build.

package tinyterm

import "image/color"

// SGR (Select Graphic Rendition) parameters understood by the terminal.
const (
	SGRReset          = 0
	SGRBold           = 1
	SGRFgBlack        = 30
	SGRFgRed          = 31
	SGRFgGreen        = 32
	SGRFgYellow       = 33
	SGRFgBlue         = 34
	SGRFgMagenta      = 35
	SGRFgCyan         = 36
	SGRFgWhite        = 37
	SGRSetFgColor     = 38
	SGRDefaultFgColor = 39
	SGRBgBlack        = 40
	SGRBgRed          = 41
	SGRBgGreen        = 42
	SGRBgYellow       = 43
	SGRBgBlue         = 44
	SGRBgMagenta      = 45
	SGRBgCyan         = 46
	SGRBgWhite        = 47
	SGRSetBgColor     = 48
	SGRDefaultBgColor = 49
)

// Color is an index into the 256-color xterm palette.
type Color uint8

const (
	ColorBlack Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
)

var basePalette = [16]color.RGBA{
	{0x00, 0x00, 0x00, 0xFF},
	{0xCD, 0x00, 0x00, 0xFF},
	{0x00, 0xCD, 0x00, 0xFF},
	{0xCD, 0xCD, 0x00, 0xFF},
	{0x00, 0x00, 0xEE, 0xFF},
	{0xCD, 0x00, 0xCD, 0xFF},
	{0x00, 0xCD, 0xCD, 0xFF},
	{0xE5, 0xE5, 0xE5, 0xFF},
	{0x7F, 0x7F, 0x7F, 0xFF},
	{0xFF, 0x00, 0x00, 0xFF},
	{0x00, 0xFF, 0x00, 0xFF},
	{0xFF, 0xFF, 0x00, 0xFF},
	{0x5C, 0x5C, 0xFF, 0xFF},
	{0xFF, 0x00, 0xFF, 0xFF},
	{0x00, 0xFF, 0xFF, 0xFF},
	{0xFF, 0xFF, 0xFF, 0xFF},
}

// RGBA returns the palette entry for c.
func (c Color) RGBA() color.RGBA {
	switch {
	case c < 16:
		return basePalette[c]
	case c < 232:
		i := int(c) - 16
		level := func(v int) uint8 {
			if v == 0 {
				return 0
			}
			return uint8(55 + v*40)
		}
		return color.RGBA{level(i / 36), level((i / 6) % 6), level(i % 6), 0xFF}
	default:
		v := uint8(8 + (int(c)-232)*10)
		return color.RGBA{v, v, v, 0xFF}
	}
}

type sgrAttrs struct {
	attrs byte
	fgcol color.RGBA
	bgcol color.RGBA
}

func (a *sgrAttrs) reset() {
	a.attrs = 0
	a.fgcol = ColorWhite.RGBA()
	a.bgcol = ColorBlack.RGBA()
}

func (a *sgrAttrs) setFG(c Color) {
	if a.attrs&SGRBold != 0 && c < 8 {
		c += 8
	}
	a.fgcol = c.RGBA()
}

func (a *sgrAttrs) setBG(c Color) {
	a.bgcol = c.RGBA()
}
