package tinyterm

import "image/color"

// Color is one of the 8 standard terminal palette entries.
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

// SGR parameter codes handled by the terminal.
const (
	SGRReset = 0
	SGRBold  = 1

	SGRFgBlack   = 30
	SGRFgRed     = 31
	SGRFgGreen   = 32
	SGRFgYellow  = 33
	SGRFgBlue    = 34
	SGRFgMagenta = 35
	SGRFgCyan    = 36
	SGRFgWhite   = 37

	SGRSetFgColor     = 38
	SGRDefaultFgColor = 39

	SGRBgBlack   = 40
	SGRBgRed     = 41
	SGRBgGreen   = 42
	SGRBgYellow  = 43
	SGRBgBlue    = 44
	SGRBgMagenta = 45
	SGRBgCyan    = 46
	SGRBgWhite   = 47

	SGRSetBgColor     = 48
	SGRDefaultBgColor = 49
)

var palette = [...]color.RGBA{
	ColorBlack:   {R: 0x00, G: 0x00, B: 0x00, A: 0xFF},
	ColorRed:     {R: 0xAA, G: 0x00, B: 0x00, A: 0xFF},
	ColorGreen:   {R: 0x00, G: 0xAA, B: 0x00, A: 0xFF},
	ColorYellow:  {R: 0xAA, G: 0x55, B: 0x00, A: 0xFF},
	ColorBlue:    {R: 0x00, G: 0x00, B: 0xAA, A: 0xFF},
	ColorMagenta: {R: 0xAA, G: 0x00, B: 0xAA, A: 0xFF},
	ColorCyan:    {R: 0x00, G: 0xAA, B: 0xAA, A: 0xFF},
	ColorWhite:   {R: 0xAA, G: 0xAA, B: 0xAA, A: 0xFF},
}

type sgrAttrs struct {
	attrs byte
	fgcol color.RGBA
	bgcol color.RGBA
}

func (s *sgrAttrs) reset() {
	s.attrs = 0
	s.fgcol = palette[ColorWhite]
	s.bgcol = palette[ColorBlack]
}

func (s *sgrAttrs) setFG(c Color) {
	if int(c) < len(palette) {
		s.fgcol = palette[c]
	}
}

func (s *sgrAttrs) setBG(c Color) {
	if int(c) < len(palette) {
		s.bgcol = palette[c]
	}
}
