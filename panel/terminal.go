package panel

import (
	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"
)

const (
	fontHeight = 10
	fontOffset = 6
)

// newTerminal builds the VT100 view over a band.
func newTerminal(d *region) *tinyterm.Terminal {
	t := tinyterm.NewTerminal(d)
	t.Configure(&tinyterm.Config{
		Font:              &proggy.TinySZ8pt7b,
		FontHeight:        fontHeight,
		FontOffset:        fontOffset,
		UseSoftwareScroll: true,
	})
	return t
}
