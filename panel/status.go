package panel

import (
	"fmt"
	"image/color"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"ember/kernel"
)

// statusRows is the height of the strip under the terminal band.
const statusRows = 22

var (
	statusBG   = color.RGBA{R: 0x18, G: 0x18, B: 0x18, A: 0xFF}
	statusRule = color.RGBA{R: 0x50, G: 0x50, B: 0x50, A: 0xFF}
	statusFG   = color.RGBA{R: 0x00, G: 0xAA, B: 0x55, A: 0xFF}
	statusDim  = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
	ledOnCol   = color.RGBA{R: 0x30, G: 0xFF, B: 0x30, A: 0xFF}
	ledOffCol  = color.RGBA{R: 0x28, G: 0x40, B: 0x28, A: 0xFF}
)

func stateChar(st kernel.TaskState) byte {
	switch st {
	case kernel.StateRunning:
		return 'R'
	case kernel.StateReady:
		return 'r'
	case kernel.StateSleeping:
		return 's'
	default:
		return '-'
	}
}

// drawStatus paints the strip: uptime, tick count and rate, cycle count,
// the LED latch as a square, and one state letter per task.
func drawStatus(d *region, s *kernel.Scheduler, uptime, rateHz uint32, cycles uint64, ledOn bool) {
	_ = d.FillRectangle(0, 0, int16(d.fb.width), int16(d.rows), statusBG)
	_ = d.FillRectangle(0, 0, int16(d.fb.width), 1, statusRule)

	line := fmt.Sprintf("up %ds  tick %d @%dHz  cyc %d", uptime, s.Ticks(), rateHz, cycles)
	tinyfont.WriteLine(d, &proggy.TinySZ8pt7b, 2, 9, line, statusFG)

	tasks := ""
	for _, ti := range s.Snapshot() {
		if tasks != "" {
			tasks += "  "
		}
		tasks += fmt.Sprintf("%s:%c", ti.Name, stateChar(ti.State))
	}
	tinyfont.WriteLine(d, &proggy.TinySZ8pt7b, 2, 19, tasks, statusDim)

	led := ledOffCol
	if ledOn {
		led = ledOnCol
	}
	_ = d.FillRectangle(int16(d.fb.width)-12, 3, 8, 8, led)
}
