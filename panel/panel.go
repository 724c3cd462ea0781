package panel

import (
	"tinygo.org/x/tinyterm"

	"ember/internal/buildinfo"
	"ember/kernel"
	"ember/mcu"
	"ember/port"
)

// ledPin is the PortB bit shown as the board LED.
const ledPin = 5

// Config sizes the panel surface and sets the frame budget.
type Config struct {
	Width  int
	Height int
	Title  string

	// CyclesPerFrame is how far the machine advances per display frame.
	// Zero derives one sixtieth of the core clock.
	CyclesPerFrame uint64
}

// Panel owns the pixel surface and folds the machine's visible state
// into it: the UART stream renders into the terminal band, the task
// table and LED latch into the status strip.
type Panel struct {
	m *mcu.Machine
	s *kernel.Scheduler
	p *port.Port

	fb     *framebuffer
	term   *tinyterm.Terminal
	screen *region
	status *region

	cyclesPerFrame uint64
	title          string

	paused bool
	halted error
}

// New builds the surface and the terminal over it. The port may be nil;
// the status strip then shows no uptime.
func New(m *mcu.Machine, s *kernel.Scheduler, p *port.Port, cfg Config) *Panel {
	if cfg.Width <= 0 {
		cfg.Width = 320
	}
	if cfg.Height <= 0 {
		cfg.Height = 240
	}
	if cfg.CyclesPerFrame == 0 {
		cfg.CyclesPerFrame = uint64(m.ClockHz() / 60)
	}
	if cfg.Title == "" {
		cfg.Title = "Ember (" + buildinfo.Short() + ")"
	}

	fb := newFramebuffer(cfg.Width, cfg.Height)
	fb.ClearRGB(0, 0, 0)

	pn := &Panel{
		m:              m,
		s:              s,
		p:              p,
		fb:             fb,
		screen:         newRegion(fb, 0, cfg.Height-statusRows),
		status:         newRegion(fb, cfg.Height-statusRows, statusRows),
		cyclesPerFrame: cfg.CyclesPerFrame,
		title:          cfg.Title,
	}
	pn.term = newTerminal(pn.screen)
	return pn
}

// stepFrame advances the machine one frame's worth of cycles and folds
// the UART stream into the terminal. The drained bytes come back so a
// headless runner can tee them.
func (pn *Panel) stepFrame() ([]byte, error) {
	_, err := pn.m.Run(pn.cyclesPerFrame)
	out := pn.m.UART0.Drain()
	if len(out) > 0 {
		pn.term.Write(out)
	}
	return out, err
}

func (pn *Panel) refreshStatus() {
	var uptime, rate uint32
	if pn.p != nil {
		uptime = pn.p.UptimeSeconds()
		rate = pn.p.TickRateHz()
	}
	drawStatus(pn.status, pn.s, uptime, rate, pn.m.Cycles(), pn.m.PortB&(1<<ledPin) != 0)
}
