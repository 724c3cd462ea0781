package app

import (
	"context"
	"fmt"

	"ember/internal/buildinfo"
	"ember/kernel"
	"ember/mcu"
	"ember/panel"
	"ember/port"
)

// Task entry addresses. These are program addresses, not RAM; the
// stacks the scheduler carves live at the top of RAM.
const (
	idleEntry  = 0x0100
	blinkEntry = 0x0140
	countEntry = 0x0180
	greetEntry = 0x01c0
)

// PortB bit 5 drives the board LED, pin 13 on the classic layout.
const ledPin = 5

type Config struct {
	ClockHz             uint32
	RAMBytes            int
	TickRateHz          uint32
	Cooperative         bool
	UseWatchdog         bool
	WatchdogMillis      uint32
	WatchdogResetSafety bool
}

// System is one assembled board: machine, scheduler, switching layer,
// and panel, with the demo tasks installed and the scheduler started.
type System struct {
	m     *mcu.Machine
	sched *kernel.Scheduler
	port  *port.Port
	panel *panel.Panel
}

// New builds a System from cfg and starts it. On return the machine is
// parked in the first task and ready to be driven frame by frame.
func New(cfg Config) (*System, error) {
	if cfg.TickRateHz == 0 {
		cfg.TickRateHz = 1000
	}

	m, err := mcu.New(mcu.Config{ClockHz: cfg.ClockHz, RAMBytes: cfg.RAMBytes})
	if err != nil {
		return nil, err
	}
	sched := kernel.New(m)

	source := port.TickTimer0
	if cfg.UseWatchdog {
		source = port.TickWatchdog
	}
	p, err := port.New(m, sched, port.Config{
		Source:               source,
		TickRateHz:           cfg.TickRateHz,
		Preemptive:           !cfg.Cooperative,
		WatchdogPeriodMillis: cfg.WatchdogMillis,
		WatchdogResetSafety:  cfg.WatchdogResetSafety,
		OnSecond: func(sec uint32) {
			if sec%10 == 0 {
				fmt.Fprintf(&m.UART0, "up %ds\r\n", sec)
			}
		},
	})
	if err != nil {
		return nil, err
	}
	sched.SetPort(p)

	sys := &System{m: m, sched: sched, port: p}
	if err := sys.installTasks(); err != nil {
		return nil, err
	}
	sys.panel = panel.New(m, sched, p, panel.Config{})

	if err := sched.Start(); err != nil {
		return nil, err
	}
	return sys, nil
}

// RunWindow opens the panel window and drives the system at the display
// rate until the window closes.
func (sys *System) RunWindow() error { return sys.panel.RunWindow() }

// RunHeadless drives the system without a window. See panel.RunHeadless.
func (sys *System) RunHeadless(ctx context.Context, cfg panel.HeadlessConfig) error {
	return sys.panel.RunHeadless(ctx, cfg)
}

// installTasks binds the demo task bodies and registers them with the
// scheduler. The idle task goes first so something is always ready.
func (sys *System) installTasks() error {
	m, sched, p := sys.m, sys.sched, sys.port
	rate := p.TickRateHz()

	m.Attach(idleEntry, func(m *mcu.Machine) {
		sched.Yield()
	})

	m.Attach(blinkEntry, func(m *mcu.Machine) {
		m.PortB ^= 1 << ledPin
		n := rate / 4
		if n == 0 {
			n = 1
		}
		sched.Sleep(n)
	})

	m.Attach(countEntry, func(m *mcu.Machine) {
		// The counter rides in r24:r25, seeded from the create-time
		// parameter, and survives switches with the rest of the frame.
		c := uint16(m.R[24]) | uint16(m.R[25])<<8
		c++
		m.R[24] = uint8(c)
		m.R[25] = uint8(c >> 8)
		fmt.Fprintf(&m.UART0, "count %d\r\n", c)
		n := rate
		if n == 0 {
			n = 1
		}
		sched.Sleep(n)
	})

	m.Attach(greetEntry, func(m *mcu.Machine) {
		plan := p.Plan()
		fmt.Fprintf(&m.UART0, "\x1b[1member %s\x1b[0m  tick %d Hz (%s)\r\n",
			buildinfo.Short(), plan.AchievedHz, plan.Source)
		sched.Sleep(^uint32(0))
	})

	for _, tk := range []struct {
		name  string
		entry uint32
		stack int
	}{
		{"idle", idleEntry, 192},
		{"blink", blinkEntry, 192},
		{"count", countEntry, 256},
		{"greet", greetEntry, 256},
	} {
		if _, err := sched.CreateTask(tk.name, tk.entry, 0, tk.stack); err != nil {
			return fmt.Errorf("app: install %s: %w", tk.name, err)
		}
	}
	return nil
}
