package mcu

import "strconv"

// WatchdogTimeout selects one of the fixed watchdog periods.
type WatchdogTimeout uint8

const (
	WDT15ms WatchdogTimeout = iota
	WDT30ms
	WDT60ms
	WDT120ms
	WDT250ms
	WDT500ms
	WDT1s
	WDT2s
	WDT4s
	WDT8s
)

var wdtMillis = [...]uint32{15, 30, 60, 120, 250, 500, 1000, 2000, 4000, 8000}

// Millis is the period in milliseconds, or 0 for an invalid selection.
func (t WatchdogTimeout) Millis() uint32 {
	if int(t) >= len(wdtMillis) {
		return 0
	}
	return wdtMillis[t]
}

func (t WatchdogTimeout) String() string {
	ms := t.Millis()
	switch {
	case ms == 0:
		return "invalid"
	case ms >= 1000:
		return strconv.Itoa(int(ms/1000)) + "s"
	default:
		return strconv.Itoa(int(ms)) + "ms"
	}
}

// WatchdogConfig arms the watchdog. With only Interrupt set an expiry
// latches an interrupt and the timer keeps running. With Reset also set the
// first expiry latches the interrupt and a second expiry before the vector
// is taken forces a system reset; taking the vector drops back to
// reset-only mode until rearmed.
type WatchdogConfig struct {
	Timeout   WatchdogTimeout
	Interrupt bool
	Reset     bool
}

// Watchdog is the independent expiry timer, clocked from the core cycle
// counter.
type Watchdog struct {
	timeout      WatchdogTimeout
	irqEnabled   bool
	resetEnabled bool
	pending      bool
	counter      uint64
	periodCycles uint64
	clockHz      uint32
}

// Configure arms the watchdog and restarts its counter.
func (w *Watchdog) Configure(cfg WatchdogConfig) {
	w.timeout = cfg.Timeout
	w.irqEnabled = cfg.Interrupt
	w.resetEnabled = cfg.Reset
	w.pending = false
	w.counter = 0
	w.periodCycles = uint64(cfg.Timeout.Millis()) * uint64(w.clockHz) / 1000
}

// Disable turns the watchdog off entirely.
func (w *Watchdog) Disable() {
	hz := w.clockHz
	*w = Watchdog{clockHz: hz}
}

// Feed restarts the period without touching the configuration.
func (w *Watchdog) Feed() { w.counter = 0 }

// Enabled reports whether any expiry action is armed.
func (w *Watchdog) Enabled() bool { return w.irqEnabled || w.resetEnabled }

// Pending reports whether an expiry interrupt is latched.
func (w *Watchdog) Pending() bool { return w.pending }

// Timeout reports the armed period selection.
func (w *Watchdog) Timeout() WatchdogTimeout { return w.timeout }

// advance clocks the watchdog and reports whether it demands a reset.
func (w *Watchdog) advance(cycles uint32) bool {
	if !w.Enabled() || w.periodCycles == 0 {
		return false
	}
	w.counter += uint64(cycles)
	for w.counter >= w.periodCycles {
		w.counter -= w.periodCycles
		if w.expire() {
			return true
		}
	}
	return false
}

func (w *Watchdog) expire() bool {
	if w.irqEnabled {
		if w.pending && w.resetEnabled {
			return true
		}
		w.pending = true
		return false
	}
	return w.resetEnabled
}

func (w *Watchdog) interruptPending() bool { return w.irqEnabled && w.pending }

// acknowledge models vector entry: the pending flag clears, and in
// interrupt+reset mode the interrupt arm drops so an unserviced second
// expiry resets.
func (w *Watchdog) acknowledge() {
	w.pending = false
	if w.resetEnabled {
		w.irqEnabled = false
	}
}

func (w *Watchdog) reset() {
	hz := w.clockHz
	*w = Watchdog{clockHz: hz}
}
