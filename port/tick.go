package port

import (
	"errors"

	"ember/mcu"
)

// TickSource selects what hardware drives the scheduler tick.
type TickSource uint8

const (
	// TickTimer0 runs the 8-bit timer in clear-on-match mode from the
	// fixed /1024 prescale tap. Fine-grained rates, costs the timer.
	TickTimer0 TickSource = iota
	// TickWatchdog repurposes the watchdog's interrupt mode as a coarse
	// tick. Only the fixed period menu is available, but the timer stays
	// free and the reset backstop can ride along.
	TickWatchdog
)

func (s TickSource) String() string {
	switch s {
	case TickTimer0:
		return "timer0"
	case TickWatchdog:
		return "watchdog"
	default:
		return "unknown"
	}
}

// tickPrescale is the only prescale tap the timer tick uses.
const tickPrescale = mcu.Prescale1024

var (
	ErrZeroClockRate     = errors.New("port: clock rate is zero")
	ErrZeroTickRate      = errors.New("port: tick rate is zero")
	ErrTickTooFast       = errors.New("port: tick rate too fast for the prescaled 8-bit compare")
	ErrTickTooSlow       = errors.New("port: tick rate too slow for the prescaled 8-bit compare")
	ErrBadWatchdogPeriod = errors.New("port: watchdog period not on the menu")
	ErrUnknownTickSource = errors.New("port: unknown tick source")
)

// TickPlan is a resolved tick configuration: the settings that will be
// programmed, and the rate the time base actually advances at. Fields
// beyond Source and AchievedHz are meaningful only for their source.
type TickPlan struct {
	Source TickSource

	// Timer0 settings.
	CountsPerTick uint32
	Compare       uint8
	Prescale      mcu.Prescale

	// Watchdog settings.
	Period      mcu.WatchdogTimeout
	ResetSafety bool

	// AchievedHz is the true integer rate of the time base. It never
	// exceeds the requested rate for the timer source. Periods longer
	// than a second report 0.
	AchievedHz uint32
}

// PeriodMillis is the watchdog plan's period in milliseconds.
func (p TickPlan) PeriodMillis() uint32 { return p.Period.Millis() }

// Vector is the interrupt the plan's source raises.
func (p TickPlan) Vector() mcu.Vector {
	if p.Source == TickWatchdog {
		return mcu.VectorWatchdog
	}
	return mcu.VectorTimer0Compare
}

// ResolveTick reduces a requested tick rate to concrete hardware settings.
//
// For the timer source the compare count is clockHz/rateHz/1024, truncated;
// a zero count (rate too fast) or one past 256 (rate too slow) fails here,
// before anything is programmed. The achieved rate is recomputed from the
// truncated count and is what the time base really runs at, so callers
// converting ticks to wall-clock time must use it rather than the request.
//
// For the watchdog source a non-zero wdPeriodMillis names an exact menu
// period; zero derives the menu entry nearest to 1000/rateHz.
func ResolveTick(clockHz, rateHz uint32, src TickSource, wdPeriodMillis uint32, resetSafety bool) (TickPlan, error) {
	if clockHz == 0 {
		return TickPlan{}, ErrZeroClockRate
	}
	if rateHz == 0 {
		return TickPlan{}, ErrZeroTickRate
	}

	switch src {
	case TickTimer0:
		counts := clockHz / rateHz / tickPrescale.Divisor()
		if counts == 0 {
			return TickPlan{}, ErrTickTooFast
		}
		if counts > 256 {
			return TickPlan{}, ErrTickTooSlow
		}
		return TickPlan{
			Source:        TickTimer0,
			CountsPerTick: counts,
			Compare:       uint8(counts - 1),
			Prescale:      tickPrescale,
			AchievedHz:    clockHz / (tickPrescale.Divisor() * counts),
		}, nil

	case TickWatchdog:
		var sel mcu.WatchdogTimeout
		if wdPeriodMillis != 0 {
			var ok bool
			sel, ok = watchdogSelection(wdPeriodMillis)
			if !ok {
				return TickPlan{}, ErrBadWatchdogPeriod
			}
		} else {
			sel = nearestWatchdogPeriod(1000 / rateHz)
		}
		return TickPlan{
			Source:      TickWatchdog,
			Period:      sel,
			ResetSafety: resetSafety,
			AchievedHz:  1000 / sel.Millis(),
		}, nil

	default:
		return TickPlan{}, ErrUnknownTickSource
	}
}

// watchdogSelection maps an exact menu period in milliseconds to its
// selection.
func watchdogSelection(millis uint32) (mcu.WatchdogTimeout, bool) {
	for t := mcu.WDT15ms; t <= mcu.WDT8s; t++ {
		if t.Millis() == millis {
			return t, true
		}
	}
	return 0, false
}

// nearestWatchdogPeriod picks the menu entry closest to the wanted period,
// preferring the shorter one on a tie.
func nearestWatchdogPeriod(millis uint32) mcu.WatchdogTimeout {
	best := mcu.WDT15ms
	var bestDist uint32 = 1<<32 - 1
	for t := mcu.WDT15ms; t <= mcu.WDT8s; t++ {
		d := t.Millis() - millis
		if millis > t.Millis() {
			d = millis - t.Millis()
		}
		if d < bestDist {
			best, bestDist = t, d
		}
	}
	return best
}

// arm programs the plan's source and starts it counting. Callers hold
// interrupts masked across the call.
func (p TickPlan) arm(m *mcu.Machine) {
	switch p.Source {
	case TickTimer0:
		m.Timer0.Configure(mcu.Timer0Config{
			Compare:          p.Compare,
			Prescale:         p.Prescale,
			ClearOnMatch:     true,
			InterruptOnMatch: true,
		})
	case TickWatchdog:
		m.Watchdog.Configure(mcu.WatchdogConfig{
			Timeout:   p.Period,
			Interrupt: true,
			Reset:     p.ResetSafety,
		})
	}
}

// disarm silences the plan's source without touching anything else.
func (p TickPlan) disarm(m *mcu.Machine) {
	switch p.Source {
	case TickTimer0:
		m.Timer0.Stop()
	case TickWatchdog:
		m.Watchdog.Disable()
	}
}
