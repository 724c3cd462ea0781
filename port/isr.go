package port

import "ember/mcu"

// The two scheduler entry points. Both run as dispatched handlers whose
// first action is Save and whose last is a return, the whole switch window
// with interrupts masked; nothing of the interrupted task is touched in
// between, mirroring an entry with no compiler prologue.

// yieldEntry is the voluntary switch trap: save, pick, restore, plain
// return onto the incoming task's stack.
func (p *Port) yieldEntry(m *mcu.Machine) {
	Save(m, p.core.CurrentTCB())
	p.core.SwitchContext()
	Restore(m, p.core.CurrentTCB())
	m.Ret()
}

// tickEntry is the tick interrupt body. Preemptive, it saves the outgoing
// context, advances the time base, switches if the core asks, and returns
// into whichever task is current. Cooperative, it only advances the time
// base: no context is saved and the interrupted task resumes untouched.
//
// Before saving, the interrupted task's return path is routed through the
// reti trap: vector entry masked the interrupt enable, so the saved flags
// alone cannot re-enable it. Returning through a reti does, whichever
// switch path later restores this frame.
func (p *Port) tickEntry(m *mcu.Machine) {
	if !p.cfg.Preemptive {
		p.core.IncrementTick()
		p.bookkeep(m)
		m.Reti()
		return
	}

	m.PushReturn(p.retiAddr)
	Save(m, p.core.CurrentTCB())
	if p.core.IncrementTick() {
		p.core.SwitchContext()
	}
	p.bookkeep(m)
	Restore(m, p.core.CurrentTCB())
	m.Ret()
}

// retiEntry is the tail of the tick trap. A frame saved by tickEntry
// returns here first; the reti pops the preempted address and sets the
// interrupt enable the way interrupt exit does.
func (p *Port) retiEntry(m *mcu.Machine) {
	m.Reti()
}

// bookkeep keeps the watchdog backstop armed across ticks and runs the
// once-per-second cadence.
func (p *Port) bookkeep(m *mcu.Machine) {
	if p.plan.Source == TickWatchdog && p.plan.ResetSafety {
		// Vector entry dropped the interrupt arm; rearming also feeds.
		p.plan.arm(m)
	}

	if p.plan.AchievedHz == 0 {
		return
	}
	p.ticksLeftInSec--
	if p.ticksLeftInSec == 0 {
		p.ticksLeftInSec = p.plan.AchievedHz
		p.seconds++
		if p.cfg.OnSecond != nil {
			p.cfg.OnSecond(p.seconds)
		}
	}
}
