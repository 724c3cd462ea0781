package mcu

// Prescale selects the clock divider feeding Timer0.
type Prescale uint8

const (
	PrescaleOff Prescale = iota
	Prescale1
	Prescale8
	Prescale64
	Prescale256
	Prescale1024
)

// Divisor is the cycle count per timer count, or 0 when the timer is off.
func (p Prescale) Divisor() uint32 {
	switch p {
	case Prescale1:
		return 1
	case Prescale8:
		return 8
	case Prescale64:
		return 64
	case Prescale256:
		return 256
	case Prescale1024:
		return 1024
	default:
		return 0
	}
}

func (p Prescale) String() string {
	switch p {
	case PrescaleOff:
		return "off"
	case Prescale1:
		return "/1"
	case Prescale8:
		return "/8"
	case Prescale64:
		return "/64"
	case Prescale256:
		return "/256"
	case Prescale1024:
		return "/1024"
	default:
		return "unknown"
	}
}

// Timer0Config programs the 8-bit timer in one write.
type Timer0Config struct {
	Compare          uint8
	Prescale         Prescale
	ClearOnMatch     bool
	InterruptOnMatch bool
}

// Timer0 is an 8-bit counter with a single compare channel. In
// clear-on-match mode the steady period is Compare+1 prescaled counts; the
// first match after Configure arrives one count earlier because the counter
// starts from zero.
type Timer0 struct {
	count      uint16
	compare    uint8
	prescale   Prescale
	ctc        bool
	irqEnabled bool
	matchFlag  bool
	frac       uint32
}

// Configure programs the timer and restarts the counter.
func (t *Timer0) Configure(cfg Timer0Config) {
	t.compare = cfg.Compare
	t.prescale = cfg.Prescale
	t.ctc = cfg.ClearOnMatch
	t.irqEnabled = cfg.InterruptOnMatch
	t.count = 0
	t.frac = 0
	t.matchFlag = false
}

// Stop halts the counter and masks its interrupt. The compare value and
// pending flag are left alone.
func (t *Timer0) Stop() {
	t.prescale = PrescaleOff
	t.irqEnabled = false
}

// Count reads the current counter value.
func (t *Timer0) Count() uint8 { return uint8(t.count) }

// MatchFlag reports whether a compare match is latched.
func (t *Timer0) MatchFlag() bool { return t.matchFlag }

// Running reports whether the counter is being clocked.
func (t *Timer0) Running() bool { return t.prescale.Divisor() != 0 }

func (t *Timer0) advance(cycles uint32) {
	div := t.prescale.Divisor()
	if div == 0 {
		return
	}
	t.frac += cycles
	for steps := t.frac / div; steps > 0; steps-- {
		t.tick()
	}
	t.frac %= div
}

func (t *Timer0) tick() {
	if t.ctc && t.count == uint16(t.compare) {
		t.count = 0
	} else {
		t.count++
		if t.count > 0xff {
			t.count = 0
		}
	}
	if t.count == uint16(t.compare) {
		t.matchFlag = true
	}
}

func (t *Timer0) interruptPending() bool { return t.irqEnabled && t.matchFlag }

func (t *Timer0) acknowledge() { t.matchFlag = false }

func (t *Timer0) reset() { *t = Timer0{} }
