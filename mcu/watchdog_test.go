package mcu

import "testing"

// newTestWatchdog runs the watchdog at 1000 cycles per second so one cycle
// is one millisecond.
func newTestWatchdog() *Watchdog {
	return &Watchdog{clockHz: 1000}
}

func TestWatchdogInterruptLatches(t *testing.T) {
	w := newTestWatchdog()
	w.Configure(WatchdogConfig{Timeout: WDT15ms, Interrupt: true})

	if w.advance(14) {
		t.Fatalf("advance() = reset before the period elapsed")
	}
	if w.Pending() {
		t.Fatalf("Pending() = true before the period elapsed, want false")
	}
	if w.advance(1) {
		t.Fatalf("advance() = reset in interrupt-only mode, want false")
	}
	if !w.Pending() {
		t.Fatalf("Pending() = false after expiry, want true")
	}

	w.acknowledge()
	if w.Pending() {
		t.Fatalf("Pending() = true after acknowledge, want false")
	}
	if !w.irqEnabled {
		t.Fatalf("interrupt-only acknowledge dropped the interrupt arm")
	}
}

func TestWatchdogInterruptOnlyNeverResets(t *testing.T) {
	w := newTestWatchdog()
	w.Configure(WatchdogConfig{Timeout: WDT15ms, Interrupt: true})

	for i := 0; i < 5; i++ {
		if w.advance(15) {
			t.Fatalf("advance() = reset on expiry %d in interrupt-only mode", i)
		}
	}
	if !w.Pending() {
		t.Fatalf("Pending() = false after repeated expiries, want true")
	}
}

func TestWatchdogResetBackstop(t *testing.T) {
	w := newTestWatchdog()
	w.Configure(WatchdogConfig{Timeout: WDT15ms, Interrupt: true, Reset: true})

	if w.advance(15) {
		t.Fatalf("advance() = reset on first expiry, want pending interrupt")
	}
	if !w.Pending() {
		t.Fatalf("Pending() = false after first expiry, want true")
	}
	if !w.advance(15) {
		t.Fatalf("advance() = false on unserviced second expiry, want reset")
	}
}

func TestWatchdogVectorEntryDropsToResetMode(t *testing.T) {
	w := newTestWatchdog()
	w.Configure(WatchdogConfig{Timeout: WDT15ms, Interrupt: true, Reset: true})

	w.advance(15)
	w.acknowledge()
	if w.irqEnabled {
		t.Fatalf("interrupt arm survived vector entry in interrupt+reset mode")
	}
	if !w.advance(15) {
		t.Fatalf("advance() = false in reset-only mode, want reset")
	}
}

func TestWatchdogResetOnly(t *testing.T) {
	w := newTestWatchdog()
	w.Configure(WatchdogConfig{Timeout: WDT15ms, Reset: true})

	if w.advance(14) {
		t.Fatalf("advance() = reset before the period elapsed")
	}
	if !w.advance(1) {
		t.Fatalf("advance() = false on expiry in reset mode, want reset")
	}
}

func TestWatchdogFeedRestartsPeriod(t *testing.T) {
	w := newTestWatchdog()
	w.Configure(WatchdogConfig{Timeout: WDT15ms, Reset: true})

	w.advance(14)
	w.Feed()
	if w.advance(14) {
		t.Fatalf("advance() = reset after Feed, want false")
	}
	if !w.advance(1) {
		t.Fatalf("advance() = false a full period after Feed, want reset")
	}
}

func TestWatchdogDisable(t *testing.T) {
	w := newTestWatchdog()
	w.Configure(WatchdogConfig{Timeout: WDT15ms, Interrupt: true})
	w.Disable()

	if w.Enabled() {
		t.Fatalf("Enabled() = true after Disable, want false")
	}
	if w.advance(1000) {
		t.Fatalf("advance() = reset after Disable, want false")
	}
	if w.Pending() {
		t.Fatalf("Pending() = true after Disable, want false")
	}
}

func TestWatchdogTimeoutMenu(t *testing.T) {
	for _, tc := range []struct {
		sel    WatchdogTimeout
		millis uint32
	}{
		{WDT15ms, 15},
		{WDT120ms, 120},
		{WDT1s, 1000},
		{WDT8s, 8000},
	} {
		if got := tc.sel.Millis(); got != tc.millis {
			t.Fatalf("Millis(%s) = %d, want %d", tc.sel, got, tc.millis)
		}
	}
	if got := WatchdogTimeout(42).Millis(); got != 0 {
		t.Fatalf("Millis(42) = %d, want 0", got)
	}
}
