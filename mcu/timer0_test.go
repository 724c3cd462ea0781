package mcu

import "testing"

func TestTimer0ClearOnMatchPeriod(t *testing.T) {
	var tm Timer0
	tm.Configure(Timer0Config{Compare: 14, Prescale: Prescale1, ClearOnMatch: true})

	// Counting up from zero, the first match lands on the compare value
	// itself, every later one a full wrap apart.
	tm.advance(13)
	if tm.MatchFlag() {
		t.Fatalf("MatchFlag() = true after 13 counts, want false")
	}
	tm.advance(1)
	if !tm.MatchFlag() {
		t.Fatalf("MatchFlag() = false after 14 counts, want true")
	}

	tm.acknowledge()
	tm.advance(14)
	if tm.MatchFlag() {
		t.Fatalf("MatchFlag() = true one count early, want false")
	}
	tm.advance(1)
	if !tm.MatchFlag() {
		t.Fatalf("MatchFlag() = false after a full period, want true")
	}
	if tm.Count() != 14 {
		t.Fatalf("Count() = %d at match, want 14", tm.Count())
	}
}

func TestTimer0PrescaleDividesCycles(t *testing.T) {
	var tm Timer0
	tm.Configure(Timer0Config{Compare: 0, Prescale: Prescale1024, ClearOnMatch: true})

	tm.advance(1000)
	if tm.MatchFlag() {
		t.Fatalf("MatchFlag() = true before one prescaled count, want false")
	}
	tm.advance(24)
	if !tm.MatchFlag() {
		t.Fatalf("MatchFlag() = false after 1024 cycles, want true")
	}
}

func TestTimer0FractionAccumulates(t *testing.T) {
	var tm Timer0
	tm.Configure(Timer0Config{Compare: 1, Prescale: Prescale8, ClearOnMatch: true})

	for i := 0; i < 7; i++ {
		tm.advance(1)
	}
	if tm.Count() != 0 {
		t.Fatalf("Count() = %d after 7 cycles, want 0", tm.Count())
	}
	tm.advance(1)
	if tm.Count() != 1 {
		t.Fatalf("Count() = %d after 8 cycles, want 1", tm.Count())
	}
}

func TestTimer0Stop(t *testing.T) {
	var tm Timer0
	tm.Configure(Timer0Config{Compare: 3, Prescale: Prescale1, ClearOnMatch: true, InterruptOnMatch: true})
	tm.Stop()

	tm.advance(100)
	if tm.Count() != 0 || tm.MatchFlag() {
		t.Fatalf("stopped timer advanced: count=%d flag=%v", tm.Count(), tm.MatchFlag())
	}
	if tm.Running() {
		t.Fatalf("Running() = true after Stop, want false")
	}
}

func TestTimer0FreeRunWraps(t *testing.T) {
	var tm Timer0
	tm.Configure(Timer0Config{Compare: 200, Prescale: Prescale1})

	tm.advance(256)
	if tm.Count() != 0 {
		t.Fatalf("Count() = %d after 256 counts, want 0", tm.Count())
	}
	if !tm.MatchFlag() {
		t.Fatalf("MatchFlag() = false after passing the compare value, want true")
	}
}
