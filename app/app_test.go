package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ember/panel"
	"ember/port"
)

// runFrames boots a system and drives it headless for a frame budget,
// returning everything the tasks printed.
func runFrames(t *testing.T, cfg Config, frames uint64) string {
	t.Helper()
	sys, err := New(cfg)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	var buf bytes.Buffer
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	err = sys.RunHeadless(ctx, panel.HeadlessConfig{Hz: 2000, Frames: frames, Output: &buf})
	if err != nil {
		t.Fatalf("RunHeadless() = %v", err)
	}
	return buf.String()
}

func TestSystemBootsAndPrints(t *testing.T) {
	out := runFrames(t, Config{ClockHz: 2_048_000, RAMBytes: 4096, TickRateHz: 1000}, 40)

	if !strings.Contains(out, "ember") {
		t.Fatalf("output missing banner: %q", out)
	}
	if !strings.Contains(out, "tick 1000 Hz (timer0)") {
		t.Fatalf("output missing tick plan: %q", out)
	}
	if !strings.Contains(out, "count 1") {
		t.Fatalf("output missing counter: %q", out)
	}
}

func TestSystemCountsSeconds(t *testing.T) {
	// 620 frames at the default cycles-per-frame covers a bit over ten
	// seconds of machine time, enough for the second counter report.
	out := runFrames(t, Config{ClockHz: 2_048_000, RAMBytes: 4096, TickRateHz: 1000}, 620)

	if !strings.Contains(out, "count 10") {
		t.Fatalf("output missing count 10: %q", out)
	}
	if !strings.Contains(out, "up 10s") {
		t.Fatalf("output missing uptime report: %q", out)
	}
}

func TestSystemCooperative(t *testing.T) {
	out := runFrames(t, Config{
		ClockHz:     2_048_000,
		RAMBytes:    4096,
		TickRateHz:  1000,
		Cooperative: true,
	}, 40)

	// Every task sleeps or yields voluntarily, so the system makes the
	// same progress without preemption.
	if !strings.Contains(out, "count 1") {
		t.Fatalf("cooperative output missing counter: %q", out)
	}
}

func TestSystemWatchdogTick(t *testing.T) {
	out := runFrames(t, Config{
		ClockHz:        2_048_000,
		RAMBytes:       4096,
		TickRateHz:     64,
		UseWatchdog:    true,
		WatchdogMillis: 15,
	}, 40)

	if !strings.Contains(out, "(watchdog)") {
		t.Fatalf("output missing watchdog plan: %q", out)
	}
	if !strings.Contains(out, "count 1") {
		t.Fatalf("output missing counter: %q", out)
	}
}

func TestNewRejectsBadTickRate(t *testing.T) {
	_, err := New(Config{ClockHz: 2_048_000, RAMBytes: 4096, TickRateHz: 3_000_000})
	if !errors.Is(err, port.ErrTickTooFast) {
		t.Fatalf("New() = %v, want ErrTickTooFast", err)
	}
}
