package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"ember/mcu"
	"ember/port"
)

func main() {
	var clock uint
	var rate uint
	var source string
	var wdtMs uint
	var wdtReset bool
	var menu bool
	flag.UintVar(&clock, "clock", 16_000_000, "Core clock in Hz.")
	flag.UintVar(&rate, "rate", 1000, "Requested tick rate in Hz.")
	flag.StringVar(&source, "source", "timer0", "Tick source: timer0 or watchdog.")
	flag.UintVar(&wdtMs, "wdt-ms", 0, "Exact watchdog period in ms (0 = derive from rate).")
	flag.BoolVar(&wdtReset, "wdt-reset", false, "Plan with the watchdog reset backstop armed.")
	flag.BoolVar(&menu, "menu", false, "Print every achievable rate for the source and exit.")
	flag.Parse()

	var src port.TickSource
	switch source {
	case "timer0":
		src = port.TickTimer0
	case "watchdog":
		src = port.TickWatchdog
	default:
		fmt.Fprintf(os.Stderr, "error: unknown tick source %q\n", source)
		os.Exit(2)
	}

	if menu {
		printMenu(os.Stdout, uint32(clock), src)
		return
	}

	if err := run(os.Stdout, uint32(clock), uint32(rate), src, uint32(wdtMs), wdtReset); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(w io.Writer, clock, rate uint32, src port.TickSource, wdtMs uint32, wdtReset bool) error {
	plan, err := port.ResolveTick(clock, rate, src, wdtMs, wdtReset)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "clock     %d Hz\n", clock)
	fmt.Fprintf(w, "request   %d Hz\n", rate)
	fmt.Fprintf(w, "source    %s\n", plan.Source)
	switch plan.Source {
	case port.TickTimer0:
		fmt.Fprintf(w, "prescale  %s\n", plan.Prescale)
		fmt.Fprintf(w, "compare   %d (%d counts per tick)\n", plan.Compare, plan.CountsPerTick)
	case port.TickWatchdog:
		fmt.Fprintf(w, "period    %d ms (%s)\n", plan.PeriodMillis(), plan.Period)
		fmt.Fprintf(w, "backstop  %v\n", plan.ResetSafety)
	}
	if plan.AchievedHz == 0 {
		fmt.Fprintln(w, "achieved  below 1 Hz")
		return nil
	}
	fmt.Fprintf(w, "achieved  %d Hz", plan.AchievedHz)
	if plan.AchievedHz != rate {
		drift := (float64(plan.AchievedHz) - float64(rate)) / float64(rate) * 100
		fmt.Fprintf(w, " (%+.2f%%)", drift)
	}
	fmt.Fprintln(w)
	return nil
}

// printMenu lists every rate the source can actually hit at this clock,
// deduplicated where truncation makes neighboring settings collide.
func printMenu(w io.Writer, clock uint32, src port.TickSource) {
	switch src {
	case port.TickTimer0:
		div := mcu.Prescale1024.Divisor()
		last := uint32(0)
		for counts := uint32(1); counts <= 256; counts++ {
			hz := clock / (div * counts)
			if hz == last {
				continue
			}
			last = hz
			fmt.Fprintf(w, "compare %3d  %6d Hz\n", counts-1, hz)
		}
	case port.TickWatchdog:
		for t := mcu.WDT15ms; t <= mcu.WDT8s; t++ {
			hz := 1000 / t.Millis()
			if hz == 0 {
				fmt.Fprintf(w, "period %5s  below 1 Hz\n", t)
				continue
			}
			fmt.Fprintf(w, "period %5s  %6d Hz\n", t, hz)
		}
	}
}
