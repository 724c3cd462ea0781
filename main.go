package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"ember/app"
	"ember/internal/buildinfo"
	"ember/panel"
)

func main() {
	var (
		cfg      app.Config
		headless panel.HeadlessConfig
		runHead  bool
		clock    uint
		rate     uint
		wdtMs    uint
		source   string
		version  bool
	)
	flag.BoolVar(&runHead, "headless", false, "Run without a window.")
	flag.IntVar(&headless.Hz, "hz", 60, "Frame rate in headless mode.")
	flag.Uint64Var(&headless.Frames, "frames", 0, "Stop after N frames in headless mode (0 = run forever).")
	flag.UintVar(&clock, "clock", 16_000_000, "Core clock in Hz.")
	flag.UintVar(&rate, "rate", 1000, "Requested tick rate in Hz.")
	flag.StringVar(&source, "source", "timer0", "Tick source: timer0 or watchdog.")
	flag.UintVar(&wdtMs, "wdt-ms", 0, "Exact watchdog period in ms (0 = derive from rate).")
	flag.BoolVar(&cfg.WatchdogResetSafety, "wdt-reset", false, "Arm the watchdog reset backstop.")
	flag.BoolVar(&cfg.Cooperative, "coop", false, "Cooperative scheduling: the tick only keeps time.")
	flag.BoolVar(&version, "version", false, "Print version and exit.")
	flag.Parse()

	if version {
		fmt.Println("ember", buildinfo.Short())
		return
	}

	cfg.ClockHz = uint32(clock)
	cfg.TickRateHz = uint32(rate)
	cfg.WatchdogMillis = uint32(wdtMs)
	switch source {
	case "timer0":
	case "watchdog":
		cfg.UseWatchdog = true
	default:
		fmt.Fprintf(os.Stderr, "unknown tick source %q\n", source)
		os.Exit(2)
	}

	sys, err := app.New(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if runHead {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		headless.Output = os.Stdout
		if err := sys.RunHeadless(ctx, headless); err != nil {
			if err == context.Canceled {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := sys.RunWindow(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
