package panel

import (
	"context"
	"fmt"
	"io"
	"time"
)

// HeadlessConfig controls the no-window runner.
type HeadlessConfig struct {
	Hz     int
	Frames uint64
	Output io.Writer
}

// RunHeadless drives the machine at the configured frame rate without a
// window, teeing the UART stream to the configured writer. It stops on
// context cancel, after the frame budget, or when the machine halts.
func (pn *Panel) RunHeadless(ctx context.Context, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("panel: invalid headless hz: %d", cfg.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	var frames uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			out, err := pn.stepFrame()
			if cfg.Output != nil && len(out) > 0 {
				cfg.Output.Write(out)
			}
			if err != nil {
				return err
			}
			pn.refreshStatus()
			frames++
			if cfg.Frames > 0 && frames >= cfg.Frames {
				return nil
			}
		}
	}
}
