//go:build !tinygo

package hal

import (
	"context"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Host HostConfig

	// Frames stops the runner after that many steps. Zero runs until ctx is
	// done.
	Frames uint64
}

// RunHeadless runs the program against an offscreen framebuffer.
func RunHeadless(ctx context.Context, cfg HeadlessConfig, newProgram ProgramFunc) error {
	h, err := newHost(cfg.Host, nil)
	if err != nil {
		return err
	}
	s, err := startProgram(h, newProgram)
	if err != nil {
		return shutdown(nil, h, err)
	}
	return shutdown(s, h, runHeadless(ctx, s, cfg.Frames))
}

func runHeadless(ctx context.Context, s *stepper, frames uint64) error {
	t := time.NewTimer(0)
	defer t.Stop()

	var n uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-t.C:
			if err := s.step(now); err != nil {
				return err
			}
			n++
			if frames > 0 && n >= frames {
				return nil
			}
			t.Reset(s.wait(time.Now()))
		}
	}
}
