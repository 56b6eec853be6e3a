//go:build !tinygo

package hal

import (
	"errors"
	"fmt"
	"time"
)

// ProgramFunc builds the program a runner drives on a freshly built HAL.
type ProgramFunc func(HAL) (Program, error)

// stepper paces a Program by the delay each step returns.
type stepper struct {
	prog Program
	next time.Time
}

// due reports whether the next frame should run at now.
func (s *stepper) due(now time.Time) bool { return !now.Before(s.next) }

func (s *stepper) step(now time.Time) error {
	delay, err := s.prog.Step()
	if err != nil {
		return err
	}
	s.next = now.Add(delay)
	return nil
}

// wait is how long until the next frame is due.
func (s *stepper) wait(now time.Time) time.Duration {
	if d := s.next.Sub(now); d > 0 {
		return d
	}
	return 0
}

func startProgram(h *hostHAL, newProgram ProgramFunc) (*stepper, error) {
	if newProgram == nil {
		return nil, errors.New("no program")
	}
	prog, err := newProgram(h)
	if err != nil {
		return nil, fmt.Errorf("start program: %w", err)
	}
	return &stepper{prog: prog}, nil
}

// shutdown closes the program and then the HAL, keeping the first error.
func shutdown(s *stepper, h *hostHAL, err error) error {
	if s != nil {
		if cerr := s.prog.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if cerr := h.close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
