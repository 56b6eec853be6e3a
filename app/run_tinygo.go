//go:build tinygo

package app

import (
	"time"

	"pocket/hal"
	"pocket/pocketos/config"
)

// Run boots with the default configuration and loops forever. Any error or
// panic puts the fault screen up and halts.
func Run(h hal.HAL) {
	defer func() {
		if v := recover(); v != nil {
			Fault(h, describePanic(v))
			select {}
		}
	}()

	sys, err := New(h, config.Default())
	if err != nil {
		Fault(h, err)
		select {}
	}
	for {
		delay, err := sys.Step()
		if err != nil {
			Fault(h, err)
			select {}
		}
		time.Sleep(delay)
	}
}
