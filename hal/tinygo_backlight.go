//go:build tinygo && baremetal && (rp2040 || rp2350)

package hal

import "machine"

type pwmDevice interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
	Enable(enable bool)
}

// pwmBacklight dims the panel by duty cycle.
type pwmBacklight struct {
	pwm pwmDevice
	ch  uint8
	top uint32
}

// newPWMBacklight returns nil when the pin has no usable PWM slice.
func newPWMBacklight(pin machine.Pin) *pwmBacklight {
	pwm := pwmForPin(pin)
	if pwm == nil {
		return nil
	}
	const carrierHz = 1000
	if err := pwm.Configure(machine.PWMConfig{Period: 1e9 / carrierHz}); err != nil {
		return nil
	}
	ch, err := pwm.Channel(pin)
	if err != nil {
		return nil
	}
	pwm.Enable(true)
	return &pwmBacklight{pwm: pwm, ch: ch, top: pwm.Top()}
}

func pwmForPin(pin machine.Pin) pwmDevice {
	slice, err := machine.PWMPeripheral(pin)
	if err != nil {
		return nil
	}
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	case 7:
		return machine.PWM7
	default:
		return nil
	}
}

func (b *pwmBacklight) SetLevel(level uint8) {
	if level > 100 {
		level = 100
	}
	b.pwm.Set(b.ch, b.top*uint32(level)/100)
}

// pinBacklight is on for any non-zero level.
type pinBacklight struct {
	pin machine.Pin
}

func newPinBacklight(pin machine.Pin) *pinBacklight {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &pinBacklight{pin: pin}
}

func (b *pinBacklight) SetLevel(level uint8) { b.pin.Set(level > 0) }
