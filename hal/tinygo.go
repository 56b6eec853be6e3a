//go:build tinygo && baremetal && (rp2040 || rp2350)

package hal

import (
	"machine"

	"tinygo.org/x/drivers/st7789"
	"tinygo.org/x/drivers/xpt2046"
)

// Panel wiring for a 240x320 ST7789 module with an XPT2046 touch controller
// on its own pins.
const (
	lcdSCK = machine.GP10
	lcdSDO = machine.GP11
	lcdDC  = machine.GP8
	lcdCS  = machine.GP9
	lcdRST = machine.GP15
	lcdBL  = machine.GP13

	tpCLK  = machine.GP2
	tpCS   = machine.GP3
	tpDIN  = machine.GP4
	tpDOUT = machine.GP5
	tpIRQ  = machine.GP6
)

type tinyGoHAL struct {
	logger    *uartLogger
	display   tinyGoDisplay
	touch     *xpt2046.Device
	backlight Backlight
	flash     Flash
	stats     Stats
}

// New returns a Pico (RP2040/RP2350) HAL implementation.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})
	logger := &uartLogger{uart: uart}

	machine.SPI1.Configure(machine.SPIConfig{
		SCK:       lcdSCK,
		SDO:       lcdSDO,
		Frequency: 40_000_000,
	})
	lcd := st7789.New(machine.SPI1, lcdRST, lcdDC, lcdCS, machine.NoPin)
	lcd.Configure(st7789.Config{
		Width:  240,
		Height: 320,
	})

	tp := xpt2046.New(tpCLK, tpCS, tpDIN, tpDOUT, tpIRQ)
	tp.Configure(&xpt2046.Config{Precision: 10})

	var bl Backlight = newPinBacklight(lcdBL)
	if pb := newPWMBacklight(lcdBL); pb != nil {
		bl = pb
	} else {
		logger.WriteLineString("backlight: no pwm, using on/off")
	}
	bl.SetLevel(100)

	return &tinyGoHAL{
		logger:    logger,
		display:   tinyGoDisplay{lcd: &lcd},
		touch:     &tp,
		backlight: bl,
		flash:     newRP2Flash(),
		stats:     newTinyGoStats(),
	}
}

func (h *tinyGoHAL) Logger() Logger       { return h.logger }
func (h *tinyGoHAL) Display() Display     { return h.display }
func (h *tinyGoHAL) Touch() TouchSensor   { return h.touch }
func (h *tinyGoHAL) Backlight() Backlight { return h.backlight }
func (h *tinyGoHAL) Flash() Flash         { return h.flash }
func (h *tinyGoHAL) Stats() Stats         { return h.stats }

type tinyGoDisplay struct {
	lcd *st7789.Device
}

func (d tinyGoDisplay) Surface() Surface { return d.lcd }
func (d tinyGoDisplay) Cells() Cells     { return nil }
