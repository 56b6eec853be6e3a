package grid

import "tinygo.org/x/drivers/pixel"

// Color is the panel's native pixel format. It is comparable, which is what
// change tracking relies on.
type Color = pixel.RGB565BE

// Solarized palette.
var (
	Black = pixel.NewRGB565BE(0x00, 0x00, 0x00)

	Base03 = pixel.NewRGB565BE(0x00, 0x2b, 0x36)
	Base02 = pixel.NewRGB565BE(0x07, 0x36, 0x42)
	Base01 = pixel.NewRGB565BE(0x58, 0x6e, 0x75)
	Base00 = pixel.NewRGB565BE(0x65, 0x7b, 0x83)
	Base0  = pixel.NewRGB565BE(0x83, 0x94, 0x96)
	Base1  = pixel.NewRGB565BE(0x93, 0xa1, 0xa1)
	Base2  = pixel.NewRGB565BE(0xee, 0xe8, 0xd5)
	Base3  = pixel.NewRGB565BE(0xfd, 0xf6, 0xe3)

	Yellow  = pixel.NewRGB565BE(0xb5, 0x89, 0x00)
	Orange  = pixel.NewRGB565BE(0xcb, 0x4b, 0x16)
	Red     = pixel.NewRGB565BE(0xdc, 0x32, 0x2f)
	Magenta = pixel.NewRGB565BE(0xd3, 0x36, 0x82)
	Violet  = pixel.NewRGB565BE(0x6c, 0x71, 0xc4)
	Blue    = pixel.NewRGB565BE(0x26, 0x8b, 0xd2)
	Cyan    = pixel.NewRGB565BE(0x2a, 0xa1, 0x98)
	Green   = pixel.NewRGB565BE(0x85, 0x99, 0x00)
)
