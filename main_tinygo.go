//go:build tinygo

package main

import (
	"pocket/app"
	"pocket/hal"
)

func main() {
	app.Run(hal.New())
}
