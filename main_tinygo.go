//go:build tinygo && baremetal

package main

import (
	"ps2kbd/app"
	"ps2kbd/hal"
)

func main() {
	app.Run(hal.New())
}
