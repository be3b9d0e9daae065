//go:build tinygo && baremetal && !picocalc

package hal

import "machine"

// Bare Pico 2 (RP2350): no LCD, PS/2 on GP2/GP3.
var board = boardConfig{
	name:     "pico2",
	uartTX:   machine.GP0,
	uartRX:   machine.GP1,
	ps2Clock: machine.GP2,
	ps2Data:  machine.GP3,
	width:    320,
	height:   320,
}
