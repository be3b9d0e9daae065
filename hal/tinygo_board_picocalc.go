//go:build tinygo && baremetal && picocalc

package hal

import "machine"

// PicoCalc carrier: 320x320 ILI9488 on SPI1, PS/2 on the expansion header.
var board = boardConfig{
	name:     "picocalc",
	uartTX:   machine.GP0,
	uartRX:   machine.GP1,
	ps2Clock: machine.GP2,
	ps2Data:  machine.GP3,
	width:    320,
	height:   320,
	newPanel: func() (panel, error) {
		return newILI9488(ili9488Pins{
			sck: machine.GP10,
			sdo: machine.GP11,
			sdi: machine.GP12,
			cs:  machine.GP13,
			dc:  machine.GP14,
			rst: machine.GP15,
		})
	},
}
