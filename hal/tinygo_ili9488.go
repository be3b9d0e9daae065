//go:build tinygo && baremetal && picocalc

package hal

import (
	"errors"
	"machine"
	"time"
)

type ili9488Pins struct {
	sck, sdo, sdi machine.Pin
	cs, dc, rst   machine.Pin
}

// ILI9488 commands.
const (
	ili9488SleepOut   = 0x11
	ili9488InvertOn   = 0x21
	ili9488DisplayOn  = 0x29
	ili9488ColumnAddr = 0x2A
	ili9488PageAddr   = 0x2B
	ili9488MemWrite   = 0x2C
	ili9488MemAccess  = 0x36
	ili9488PixelFmt   = 0x3A
	ili9488FrameRate  = 0xB1
	ili9488DispFunc   = 0xB6
	ili9488Power1     = 0xC0
	ili9488Power2     = 0xC1
	ili9488VCOM       = 0xC5
)

type ili9488Step struct {
	cmd   byte
	data  []byte
	delay time.Duration
}

// ili9488Init is the PicoCalc panel bring-up: 16 bpp, 320 lines, inverted,
// mirrored with BGR order to match the carrier wiring.
var ili9488Init = []ili9488Step{
	{cmd: ili9488Power1, data: []byte{0x17, 0x15}},
	{cmd: ili9488Power2, data: []byte{0x41}},
	{cmd: ili9488VCOM, data: []byte{0x00, 0x12, 0x80, 0x40}},
	{cmd: ili9488PixelFmt, data: []byte{0x55}},
	{cmd: ili9488FrameRate, data: []byte{0xA0, 0x11}},
	{cmd: ili9488DispFunc, data: []byte{0x02, 0x22, 0x27}},
	{cmd: ili9488InvertOn},
	{cmd: ili9488MemAccess, data: []byte{0x40 | 0x04 | 0x08}},
	{cmd: ili9488SleepOut, delay: 120 * time.Millisecond},
	{cmd: ili9488DisplayOn},
}

type ili9488 struct {
	spi  *machine.SPI
	pins ili9488Pins
	tx   [4096]byte
}

func newILI9488(pins ili9488Pins) (*ili9488, error) {
	if machine.SPI1 == nil {
		return nil, errors.New("SPI1 unavailable")
	}
	if err := machine.SPI1.Configure(machine.SPIConfig{
		SCK:       pins.sck,
		SDO:       pins.sdo,
		SDI:       pins.sdi,
		Frequency: 40_000_000,
	}); err != nil {
		return nil, err
	}

	d := &ili9488{spi: machine.SPI1, pins: pins}
	for _, p := range []machine.Pin{pins.cs, pins.dc, pins.rst} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.High()
	}

	pins.rst.Low()
	time.Sleep(64 * time.Millisecond)
	pins.rst.High()
	time.Sleep(140 * time.Millisecond)

	for _, st := range ili9488Init {
		d.command(st.cmd, st.data...)
		if st.delay > 0 {
			time.Sleep(st.delay)
		}
	}
	return d, nil
}

func (d *ili9488) command(cmd byte, data ...byte) {
	d.pins.cs.Low()
	d.pins.dc.Low()
	_ = d.spi.Tx([]byte{cmd}, nil)
	d.pins.dc.High()
	if len(data) > 0 {
		_ = d.spi.Tx(data, nil)
	}
	d.pins.cs.High()
}

// blit sends a full little-endian RGB565 frame; the panel wants big-endian.
func (d *ili9488) blit(buf []byte, w, h int) error {
	n := w * h * 2
	if w <= 0 || h <= 0 || len(buf) < n {
		return errors.New("ili9488: short framebuffer")
	}
	x1, y1 := uint16(w-1), uint16(h-1)
	d.command(ili9488ColumnAddr, 0, 0, byte(x1>>8), byte(x1))
	d.command(ili9488PageAddr, 0, 0, byte(y1>>8), byte(y1))
	d.command(ili9488MemWrite)

	d.pins.cs.Low()
	d.pins.dc.High()
	for off := 0; off < n; {
		chunk := min(len(d.tx), n-off)
		for i := 0; i < chunk; i += 2 {
			d.tx[i], d.tx[i+1] = buf[off+i+1], buf[off+i]
		}
		_ = d.spi.Tx(d.tx[:chunk], nil)
		off += chunk
	}
	d.pins.cs.High()
	return nil
}
