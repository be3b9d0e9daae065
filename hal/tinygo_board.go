//go:build tinygo && baremetal

package hal

import (
	"machine"
	"time"
)

// boardConfig is the wiring of one supported board.
type boardConfig struct {
	name     string
	uartTX   machine.Pin
	uartRX   machine.Pin
	ps2Clock machine.Pin
	ps2Data  machine.Pin

	width, height int
	// newPanel brings up the LCD. Nil means the board has none and the
	// framebuffer is memory only.
	newPanel func() (panel, error)
}

// panel pushes a little-endian RGB565 frame to a display.
type panel interface {
	blit(buf []byte, w, h int) error
}

type boardHAL struct {
	logger *uartLogger
	led    *pinLED
	fb     *lcdFramebuffer
	ps2    PS2
	t      *tickSource
}

// New returns the HAL of the board selected at build time.
//
// UART0 on the configured pins carries the log at 115200 8N1. PS/2 clock and
// data need 5V tolerant inputs or a level shifter.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{BaudRate: 115200, TX: board.uartTX, RX: board.uartRX})
	logger := &uartLogger{uart: uart}
	logger.WriteLineString("board: " + board.name)

	ledPin := machine.LED
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})

	fb := newLCDFramebuffer(board.width, board.height)
	if board.newPanel != nil {
		p, err := board.newPanel()
		if err != nil {
			logger.WriteLineString("lcd: " + err.Error())
		} else {
			fb.panel = p
		}
	}

	var port PS2 = nullPS2{}
	if p, err := newGPIOPS2(board.ps2Clock, board.ps2Data); err != nil {
		logger.WriteLineString("ps2: " + err.Error())
	} else {
		port = p
	}

	return &boardHAL{
		logger: logger,
		led:    &pinLED{pin: ledPin},
		fb:     fb,
		ps2:    port,
		t:      newTickSource(time.Millisecond),
	}
}

func (h *boardHAL) Logger() Logger   { return h.logger }
func (h *boardHAL) LED() LED         { return h.led }
func (h *boardHAL) Display() Display { return h }
func (h *boardHAL) Input() Input     { return h }
func (h *boardHAL) Time() Time       { return h.t }

func (h *boardHAL) Framebuffer() Framebuffer { return h.fb }
func (h *boardHAL) PS2() PS2                 { return h.ps2 }

// lcdFramebuffer is an RGB565 frame in RAM, pushed to the panel on Present.
type lcdFramebuffer struct {
	w, h  int
	buf   []byte
	panel panel
}

func newLCDFramebuffer(w, h int) *lcdFramebuffer {
	return &lcdFramebuffer{w: w, h: h, buf: make([]byte, w*h*2)}
}

func (f *lcdFramebuffer) Width() int          { return f.w }
func (f *lcdFramebuffer) Height() int         { return f.h }
func (f *lcdFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *lcdFramebuffer) StrideBytes() int    { return f.w * 2 }
func (f *lcdFramebuffer) Buffer() []byte      { return f.buf }

func (f *lcdFramebuffer) ClearRGB(r, g, b uint8) {
	pixel := rgb565(r, g, b)
	for i := 0; i+1 < len(f.buf); i += 2 {
		f.buf[i] = byte(pixel)
		f.buf[i+1] = byte(pixel >> 8)
	}
}

func (f *lcdFramebuffer) Present() error {
	if f.panel == nil {
		return ErrNotImplemented
	}
	return f.panel.blit(f.buf, f.w, f.h)
}

// tickSource delivers a sequence number every period. Ticks are dropped,
// not queued, while the consumer lags.
type tickSource struct {
	ch  chan uint64
	seq uint64
}

func newTickSource(period time.Duration) *tickSource {
	t := &tickSource{ch: make(chan uint64, 16)}
	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for range ticker.C {
			t.seq++
			select {
			case t.ch <- t.seq:
			default:
			}
		}
	}()
	return t
}

func (t *tickSource) Ticks() <-chan uint64 { return t.ch }

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	_, _ = l.uart.Write([]byte(s))
	_, _ = l.uart.Write(crlf)
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	_, _ = l.uart.Write(b)
	_, _ = l.uart.Write(crlf)
}

var crlf = []byte{'\r', '\n'}

type pinLED struct {
	pin machine.Pin
}

func (l *pinLED) High() { l.pin.High() }
func (l *pinLED) Low()  { l.pin.Low() }
