//go:build !tinygo

package hal

import (
	"io"
	"os"
	"sync"
)

type hostHAL struct {
	logger *hostLogger
	led    *hostLED
	fb     *hostFramebuffer
	ps2    *hostPS2
	kbd    *hostKeyboard
	t      *hostTime
}

// New returns a host HAL implementation.
func New() HAL {
	return newHostHAL()
}

func newHostHAL() *hostHAL {
	logger := &hostLogger{w: os.Stdout}
	port := newHostPS2(logger)
	return &hostHAL{
		logger: logger,
		led:    &hostLED{logger: logger},
		fb:     newHostFramebuffer(320, 320),
		ps2:    port,
		kbd:    newHostKeyboard(port),
		t:      newHostTime(),
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) LED() LED         { return h.led }
func (h *hostHAL) Display() Display { return h }
func (h *hostHAL) Input() Input     { return h }
func (h *hostHAL) Time() Time       { return h.t }

func (h *hostHAL) Framebuffer() Framebuffer { return h.fb }
func (h *hostHAL) PS2() PS2                 { return h.ps2 }

// hostLogger writes each line with a single Write so concurrent lines never
// interleave.
type hostLogger struct {
	mu   sync.Mutex
	w    io.Writer
	line []byte
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.line = append(append(l.line[:0], s...), '\n')
	_, _ = l.w.Write(l.line)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.line = append(append(l.line[:0], b...), '\n')
	_, _ = l.w.Write(l.line)
}

// hostLED logs level changes.
type hostLED struct {
	mu     sync.Mutex
	on     bool
	logger *hostLogger
}

func (l *hostLED) High() { l.set(true) }
func (l *hostLED) Low()  { l.set(false) }

func (l *hostLED) set(on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if on == l.on {
		return
	}
	l.on = on
	if on {
		l.logger.WriteLineString("led: on")
	} else {
		l.logger.WriteLineString("led: off")
	}
}
