package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a minimal output pin abstraction.
type LED interface {
	High()
	Low()
}

var ErrNotImplemented = errors.New("not implemented")

// ErrTimeout is returned when a device does not clock a transfer in time.
var ErrTimeout = errors.New("timeout")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// PS2Error is the last error condition latched by a PS/2 port.
type PS2Error uint8

const (
	PS2ErrNone PS2Error = iota
	PS2ErrParity
	PS2ErrFraming
	PS2ErrOverflow
)

func (e PS2Error) String() string {
	switch e {
	case PS2ErrNone:
		return "none"
	case PS2ErrParity:
		return "parity"
	case PS2ErrFraming:
		return "framing"
	case PS2ErrOverflow:
		return "overflow"
	default:
		return "unknown"
	}
}

// PS2 is a PS/2 device port delivering raw protocol bytes in arrival order.
//
// Reception is buffered by the port; Read never blocks.
type PS2 interface {
	// Read drains up to len(p) buffered bytes and returns the count.
	Read(p []byte) int
	// LastError returns and clears the latched error.
	LastError() PS2Error
	// Overflows returns the number of bytes dropped because the buffer was full.
	Overflows() uint32
	// Write sends one host-to-device command byte.
	Write(cmd byte) error
}

// Input provides access to input devices (if available).
type Input interface {
	PS2() PS2
}

// Time provides a base tick stream.
//
// The tick duration is platform-defined; higher-level timers live in userland.
type Time interface {
	Ticks() <-chan uint64
}

// HAL provides the only contact point between the firmware and the outside world.
type HAL interface {
	Logger() Logger
	LED() LED
	Display() Display
	Input() Input
	Time() Time
}
