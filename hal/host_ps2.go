//go:build !tinygo

package hal

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Keyboard command bytes understood by the host port.
const (
	ps2CmdSetLEDs byte = 0xED
	ps2CmdEcho    byte = 0xEE
	ps2CmdReset   byte = 0xFF

	ps2RespAck   byte = 0xFA
	ps2RespEcho  byte = 0xEE
	ps2RespBATOK byte = 0xAA
)

// hostPS2 is a software PS/2 port. Bytes arrive through Inject (scripted input
// or the window keyboard encoder) and leave through Read.
type hostPS2 struct {
	ring    byteRing
	lastErr atomic.Uint32

	mu           sync.Mutex
	logger       Logger
	leds         byte
	expectingLED bool
}

func newHostPS2(logger Logger) *hostPS2 {
	return &hostPS2{logger: logger}
}

func (p *hostPS2) Read(buf []byte) int { return p.ring.read(buf) }

func (p *hostPS2) LastError() PS2Error {
	return PS2Error(p.lastErr.Swap(uint32(PS2ErrNone)))
}

func (p *hostPS2) Overflows() uint32 { return p.ring.overflows.Load() }

// Inject queues device-to-host bytes. Bytes that do not fit are dropped and
// latch PS2ErrOverflow.
func (p *hostPS2) Inject(b []byte) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inject(b)
}

// inject pushes b into the ring. The ring has a single producer, so callers
// hold p.mu.
func (p *hostPS2) inject(b []byte) int {
	n := 0
	for _, c := range b {
		if !p.ring.push(c) {
			p.lastErr.Store(uint32(PS2ErrOverflow))
			continue
		}
		n++
	}
	return n
}

// Write emulates the keyboard side of host-to-device commands.
func (p *hostPS2) Write(cmd byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.expectingLED {
		p.expectingLED = false
		p.leds = cmd & 0x07
		p.inject([]byte{ps2RespAck})
		if p.logger != nil {
			p.logger.WriteLineString(fmt.Sprintf("ps2: leds=%03b", p.leds))
		}
		return nil
	}

	switch cmd {
	case ps2CmdSetLEDs:
		p.expectingLED = true
		p.inject([]byte{ps2RespAck})
	case ps2CmdEcho:
		p.inject([]byte{ps2RespEcho})
	case ps2CmdReset:
		p.leds = 0
		p.inject([]byte{ps2RespAck, ps2RespBATOK})
	default:
		p.inject([]byte{ps2RespAck})
	}
	return nil
}

// LEDs returns the last LED state set by the host.
func (p *hostPS2) LEDs() byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.leds
}
