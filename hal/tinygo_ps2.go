//go:build tinygo && baremetal

package hal

import (
	"machine"
	"sync/atomic"
	"time"
)

const (
	// A device clocks 10-16.7 kHz; a gap this long means a lost edge.
	ps2BitTimeout = 2 * time.Millisecond
	// Host-to-device transfers wait up to 15 ms for the device to start
	// clocking and 2 ms per bit after that.
	ps2StartTimeout    = 15 * time.Millisecond
	ps2InhibitPeriod   = 120 * time.Microsecond
	ps2WriteBitTimeout = 2 * time.Millisecond
)

// gpioPS2 receives frames on a falling-edge interrupt of the clock line and
// bit-bangs host-to-device commands. Both lines are open collector with pull-ups.
type gpioPS2 struct {
	clk  machine.Pin
	data machine.Pin

	ring     byteRing
	rx       frameReceiver
	lastErr  atomic.Uint32
	lastEdge time.Time
}

func newGPIOPS2(clk, data machine.Pin) (*gpioPS2, error) {
	p := &gpioPS2{clk: clk, data: data}
	clk.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	data.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	if err := clk.SetInterrupt(machine.PinFalling, p.onClock); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *gpioPS2) onClock(machine.Pin) {
	now := time.Now()
	if !p.rx.idle() && now.Sub(p.lastEdge) > ps2BitTimeout {
		p.rx.reset()
	}
	p.lastEdge = now

	b, done, err := p.rx.clock(p.data.Get())
	if !done {
		return
	}
	if err != PS2ErrNone {
		p.lastErr.Store(uint32(err))
		return
	}
	if !p.ring.push(b) {
		p.lastErr.Store(uint32(PS2ErrOverflow))
	}
}

func (p *gpioPS2) Read(buf []byte) int { return p.ring.read(buf) }

func (p *gpioPS2) LastError() PS2Error {
	return PS2Error(p.lastErr.Swap(uint32(PS2ErrNone)))
}

func (p *gpioPS2) Overflows() uint32 { return p.ring.overflows.Load() }

// Write sends one command byte. The response arrives through Read.
func (p *gpioPS2) Write(cmd byte) error {
	p.clk.SetInterrupt(machine.PinFalling, nil)
	defer func() {
		p.rx.reset()
		p.clk.SetInterrupt(machine.PinFalling, p.onClock)
	}()

	// Inhibit, then request to send.
	p.drive(p.clk, false)
	time.Sleep(ps2InhibitPeriod)
	p.drive(p.data, false)
	p.drive(p.clk, true)

	if !p.wait(p.clk, false, ps2StartTimeout) {
		p.drive(p.data, true)
		return ErrTimeout
	}
	for _, level := range frameBits(cmd) {
		p.drive(p.data, level)
		if !p.wait(p.clk, true, ps2WriteBitTimeout) || !p.wait(p.clk, false, ps2WriteBitTimeout) {
			p.drive(p.data, true)
			return ErrTimeout
		}
	}
	p.drive(p.data, true)

	// Device acknowledges by pulling data low for one clock.
	if !p.wait(p.data, false, ps2WriteBitTimeout) {
		return ErrTimeout
	}
	if !p.wait(p.clk, true, ps2WriteBitTimeout) || !p.wait(p.data, true, ps2WriteBitTimeout) {
		return ErrTimeout
	}
	return nil
}

// drive pulls the line low or releases it to the pull-up.
func (p *gpioPS2) drive(pin machine.Pin, high bool) {
	if high {
		pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
		return
	}
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pin.Low()
}

func (p *gpioPS2) wait(pin machine.Pin, level bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for pin.Get() != level {
		if time.Now().After(deadline) {
			return false
		}
	}
	return true
}
