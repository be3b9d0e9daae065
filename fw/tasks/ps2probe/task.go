// Package ps2probe is a bring-up task that exercises the host-to-device
// direction of the PS/2 link.
package ps2probe

import (
	logclient "ps2kbd/fw/client/logger"
	"ps2kbd/fw/kernel"
	"ps2kbd/fw/ps2"
	"ps2kbd/hal"
)

const defaultPeriodTicks = 1000

// Task cycles the keyboard LEDs through all eight combinations, one step per
// period, and logs the port counters.
type Task struct {
	port        hal.PS2
	logCap      kernel.Capability
	periodTicks uint64

	leds ps2.LEDs
}

func New(port hal.PS2, logCap kernel.Capability, periodTicks uint64) *Task {
	if periodTicks == 0 {
		periodTicks = defaultPeriodTicks
	}
	return &Task{port: port, logCap: logCap, periodTicks: periodTicks}
}

func (t *Task) Run(ctx *kernel.Context) {
	if t.port == nil {
		return
	}
	if err := t.port.Write(ps2.CmdEcho); err != nil {
		logclient.Logf(ctx, t.logCap, "ps2probe: echo: %v", err)
	}

	last := ctx.NowTick()
	for {
		last = ctx.WaitTick(last + t.periodTicks - 1)
		t.step(ctx)
	}
}

func (t *Task) step(ctx *kernel.Context) {
	for _, b := range ps2.SetLEDs(t.leds) {
		if err := t.port.Write(b); err != nil {
			logclient.Logf(ctx, t.logCap, "ps2probe: write %02x: %v", b, err)
			return
		}
	}
	logclient.Logf(ctx, t.logCap, "ps2probe: leds=%03b overflows=%d", t.leds, t.port.Overflows())
	t.leds = (t.leds + 1) & 0x07
}
