package app

import (
	"fmt"
	"sync/atomic"

	"ps2kbd/fw/kernel"
	"ps2kbd/fw/services/logger"
	"ps2kbd/fw/services/ps2kbd"
	"ps2kbd/fw/services/term"
	"ps2kbd/fw/tasks/keyecho"
	"ps2kbd/fw/tasks/ps2probe"
	"ps2kbd/hal"
)

type system struct {
	k *kernel.Kernel
	// panicked is set once a task panic has been logged and drawn.
	panicked atomic.Pointer[kernel.PanicInfo]
}

// step is the host frame callback. Tasks run on their own goroutines, so
// it only surfaces a task panic to the runner.
func (s *system) step() error {
	if info := s.panicked.Load(); info != nil {
		return fmt.Errorf("firmware stopped: %s", info)
	}
	return nil
}

type Config struct {
	// PollTicks is the keyboard poll period in ticks (0 = service default).
	PollTicks uint64
	// Hold publishes the held key set instead of draining it every poll.
	Hold bool
	// Debug logs scancodes that have no key code.
	Debug bool
	// Probe runs the LED cycling bring-up task.
	Probe bool
}

// New initializes and starts the firmware with default config.
func New(h hal.HAL) func() error {
	return NewWithConfig(h, Config{})
}

// Run starts the firmware and blocks forever (TinyGo/native entrypoint).
func Run(h hal.HAL) {
	RunWithConfig(h, Config{})
}

func NewWithConfig(h hal.HAL, cfg Config) func() error {
	return newSystem(h, cfg).step
}

func RunWithConfig(h hal.HAL, cfg Config) {
	_ = NewWithConfig(h, cfg)
	select {}
}

func newSystem(h hal.HAL, cfg Config) *system {
	k := kernel.New()
	s := &system{k: k}
	installPanicHandler(h, &s.panicked)

	logEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	termEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	keysEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)

	logSend := logEP.Restrict(kernel.RightSend)

	k.AddTask(logger.New(h.Logger(), logEP.Restrict(kernel.RightRecv)))
	k.AddTask(term.New(h.Display(), termEP.Restrict(kernel.RightRecv)))

	var port hal.PS2
	if in := h.Input(); in != nil {
		port = in.PS2()
	}

	mode := ps2kbd.ModeDrain
	if cfg.Hold {
		mode = ps2kbd.ModeHold
	}
	k.AddTask(ps2kbd.New(port, keysEP.Restrict(kernel.RightSend), logSend, ps2kbd.Config{
		PollTicks: cfg.PollTicks,
		Mode:      mode,
		Debug:     cfg.Debug,
		LED:       h.LED(),
	}))
	k.AddTask(keyecho.New(keysEP, termEP.Restrict(kernel.RightSend), logSend, cfg.Hold))

	if cfg.Probe {
		k.AddTask(ps2probe.New(port, logSend, 0))
	}

	if ht := h.Time(); ht != nil {
		if ch := ht.Ticks(); ch != nil {
			go func() {
				for seq := range ch {
					k.TickTo(seq)
				}
			}()
		}
	}

	return s
}
