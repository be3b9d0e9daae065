// Package ps2kbd polls a PS/2 port, runs the bytes through the keyboard
// pipeline and publishes the pressed keys as MsgKeys.
package ps2kbd

import (
	"slices"
	"strconv"

	logclient "ps2kbd/fw/client/logger"
	"ps2kbd/fw/kernel"
	"ps2kbd/fw/proto"
	"ps2kbd/fw/ps2"
	"ps2kbd/hal"
)

const (
	defaultPollTicks = 10
	readChunk        = 128
	publishRetry     = 2
)

// Mode selects how pressed keys are published.
type Mode uint8

const (
	// ModeDrain publishes and clears the pressed set every poll, so every
	// press is consumed exactly once.
	ModeDrain Mode = iota
	// ModeHold publishes the held keys whenever they change.
	ModeHold
)

func (m Mode) String() string {
	switch m {
	case ModeDrain:
		return "drain"
	case ModeHold:
		return "hold"
	default:
		return "unknown"
	}
}

type Config struct {
	PollTicks uint64
	Mode      Mode
	// Debug logs events whose scancode has no key code.
	Debug bool
	// LED, if set, is lit while keys or modifiers are down.
	LED hal.LED
}

type Service struct {
	port    hal.PS2
	keysCap kernel.Capability
	logCap  kernel.Capability
	cfg     Config
	// reply receives MsgError from the consumer. Its send half travels
	// with every MsgKeys.
	reply kernel.Capability

	kbd       ps2.Keyboard
	buf       [readChunk]byte
	keys      []ps2.KeyCode
	last      []ps2.KeyCode
	lastMods  ps2.Modifiers
	overflows uint32
	ledOn     bool
}

func New(port hal.PS2, keysCap, logCap kernel.Capability, cfg Config) *Service {
	if cfg.PollTicks == 0 {
		cfg.PollTicks = defaultPollTicks
	}
	return &Service{
		port:    port,
		keysCap: keysCap,
		logCap:  logCap,
		cfg:     cfg,
		keys:    make([]ps2.KeyCode, 0, ps2.MaxPressedKeys),
		last:    make([]ps2.KeyCode, 0, ps2.MaxPressedKeys),
	}
}

func (s *Service) Run(ctx *kernel.Context) {
	if s.port == nil {
		return
	}
	if s.cfg.Debug {
		s.kbd.OnUnmapped = func(ev ps2.Event) {
			logclient.Logf(ctx, s.logCap, "ps2: unmapped %s mods=%s", ev, s.kbd.Modifiers())
		}
	}
	s.reply = ctx.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	logclient.Logf(ctx, s.logCap, "ps2: polling every %d ticks, mode=%s", s.cfg.PollTicks, s.cfg.Mode)

	next := ctx.NowTick()
	for {
		next += s.cfg.PollTicks
		if now := ctx.TickTo(next); now > next {
			// Skip missed polls instead of bursting.
			next = now
		}
		s.poll(ctx)
	}
}

func (s *Service) poll(ctx *kernel.Context) {
	s.checkPort(ctx)
	s.checkReplies(ctx)

	if n := s.port.Read(s.buf[:]); n > 0 {
		s.kbd.Write(s.buf[:n])
	}

	mods := s.kbd.Modifiers()
	s.setLED(s.kbd.Len() > 0 || mods != 0)
	switch s.cfg.Mode {
	case ModeHold:
		s.keys = s.kbd.AppendSnapshot(s.keys[:0])
		if mods == s.lastMods && slices.Equal(s.keys, s.last) {
			return
		}
		s.last = append(s.last[:0], s.keys...)
	default:
		s.keys = s.kbd.AppendSnapshotAndClear(s.keys[:0])
		if len(s.keys) == 0 && mods == s.lastMods {
			return
		}
	}
	s.lastMods = mods

	payload := proto.KeysPayload(mods, s.keys)
	if res := ctx.SendToCapRetry(s.keysCap, uint16(proto.MsgKeys), payload, s.reply.Restrict(kernel.RightSend), publishRetry); res != kernel.SendOK {
		logclient.Logf(ctx, s.logCap, "ps2: publish %d keys: %s", len(s.keys), res)
	}
}

// checkReplies logs errors the consumer sent back without blocking the poll.
func (s *Service) checkReplies(ctx *kernel.Context) {
	for {
		msg, ok := ctx.TryRecv(s.reply)
		if !ok {
			return
		}
		if proto.Kind(msg.Kind) != proto.MsgError {
			continue
		}
		code, ref, detail, ok := proto.DecodeErrorPayload(msg.Payload())
		if !ok {
			continue
		}
		logclient.Logf(ctx, s.logCap, "ps2: consumer rejected %s: %s %s", ref, code, detail)
	}
}

// checkPort reports channel errors to the log and, as MsgError, to the key
// consumer. The decoder keeps its state.
func (s *Service) checkPort(ctx *kernel.Context) {
	if err := s.port.LastError(); err != hal.PS2ErrNone {
		logclient.Logf(ctx, s.logCap, "ps2: %s error", err)
		// An overflow also moves the counter below, which reports it.
		if err != hal.PS2ErrOverflow {
			s.reportError(ctx, proto.ErrDevice, err.String())
		}
	}
	if n := s.port.Overflows(); n != s.overflows {
		dropped := n - s.overflows
		s.overflows = n
		logclient.Logf(ctx, s.logCap, "ps2: overflow, %d bytes dropped", dropped)
		s.reportError(ctx, proto.ErrOverflow, strconv.FormatUint(uint64(dropped), 10))
	}
}

func (s *Service) reportError(ctx *kernel.Context, code proto.ErrCode, detail string) {
	payload := proto.ErrorPayload(code, proto.MsgKeys, []byte(detail))
	_ = ctx.SendToCapResult(s.keysCap, uint16(proto.MsgError), payload, kernel.Capability{})
}

func (s *Service) setLED(on bool) {
	if s.cfg.LED == nil || on == s.ledOn {
		return
	}
	s.ledOn = on
	if on {
		s.cfg.LED.High()
	} else {
		s.cfg.LED.Low()
	}
}
