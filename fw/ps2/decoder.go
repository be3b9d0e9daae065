package ps2

import "fmt"

// Protocol prefix bytes.
const (
	PrefixNone     byte = 0x00
	PrefixBreak    byte = 0xF0
	PrefixExtended byte = 0xE0
	PrefixPause    byte = 0xE1
)

// State is the byte-stream decoder state.
type State uint8

const (
	StateIdle State = iota
	StateBreakF0
	StateBreakE0
	StateBreakE1
	StateGotE0
	StateGotE1
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBreakF0:
		return "break_f0"
	case StateBreakE0:
		return "break_e0"
	case StateBreakE1:
		return "break_e1"
	case StateGotE0:
		return "got_e0"
	case StateGotE1:
		return "got_e1"
	default:
		return "unknown"
	}
}

// Event is a decoded MAKE (press) or BREAK (release) of one scancode.
//
// Prefix is the byte that qualified the scancode: PrefixNone for a plain MAKE,
// PrefixBreak for a plain BREAK, PrefixExtended / PrefixPause for extended keys.
type Event struct {
	Scancode byte
	Prefix   byte
	Release  bool
}

func (e Event) String() string {
	kind := "press"
	if e.Release {
		kind = "release"
	}
	if e.Prefix == PrefixNone {
		return fmt.Sprintf("%s %02x", kind, e.Scancode)
	}
	return fmt.Sprintf("%s %02x %02x", kind, e.Prefix, e.Scancode)
}

// Decoder recognizes MAKE/BREAK framing and extended prefixes in a raw PS/2
// byte stream. The zero value is ready to use. State persists across calls,
// so a sequence may be split across any number of chunks.
type Decoder struct {
	state State
}

// State returns the current protocol state.
func (d *Decoder) State() State { return d.state }

// Reset returns the decoder to StateIdle.
func (d *Decoder) Reset() { d.state = StateIdle }

// Feed consumes one byte and returns an event if the byte completed one.
func (d *Decoder) Feed(b byte) (Event, bool) {
	switch d.state {
	case StateIdle:
		switch b {
		case PrefixBreak:
			d.state = StateBreakF0
		case PrefixExtended:
			d.state = StateGotE0
		case PrefixPause:
			d.state = StateGotE1
		default:
			return Event{Scancode: b, Prefix: PrefixNone}, true
		}
		return Event{}, false

	case StateGotE0, StateGotE1:
		prefix := PrefixExtended
		breakState := StateBreakE0
		if d.state == StateGotE1 {
			prefix = PrefixPause
			breakState = StateBreakE1
		}
		if b == PrefixBreak {
			d.state = breakState
			return Event{}, false
		}
		d.state = StateIdle
		return Event{Scancode: b, Prefix: prefix}, true

	case StateBreakF0:
		d.state = StateIdle
		return Event{Scancode: b, Prefix: PrefixBreak, Release: true}, true
	case StateBreakE0:
		d.state = StateIdle
		return Event{Scancode: b, Prefix: PrefixExtended, Release: true}, true
	case StateBreakE1:
		d.state = StateIdle
		return Event{Scancode: b, Prefix: PrefixPause, Release: true}, true
	}

	d.state = StateIdle
	return Event{}, false
}
