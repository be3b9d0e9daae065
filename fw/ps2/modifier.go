package ps2

import "strings"

// Modifiers is a bitmask of currently held modifier keys.
type Modifiers uint8

const (
	ShiftLeft Modifiers = 1 << iota
	ShiftRight
	CtrlLeft
	CtrlRight
	AltLeft
	AltRight
)

const (
	Shift = ShiftLeft | ShiftRight
	Ctrl  = CtrlLeft | CtrlRight
	Alt   = AltLeft | AltRight

	// AltGr selects the third symbol layer.
	AltGr = AltRight
)

// Modifier scancodes (set 2).
const (
	ScancodeCtrl       byte = 0x14
	ScancodeAlt        byte = 0x11
	ScancodeShiftLeft  byte = 0x12
	ScancodeShiftRight byte = 0x59
)

// ModifierFor returns the modifier bit produced by scancode, or 0 if the
// scancode is not a modifier. Ctrl and Alt are right-hand variants only when
// preceded by the 0xE0 prefix.
func ModifierFor(scancode, prefix byte) Modifiers {
	switch scancode {
	case ScancodeAlt:
		if prefix == PrefixExtended {
			return AltRight
		}
		return AltLeft
	case ScancodeCtrl:
		if prefix == PrefixExtended {
			return CtrlRight
		}
		return CtrlLeft
	case ScancodeShiftLeft:
		return ShiftLeft
	case ScancodeShiftRight:
		return ShiftRight
	}
	return 0
}

// Press returns m with bit set.
func (m Modifiers) Press(bit Modifiers) Modifiers { return m | bit }

// Release returns m with bit cleared. Clearing a clear bit is a no-op.
func (m Modifiers) Release(bit Modifiers) Modifiers { return m &^ bit }

// Has reports whether any bit of mask is held.
func (m Modifiers) Has(mask Modifiers) bool { return m&mask != 0 }

var modifierNames = [...]string{"shift-l", "shift-r", "ctrl-l", "ctrl-r", "alt-l", "alt-r"}

func (m Modifiers) String() string {
	if m == 0 {
		return "-"
	}
	var parts []string
	for i, name := range modifierNames {
		if m&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "+")
}
