package ps2

import "testing"

func TestModifierFor(t *testing.T) {
	tests := []struct {
		scancode byte
		prefix   byte
		want     Modifiers
	}{
		{ScancodeCtrl, PrefixNone, CtrlLeft},
		{ScancodeCtrl, PrefixBreak, CtrlLeft},
		{ScancodeCtrl, PrefixExtended, CtrlRight},
		{ScancodeCtrl, PrefixPause, CtrlLeft},
		{ScancodeAlt, PrefixNone, AltLeft},
		{ScancodeAlt, PrefixExtended, AltRight},
		{ScancodeShiftLeft, PrefixNone, ShiftLeft},
		{ScancodeShiftLeft, PrefixExtended, ShiftLeft},
		{ScancodeShiftRight, PrefixNone, ShiftRight},
		{ScancodeShiftRight, PrefixExtended, ShiftRight},
		{0x1c, PrefixNone, 0},
		{0x1c, PrefixExtended, 0},
	}
	for _, tt := range tests {
		if got := ModifierFor(tt.scancode, tt.prefix); got != tt.want {
			t.Fatalf("ModifierFor(%#02x, %#02x) = %s, want %s", tt.scancode, tt.prefix, got, tt.want)
		}
	}
}

func TestModifiersReleaseClearIsNoop(t *testing.T) {
	m := Modifiers(0).Release(CtrlRight)
	if m != 0 {
		t.Fatalf("Release on empty mask = %s, want -", m)
	}
	m = m.Press(CtrlLeft).Press(CtrlRight).Release(CtrlLeft)
	if m != CtrlRight {
		t.Fatalf("mask = %s, want ctrl-r", m)
	}
	m = m.Release(CtrlLeft)
	if m != CtrlRight {
		t.Fatalf("second release of ctrl-l changed mask to %s", m)
	}
}

func TestModifiersString(t *testing.T) {
	if got := (ShiftLeft | AltRight).String(); got != "shift-l+alt-r" {
		t.Fatalf("String() = %q, want %q", got, "shift-l+alt-r")
	}
	if got := Modifiers(0).String(); got != "-" {
		t.Fatalf("String() = %q, want %q", got, "-")
	}
}
