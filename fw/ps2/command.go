package ps2

// Host to device commands.
const (
	CmdSetLEDs     byte = 0xED
	CmdEcho        byte = 0xEE
	CmdScancodeSet byte = 0xF0
	CmdIdentify    byte = 0xF2
	CmdEnable      byte = 0xF4
	CmdDisable     byte = 0xF5
	CmdResend      byte = 0xFE
	CmdReset       byte = 0xFF
)

// Device responses.
const (
	RespBATOK  byte = 0xAA
	RespEcho   byte = 0xEE
	RespAck    byte = 0xFA
	RespError  byte = 0xFC
	RespResend byte = 0xFE
)

// LEDs is the argument of CmdSetLEDs.
type LEDs uint8

const (
	LEDScrollLock LEDs = 1 << iota
	LEDNumLock
	LEDCapsLock

	ledMask = LEDScrollLock | LEDNumLock | LEDCapsLock
)

// SetLEDs returns the command sequence that sets the keyboard LEDs.
func SetLEDs(leds LEDs) []byte {
	return []byte{CmdSetLEDs, byte(leds & ledMask)}
}

// AppendMake appends the MAKE sequence for scancode.
func AppendMake(dst []byte, scancode byte, extended bool) []byte {
	if extended {
		dst = append(dst, PrefixExtended)
	}
	return append(dst, scancode)
}

// AppendBreak appends the BREAK sequence for scancode.
func AppendBreak(dst []byte, scancode byte, extended bool) []byte {
	if extended {
		dst = append(dst, PrefixExtended)
	}
	return append(dst, PrefixBreak, scancode)
}

// AppendPress appends the bytes that press code: MAKE of the required
// modifier, then MAKE of the key itself.
func AppendPress(dst []byte, code KeyCode) ([]byte, bool) {
	sc, mods, ok := Lookup(code)
	if !ok {
		return dst, false
	}
	switch {
	case mods.Has(AltGr):
		dst = AppendMake(dst, ScancodeAlt, true)
	case mods.Has(Shift):
		dst = AppendMake(dst, ScancodeShiftLeft, false)
	}
	return AppendMake(dst, sc, false), true
}

// AppendRelease appends the bytes that release code, in reverse press order.
func AppendRelease(dst []byte, code KeyCode) ([]byte, bool) {
	sc, mods, ok := Lookup(code)
	if !ok {
		return dst, false
	}
	dst = AppendBreak(dst, sc, false)
	switch {
	case mods.Has(AltGr):
		dst = AppendBreak(dst, ScancodeAlt, true)
	case mods.Has(Shift):
		dst = AppendBreak(dst, ScancodeShiftLeft, false)
	}
	return dst, true
}

// AppendKey appends the byte sequence that types code: the required
// modifiers are pressed around a MAKE/BREAK of the key itself.
func AppendKey(dst []byte, code KeyCode) ([]byte, bool) {
	dst, ok := AppendPress(dst, code)
	if !ok {
		return dst, false
	}
	return AppendRelease(dst, code)
}
