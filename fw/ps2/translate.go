package ps2

// baseTable maps set-2 scancodes to key codes without modifiers.
// Unlisted scancodes are KeyNone.
var baseTable = func() (t [256]KeyCode) {
	for i := range t {
		t[i] = KeyNone
	}
	for sc, code := range map[byte]KeyCode{
		0x5a: KeyEnter,
		0x1c: KeyA,
		0x32: KeyB,
		0x21: KeyC,
		0x23: KeyD,
		0x24: KeyE,
		0x2b: KeyF,
		0x34: KeyG,
		0x33: KeyH,
		0x43: KeyI,
		0x3b: KeyJ,
		0x42: KeyK,
		0x4b: KeyL,
		0x3a: KeyM,
		0x31: KeyN,
		0x44: KeyO,
		0x4d: KeyP,
		0x15: KeyQ,
		0x2d: KeyR,
		0x1b: KeyS,
		0x2c: KeyT,
		0x3c: KeyU,
		0x2a: KeyV,
		0x1d: KeyW,
		0x22: KeyX,
		0x35: KeyY,
		0x1a: KeyZ,
		0x29: KeySpace,
		0x3e: Key8,
		0x46: Key9,
		0x16: Key1,
		0x1e: Key2,
		0x5d: KeyHash,
		0x25: Key4,
		0x2e: Key5,
		0x36: Key6,
		0x5b: KeyPlus,
		0x41: KeyComma,
		0x4a: KeyMinus,
		0x49: KeyPeriod,
		0x3d: Key7,
		0x45: Key0,
		0x26: Key3,
		0x61: KeyLess,
		0x4e: KeyQuestion,
	} {
		t[sc] = code
	}
	return t
}()

// layer holds the context-sensitive results of one physical key.
// KeyNone in a layer means "fall through to the next one".
type layer struct {
	altGr KeyCode
	shift KeyCode
}

var layers = map[byte]layer{
	0x3e: {altGr: KeyBracketLeft, shift: KeyParenLeft},
	0x46: {altGr: KeyBracketRight, shift: KeyParenRight},
	0x16: {altGr: KeyNone, shift: KeyExclaim},
	0x1e: {altGr: KeyNone, shift: KeyQuoteDouble},
	0x5d: {altGr: KeyNone, shift: KeyQuote},
	0x25: {altGr: KeyNone, shift: KeyDollar},
	0x2e: {altGr: KeyNone, shift: KeyPercent},
	0x36: {altGr: KeyNone, shift: KeyAmpersand},
	0x5b: {altGr: KeyNone, shift: KeyAsterisk},
	0x41: {altGr: KeyNone, shift: KeySemicolon},
	0x49: {altGr: KeyNone, shift: KeyColon},
	0x3d: {altGr: KeyNone, shift: KeySlash},
	0x45: {altGr: KeyNone, shift: KeyEqual},
	0x61: {altGr: KeyNone, shift: KeyGreater},
}

// Translate maps a scancode and the active modifier mask to a key code.
// AltGr is checked first, then Shift, then the base symbol.
// Unrecognized scancodes yield KeyNone.
func Translate(scancode byte, mods Modifiers) KeyCode {
	if l, ok := layers[scancode]; ok {
		if mods.Has(AltGr) && l.altGr != KeyNone {
			return l.altGr
		}
		if mods.Has(Shift) && l.shift != KeyNone {
			return l.shift
		}
	}
	return baseTable[scancode]
}

// Lookup returns a scancode and the modifiers that must be held for it to
// translate to code. Base symbols are preferred over layered ones.
func Lookup(code KeyCode) (scancode byte, mods Modifiers, ok bool) {
	if !code.Valid() {
		return 0, 0, false
	}
	for sc := 0; sc < len(baseTable); sc++ {
		if baseTable[sc] == code {
			return byte(sc), 0, true
		}
	}
	for sc := 0; sc < len(baseTable); sc++ {
		l, found := layers[byte(sc)]
		if !found {
			continue
		}
		if l.shift == code {
			return byte(sc), ShiftLeft, true
		}
		if l.altGr == code {
			return byte(sc), AltGr, true
		}
	}
	return 0, 0, false
}
