package ps2

import "fmt"

// KeyCode is an application key identifier, decoupled from the physical scancode.
type KeyCode uint8

// KeyNone is returned when a scancode has no mapping.
const KeyNone KeyCode = 0xFF

const (
	KeyEnter KeyCode = iota
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	KeySpace
	KeyBracketLeft
	KeyParenLeft
	Key8
	KeyBracketRight
	KeyParenRight
	Key9
	KeyExclaim
	Key1
	KeyQuoteDouble
	Key2
	KeyQuote
	KeyHash
	KeyDollar
	Key4
	KeyPercent
	Key5
	KeyAmpersand
	Key6
	KeyAsterisk
	KeyPlus
	KeySemicolon
	KeyComma
	KeyMinus
	KeyPeriod
	KeySlash
	Key7
	KeyEqual
	Key0
	Key3
	KeyColon
	KeyGreater
	KeyLess
	KeyQuestion

	keyCount
)

// charset is indexed by KeyCode.
const charset = "\nabcdefghijklmnopqrstuvwxyz [(8])9!1\"2'#$4%5&6*+;,-./7=03:><?"

// Valid reports whether c names a key (as opposed to KeyNone or an out of range value).
func (c KeyCode) Valid() bool { return c < keyCount }

// Rune returns the character a key produces, or 0 for KeyNone.
func (c KeyCode) Rune() rune {
	if !c.Valid() {
		return 0
	}
	return rune(charset[c])
}

func (c KeyCode) String() string {
	switch {
	case c == KeyNone:
		return "none"
	case c == KeyEnter:
		return "enter"
	case c == KeySpace:
		return "space"
	case c.Valid():
		return string(c.Rune())
	default:
		return fmt.Sprintf("key(%d)", uint8(c))
	}
}

// KeyCodeForRune returns the key that produces r.
func KeyCodeForRune(r rune) (KeyCode, bool) {
	if r == '\r' {
		r = '\n'
	}
	for i := 0; i < len(charset); i++ {
		if rune(charset[i]) == r {
			return KeyCode(i), true
		}
	}
	return KeyNone, false
}
