//go:build !tinygo && cgo

package hal

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// set2Keys maps physical window keys to scancode set 2 positions.
var set2Keys = map[ebiten.Key]set2Key{
	ebiten.KeyA: {code: 0x1C}, ebiten.KeyB: {code: 0x32}, ebiten.KeyC: {code: 0x21},
	ebiten.KeyD: {code: 0x23}, ebiten.KeyE: {code: 0x24}, ebiten.KeyF: {code: 0x2B},
	ebiten.KeyG: {code: 0x34}, ebiten.KeyH: {code: 0x33}, ebiten.KeyI: {code: 0x43},
	ebiten.KeyJ: {code: 0x3B}, ebiten.KeyK: {code: 0x42}, ebiten.KeyL: {code: 0x4B},
	ebiten.KeyM: {code: 0x3A}, ebiten.KeyN: {code: 0x31}, ebiten.KeyO: {code: 0x44},
	ebiten.KeyP: {code: 0x4D}, ebiten.KeyQ: {code: 0x15}, ebiten.KeyR: {code: 0x2D},
	ebiten.KeyS: {code: 0x1B}, ebiten.KeyT: {code: 0x2C}, ebiten.KeyU: {code: 0x3C},
	ebiten.KeyV: {code: 0x2A}, ebiten.KeyW: {code: 0x1D}, ebiten.KeyX: {code: 0x22},
	ebiten.KeyY: {code: 0x35}, ebiten.KeyZ: {code: 0x1A},

	ebiten.KeyDigit1: {code: 0x16}, ebiten.KeyDigit2: {code: 0x1E}, ebiten.KeyDigit3: {code: 0x26},
	ebiten.KeyDigit4: {code: 0x25}, ebiten.KeyDigit5: {code: 0x2E}, ebiten.KeyDigit6: {code: 0x36},
	ebiten.KeyDigit7: {code: 0x3D}, ebiten.KeyDigit8: {code: 0x3E}, ebiten.KeyDigit9: {code: 0x46},
	ebiten.KeyDigit0: {code: 0x45},

	ebiten.KeyMinus:         {code: 0x4E},
	ebiten.KeyEqual:         {code: 0x55},
	ebiten.KeyBracketLeft:   {code: 0x54},
	ebiten.KeyBracketRight:  {code: 0x5B},
	ebiten.KeyBackslash:     {code: 0x5D},
	ebiten.KeySemicolon:     {code: 0x4C},
	ebiten.KeyQuote:         {code: 0x52},
	ebiten.KeyBackquote:     {code: 0x0E},
	ebiten.KeyComma:         {code: 0x41},
	ebiten.KeyPeriod:        {code: 0x49},
	ebiten.KeySlash:         {code: 0x4A},
	ebiten.KeyIntlBackslash: {code: 0x61},
	ebiten.KeySpace:         {code: 0x29},
	ebiten.KeyEnter:         {code: 0x5A},
	ebiten.KeyBackspace:     {code: 0x66},
	ebiten.KeyTab:           {code: 0x0D},
	ebiten.KeyEscape:        {code: 0x76},
	ebiten.KeyCapsLock:      {code: 0x58},
	ebiten.KeyNumLock:       {code: 0x77},
	ebiten.KeyScrollLock:    {code: 0x7E},

	ebiten.KeyShiftLeft:    {code: 0x12},
	ebiten.KeyShiftRight:   {code: 0x59},
	ebiten.KeyControlLeft:  {code: 0x14},
	ebiten.KeyControlRight: {code: 0x14, ext: true},
	ebiten.KeyAltLeft:      {code: 0x11},
	ebiten.KeyAltRight:     {code: 0x11, ext: true},

	ebiten.KeyArrowUp:      {code: 0x75, ext: true},
	ebiten.KeyArrowDown:    {code: 0x72, ext: true},
	ebiten.KeyArrowLeft:    {code: 0x6B, ext: true},
	ebiten.KeyArrowRight:   {code: 0x74, ext: true},
	ebiten.KeyHome:         {code: 0x6C, ext: true},
	ebiten.KeyEnd:          {code: 0x69, ext: true},
	ebiten.KeyInsert:       {code: 0x70, ext: true},
	ebiten.KeyDelete:       {code: 0x71, ext: true},
	ebiten.KeyPageUp:       {code: 0x7D, ext: true},
	ebiten.KeyPageDown:     {code: 0x7A, ext: true},
	ebiten.KeyNumpadEnter:  {code: 0x5A, ext: true},
	ebiten.KeyNumpadDivide: {code: 0x4A, ext: true},

	ebiten.KeyF1: {code: 0x05}, ebiten.KeyF2: {code: 0x06}, ebiten.KeyF3: {code: 0x04},
	ebiten.KeyF4: {code: 0x0C}, ebiten.KeyF5: {code: 0x03}, ebiten.KeyF6: {code: 0x0B},
	ebiten.KeyF7: {code: 0x83}, ebiten.KeyF8: {code: 0x0A}, ebiten.KeyF9: {code: 0x01},
	ebiten.KeyF10: {code: 0x09}, ebiten.KeyF11: {code: 0x78}, ebiten.KeyF12: {code: 0x07},
}

// hostKeyboard plays the keyboard side of the PS/2 link for the window.
type hostKeyboard struct {
	tm    *typematic
	start time.Time
	keys  []ebiten.Key
}

func newHostKeyboard(port *hostPS2) *hostKeyboard {
	return &hostKeyboard{tm: newTypematic(port.Inject), start: time.Now()}
}

func (k *hostKeyboard) poll() {
	now := time.Since(k.start)

	k.keys = inpututil.AppendJustReleasedKeys(k.keys[:0])
	for _, key := range k.keys {
		if sc, ok := set2Keys[key]; ok {
			k.tm.release(sc, now)
		}
	}

	k.keys = inpututil.AppendJustPressedKeys(k.keys[:0])
	for _, key := range k.keys {
		if key == ebiten.KeyPause {
			k.tm.pause()
			continue
		}
		if sc, ok := set2Keys[key]; ok {
			k.tm.press(sc, now)
		}
	}

	k.tm.tick(now)
}
