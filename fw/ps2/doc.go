// Package ps2 decodes a raw PS/2 (scancode set 2) byte stream into a set of
// currently pressed application keys.
//
// The pipeline has four parts:
//   - Decoder: MAKE/BREAK framing and 0xE0/0xE1 prefixes.
//   - ModifierFor: Shift/Ctrl/Alt recognition, left/right by prefix.
//   - Translate: scancode + modifier mask to KeyCode (German layout, AltGr layer).
//   - KeySet: ordered, de-duplicated, 16-entry pressed key set.
//
// Keyboard ties them together. A host polls it once per loop iteration:
//
//	var kbd ps2.Keyboard
//	kbd.Write(buf[:n])
//	for _, code := range kbd.SnapshotAndClear() {
//		print(string(code.Rune()))
//	}
//
// Nothing in the decode path fails: unmapped scancodes, releases of untracked
// keys and presses beyond capacity are dropped.
package ps2
