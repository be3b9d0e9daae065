package proto

import "ps2kbd/fw/ps2"

// KeysPayload encodes a MsgKeys payload.
//
// Layout:
//   - u8: modifier mask at publish time
//   - u8: key count (at most ps2.MaxPressedKeys)
//   - count x u8: key codes in press order
func KeysPayload(mods ps2.Modifiers, keys []ps2.KeyCode) []byte {
	if len(keys) > ps2.MaxPressedKeys {
		keys = keys[:ps2.MaxPressedKeys]
	}
	buf := make([]byte, 2+len(keys))
	buf[0] = byte(mods)
	buf[1] = byte(len(keys))
	for i, k := range keys {
		buf[2+i] = byte(k)
	}
	return buf
}

// DecodeKeysPayload decodes a KeysPayload, appending the codes to dst.
func DecodeKeysPayload(payload []byte, dst []ps2.KeyCode) (mods ps2.Modifiers, keys []ps2.KeyCode, ok bool) {
	if len(payload) < 2 {
		return 0, dst, false
	}
	n := int(payload[1])
	if n > ps2.MaxPressedKeys || len(payload) != 2+n {
		return 0, dst, false
	}
	for _, b := range payload[2:] {
		dst = append(dst, ps2.KeyCode(b))
	}
	return ps2.Modifiers(payload[0]), dst, true
}
