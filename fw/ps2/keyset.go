package ps2

// MaxPressedKeys is the capacity of a KeySet.
const MaxPressedKeys = 16

// KeySet is an ordered, de-duplicated, fixed-capacity set of key codes.
// Order is the order in which keys were first pressed.
type KeySet struct {
	keys [MaxPressedKeys]KeyCode
	n    uint8
}

// Press adds code. Pressing a key already in the set is a no-op, and a press
// at capacity is dropped. It reports whether the set changed.
func (s *KeySet) Press(code KeyCode) bool {
	if s.Contains(code) {
		return false
	}
	if int(s.n) >= len(s.keys) {
		return false
	}
	s.keys[s.n] = code
	s.n++
	return true
}

// Release removes code, keeping the remaining keys in order. Releasing a key
// that is not in the set is a no-op. It reports whether the set changed.
func (s *KeySet) Release(code KeyCode) bool {
	for i := uint8(0); i < s.n; i++ {
		if s.keys[i] != code {
			continue
		}
		copy(s.keys[i:s.n], s.keys[i+1:s.n])
		s.n--
		s.keys[s.n] = 0
		return true
	}
	return false
}

// Contains reports whether code is in the set.
func (s *KeySet) Contains(code KeyCode) bool {
	for i := uint8(0); i < s.n; i++ {
		if s.keys[i] == code {
			return true
		}
	}
	return false
}

// Len returns the number of keys held.
func (s *KeySet) Len() int { return int(s.n) }

// AppendTo appends the held keys to dst in press order.
func (s *KeySet) AppendTo(dst []KeyCode) []KeyCode {
	return append(dst, s.keys[:s.n]...)
}

// Clear empties the set.
func (s *KeySet) Clear() {
	s.keys = [MaxPressedKeys]KeyCode{}
	s.n = 0
}

// AppendAndClear appends the held keys to dst and empties the set.
func (s *KeySet) AppendAndClear(dst []KeyCode) []KeyCode {
	dst = s.AppendTo(dst)
	s.Clear()
	return dst
}
