//go:build !tinygo

package hal

import "time"

// Typematic defaults of a PS/2 keyboard after reset.
const (
	typematicDelay = 350 * time.Millisecond
	typematicRate  = 60 * time.Millisecond
)

// set2Key is a scancode set 2 key position.
type set2Key struct {
	code byte
	ext  bool
}

// typematic turns key transitions into scancode set 2 bytes the way a
// keyboard does: make on press, F0 break on release, and repeated makes for
// the most recently pressed key while it stays down.
type typematic struct {
	emit  func([]byte) int
	delay time.Duration
	rate  time.Duration

	held    set2Key
	holding bool
	next    time.Duration

	buf []byte
}

func newTypematic(emit func([]byte) int) *typematic {
	return &typematic{emit: emit, delay: typematicDelay, rate: typematicRate}
}

func (t *typematic) press(k set2Key, now time.Duration) {
	t.send(t.appendMake(t.buf[:0], k))
	t.held = k
	t.holding = true
	t.next = now + t.delay
}

func (t *typematic) release(k set2Key, now time.Duration) {
	t.send(t.appendBreak(t.buf[:0], k))
	if t.holding && t.held == k {
		t.holding = false
	}
}

// tick emits repeats that are due at now.
func (t *typematic) tick(now time.Duration) {
	if !t.holding {
		return
	}
	for now >= t.next {
		t.send(t.appendMake(t.buf[:0], t.held))
		t.next += t.rate
	}
}

// pause emits the Pause make sequence. The key has no break code.
func (t *typematic) pause() {
	t.send(append(t.buf[:0], 0xE1, 0x14, 0x77, 0xE1, 0xF0, 0x14, 0xF0, 0x77))
	t.holding = false
}

func (t *typematic) appendMake(dst []byte, k set2Key) []byte {
	if k.ext {
		dst = append(dst, 0xE0)
	}
	return append(dst, k.code)
}

func (t *typematic) appendBreak(dst []byte, k set2Key) []byte {
	if k.ext {
		dst = append(dst, 0xE0)
	}
	return append(dst, 0xF0, k.code)
}

func (t *typematic) send(b []byte) {
	t.buf = b
	if t.emit != nil {
		t.emit(b)
	}
}
