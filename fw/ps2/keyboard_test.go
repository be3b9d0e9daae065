package ps2

import (
	"slices"
	"sync"
	"testing"
)

func TestKeyboardEndToEnd(t *testing.T) {
	var k Keyboard
	_, _ = k.Write([]byte{0x1c, 0x32, 0xf0, 0x1c})

	got := k.SnapshotAndClear()
	if !slices.Equal(got, []KeyCode{KeyB}) {
		t.Fatalf("SnapshotAndClear() = %v, want [b]", got)
	}
	if k.Len() != 0 {
		t.Fatalf("Len() after drain = %d, want 0", k.Len())
	}
	if got := k.SnapshotAndClear(); got != nil {
		t.Fatalf("second SnapshotAndClear() = %v, want nil", got)
	}
}

func TestKeyboardShiftAtPressTime(t *testing.T) {
	var k Keyboard
	_, _ = k.Write([]byte{0x12, 0x16})
	if !k.IsPressed(KeyExclaim) {
		t.Fatal("IsPressed(!) = false while shift held")
	}
	if k.Modifiers() != ShiftLeft {
		t.Fatalf("Modifiers() = %s, want shift-l", k.Modifiers())
	}

	_, _ = k.Write([]byte{0xf0, 0x12})
	if k.Modifiers() != 0 {
		t.Fatalf("Modifiers() after release = %s, want -", k.Modifiers())
	}

	// The release translates with the mask active at release time ('1'),
	// so the '!' pressed earlier stays in the set.
	_, _ = k.Write([]byte{0xf0, 0x16})
	if got := k.AppendSnapshot(nil); !slices.Equal(got, []KeyCode{KeyExclaim}) {
		t.Fatalf("AppendSnapshot() = %v, want [!]", got)
	}

	_, _ = k.Write([]byte{0x16})
	if !k.IsPressed(Key1) {
		t.Fatal("IsPressed(1) = false after unshifted press")
	}
}

func TestKeyboardCtrlSides(t *testing.T) {
	var k Keyboard
	_, _ = k.Write([]byte{0xe0, 0x14})
	if k.Modifiers() != CtrlRight {
		t.Fatalf("Modifiers() = %s, want ctrl-r", k.Modifiers())
	}
	_, _ = k.Write([]byte{0x14})
	if k.Modifiers() != Ctrl {
		t.Fatalf("Modifiers() = %s, want ctrl-l+ctrl-r", k.Modifiers())
	}
	_, _ = k.Write([]byte{0xf0, 0x14})
	if k.Modifiers() != CtrlRight {
		t.Fatalf("Modifiers() after left release = %s, want ctrl-r", k.Modifiers())
	}
	_, _ = k.Write([]byte{0xe0, 0xf0, 0x14})
	if k.Modifiers() != 0 {
		t.Fatalf("Modifiers() after right release = %s, want -", k.Modifiers())
	}
	if k.Len() != 0 {
		t.Fatalf("modifier events reached the key set: %v", k.AppendSnapshot(nil))
	}
}

func TestKeyboardAltGrLayer(t *testing.T) {
	var k Keyboard
	_, _ = k.Write([]byte{0xe0, 0x11, 0x3e})
	if !k.IsPressed(KeyBracketLeft) {
		t.Fatal("IsPressed([) = false while altgr held")
	}
	// Released under AltGr, so the release finds '['.
	_, _ = k.Write([]byte{0xf0, 0x3e, 0xe0, 0xf0, 0x11, 0x3e})
	want := []KeyCode{Key8}
	if got := k.SnapshotAndClear(); !slices.Equal(got, want) {
		t.Fatalf("SnapshotAndClear() = %v, want %v", got, want)
	}
}

func TestKeyboardExtendedPrefixAcrossChunks(t *testing.T) {
	var k Keyboard
	_, _ = k.Write([]byte{0xe0})
	if k.State() != StateGotE0 {
		t.Fatalf("State() = %s, want got_e0", k.State())
	}
	_, _ = k.Write([]byte{0x1c})
	if !k.IsPressed(KeyA) {
		t.Fatal("IsPressed(a) = false after split e0 1c")
	}
	if k.State() != StateIdle {
		t.Fatalf("State() = %s, want idle", k.State())
	}
}

func TestKeyboardAutoRepeat(t *testing.T) {
	var k Keyboard
	_, _ = k.Write([]byte{0x1c, 0x1c, 0x1c})
	if got := k.SnapshotAndClear(); !slices.Equal(got, []KeyCode{KeyA}) {
		t.Fatalf("SnapshotAndClear() = %v, want [a]", got)
	}
	_, _ = k.Write([]byte{0x1c})
	if got := k.SnapshotAndClear(); !slices.Equal(got, []KeyCode{KeyA}) {
		t.Fatalf("SnapshotAndClear() after repeat = %v, want [a]", got)
	}
}

func TestKeyboardUnmappedDiagnostics(t *testing.T) {
	var seen []Event
	k := Keyboard{OnUnmapped: func(ev Event) { seen = append(seen, ev) }}
	_, _ = k.Write([]byte{0x76, 0xf0, 0x76, 0x12, 0x1c})

	want := []Event{
		{Scancode: 0x76},
		{Scancode: 0x76, Prefix: PrefixBreak, Release: true},
	}
	if !slices.Equal(seen, want) {
		t.Fatalf("unmapped = %v, want %v", seen, want)
	}
	if !k.IsPressed(KeyA) {
		t.Fatal("IsPressed(a) = false after unmapped keys")
	}
}

func TestKeyboardReleaseUntracked(t *testing.T) {
	var k Keyboard
	_, _ = k.Write([]byte{0xf0, 0x1c, 0xf0, 0x76})
	if k.Len() != 0 || k.State() != StateIdle {
		t.Fatalf("Len() = %d, State() = %s, want 0, idle", k.Len(), k.State())
	}
}

func TestKeyboardReset(t *testing.T) {
	var k Keyboard
	_, _ = k.Write([]byte{0x12, 0x1c, 0xe0})
	k.Reset()
	if k.Len() != 0 || k.Modifiers() != 0 || k.State() != StateIdle {
		t.Fatalf("after Reset: Len() = %d, Modifiers() = %s, State() = %s", k.Len(), k.Modifiers(), k.State())
	}
}

func TestLockedCycle(t *testing.T) {
	l := NewLocked(nil)

	const producers = 4
	var wg sync.WaitGroup
	wg.Add(producers)
	for i := 0; i < producers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = l.Write([]byte{0x1c, 0xf0, 0x1c})
			}
		}()
	}

	var drained []KeyCode
	for i := 0; i < 100; i++ {
		drained = l.Cycle(nil, drained[:0])
		if len(drained) > 1 {
			t.Fatalf("Cycle() = %v, want at most one key", drained)
		}
	}
	wg.Wait()

	got := l.Cycle([]byte{0x32}, nil)
	if !slices.Equal(got, []KeyCode{KeyB}) {
		t.Fatalf("Cycle() = %v, want [b]", got)
	}
	if l.IsPressed(KeyB) {
		t.Fatal("IsPressed(b) = true after Cycle drained it")
	}
}

func TestCommandEncoding(t *testing.T) {
	if got := SetLEDs(LEDCapsLock | LEDNumLock | 0x80); !slices.Equal(got, []byte{0xed, 0x06}) {
		t.Fatalf("SetLEDs() = % x, want ed 06", got)
	}

	got, ok := AppendKey(nil, KeyBracketLeft)
	want := []byte{0xe0, 0x11, 0x3e, 0xf0, 0x3e, 0xe0, 0xf0, 0x11}
	if !ok || !slices.Equal(got, want) {
		t.Fatalf("AppendKey([) = % x, %v, want % x, true", got, ok, want)
	}

	var k Keyboard
	for _, r := range "hallo (welt)!\n" {
		code, ok := KeyCodeForRune(r)
		if !ok {
			t.Fatalf("KeyCodeForRune(%q) ok = false", r)
		}
		buf, _ := AppendKey(nil, code)
		seen := false
		for _, b := range buf {
			_ = k.WriteByte(b)
			seen = seen || k.IsPressed(code)
		}
		if !seen {
			t.Fatalf("typing %q (% x) never pressed %s", r, buf, code)
		}
	}
	if k.Modifiers() != 0 || k.Len() != 0 {
		t.Fatalf("after typing: Modifiers() = %s, Len() = %d, want -, 0", k.Modifiers(), k.Len())
	}
}

func TestPressReleaseHalves(t *testing.T) {
	down, ok := AppendPress(nil, KeyExclaim)
	if !ok || !slices.Equal(down, []byte{0x12, 0x16}) {
		t.Fatalf("AppendPress(!) = % x, %v, want 12 16, true", down, ok)
	}
	up, ok := AppendRelease(nil, KeyExclaim)
	if !ok || !slices.Equal(up, []byte{0xf0, 0x16, 0xf0, 0x12}) {
		t.Fatalf("AppendRelease(!) = % x, %v, want f0 16 f0 12, true", up, ok)
	}

	var k Keyboard
	_, _ = k.Write(down)
	if got := k.SnapshotAndClear(); !slices.Equal(got, []KeyCode{KeyExclaim}) {
		t.Fatalf("SnapshotAndClear() after press = %v, want [!]", got)
	}
	_, _ = k.Write(up)
	if k.Modifiers() != 0 || k.Len() != 0 {
		t.Fatalf("after release: Modifiers() = %s, Len() = %d, want -, 0", k.Modifiers(), k.Len())
	}

	if _, ok := AppendPress(nil, KeyNone); ok {
		t.Fatal("AppendPress(KeyNone) ok = true")
	}
}
