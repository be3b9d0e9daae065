package ps2

import "sync"

// Keyboard is the decoding pipeline: decoder state, modifier mask and pressed
// key set. The zero value is ready to use. It is not safe for concurrent use;
// see Locked.
type Keyboard struct {
	dec     Decoder
	mods    Modifiers
	pressed KeySet

	// OnUnmapped, if set, is called for every non-modifier event whose
	// scancode does not translate.
	OnUnmapped func(Event)
}

// Write feeds raw PS/2 bytes through the pipeline. It never fails.
func (k *Keyboard) Write(p []byte) (int, error) {
	for _, b := range p {
		k.feed(b)
	}
	return len(p), nil
}

// WriteByte feeds one raw PS/2 byte.
func (k *Keyboard) WriteByte(b byte) error {
	k.feed(b)
	return nil
}

func (k *Keyboard) feed(b byte) {
	ev, ok := k.dec.Feed(b)
	if !ok {
		return
	}
	k.Apply(ev)
}

// Apply routes one decoded event to the modifier mask or the pressed key set.
func (k *Keyboard) Apply(ev Event) {
	if bit := ModifierFor(ev.Scancode, ev.Prefix); bit != 0 {
		if ev.Release {
			k.mods = k.mods.Release(bit)
		} else {
			k.mods = k.mods.Press(bit)
		}
		return
	}

	code := Translate(ev.Scancode, k.mods)
	if code == KeyNone {
		if k.OnUnmapped != nil {
			k.OnUnmapped(ev)
		}
		return
	}
	if ev.Release {
		k.pressed.Release(code)
	} else {
		k.pressed.Press(code)
	}
}

// IsPressed reports whether code is currently held, without draining.
func (k *Keyboard) IsPressed(code KeyCode) bool { return k.pressed.Contains(code) }

// Len returns the number of held keys.
func (k *Keyboard) Len() int { return k.pressed.Len() }

// Modifiers returns the current modifier mask.
func (k *Keyboard) Modifiers() Modifiers { return k.mods }

// State returns the decoder state.
func (k *Keyboard) State() State { return k.dec.State() }

// AppendSnapshot appends the held keys to dst without draining.
func (k *Keyboard) AppendSnapshot(dst []KeyCode) []KeyCode { return k.pressed.AppendTo(dst) }

// AppendSnapshotAndClear appends the held keys to dst and empties the set.
func (k *Keyboard) AppendSnapshotAndClear(dst []KeyCode) []KeyCode {
	return k.pressed.AppendAndClear(dst)
}

// SnapshotAndClear returns a copy of the held keys in press order and empties
// the set. Keys still physically held are reported again only after the next
// MAKE (e.g. typematic repeat).
func (k *Keyboard) SnapshotAndClear() []KeyCode {
	if k.pressed.Len() == 0 {
		return nil
	}
	return k.pressed.AppendAndClear(make([]KeyCode, 0, k.pressed.Len()))
}

// Reset returns the pipeline to its initial state.
func (k *Keyboard) Reset() {
	k.dec.Reset()
	k.mods = 0
	k.pressed.Clear()
}

// Locked guards a Keyboard with a single mutex, for a producer (e.g. an
// interrupt-fed reader) and a consumer running on different goroutines.
type Locked struct {
	mu  sync.Mutex
	kbd Keyboard
}

// NewLocked returns a Locked pipeline. onUnmapped may be nil; it runs with
// the lock held and must not call back into l.
func NewLocked(onUnmapped func(Event)) *Locked {
	l := &Locked{}
	l.kbd.OnUnmapped = onUnmapped
	return l
}

// Cycle ingests p and drains the pressed keys into dst as one atomic step.
func (l *Locked) Cycle(p []byte, dst []KeyCode) []KeyCode {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.kbd.Write(p)
	return l.kbd.AppendSnapshotAndClear(dst)
}

// Write feeds bytes without draining.
func (l *Locked) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.kbd.Write(p)
}

// IsPressed reports whether code is currently held.
func (l *Locked) IsPressed(code KeyCode) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.kbd.IsPressed(code)
}

// Modifiers returns the current modifier mask.
func (l *Locked) Modifiers() Modifiers {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.kbd.Modifiers()
}

// SnapshotAndClear drains the held keys.
func (l *Locked) SnapshotAndClear() []KeyCode {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.kbd.SnapshotAndClear()
}
