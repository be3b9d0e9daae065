//go:build !tinygo

package hal

import "time"

const hostTick = time.Millisecond

// hostTime turns wall clock time, sampled once per frame, into 1 ms ticks.
// Ticks the consumer has not taken yet are dropped.
type hostTime struct {
	ch  chan uint64
	seq uint64

	now  func() time.Time
	last time.Time
	rem  time.Duration
}

func newHostTime() *hostTime {
	return &hostTime{ch: make(chan uint64, 1024), now: time.Now}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

// frame emits the ticks elapsed since the previous frame; the first frame
// emits one.
func (t *hostTime) frame() {
	now := t.now()
	if t.last.IsZero() {
		t.last = now
		t.emit(1)
		return
	}
	t.rem += now.Sub(t.last)
	t.last = now

	n := t.rem / hostTick
	t.rem -= n * hostTick
	t.emit(uint64(n))
}

func (t *hostTime) emit(n uint64) {
	for ; n > 0; n-- {
		t.seq++
		select {
		case t.ch <- t.seq:
		default:
		}
	}
}
