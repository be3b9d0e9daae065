package hal

import "sync/atomic"

const ps2RingSlots = 128

// byteRing is a fixed-size single-producer, single-consumer byte queue.
// The producer is the receive interrupt (or host input loop), the consumer is
// the PS2.Read caller. No allocations.
type byteRing struct {
	_         [0]func() // prevent accidental copying.
	head      atomic.Uint32
	tail      atomic.Uint32
	overflows atomic.Uint32
	slots     [ps2RingSlots]byte
}

// push enqueues b, returning false (and counting an overflow) if full.
func (r *byteRing) push(b byte) bool {
	head := r.head.Load()
	tail := r.tail.Load()
	if head-tail >= ps2RingSlots {
		r.overflows.Add(1)
		return false
	}
	r.slots[head%ps2RingSlots] = b
	r.head.Store(head + 1)
	return true
}

// read dequeues up to len(p) bytes.
func (r *byteRing) read(p []byte) int {
	tail := r.tail.Load()
	head := r.head.Load()
	n := 0
	for n < len(p) && tail != head {
		p[n] = r.slots[tail%ps2RingSlots]
		tail++
		n++
	}
	r.tail.Store(tail)
	return n
}

func (r *byteRing) len() int {
	return int(r.head.Load() - r.tail.Load())
}
