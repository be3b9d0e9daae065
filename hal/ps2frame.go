package hal

// frameReceiver assembles 11-bit PS/2 device-to-host frames, one bit per
// falling clock edge: start (0), 8 data bits LSB first, odd parity, stop (1).
type frameReceiver struct {
	bitCount uint8
	data     byte
	ones     uint8
}

// clock consumes the data line level sampled on one falling clock edge.
// It returns done=true when a frame completes; err is PS2ErrNone for a valid
// frame.
func (f *frameReceiver) clock(level bool) (b byte, done bool, err PS2Error) {
	switch {
	case f.bitCount == 0:
		if level {
			// Start bit must be low; stay in sync with the next edge.
			return 0, true, PS2ErrFraming
		}
	case f.bitCount <= 8:
		if level {
			f.data |= 1 << (f.bitCount - 1)
			f.ones++
		}
	case f.bitCount == 9:
		if level {
			f.ones++
		}
	default:
		b = f.data
		err = PS2ErrNone
		if f.ones%2 != 1 {
			err = PS2ErrParity
		}
		if !level {
			err = PS2ErrFraming
		}
		f.reset()
		return b, true, err
	}
	f.bitCount++
	return 0, false, PS2ErrNone
}

// reset discards a partial frame (e.g. after an inter-bit timeout).
func (f *frameReceiver) reset() {
	f.bitCount = 0
	f.data = 0
	f.ones = 0
}

// idle reports whether no frame is in progress.
func (f *frameReceiver) idle() bool { return f.bitCount == 0 }

// frameBits returns the line levels of a host-to-device or device-to-host
// frame for b, excluding the start bit: 8 data bits, odd parity, stop.
func frameBits(b byte) [10]bool {
	var bits [10]bool
	ones := 0
	for i := 0; i < 8; i++ {
		bits[i] = b&(1<<i) != 0
		if bits[i] {
			ones++
		}
	}
	bits[8] = ones%2 == 0
	bits[9] = true
	return bits
}
