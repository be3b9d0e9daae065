//go:build !tinygo

package hal

import "sync"

// hostFramebuffer is drawn by the firmware and copied out by the window on
// each new Present.
type hostFramebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	buf    []byte
	frames uint64
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	return &hostFramebuffer{width: width, height: height, buf: make([]byte, width*height*2)}
}

func (f *hostFramebuffer) Width() int          { return f.width }
func (f *hostFramebuffer) Height() int         { return f.height }
func (f *hostFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *hostFramebuffer) StrideBytes() int    { return f.width * 2 }
func (f *hostFramebuffer) Buffer() []byte      { return f.buf }

func (f *hostFramebuffer) Present() error {
	f.mu.Lock()
	f.frames++
	f.mu.Unlock()
	return nil
}

func (f *hostFramebuffer) ClearRGB(r, g, b uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pixel := rgb565(r, g, b)
	for i := 0; i+1 < len(f.buf); i += 2 {
		f.buf[i] = byte(pixel)
		f.buf[i+1] = byte(pixel >> 8)
	}
}

// snapshot copies the frame into dst if it was presented after frame seen.
// It returns the current frame number and whether dst was updated.
func (f *hostFramebuffer) snapshot(dst []byte, seen uint64) (uint64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.frames == seen {
		return seen, false
	}
	copy(dst, f.buf)
	return f.frames, true
}
