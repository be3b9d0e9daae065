package term

import (
	"image/color"
	"testing"

	"ps2kbd/fw/kernel"
	"ps2kbd/fw/proto"
	"ps2kbd/hal"
)

type testFB struct {
	w, h    int
	buf     []byte
	present int
}

func newTestFB(w, h int) *testFB {
	return &testFB{w: w, h: h, buf: make([]byte, w*h*2)}
}

func (f *testFB) Width() int              { return f.w }
func (f *testFB) Height() int             { return f.h }
func (f *testFB) Format() hal.PixelFormat { return hal.PixelFormatRGB565 }
func (f *testFB) StrideBytes() int        { return f.w * 2 }
func (f *testFB) Buffer() []byte          { return f.buf }
func (f *testFB) Present() error          { f.present++; return nil }
func (f *testFB) ClearRGB(r, g, b uint8) {
	p := hal.RGB565(color.RGBA{R: r, G: g, B: b, A: 255})
	for i := 0; i < len(f.buf); i += 2 {
		f.buf[i] = byte(p)
		f.buf[i+1] = byte(p >> 8)
	}
}

func (f *testFB) pixel(x, y int) uint16 {
	off := y*f.w*2 + x*2
	return uint16(f.buf[off]) | uint16(f.buf[off+1])<<8
}

func (f *testFB) rowsLit(y0, y1 int) bool {
	for y := y0; y < y1; y++ {
		for x := 0; x < f.w; x++ {
			if f.pixel(x, y) != 0 {
				return true
			}
		}
	}
	return false
}

var white = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

func TestFBDisplayBandOrigin(t *testing.T) {
	fb := newTestFB(8, 8)
	d := newFBDisplay(fb, 4, 2)

	if w, h := d.Size(); w != 8 || h != 2 {
		t.Fatalf("Size() = %d,%d, want 8,2", w, h)
	}

	d.SetPixel(1, 0, white)
	if fb.pixel(1, 4) != 0xFFFF {
		t.Fatalf("pixel(1,4) = %#04x, want ffff", fb.pixel(1, 4))
	}

	d.SetPixel(1, 2, white)
	d.SetPixel(-1, 0, white)
	if fb.rowsLit(6, 8) || fb.rowsLit(0, 4) {
		t.Fatal("SetPixel drew outside its band")
	}
}

func TestFBDisplayFillAndScrollStayInBand(t *testing.T) {
	fb := newTestFB(4, 6)
	d := newFBDisplay(fb, 0, 4)

	_ = d.FillRectangle(0, 3, 4, 10, white)
	if !fb.rowsLit(3, 4) || fb.rowsLit(4, 6) {
		t.Fatal("FillRectangle not clipped to band")
	}

	_ = d.ScrollUp(1, color.RGBA{})
	if !fb.rowsLit(2, 3) || fb.rowsLit(3, 4) || fb.rowsLit(4, 6) {
		t.Fatal("ScrollUp moved rows outside band or did not clear the exposed row")
	}
}

func TestFBDisplayClampsBand(t *testing.T) {
	fb := newTestFB(4, 4)
	d := newFBDisplay(fb, 3, 10)
	if _, h := d.Size(); h != 1 {
		t.Fatalf("Size() h = %d, want 1", h)
	}
}

func message(kind proto.Kind, payload string) kernel.Message {
	var msg kernel.Message
	msg.Kind = uint16(kind)
	msg.Len = uint16(copy(msg.Data[:], payload))
	return msg
}

func TestServiceWritesConsoleAndStatus(t *testing.T) {
	fb := newTestFB(64, 40)
	s := New(nil, kernel.Capability{})
	s.init(fb)

	consoleH := fb.h - statusHeight
	if !fb.rowsLit(consoleH, fb.h) {
		t.Fatal("status bar not drawn on init")
	}
	if fb.rowsLit(0, consoleH) {
		t.Fatal("console not clear after init")
	}

	if !s.handle(message(proto.MsgTermWrite, "hi")) {
		t.Fatal("handle(MsgTermWrite) = false, want true")
	}
	if !fb.rowsLit(0, consoleH) {
		t.Fatal("console text not drawn")
	}

	if !s.handle(message(proto.MsgTermStatus, "shift-l")) {
		t.Fatal("handle(MsgTermStatus) = false, want true")
	}
	if s.handle(message(proto.MsgTermStatus, "shift-l")) {
		t.Fatal("unchanged status should not mark the screen dirty")
	}

	s.handle(message(proto.MsgTermClear, ""))
	if fb.rowsLit(0, consoleH) {
		t.Fatal("console not clear after MsgTermClear")
	}
	if s.statusText != "shift-l" {
		t.Fatalf("status after clear = %q, want shift-l", s.statusText)
	}
}
