package term

import (
	"image/color"

	"ps2kbd/hal"

	"tinygo.org/x/drivers"
)

// fbDisplay exposes a horizontal band of the framebuffer, rows [y0, y0+h),
// as a tinyterm/tinyfont display with its own origin.
type fbDisplay struct {
	fb hal.Framebuffer
	y0 int
	h  int
}

func newFBDisplay(fb hal.Framebuffer, y0, h int) *fbDisplay {
	if fb == nil {
		return &fbDisplay{}
	}
	if y0 < 0 {
		y0 = 0
	}
	if y0+h > fb.Height() {
		h = fb.Height() - y0
	}
	if h < 0 {
		h = 0
	}
	return &fbDisplay{fb: fb, y0: y0, h: h}
}

func (d *fbDisplay) usable() bool {
	return d.fb != nil && d.fb.Format() == hal.PixelFormatRGB565 && d.fb.Buffer() != nil
}

func (d *fbDisplay) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.h)
}

func (d *fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	if !d.usable() {
		return
	}
	ix := int(x)
	iy := int(y)
	if ix < 0 || ix >= d.fb.Width() || iy < 0 || iy >= d.h {
		return
	}

	hal.SetPixel565(d.fb, ix, d.y0+iy, hal.RGB565(c))
}

func (d *fbDisplay) Display() error {
	if d.fb == nil {
		return nil
	}
	return d.fb.Present()
}

func (d *fbDisplay) ScrollUp(lines int16, bg color.RGBA) error {
	if !d.usable() || lines <= 0 {
		return nil
	}

	w := d.fb.Width()
	h := d.h
	n := int(lines)
	if n >= h {
		return d.FillRectangle(0, 0, int16(w), int16(h), bg)
	}

	buf := d.fb.Buffer()
	stride := d.fb.StrideBytes()
	top := d.y0 * stride
	dstEnd := top + (h-n)*stride
	srcStart := top + n*stride
	srcEnd := srcStart + (h-n)*stride
	if srcEnd > len(buf) {
		return d.FillRectangle(0, 0, int16(w), int16(h), bg)
	}
	copy(buf[top:dstEnd], buf[srcStart:srcEnd])

	return d.FillRectangle(0, int16(h-n), int16(w), int16(n), bg)
}

func (d *fbDisplay) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	if !d.usable() {
		return nil
	}

	x0 := clampInt(int(x), 0, d.fb.Width())
	y0 := clampInt(int(y), 0, d.h)
	x1 := clampInt(int(x)+int(width), 0, d.fb.Width())
	y1 := clampInt(int(y)+int(height), 0, d.h)
	if x0 >= x1 || y0 >= y1 {
		return nil
	}

	pixel := hal.RGB565(c)
	lo := byte(pixel)
	hi := byte(pixel >> 8)

	buf := d.fb.Buffer()
	stride := d.fb.StrideBytes()
	for py := y0; py < y1; py++ {
		row := (d.y0 + py) * stride
		for px := x0; px < x1; px++ {
			off := row + px*2
			if off < 0 || off+1 >= len(buf) {
				continue
			}
			buf[off] = lo
			buf[off+1] = hi
		}
	}
	return nil
}

func (d *fbDisplay) SetScroll(line int16) {
	_ = line
}

func (d *fbDisplay) SetRotation(rotation drivers.Rotation) error {
	_ = rotation
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
