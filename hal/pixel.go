package hal

import "image/color"

func rgb565(r, g, b uint8) uint16 {
	rr := uint16(r>>3) & 0x1F
	gg := uint16(g>>2) & 0x3F
	bb := uint16(b>>3) & 0x1F
	return (rr << 11) | (gg << 5) | bb
}

func rgb888From565(p uint16) (r, g, b uint8) {
	rr := (p >> 11) & 0x1F
	gg := (p >> 5) & 0x3F
	bb := p & 0x1F

	r = uint8((rr * 255) / 31)
	g = uint8((gg * 255) / 63)
	b = uint8((bb * 255) / 31)
	return r, g, b
}

// RGB565 packs c into a little-endian RGB565 pixel value.
func RGB565(c color.RGBA) uint16 { return rgb565(c.R, c.G, c.B) }

// SetPixel565 stores pixel at (x, y) of an RGB565 framebuffer. Out of range
// coordinates and other formats are ignored.
func SetPixel565(fb Framebuffer, x, y int, pixel uint16) {
	if fb == nil || fb.Format() != PixelFormatRGB565 {
		return
	}
	if x < 0 || x >= fb.Width() || y < 0 || y >= fb.Height() {
		return
	}
	buf := fb.Buffer()
	off := y*fb.StrideBytes() + x*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

// rgb565ToRGBA expands little-endian RGB565 pixels from src into opaque RGBA
// pixels in dst, stopping at whichever runs out first.
func rgb565ToRGBA(dst, src []byte) {
	for i, j := 0, 0; i+1 < len(src) && j+3 < len(dst); i, j = i+2, j+4 {
		dst[j], dst[j+1], dst[j+2] = rgb888From565(uint16(src[i]) | uint16(src[i+1])<<8)
		dst[j+3] = 0xFF
	}
}
