package app

import (
	"image/color"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"ps2kbd/fw/kernel"
	"ps2kbd/hal"

	"tinygo.org/x/tinyfont"
)

const (
	panicFontHeight = 7
	panicFontOffset = 5
)

// installPanicHandler logs and draws the first task panic, then stores it
// in done. The panicking task never resumes.
func installPanicHandler(h hal.HAL, done *atomic.Pointer[kernel.PanicInfo]) {
	kernel.SetPanicHandler(func(info kernel.PanicInfo) {
		lines := panicReport(info)
		if l := h.Logger(); l != nil {
			for _, line := range lines {
				l.WriteLineString(line)
			}
		}
		if d := h.Display(); d != nil {
			if fb := d.Framebuffer(); fb != nil {
				drawPanic(fb, lines)
			}
		}
		done.Store(&info)
		select {}
	})
}

// panicReport returns the lines logged and shown for a task panic.
func panicReport(info kernel.PanicInfo) []string {
	lines := []string{"ps2kbd panic: " + info.String()}
	if len(info.Stack) == 0 {
		return append(lines, "stack: unavailable")
	}
	lines = append(lines, "stack:")
	for _, line := range strings.Split(string(info.Stack), "\n") {
		if line = strings.TrimRight(line, " \t"); line != "" {
			lines = append(lines, strings.ReplaceAll(line, "\t", "  "))
		}
	}
	return lines
}

// drawPanic renders lines black on white, wrapped to the screen width, and
// stops at the bottom edge.
func drawPanic(fb hal.Framebuffer, lines []string) {
	fb.ClearRGB(255, 255, 255)

	font := &tinyfont.TomThumb
	_, advance := tinyfont.LineWidth(font, "0")
	if advance == 0 {
		_ = fb.Present()
		return
	}
	cols := fb.Width() / int(advance)
	d := panicDisplay{fb: fb}
	black := color.RGBA{A: 255}

	y := 0
	for _, line := range lines {
		for _, row := range wrapRunes(line, cols) {
			if y+panicFontHeight > fb.Height() {
				_ = fb.Present()
				return
			}
			tinyfont.WriteLine(d, font, 0, int16(y+panicFontOffset), row, black)
			y += panicFontHeight
		}
	}
	_ = fb.Present()
}

// wrapRunes splits s into rows of at most n runes. Continuation rows drop
// leading spaces.
func wrapRunes(s string, n int) []string {
	if n <= 0 {
		n = 1
	}
	var rows []string
	for {
		if utf8.RuneCountInString(s) <= n {
			return append(rows, s)
		}
		i, count := 0, 0
		for count < n {
			_, size := utf8.DecodeRuneInString(s[i:])
			i += size
			count++
		}
		rows = append(rows, s[:i])
		s = strings.TrimLeft(s[i:], " ")
		if s == "" {
			return rows
		}
	}
}

type panicDisplay struct {
	fb hal.Framebuffer
}

func (d panicDisplay) Size() (x, y int16) {
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d panicDisplay) SetPixel(x, y int16, c color.RGBA) {
	hal.SetPixel565(d.fb, int(x), int(y), hal.RGB565(c))
}

func (d panicDisplay) Display() error { return nil }
