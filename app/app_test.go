package app

import (
	"strings"
	"sync"
	"testing"
	"time"

	"ps2kbd/hal"
)

type fakeLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *fakeLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, s)
}

func (l *fakeLogger) WriteLineBytes(b []byte) { l.WriteLineString(string(b)) }

func (l *fakeLogger) contains(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

type fakeLED struct{}

func (fakeLED) High() {}
func (fakeLED) Low()  {}

type fakeFB struct {
	mu  sync.Mutex
	w   int
	h   int
	buf []byte
}

func (f *fakeFB) Width() int              { return f.w }
func (f *fakeFB) Height() int             { return f.h }
func (f *fakeFB) Format() hal.PixelFormat { return hal.PixelFormatRGB565 }
func (f *fakeFB) StrideBytes() int        { return f.w * 2 }
func (f *fakeFB) Buffer() []byte          { return f.buf }
func (f *fakeFB) Present() error          { return nil }
func (f *fakeFB) ClearRGB(r, g, b uint8) {
	for i := range f.buf {
		f.buf[i] = 0
	}
}

type fakePort struct {
	mu   sync.Mutex
	data []byte
}

func (p *fakePort) Read(buf []byte) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := copy(buf, p.data)
	p.data = p.data[n:]
	return n
}

func (p *fakePort) LastError() hal.PS2Error { return hal.PS2ErrNone }
func (p *fakePort) Overflows() uint32       { return 0 }
func (p *fakePort) Write(cmd byte) error    { return nil }

type fakeTime struct{ ch chan uint64 }

func (t fakeTime) Ticks() <-chan uint64 { return t.ch }

type fakeHAL struct {
	log  *fakeLogger
	fb   *fakeFB
	port *fakePort
	t    fakeTime
}

func (h *fakeHAL) Logger() hal.Logger   { return h.log }
func (h *fakeHAL) LED() hal.LED         { return fakeLED{} }
func (h *fakeHAL) Display() hal.Display { return h }
func (h *fakeHAL) Input() hal.Input     { return h }
func (h *fakeHAL) Time() hal.Time       { return h.t }

func (h *fakeHAL) Framebuffer() hal.Framebuffer { return h.fb }
func (h *fakeHAL) PS2() hal.PS2                 { return h.port }

func TestSystemLogsUnmappedScancodes(t *testing.T) {
	h := &fakeHAL{
		log:  &fakeLogger{},
		fb:   &fakeFB{w: 64, h: 64, buf: make([]byte, 64*64*2)},
		port: &fakePort{data: []byte{0x33, 0xf0, 0x33, 0x07}},
		t:    fakeTime{ch: make(chan uint64)},
	}
	NewWithConfig(h, Config{PollTicks: 1, Debug: true})

	deadline := time.Now().Add(2 * time.Second)
	for seq := uint64(1); !h.log.contains("unmapped press 07"); seq++ {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for unmapped log line")
		}
		h.t.ch <- seq
		time.Sleep(time.Millisecond)
	}
	if !h.log.contains("mode=drain") {
		t.Fatal("missing ps2kbd startup log line")
	}
}
