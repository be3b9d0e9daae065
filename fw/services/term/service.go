package term

import (
	"image/color"

	"ps2kbd/fw/kernel"
	"ps2kbd/fw/proto"
	"ps2kbd/hal"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyterm"
)

const (
	fontHeight   = 7
	fontOffset   = 5
	statusHeight = fontHeight + 2
)

var (
	statusFG = color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xFF}
	statusBG = color.RGBA{R: 0xC0, G: 0xC0, B: 0xC0, A: 0xFF}
)

// Service is a text console on the framebuffer with a one-line status bar
// at the bottom.
type Service struct {
	disp hal.Display
	ep   kernel.Capability

	fb     hal.Framebuffer
	d      *fbDisplay
	status *fbDisplay
	t      *tinyterm.Terminal

	statusText string
}

func New(disp hal.Display, ep kernel.Capability) *Service {
	return &Service{disp: disp, ep: ep}
}

func (s *Service) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(s.ep)
	if !ok {
		return
	}

	if s.disp == nil {
		return
	}
	s.fb = s.disp.Framebuffer()
	if s.fb == nil {
		return
	}

	s.init(s.fb)

	dirty := false

	tickCh := make(chan uint64, 16)
	go func() {
		last := ctx.NowTick()
		for {
			last = ctx.WaitTick(last)
			select {
			case tickCh <- last:
			default:
			}
		}
	}()

	for {
		select {
		case <-tickCh:
			if dirty {
				s.t.Display()
				dirty = false
			}

		case msg, ok := <-ch:
			if !ok {
				return
			}
			if s.handle(msg) {
				dirty = true
			}
		}
	}
}

func (s *Service) init(fb hal.Framebuffer) {
	s.fb = fb
	consoleH := fb.Height() - statusHeight
	s.d = newFBDisplay(fb, 0, consoleH)
	s.status = newFBDisplay(fb, consoleH, statusHeight)
	s.reset()
}

func (s *Service) handle(msg kernel.Message) bool {
	switch proto.Kind(msg.Kind) {
	case proto.MsgTermWrite:
		_, _ = s.t.Write(msg.Payload())
	case proto.MsgTermClear:
		s.reset()
	case proto.MsgTermStatus:
		text := string(msg.Payload())
		if text == s.statusText {
			return false
		}
		s.statusText = text
		s.drawStatus()
	default:
		return false
	}
	return true
}

func (s *Service) reset() {
	s.t = tinyterm.NewTerminal(s.d)
	s.t.Configure(&tinyterm.Config{
		Font:              &tinyfont.TomThumb,
		FontHeight:        fontHeight,
		FontOffset:        fontOffset,
		UseSoftwareScroll: true,
	})
	s.fb.ClearRGB(0, 0, 0)
	s.drawStatus()
	_ = s.fb.Present()
}

func (s *Service) drawStatus() {
	w, h := s.status.Size()
	_ = s.status.FillRectangle(0, 0, w, h, statusBG)
	tinyfont.WriteLine(s.status, &tinyfont.TomThumb, 2, 1+fontOffset, s.statusText, statusFG)
}
