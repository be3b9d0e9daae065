package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"ps2kbd/fw/ps2"
	"ps2kbd/internal/capture"
	"ps2kbd/internal/log"

	"github.com/gdamore/tcell/v2"
)

// Live turns terminal key presses into set-2 bytes and feeds them through the
// pipeline, one poll cycle for the press and one for the release.
type Live struct {
	Hold bool `help:"Report held keys without draining them"`
}

const typedHistory = 256

type liveSession struct {
	kbd    ps2.Keyboard
	hold   bool
	raw    log.RawLogger
	logger *slog.Logger

	lastBytes []byte
	lastKeys  []ps2.KeyCode
	mods      ps2.Modifiers
	typed     []rune
	status    string
	unmapped  int
}

func newLiveSession(hold bool, logger *slog.Logger, raw log.RawLogger) *liveSession {
	s := &liveSession{hold: hold, raw: raw, logger: logger}
	s.kbd.OnUnmapped = func(ev ps2.Event) {
		s.unmapped++
		s.status = "unmapped " + ev.String()
	}
	return s
}

// Run is called by Kong when the live command is executed.
func (l *Live) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	if !isTerminal(os.Stdin) {
		return errors.New("live needs an interactive terminal")
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	s := newLiveSession(l.Hold, logger, rawLogger)
	s.draw(screen)
	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventKey:
			if s.handle(ev) {
				logger.Debug("live session ended", "typed", len(s.typed), "unmapped", s.unmapped)
				return nil
			}
		case *tcell.EventResize:
			screen.Sync()
		}
		s.draw(screen)
	}
}

// handle processes one terminal key and reports whether to quit.
func (s *liveSession) handle(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyEnter:
		s.feed('\n')
	case tcell.KeyRune:
		s.feed(ev.Rune())
	default:
		s.status = fmt.Sprintf("%s has no set-2 mapping here", ev.Name())
	}
	return false
}

// feed types r: the press bytes form one cycle, the release bytes the next.
func (s *liveSession) feed(r rune) {
	down, up, ok := strokeFor(r)
	if !ok {
		s.status = fmt.Sprintf("no key produces %q", string(r))
		return
	}
	s.status = ""

	s.raw.Log(true, down)
	_, _ = s.kbd.Write(down)
	s.mods = s.kbd.Modifiers()
	if s.hold {
		s.lastKeys = s.kbd.AppendSnapshot(s.lastKeys[:0])
	} else {
		s.lastKeys = s.kbd.AppendSnapshotAndClear(s.lastKeys[:0])
	}
	for _, k := range s.lastKeys {
		s.typed = append(s.typed, k.Rune())
	}
	if over := len(s.typed) - typedHistory; over > 0 {
		s.typed = append(s.typed[:0], s.typed[over:]...)
	}

	s.raw.Log(true, up)
	_, _ = s.kbd.Write(up)
	s.lastBytes = append(append(s.lastBytes[:0], down...), up...)
	if s.logger != nil {
		s.logger.Debug("key", "rune", string(r), "bytes", capture.FormatHexBytes(s.lastBytes))
	}
}

func (s *liveSession) lines() []string {
	keys := make([]string, len(s.lastKeys))
	for i, k := range s.lastKeys {
		keys[i] = k.String()
	}
	return []string{
		"bytes: " + capture.FormatHexBytes(s.lastBytes),
		"keys:  [" + strings.Join(keys, " ") + "]",
		"mods:  " + s.mods.String(),
		"state: " + s.kbd.State().String(),
		fmt.Sprintf("unmapped: %d", s.unmapped),
	}
}

func (s *liveSession) draw(screen tcell.Screen) {
	screen.Clear()
	width, _ := screen.Size()

	title := tcell.StyleDefault.Bold(true)
	drawText(screen, 0, 0, title, "ps2dump live (Esc to quit)")
	y := 2
	for _, l := range s.lines() {
		drawText(screen, 0, y, tcell.StyleDefault, l)
		y++
	}
	if s.status != "" {
		drawText(screen, 0, y, tcell.StyleDefault.Foreground(tcell.ColorYellow), s.status)
	}
	y += 2

	typed := strings.ReplaceAll(string(s.typed), "\n", "¶")
	if r := []rune(typed); width > 7 && len(r) > width-7 {
		typed = string(r[len(r)-(width-7):])
	}
	drawText(screen, 0, y, tcell.StyleDefault.Foreground(tcell.ColorGreen), "typed: "+typed)
	screen.Show()
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}
