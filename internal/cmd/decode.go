package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"ps2kbd/fw/ps2"
	"ps2kbd/internal/capture"
	"ps2kbd/internal/log"
)

// Decode replays a capture through the keyboard pipeline, one chunk per poll
// cycle, and reports what the consumer would have seen.
type Decode struct {
	Input  string `arg:"" optional:"" default:"-" help:"Capture file, '-' for stdin"`
	Format string `help:"Capture format (hex, bin, yaml); guessed from the file extension when empty"`
	Hold   bool   `help:"Report held keys without draining them after each cycle"`
	Text   bool   `help:"Print only the typed characters"`

	out io.Writer
}

// Cycle is the observable result of one poll cycle.
type Cycle struct {
	Index     int
	Error     string
	Overflows uint32
	Keys      []ps2.KeyCode
	Mods      ps2.Modifiers
	State     ps2.State
	Unmapped  []ps2.Event
}

func (c Cycle) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cycle %d: keys=[", c.Index)
	for i, k := range c.Keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k.String())
	}
	fmt.Fprintf(&b, "] mods=%s state=%s", c.Mods, c.State)
	return b.String()
}

// Run is called by Kong when the decode command is executed.
func (d *Decode) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	f := capture.DetectFormat(d.Input)
	if d.Format != "" {
		var err error
		if f, err = capture.ParseFormat(d.Format); err != nil {
			return err
		}
	}

	in, err := openInput(d.Input)
	if err != nil {
		return err
	}
	defer in.Close()

	chunks, err := capture.Read(in, f)
	if err != nil {
		return fmt.Errorf("read capture %s: %w", d.Input, err)
	}
	logger.Debug("capture loaded", "input", d.Input, "format", f, "chunks", len(chunks))

	cycles := Replay(chunks, d.Hold, rawLogger)
	return d.report(logger, cycles)
}

func (d *Decode) report(logger *slog.Logger, cycles []Cycle) error {
	w := writerOr(d.out)
	var keys, unmapped int
	var text strings.Builder
	for _, c := range cycles {
		if c.Error != "" {
			logger.Warn("channel error", "cycle", c.Index, "error", c.Error, "overflows", c.Overflows)
		}
		for _, ev := range c.Unmapped {
			logger.Warn("unmapped scancode", "cycle", c.Index, "event", ev.String())
		}
		keys += len(c.Keys)
		unmapped += len(c.Unmapped)

		if d.Text {
			for _, k := range c.Keys {
				text.WriteRune(k.Rune())
			}
			continue
		}
		if _, err := fmt.Fprintln(w, c.String()); err != nil {
			return err
		}
	}
	if d.Text {
		_, err := io.WriteString(w, text.String())
		return err
	}
	logger.Info("decode finished", "cycles", len(cycles), "keys", keys, "unmapped", unmapped)
	return nil
}

// Replay feeds each chunk, as one poll cycle, to a single pipeline that
// keeps its state across chunks. Channel errors are recorded but never reset
// the decoder. rawLogger may be nil.
func Replay(chunks []capture.Chunk, hold bool, rawLogger log.RawLogger) []Cycle {
	var (
		kbd      ps2.Keyboard
		unmapped []ps2.Event
	)
	kbd.OnUnmapped = func(ev ps2.Event) { unmapped = append(unmapped, ev) }

	cycles := make([]Cycle, 0, len(chunks))
	for i, ch := range chunks {
		if rawLogger != nil {
			rawLogger.Log(true, ch.Bytes)
		}
		unmapped = nil
		_, _ = kbd.Write(ch.Bytes)

		c := Cycle{
			Index:     i,
			Error:     ch.Error,
			Overflows: ch.Overflows,
			Mods:      kbd.Modifiers(),
			State:     kbd.State(),
			Unmapped:  unmapped,
		}
		if hold {
			c.Keys = kbd.AppendSnapshot(nil)
		} else {
			c.Keys = kbd.SnapshotAndClear()
		}
		cycles = append(cycles, c)
	}
	return cycles
}
