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

// Encode types text on a virtual set-2 keyboard and writes the capture.
type Encode struct {
	Text   string `arg:"" help:"Text to type; \\n is Enter"`
	Format string `help:"Output format (hex, bin, yaml)" default:"hex" enum:"hex,bin,yaml"`
	Output string `short:"o" help:"Output file, '-' for stdout" default:"-"`
	Join   bool   `help:"Emit a single chunk instead of one per press and release"`

	out io.Writer
}

// Run is called by Kong when the encode command is executed.
func (e *Encode) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	f, err := capture.ParseFormat(e.Format)
	if err != nil {
		return err
	}
	chunks, err := EncodeText(strings.ReplaceAll(e.Text, `\n`, "\n"), e.Join)
	if err != nil {
		return err
	}
	for _, c := range chunks {
		rawLogger.Log(true, c.Bytes)
	}

	w, err := openOutput(e.Output, writerOr(e.out))
	if err != nil {
		return err
	}
	if err := capture.Write(w, f, chunks); err != nil {
		_ = w.Close()
		return fmt.Errorf("write capture: %w", err)
	}
	logger.Debug("encoded", "runes", len([]rune(e.Text)), "chunks", len(chunks))
	return w.Close()
}

// EncodeText returns the MAKE/BREAK stream that types s. Each key press and
// each release is its own chunk, so a draining reader sees every key.
func EncodeText(s string, join bool) ([]capture.Chunk, error) {
	var (
		chunks []capture.Chunk
		all    []byte
	)
	for _, r := range s {
		down, up, ok := strokeFor(r)
		if !ok {
			return nil, fmt.Errorf("no key produces %q", string(r))
		}
		if join {
			all = append(append(all, down...), up...)
			continue
		}
		chunks = append(chunks, capture.Chunk{Bytes: down}, capture.Chunk{Bytes: up})
	}
	if join && len(all) > 0 {
		chunks = []capture.Chunk{{Bytes: all}}
	}
	if len(chunks) == 0 {
		return nil, capture.ErrEmpty
	}
	return chunks, nil
}

// strokeFor returns the press and release sequences of the key producing r.
func strokeFor(r rune) (down, up []byte, ok bool) {
	code, ok := ps2.KeyCodeForRune(r)
	if !ok {
		return nil, nil, false
	}
	if down, ok = ps2.AppendPress(nil, code); !ok {
		return nil, nil, false
	}
	up, _ = ps2.AppendRelease(nil, code)
	return down, up, true
}
