package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ps2kbd/fw/ps2"
	"ps2kbd/internal/capture"
	"ps2kbd/internal/log"

	"github.com/gdamore/tcell/v2"
	toml "github.com/pelletier/go-toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v3"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingRaw struct{ chunks [][]byte }

func (r *recordingRaw) Log(_ bool, data []byte) {
	r.chunks = append(r.chunks, append([]byte(nil), data...))
}

func TestReplayDrainsPerCycle(t *testing.T) {
	chunks := []capture.Chunk{
		{Bytes: []byte{0x12, 0x16}},       // shift + 1 down
		{Bytes: []byte{0xf0, 0x16, 0xf0}}, // release, split mid break
		{Bytes: []byte{0x12, 0x33, 0x05}}, // shift up, h down, unmapped F1
		{Error: capture.ErrorParity},      // nothing read
		{Bytes: []byte{0xe0, 0x11, 0x3e}}, // altgr + 8
	}
	raw := &recordingRaw{}
	cycles := Replay(chunks, false, raw)
	require.Len(t, cycles, 5)
	assert.Len(t, raw.chunks, 5)

	assert.Equal(t, []ps2.KeyCode{ps2.KeyExclaim}, cycles[0].Keys)
	assert.Equal(t, ps2.ShiftLeft, cycles[0].Mods)

	assert.Empty(t, cycles[1].Keys)
	assert.Equal(t, ps2.StateBreakF0, cycles[1].State)

	assert.Equal(t, []ps2.KeyCode{ps2.KeyH}, cycles[2].Keys)
	assert.Equal(t, ps2.Modifiers(0), cycles[2].Mods)
	require.Len(t, cycles[2].Unmapped, 1)
	assert.Equal(t, byte(0x05), cycles[2].Unmapped[0].Scancode)

	assert.Equal(t, capture.ErrorParity, cycles[3].Error)
	assert.Empty(t, cycles[3].Keys)

	assert.Equal(t, []ps2.KeyCode{ps2.KeyBracketLeft}, cycles[4].Keys)
	assert.Equal(t, ps2.AltGr, cycles[4].Mods)
	assert.Equal(t, ps2.StateIdle, cycles[4].State)
}

func TestReplayHoldKeepsKeys(t *testing.T) {
	chunks := []capture.Chunk{
		{Bytes: []byte{0x1c}},
		{Bytes: []byte{0x32}},
		{Bytes: []byte{0xf0, 0x1c}},
	}
	cycles := Replay(chunks, true, nil)
	assert.Equal(t, []ps2.KeyCode{ps2.KeyA}, cycles[0].Keys)
	assert.Equal(t, []ps2.KeyCode{ps2.KeyA, ps2.KeyB}, cycles[1].Keys)
	assert.Equal(t, []ps2.KeyCode{ps2.KeyB}, cycles[2].Keys)
}

func TestCycleString(t *testing.T) {
	c := Cycle{Index: 3, Keys: []ps2.KeyCode{ps2.KeyA, ps2.KeyEnter}, Mods: ps2.ShiftLeft}
	assert.Equal(t, "cycle 3: keys=[a enter] mods=shift-l state=idle", c.String())
}

func TestDecodeRunFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typed.yaml")
	chunks, err := EncodeText("hallo (welt)!\n", false)
	require.NoError(t, err)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, capture.Write(f, capture.FormatYAML, chunks))
	require.NoError(t, f.Close())

	var out bytes.Buffer
	d := &Decode{Input: path, Text: true, out: &out}
	require.NoError(t, d.Run(discardLogger(), log.NewRaw(nil)))
	assert.Equal(t, "hallo (welt)!\n", out.String())

	out.Reset()
	d = &Decode{Input: path, out: &out}
	require.NoError(t, d.Run(discardLogger(), log.NewRaw(nil)))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, len(chunks))
	assert.Equal(t, "cycle 0: keys=[h] mods=- state=idle", lines[0])
}

func TestDecodeRunErrors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.hex")
	require.NoError(t, os.WriteFile(empty, []byte("# nothing\n"), 0o644))

	d := &Decode{Input: empty, out: io.Discard}
	err := d.Run(discardLogger(), log.NewRaw(nil))
	assert.ErrorIs(t, err, capture.ErrEmpty)

	d = &Decode{Input: empty, Format: "csv", out: io.Discard}
	assert.Error(t, d.Run(discardLogger(), log.NewRaw(nil)))

	d = &Decode{Input: filepath.Join(dir, "missing.hex"), out: io.Discard}
	assert.Error(t, d.Run(discardLogger(), log.NewRaw(nil)))
}

func TestOpenInputRefusesTerminal(t *testing.T) {
	orig := isTerminal
	t.Cleanup(func() { isTerminal = orig })

	isTerminal = func(*os.File) bool { return true }
	_, err := openInput("-")
	assert.ErrorIs(t, err, errInteractiveInput)

	isTerminal = func(*os.File) bool { return false }
	in, err := openInput("")
	require.NoError(t, err)
	assert.NoError(t, in.Close())
}

func TestEncodeText(t *testing.T) {
	chunks, err := EncodeText("a[", false)
	require.NoError(t, err)
	require.Len(t, chunks, 4)
	assert.Equal(t, []byte{0x1c}, chunks[0].Bytes)
	assert.Equal(t, []byte{0xf0, 0x1c}, chunks[1].Bytes)
	assert.Equal(t, []byte{0xe0, 0x11, 0x3e}, chunks[2].Bytes)
	assert.Equal(t, []byte{0xf0, 0x3e, 0xe0, 0xf0, 0x11}, chunks[3].Bytes)

	joined, err := EncodeText("a[", true)
	require.NoError(t, err)
	require.Len(t, joined, 1)
	assert.Equal(t, []byte{0x1c, 0xf0, 0x1c, 0xe0, 0x11, 0x3e, 0xf0, 0x3e, 0xe0, 0xf0, 0x11}, joined[0].Bytes)

	_, err = EncodeText("A", false)
	assert.ErrorContains(t, err, `"A"`)

	_, err = EncodeText("", true)
	assert.ErrorIs(t, err, capture.ErrEmpty)
}

func TestEncodeRun(t *testing.T) {
	var out bytes.Buffer
	raw := &recordingRaw{}
	e := &Encode{Text: `1\n`, Format: "hex", Output: "-", out: &out}
	require.NoError(t, e.Run(discardLogger(), raw))
	assert.Equal(t, "16\nf0 16\n5a\nf0 5a\n", out.String())
	assert.Len(t, raw.chunks, 4)
}

func TestEncodeDecodeEveryKey(t *testing.T) {
	var text strings.Builder
	for c := ps2.KeyCode(0); c.Valid(); c++ {
		text.WriteRune(c.Rune())
	}
	chunks, err := EncodeText(text.String(), false)
	require.NoError(t, err)

	var got strings.Builder
	for _, c := range Replay(chunks, false, nil) {
		for _, k := range c.Keys {
			got.WriteRune(k.Rune())
		}
	}
	assert.Equal(t, text.String(), got.String())
}

func TestBuildTable(t *testing.T) {
	entries := BuildTable()
	byCode := map[string]TableEntry{}
	for _, e := range entries {
		byCode[e.Scancode] = e
	}
	assert.Equal(t, TableEntry{Scancode: "0x1c", Base: "a"}, byCode["0x1c"])
	assert.Equal(t, TableEntry{Scancode: "0x3e", Base: "8", Shift: "(", AltGr: "["}, byCode["0x3e"])
	assert.Equal(t, TableEntry{Scancode: "0x25", Base: "4", Shift: "$"}, byCode["0x25"])
	assert.Equal(t, "enter", byCode["0x5a"].Base)
	_, ok := byCode["0x12"]
	assert.False(t, ok, "modifiers are not in the table")

	for i := 1; i < len(entries); i++ {
		assert.Less(t, entries[i-1].Scancode, entries[i].Scancode)
	}
}

func TestWriteTableFormats(t *testing.T) {
	entries := BuildTable()

	var buf bytes.Buffer
	require.NoError(t, writeTable(&buf, "yaml", entries))
	var y tableDoc
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &y))
	assert.Equal(t, entries, y.Keys)

	buf.Reset()
	require.NoError(t, writeTable(&buf, "toml", entries))
	var tm tableDoc
	require.NoError(t, toml.Unmarshal(buf.Bytes(), &tm))
	assert.Equal(t, entries, tm.Keys)

	buf.Reset()
	require.NoError(t, writeTable(&buf, "json", entries))
	var j tableDoc
	require.NoError(t, json.Unmarshal(buf.Bytes(), &j))
	assert.Equal(t, entries, j.Keys)

	buf.Reset()
	require.NoError(t, writeTable(&buf, "text", entries))
	assert.True(t, strings.HasPrefix(buf.String(), "SCANCODE"))
	assert.Contains(t, buf.String(), "0x46")

	assert.Error(t, writeTable(&buf, "xml", entries))
}

func TestLiveSessionFeed(t *testing.T) {
	raw := &recordingRaw{}
	s := newLiveSession(false, discardLogger(), raw)

	assert.False(t, s.handle(tcell.NewEventKey(tcell.KeyRune, '!', tcell.ModShift)))
	assert.Equal(t, []ps2.KeyCode{ps2.KeyExclaim}, s.lastKeys)
	assert.Equal(t, ps2.ShiftLeft, s.mods)
	assert.Equal(t, []byte{0x12, 0x16, 0xf0, 0x16, 0xf0, 0x12}, s.lastBytes)
	assert.Len(t, raw.chunks, 2)
	assert.Equal(t, ps2.Modifiers(0), s.kbd.Modifiers())
	assert.Equal(t, 0, s.kbd.Len())

	assert.False(t, s.handle(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)))
	assert.Equal(t, "!\n", string(s.typed))

	assert.False(t, s.handle(tcell.NewEventKey(tcell.KeyRune, 'Q', tcell.ModShift)))
	assert.Contains(t, s.status, `no key produces "Q"`)

	assert.True(t, s.handle(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
}

func TestLiveSessionHistoryBounded(t *testing.T) {
	s := newLiveSession(false, nil, log.NewRaw(nil))
	for i := 0; i < typedHistory+10; i++ {
		s.feed('x')
	}
	assert.Len(t, s.typed, typedHistory)
}

func TestLiveSessionDraw(t *testing.T) {
	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(60, 12)

	s := newLiveSession(false, nil, log.NewRaw(nil))
	s.feed('a')
	s.draw(screen)

	row := func(y int) string {
		var b strings.Builder
		for x := 0; x < 60; x++ {
			r, _, _, _ := screen.GetContent(x, y)
			b.WriteRune(r)
		}
		return strings.TrimRight(b.String(), " ")
	}
	assert.Equal(t, "bytes: 1c f0 1c", row(2))
	assert.Equal(t, "keys:  [a]", row(3))
	assert.Equal(t, "state: idle", row(5))
}
