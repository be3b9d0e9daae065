// Package capture reads and writes recorded PS/2 byte streams.
//
// A capture is a list of chunks; each chunk is what one poll cycle read from
// the port, plus the channel error and overflow count latched at that time.
// Three encodings are supported:
//
//	hex   one chunk per line, "1c f0 1c", '#' starts a comment,
//	      a leading "!parity", "!framing" or "!overflow=N" marks the chunk,
//	      a lone "-" is a poll that read nothing
//	bin   raw bytes, split into 128 byte chunks
//	yaml  a list of {bytes: "1c f0 1c", error: parity, overflows: 2}
package capture

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// ChunkSize is the read size of one poll cycle.
const ChunkSize = 128

// idleLine stands for an empty chunk in hex captures, where blank lines are
// skipped.
const idleLine = "-"

// ErrEmpty is returned when a capture holds no chunks.
var ErrEmpty = errors.New("capture: no data")

type Format string

const (
	FormatHex    Format = "hex"
	FormatBinary Format = "bin"
	FormatYAML   Format = "yaml"
)

// ParseFormat normalizes a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "hex", "txt", "text":
		return FormatHex, nil
	case "bin", "binary", "raw":
		return FormatBinary, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported capture format: %q", s)
	}
}

// DetectFormat picks a format from a file extension, defaulting to hex.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bin", ".raw":
		return FormatBinary
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatHex
	}
}

// Channel errors recorded alongside a chunk.
const (
	ErrorParity   = "parity"
	ErrorFraming  = "framing"
	ErrorOverflow = "overflow"
)

// Chunk is one poll cycle worth of port data.
type Chunk struct {
	Bytes     []byte
	Error     string
	Overflows uint32
}

// Read decodes a whole capture.
func Read(r io.Reader, f Format) ([]Chunk, error) {
	var (
		chunks []Chunk
		err    error
	)
	switch f {
	case FormatHex:
		chunks, err = readHex(r)
	case FormatBinary:
		chunks, err = readBinary(r)
	case FormatYAML:
		chunks, err = readYAML(r)
	default:
		return nil, fmt.Errorf("unsupported capture format: %q", f)
	}
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, ErrEmpty
	}
	return chunks, nil
}

// Write encodes chunks. Binary output drops error marks.
func Write(w io.Writer, f Format, chunks []Chunk) error {
	switch f {
	case FormatHex:
		bw := bufio.NewWriter(w)
		for _, c := range chunks {
			if c.Error != "" {
				bw.WriteString("!" + c.Error)
				if c.Error == ErrorOverflow && c.Overflows != 0 {
					fmt.Fprintf(bw, "=%d", c.Overflows)
				}
				if len(c.Bytes) > 0 {
					bw.WriteByte(' ')
				}
			}
			if c.Error == "" && len(c.Bytes) == 0 {
				bw.WriteString(idleLine)
			}
			bw.WriteString(FormatHexBytes(c.Bytes))
			bw.WriteByte('\n')
		}
		return bw.Flush()
	case FormatBinary:
		for _, c := range chunks {
			if _, err := w.Write(c.Bytes); err != nil {
				return err
			}
		}
		return nil
	case FormatYAML:
		out := make([]yamlChunk, len(chunks))
		for i, c := range chunks {
			out[i] = yamlChunk{Bytes: FormatHexBytes(c.Bytes), Error: c.Error, Overflows: c.Overflows}
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported capture format: %q", f)
	}
}

// ParseHex decodes whitespace or comma separated hex bytes. Tokens may carry
// a 0x prefix; a token longer than two digits is split into byte pairs.
func ParseHex(s string) ([]byte, error) {
	var out []byte
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ',' || r == '\n' || r == '\r'
	})
	for _, tok := range fields {
		tok = strings.TrimPrefix(strings.TrimPrefix(tok, "0x"), "0X")
		if len(tok) == 0 || len(tok)%2 != 0 && len(tok) != 1 {
			return nil, fmt.Errorf("invalid hex byte %q", tok)
		}
		if len(tok) == 1 {
			tok = "0" + tok
		}
		for i := 0; i < len(tok); i += 2 {
			v, err := strconv.ParseUint(tok[i:i+2], 16, 8)
			if err != nil {
				return nil, fmt.Errorf("invalid hex byte %q", tok[i:i+2])
			}
			out = append(out, byte(v))
		}
	}
	return out, nil
}

// FormatHexBytes renders p as lower case, space separated hex.
func FormatHexBytes(p []byte) string {
	const hexdigits = "0123456789abcdef"
	var b strings.Builder
	b.Grow(len(p) * 3)
	for i, v := range p {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(hexdigits[v>>4])
		b.WriteByte(hexdigits[v&0x0f])
	}
	return b.String()
}

// Split cuts p into ChunkSize pieces.
func Split(p []byte) []Chunk {
	var out []Chunk
	for len(p) > 0 {
		n := min(len(p), ChunkSize)
		out = append(out, Chunk{Bytes: append([]byte(nil), p[:n]...)})
		p = p[n:]
	}
	return out
}

func readHex(r io.Reader) ([]Chunk, error) {
	var chunks []Chunk
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if text == idleLine {
			chunks = append(chunks, Chunk{})
			continue
		}

		var c Chunk
		if strings.HasPrefix(text, "!") {
			mark, rest, _ := strings.Cut(text[1:], " ")
			if err := c.setMark(mark); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			text = rest
		}
		b, err := ParseHex(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		c.Bytes = b
		chunks = append(chunks, c)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return chunks, nil
}

func (c *Chunk) setMark(mark string) error {
	name, count, hasCount := strings.Cut(mark, "=")
	switch name {
	case ErrorParity, ErrorFraming:
		if hasCount {
			return fmt.Errorf("mark %q takes no count", name)
		}
	case ErrorOverflow:
		if hasCount {
			n, err := strconv.ParseUint(count, 10, 32)
			if err != nil {
				return fmt.Errorf("invalid overflow count %q", count)
			}
			c.Overflows = uint32(n)
		}
	default:
		return fmt.Errorf("unknown mark %q", name)
	}
	c.Error = name
	return nil
}

func readBinary(r io.Reader) ([]Chunk, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	return Split(buf.Bytes()), nil
}

type yamlChunk struct {
	Bytes     string `yaml:"bytes"`
	Error     string `yaml:"error,omitempty"`
	Overflows uint32 `yaml:"overflows,omitempty"`
}

func readYAML(r io.Reader) ([]Chunk, error) {
	var in []yamlChunk
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&in); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode yaml capture: %w", err)
	}
	chunks := make([]Chunk, 0, len(in))
	for i, yc := range in {
		b, err := ParseHex(yc.Bytes)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}
		c := Chunk{Bytes: b, Overflows: yc.Overflows}
		switch yc.Error {
		case "", ErrorParity, ErrorFraming, ErrorOverflow:
			c.Error = yc.Error
		default:
			return nil, fmt.Errorf("chunk %d: unknown error %q", i, yc.Error)
		}
		chunks = append(chunks, c)
	}
	return chunks, nil
}
