package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"ps2kbd/fw/ps2"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

// Table exports the scancode translation table.
type Table struct {
	Format string `help:"Output format" enum:"text,json,yaml,toml" default:"text"`
	Output string `short:"o" help:"Output file, '-' for stdout" default:"-"`

	out io.Writer
}

// TableEntry describes one physical key.
type TableEntry struct {
	Scancode string `json:"scancode" yaml:"scancode" toml:"scancode"`
	Base     string `json:"base" yaml:"base" toml:"base"`
	Shift    string `json:"shift,omitempty" yaml:"shift,omitempty" toml:"shift,omitempty"`
	AltGr    string `json:"altgr,omitempty" yaml:"altgr,omitempty" toml:"altgr,omitempty"`
}

type tableDoc struct {
	Keys []TableEntry `json:"keys" yaml:"keys" toml:"keys"`
}

// BuildTable lists every mapped scancode in ascending order. Shift and AltGr
// are only set where they differ from the base symbol.
func BuildTable() []TableEntry {
	var out []TableEntry
	for sc := 0; sc < 256; sc++ {
		base := ps2.Translate(byte(sc), 0)
		if base == ps2.KeyNone {
			continue
		}
		e := TableEntry{Scancode: fmt.Sprintf("0x%02x", sc), Base: base.String()}
		if k := ps2.Translate(byte(sc), ps2.ShiftLeft); k != base {
			e.Shift = k.String()
		}
		if k := ps2.Translate(byte(sc), ps2.AltGr); k != base {
			e.AltGr = k.String()
		}
		out = append(out, e)
	}
	return out
}

// Run is called by Kong when the table command is executed.
func (t *Table) Run(logger *slog.Logger) error {
	entries := BuildTable()
	w, err := openOutput(t.Output, writerOr(t.out))
	if err != nil {
		return err
	}
	if err := writeTable(w, t.Format, entries); err != nil {
		_ = w.Close()
		return err
	}
	logger.Debug("table exported", "format", t.Format, "keys", len(entries))
	return w.Close()
}

func writeTable(w io.Writer, format string, entries []TableEntry) error {
	doc := tableDoc{Keys: entries}
	var (
		data []byte
		err  error
	)
	switch format {
	case "text", "":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SCANCODE\tBASE\tSHIFT\tALTGR")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Scancode, e.Base, e.Shift, e.AltGr)
		}
		return tw.Flush()
	case "json":
		data, err = json.MarshalIndent(doc, "", "  ")
		data = append(data, '\n')
	case "yaml":
		data, err = yaml.Marshal(doc)
	case "toml":
		data, err = toml.Marshal(doc)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
