// Package config holds the ps2dump command line and configuration file schema.
package config

import (
	"ps2kbd/internal/cmd"

	"github.com/alecthomas/kong"
)

// Log configures diagnostics output.
type Log struct {
	Level   string `help:"Log level (trace, debug, info, warn, error)" default:"info" enum:"trace,debug,info,warn,error" env:"PS2DUMP_LOG_LEVEL"`
	File    string `help:"Write logs to this file as well as stderr" env:"PS2DUMP_LOG_FILE"`
	RawFile string `help:"Write every raw byte chunk to this file" env:"PS2DUMP_LOG_RAW_FILE"`
}

// CLI is the root of the ps2dump command tree. Config file keys mirror the
// flag names, e.g. {"log": {"level": "debug"}, "hold": true}.
type CLI struct {
	Config  string           `help:"Configuration file (json, yaml or toml)" type:"path" env:"PS2DUMP_CONFIG"`
	Log     Log              `embed:"" prefix:"log."`
	Version kong.VersionFlag `help:"Print version information and exit"`

	Decode cmd.Decode `cmd:"" help:"Run a recorded byte stream through the keyboard pipeline"`
	Encode cmd.Encode `cmd:"" help:"Convert text into scancode set 2 MAKE/BREAK bytes"`
	Table  cmd.Table  `cmd:"" help:"Export the scancode translation table"`
	Live   cmd.Live   `cmd:"" help:"Type into the terminal and watch the pipeline react"`
}
