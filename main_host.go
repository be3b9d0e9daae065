//go:build !tinygo

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"ps2kbd/app"
	"ps2kbd/hal"
	"ps2kbd/internal/capture"
)

func main() {
	var cfg hal.HeadlessConfig
	var appCfg app.Config
	var script string
	flag.BoolVar(&cfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&cfg.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.StringVar(&script, "script", "", "Hex PS/2 bytes to inject in headless mode (e.g. \"1c f0 1c\" or \"0x1c,0xf0,0x1c\").")
	flag.IntVar(&cfg.ScriptChunk, "script-chunk", 0, "Inject the script N bytes per frame (0 = all at once).")
	flag.Uint64Var(&appCfg.PollTicks, "poll", 0, "Keyboard poll period in ms ticks (0 = default).")
	flag.BoolVar(&appCfg.Probe, "probe", false, "Cycle the keyboard LEDs once per second.")
	flag.BoolVar(&appCfg.Debug, "debug", false, "Log unmapped scancodes.")
	flag.BoolVar(&appCfg.Hold, "hold", false, "Publish held keys instead of draining them every poll.")
	flag.Parse()

	if script != "" {
		b, err := capture.ParseHex(script)
		if err != nil {
			fmt.Fprintln(os.Stderr, "invalid -script:", err)
			os.Exit(2)
		}
		cfg.Script = b
	}

	newApp := func(h hal.HAL) func() error {
		return app.NewWithConfig(h, appCfg)
	}

	if cfg.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, newApp, cfg); err != nil {
			if err == context.Canceled {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(newApp); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
