//go:build !tinygo

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"pocket/app"
	"pocket/hal"
	"pocket/internal/buildinfo"
	"pocket/pocketos/config"

	"github.com/spf13/cobra"
)

var (
	configPath   string
	headless     bool
	frames       uint64
	terminal     bool
	storeBackend string
	flashPath    string
	logFile      string
	scale        int

	rootCmd = &cobra.Command{
		Use:           "pocket",
		Short:         "Run the pocket touch OS on the desktop",
		Long:          `Runs the firmware against a simulated 240x320 touch panel in a window, in the terminal, or headless.`,
		Version:       buildinfo.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runPocket,
	}
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE:  runConfig,
	}
)

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&configPath, "config", "", "YAML configuration file (defaults when empty or missing)")
	f.StringVar(&storeBackend, "store", "", "override the store backend: badger, flash or memory")

	f = rootCmd.Flags()
	f.BoolVar(&headless, "headless", false, "run without a window")
	f.Uint64Var(&frames, "frames", 0, "stop after N frames in headless mode (0 = run until interrupted)")
	f.BoolVar(&terminal, "term", false, "draw the cell grid in the terminal")
	f.StringVar(&flashPath, "flash", "pocket.flash", "flash image used by the flash store")
	f.StringVar(&logFile, "log-file", "", "write logs to this file instead of stdout")
	f.IntVar(&scale, "scale", 2, "window scale factor")

	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if storeBackend != "" {
		cfg.Store.Backend = storeBackend
		if err := config.Validate(cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func runPocket(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	host := hal.HostConfig{
		Width:  cfg.Display.Width,
		Height: cfg.Display.Height,
	}
	if cfg.Store.Backend == config.BackendFlash {
		host.FlashPath = flashPath
	}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		host.LogWriter = f
	} else if terminal {
		host.LogWriter = io.Discard
	}

	newProgram := func(h hal.HAL) (hal.Program, error) {
		sys, err := app.New(h, cfg)
		if err != nil {
			return nil, err
		}
		return sys, nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	switch {
	case headless:
		err = hal.RunHeadless(ctx, hal.HeadlessConfig{Host: host, Frames: frames}, newProgram)
	case terminal:
		err = hal.RunTerminal(ctx, hal.TerminalConfig{
			Host:  host,
			Cols:  cfg.Display.Cols(),
			Rows:  cfg.Display.Rows(),
			CellW: cfg.Display.CellWidth,
			CellH: cfg.Display.CellHeight,
		}, newProgram)
	default:
		err = hal.RunWindow(hal.WindowConfig{Host: host, Scale: scale}, newProgram)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
