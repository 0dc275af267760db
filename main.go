// main.go - ra8875emu command line

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"
)

var (
	configFlag     string
	backendFlag    string
	scaleFlag      int
	depthFlag      int
	rotateFlag     bool
	fullscreenFlag bool
	logLevelFlag   string
	snapshotFlag   string
	snapshotApp    bool
)

var rootCmd = &cobra.Command{
	Use:          filepath.Base(os.Args[0]),
	Short:        "ra8875emu emulates the RA8875 display controller on a host screen",
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		os.Exit(1)
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "open the display and run the clock face",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fatal(cmd, runClock(cmd))
	},
}

var scriptCmd = &cobra.Command{
	Use:   "script FILE.lua",
	Short: "draw a Lua scene",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fatal(cmd, runScript(cmd, args[0]))
	},
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "list input devices seen by the framebuffer backend",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fatal(cmd, listDevices(cmd.OutOrStdout()))
	},
}

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "print compiled backends and build information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printFeatures(cmd.OutOrStdout())
	},
}

func init() {
	cobra.EnablePrefixMatching = true
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFlag, "config", "c", "", "config file (default ~/.config/ra8875emu/config.yaml)")
	pf.StringVarP(&backendFlag, "backend", "b", "", "auto, fb, x11, window or headless")
	pf.IntVarP(&scaleFlag, "scale", "s", 0, "physical pixels per APP pixel, 1 to 4")
	pf.IntVar(&depthFlag, "depth", 0, "native pixel depth, 16 or 32")
	pf.BoolVar(&rotateFlag, "rotate", false, "turn the display 180 degrees")
	pf.BoolVar(&fullscreenFlag, "fullscreen", false, "start fullscreen")
	pf.StringVar(&logLevelFlag, "log-level", "", "debug, info, warn or error")

	scriptCmd.Flags().StringVar(&snapshotFlag, "snapshot", "", "write the finished canvas to this BMP file")
	scriptCmd.Flags().BoolVar(&snapshotApp, "app-size", false, "scale the snapshot down to 800x480")

	rootCmd.AddCommand(runCmd, scriptCmd, devicesCmd, featuresCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies flags the user set.
func loadConfig(cmd *cobra.Command) (Config, *slog.Logger, error) {
	cfg, err := LoadConfig(configFlag)
	if err != nil {
		return cfg, nil, errors.Wrap(err, 0)
	}
	fl := cmd.Flags()
	if fl.Changed("backend") {
		cfg.Backend = backendFlag
	}
	if fl.Changed("scale") {
		cfg.Scale = scaleFlag
	}
	if fl.Changed("depth") {
		cfg.Depth = depthFlag
	}
	if fl.Changed("rotate") {
		cfg.Rotate = rotateFlag
	}
	if fl.Changed("fullscreen") {
		cfg.Fullscreen = fullscreenFlag
	}
	if fl.Changed("log-level") {
		cfg.LogLevel = logLevelFlag
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, errors.Wrap(err, 0)
	}
	lvl, _ := parseLogLevel(cfg.LogLevel)
	return cfg, newLogger(cmd.ErrOrStderr(), lvl), nil
}

// fatal reports err with its stack and exits.
func fatal(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	w := cmd.ErrOrStderr()
	fmt.Fprintln(w, err.Error())
	var stacked *errors.Error
	if errors.As(err, &stacked) {
		fmt.Fprintln(w, stacked.ErrorStack())
	}
	os.Exit(1)
}

type doneNotifier interface {
	Done() <-chan struct{}
}

func closeBackend(d *RA8875) {
	if c, ok := d.Backend().(io.Closer); ok {
		logIsErr(d.log, slog.LevelWarn, c.Close(), "op", "close backend")
	}
}

func runClock(cmd *cobra.Command) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	d := NewRA8875(logger)
	if err := d.Begin(cfg); err != nil {
		return err
	}
	defer closeBackend(d)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if dn, ok := d.Backend().(doneNotifier); ok {
		go func() {
			select {
			case <-dn.Done():
				logger.Info("display closed")
				stop()
			case <-ctx.Done():
			}
		}()
	}
	newClockDemo(d).run(ctx)
	return nil
}

func runScript(cmd *cobra.Command, path string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if snapshotFlag != "" && !cmd.Flags().Changed("backend") {
		cfg.Backend = "headless"
	}
	d := NewRA8875(logger)
	if err := d.Begin(cfg); err != nil {
		return err
	}
	defer closeBackend(d)

	if err := NewSceneScript(d).RunFile(path); err != nil {
		return errors.Wrap(err, 0)
	}
	d.DrawCanvas()
	if snapshotFlag == "" {
		return nil
	}
	f, err := os.Create(snapshotFlag)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	if err := d.WriteBMP(f, snapshotApp); err != nil {
		f.Close()
		return errors.Wrap(err, 0)
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, 0)
	}
	logger.Info("snapshot written", "path", snapshotFlag)
	return nil
}

func listDevices(w io.Writer) error {
	devs, err := DiscoverInputDevices()
	if err != nil {
		return errors.Wrap(err, 0)
	}
	for _, dev := range devs {
		path := dev.EventPath()
		if path == "" {
			path = "-"
		}
		fmt.Fprintf(w, "%-20s %-16s %s\n", path, dev.Kind(), dev.Name)
	}
	return nil
}
