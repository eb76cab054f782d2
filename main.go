package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"hdr_controller/internal/hdr"
	"hdr_controller/internal/platform"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const usageLine = "Usage: hdr_controller.exe [on|off|toggle]"

var version = "dev"

// platformFactory is swapped out in tests.
type platformFactory func() (hdr.Platform, error)

func main() {
	// systray needs the main thread.
	runtime.LockOSThread()

	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, platform.New))
}

func run(args []string, stdout, stderr io.Writer, newPlatform platformFactory) int {
	fs := flag.NewFlagSet("hdr_controller", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to the games config file (watch and tray modes).")
	checkState := fs.Bool("check", false, "Query the display HDR state before forcing on/off.")
	verbose := fs.Bool("v", false, "Enable debug logging.")
	versionPtr := fs.Bool("version", false, "Print version.")
	fs.Usage = func() {
		fmt.Fprintln(stderr, usageLine)
		fmt.Fprintln(stderr, "       hdr_controller.exe [flags] on|off|toggle|status|watch|tray")
		fmt.Fprintln(stderr, "Flags must come before the command.")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *versionPtr {
		fmt.Fprintln(stdout, version)
		return 0
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stdout, usageLine)
		return 0
	}
	if fs.NArg() > 1 {
		fmt.Fprintf(stderr, "unexpected arguments after %q: %s\n", fs.Arg(0), strings.Join(fs.Args()[1:], " "))
		fs.Usage()
		return 2
	}

	log := newLogger(stderr, *verbose)
	opts := []hdr.Option{hdr.WithLogger(log), hdr.WithStateCheck(*checkState)}

	switch cmd := strings.ToLower(strings.TrimSpace(fs.Arg(0))); cmd {
	case "status":
		return check(stderr, status(stdout, newPlatform, opts))
	case "watch", "tray":
		return check(stderr, monitor(cmd == "tray", *configPath, stdout, newPlatform, log, opts))
	}

	action, err := hdr.ParseAction(fs.Arg(0))
	if err != nil {
		return check(stderr, err)
	}
	p, err := newPlatform()
	if err != nil {
		return check(stderr, err)
	}
	return check(stderr, hdr.NewController(p, stdout, opts...).Apply(action))
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()
}

func check(stderr io.Writer, err error) int {
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Encountered error(s): %s\n", err)
		return 1
	}
	return 0
}
