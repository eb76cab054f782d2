package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"hdr_controller/internal/config"
	"hdr_controller/internal/hdr"
	"hdr_controller/internal/procwatch"
	"hdr_controller/internal/singleinstance"
	"hdr_controller/internal/tray"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

func status(stdout io.Writer, newPlatform platformFactory, opts []hdr.Option) error {
	p, err := newPlatform()
	if err != nil {
		return err
	}
	statuses, err := hdr.NewController(p, stdout, opts...).Status()
	if err != nil {
		return err
	}
	if len(statuses) == 0 {
		fmt.Fprintln(stdout, "No active displays")
		return nil
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DISPLAY\tHDR\tENCODING\tBPC")
	for _, s := range statuses {
		switch {
		case s.Err != nil:
			fmt.Fprintf(tw, "%s\terror: %s\t-\t-\n", s.Name, s.Err)
		default:
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", s.Name, hdrColumn(s.Info), s.Info.Encoding, s.Info.BitsPerChannel)
		}
	}
	return tw.Flush()
}

func hdrColumn(info hdr.AdvancedColorInfo) string {
	switch {
	case info.Enabled:
		return "on"
	case info.ForceDisabled:
		return "off (disabled by policy)"
	case info.Supported:
		return "off"
	}
	return "unsupported"
}

// monitor runs the game watcher, optionally under the tray menu, until
// interrupted.
func monitor(withTray bool, configPath string, stdout io.Writer, newPlatform platformFactory, log zerolog.Logger, opts []hdr.Option) error {
	if configPath == "" {
		var err error
		if configPath, err = config.DefaultPath(); err != nil {
			return err
		}
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	lockName, err := singleinstance.Name()
	if err != nil {
		return errors.Wrap(err, "start watcher")
	}
	lock, err := singleinstance.TryLock(lockName)
	if err != nil {
		return errors.Wrap(err, "start watcher")
	}
	log.Debug().Str("mutex", lock.Name()).Msg("instance lock held")
	defer func() {
		if err := lock.Release(); err != nil {
			log.Warn().Err(err).Msg("releasing instance lock failed")
		}
	}()

	p, err := newPlatform()
	if err != nil {
		return err
	}
	lister, err := procwatch.NewLister()
	if err != nil {
		return err
	}

	if cfg.CheckState {
		opts = append(opts, hdr.WithStateCheck(true))
	}
	ctl := hdr.NewController(p, stdout, opts...)
	watcher := procwatch.New(lister, ctl, cfg, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		err := config.Watch(ctx, configPath, log, func(c *config.Config) {
			watcher.SetGames(c.Games)
		})
		if err != nil {
			log.Warn().Err(err).Msg("config hot reload disabled")
		}
	}()

	if !withTray {
		return watcher.Run(ctx)
	}

	go func() {
		if err := watcher.Run(ctx); err != nil {
			log.Error().Err(err).Msg("watcher stopped")
		}
	}()
	tray.Run(ctx, ctl, tray.Options{ConfigPath: configPath, Log: log})
	return nil
}
