// Package tray shows the notification-area menu.
package tray

import (
	"context"
	"runtime"
	"time"

	"hdr_controller/internal/hdr"
	"hdr_controller/internal/trayicon"

	"fyne.io/systray"
	"github.com/rs/zerolog"
	"github.com/skratchdot/open-golang/open"
)

// refreshDelay gives the shell time to finish switching modes before the
// state item is re-read.
const refreshDelay = 2 * time.Second

// Controller is the part of hdr.Controller the menu uses.
type Controller interface {
	Toggle() error
	State() (hdr.State, error)
}

type Options struct {
	ConfigPath string
	Log        zerolog.Logger
}

// Run blocks until Quit is chosen or ctx is done. It must be called from
// the main goroutine with the OS thread locked.
func Run(ctx context.Context, ctl Controller, opts Options) {
	onReady := func() {
		ready(ctx, ctl, opts)
	}
	onExit := func() {
		opts.Log.Info().Msg("tray closed")
	}
	systray.Run(onReady, onExit)
}

func ready(ctx context.Context, ctl Controller, opts Options) {
	icon, err := iconFor(runtime.GOOS)
	if err != nil {
		opts.Log.Error().Err(err).Msg("building tray icon failed")
	} else {
		systray.SetIcon(icon)
	}
	systray.SetTitle("HDR")
	systray.SetTooltip("HDR Controller")

	mToggle := systray.AddMenuItem("Toggle HDR", "Send "+hdr.ToggleChord.String())
	mState := systray.AddMenuItem(stateTitle(hdr.StateUnknown), "HDR state of the active displays")
	mState.Disable()
	mConfig := systray.AddMenuItem("Open config", opts.ConfigPath)
	if opts.ConfigPath == "" {
		mConfig.Disable()
	}
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit HDR Controller")

	refresh := func() {
		state, err := ctl.State()
		if err != nil {
			opts.Log.Debug().Err(err).Msg("HDR state query failed")
		}
		mState.SetTitle(stateTitle(state))
	}
	refresh()

	go func() {
		for {
			select {
			case <-mToggle.ClickedCh:
				if err := ctl.Toggle(); err != nil {
					opts.Log.Error().Err(err).Msg("toggle failed")
				}
				time.AfterFunc(refreshDelay, refresh)
			case <-mConfig.ClickedCh:
				if err := open.Run(opts.ConfigPath); err != nil {
					opts.Log.Error().Err(err).Str("path", opts.ConfigPath).Msg("opening config failed")
				}
			case <-mQuit.ClickedCh:
				systray.Quit()
				return
			case <-ctx.Done():
				systray.Quit()
				return
			}
		}
	}()
}

func stateTitle(s hdr.State) string {
	return "HDR: " + s.String()
}

// iconFor returns an ICO for Windows and a PNG for the other trays.
func iconFor(goos string) ([]byte, error) {
	if goos == "windows" {
		return trayicon.ICO()
	}
	return trayicon.PNG()
}
