// Package procwatch turns HDR on while a configured game is running and off
// once the last one exits.
package procwatch

import (
	"context"
	"strings"
	"sync"
	"time"

	"hdr_controller/internal/config"
	"hdr_controller/internal/hdr"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Switcher applies an HDR action.
type Switcher interface {
	Apply(action hdr.Action) error
}

// Watcher polls a Lister and drives a Switcher.
type Watcher struct {
	lister   Lister
	switcher Switcher
	log      zerolog.Logger
	interval time.Duration
	limiter  *rate.Limiter

	mu     sync.Mutex
	games  []config.Game
	active map[uint32]string // pid -> game name
	on     bool              // last transition committed to the switcher
}

// New builds a Watcher from cfg. Games can be replaced later with SetGames.
func New(lister Lister, switcher Switcher, cfg *config.Config, log zerolog.Logger) *Watcher {
	limit := rate.Inf
	if cfg.ToggleCooldown > 0 {
		limit = rate.Every(cfg.ToggleCooldown)
	}
	return &Watcher{
		lister:   lister,
		switcher: switcher,
		log:      log,
		interval: cfg.PollInterval,
		limiter:  rate.NewLimiter(limit, 1),
		games:    cfg.Games,
		active:   make(map[uint32]string),
	}
}

func (w *Watcher) SetGames(games []config.Game) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.games = games
}

// Active returns the number of running game processes.
func (w *Watcher) Active() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.active)
}

// Run polls until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Int("games", len(w.snapshotGames())).Msg("monitoring started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		w.poll(ctx)
		select {
		case <-ctx.Done():
			w.log.Info().Msg("monitoring stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (w *Watcher) poll(ctx context.Context) {
	procs, err := w.lister.Processes()
	if err != nil {
		w.log.Error().Err(err).Msg("listing processes failed")
		return
	}

	action, ok := w.Scan(procs)
	if !ok {
		return
	}
	if err := w.limiter.Wait(ctx); err != nil {
		w.revert(action)
		return
	}
	w.log.Info().Str("action", string(action)).Msg("switching HDR")
	if err := w.switcher.Apply(action); err != nil {
		w.log.Error().Err(err).Str("action", string(action)).Msg("switching HDR failed, retrying on next poll")
		w.revert(action)
	}
}

// revert undoes the transition Scan committed for action, so the next Scan
// reports it again.
func (w *Watcher) revert(action hdr.Action) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.on = action != hdr.ActionOn
}

// Scan updates the set of running games from a process snapshot and reports
// the transition it implies: ActionOn when a game is running and HDR was last
// switched off, ActionOff when none is left and HDR was last switched on.
func (w *Watcher) Scan(procs []Process) (hdr.Action, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	matched := make(map[uint32]string)
	for _, p := range procs {
		if p.Path == "" {
			continue
		}
		if g, ok := match(w.games, p); ok {
			matched[p.PID] = g.Name
		}
	}

	for pid, name := range matched {
		if _, ok := w.active[pid]; !ok {
			w.log.Info().Str("game", name).Uint32("pid", pid).Msg("game detected")
		}
	}
	for pid, name := range w.active {
		if _, ok := matched[pid]; !ok {
			w.log.Info().Str("game", name).Uint32("pid", pid).Msg("game exited")
		}
	}

	w.active = matched
	want := len(matched) > 0
	if want == w.on {
		return "", false
	}
	w.on = want
	if want {
		return hdr.ActionOn, true
	}
	return hdr.ActionOff, true
}

func (w *Watcher) snapshotGames() []config.Game {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.games
}

func match(games []config.Game, p Process) (config.Game, bool) {
	path := strings.ToLower(p.Path)
	for _, g := range games {
		if strings.EqualFold(g.Exe, p.Name) && strings.Contains(path, strings.ToLower(g.Folder)) {
			return g, true
		}
	}
	return config.Game{}, false
}
