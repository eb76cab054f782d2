package procwatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"hdr_controller/internal/config"
	"hdr_controller/internal/hdr"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var testGames = []config.Game{
	{Name: "Cyberpunk", Exe: "Cyberpunk2077.exe", Folder: `C:\Games\Cyberpunk`},
	{Name: "Elden Ring", Exe: "eldenring.exe", Folder: "ELDEN RING"},
}

func cyberpunk(pid uint32) Process {
	return Process{PID: pid, Name: "Cyberpunk2077.exe", Path: `c:\games\cyberpunk\bin\x64\Cyberpunk2077.exe`}
}

func eldenRing(pid uint32) Process {
	return Process{PID: pid, Name: "EldenRing.exe", Path: `D:\Steam\steamapps\common\ELDEN RING\Game\eldenring.exe`}
}

// recordingSwitcher records every Apply call and fails the first failFirst.
type recordingSwitcher struct {
	mu        sync.Mutex
	failFirst int
	actions   []hdr.Action
	times     []time.Time
}

func (r *recordingSwitcher) Apply(action hdr.Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, action)
	r.times = append(r.times, time.Now())
	if len(r.actions) <= r.failFirst {
		return errors.Wrap(hdr.ErrInjectionFailed, "accepted 3 of 6 events")
	}
	return nil
}

func (r *recordingSwitcher) snapshot() []hdr.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]hdr.Action(nil), r.actions...)
}

// scriptedLister returns one snapshot per call and repeats the last one.
type scriptedLister struct {
	mu    sync.Mutex
	steps [][]Process
	errAt int
	calls int
}

func (s *scriptedLister) Processes() ([]Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls == s.errAt {
		return nil, errors.New("snapshot failed")
	}
	i := min(len(s.steps)-1, s.calls-1)
	return s.steps[i], nil
}

func newTestWatcher(lister Lister, sw Switcher) *Watcher {
	return newCooldownWatcher(lister, sw, 0)
}

func newCooldownWatcher(lister Lister, sw Switcher, cooldown time.Duration) *Watcher {
	cfg := &config.Config{Games: testGames, PollInterval: time.Millisecond, ToggleCooldown: cooldown}
	return New(lister, sw, cfg, zerolog.Nop())
}

// runUntil runs w until sw has recorded n actions or five seconds pass, then
// lets a few more polls run so unexpected extra actions show up.
func runUntil(t *testing.T, w *Watcher, sw *recordingSwitcher, n int) []hdr.Action {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for len(sw.snapshot()) < n && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run returned %v", err)
	}
	return sw.snapshot()
}

func equalActions(got, want []hdr.Action) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestScanTransitions(t *testing.T) {
	steps := []struct {
		name     string
		procs    []Process
		want     hdr.Action
		wantOK   bool
		wantLive int
	}{
		{name: "idle", procs: []Process{{PID: 4, Name: "System"}}},
		{name: "first game", procs: []Process{cyberpunk(100)}, want: hdr.ActionOn, wantOK: true, wantLive: 1},
		{name: "second game", procs: []Process{cyberpunk(100), eldenRing(200)}, wantLive: 2},
		{name: "one exits", procs: []Process{eldenRing(200)}, wantLive: 1},
		{name: "last exits", procs: nil, want: hdr.ActionOff, wantOK: true},
		{name: "still idle", procs: nil},
	}

	w := newTestWatcher(&scriptedLister{}, &recordingSwitcher{})
	for _, step := range steps {
		action, ok := w.Scan(step.procs)
		if ok != step.wantOK || action != step.want {
			t.Fatalf("%s: Scan = (%q, %t), want (%q, %t)", step.name, action, ok, step.want, step.wantOK)
		}
		if got := w.Active(); got != step.wantLive {
			t.Fatalf("%s: Active = %d, want %d", step.name, got, step.wantLive)
		}
	}
}

func TestScanMatching(t *testing.T) {
	tests := []struct {
		name string
		proc Process
		want bool
	}{
		{name: "exact", proc: cyberpunk(1), want: true},
		{name: "exe case differs", proc: eldenRing(1), want: true},
		{name: "wrong folder", proc: Process{PID: 1, Name: "Cyberpunk2077.exe", Path: `C:\Temp\Cyberpunk2077.exe`}},
		{name: "wrong exe", proc: Process{PID: 1, Name: "launcher.exe", Path: `C:\Games\Cyberpunk\launcher.exe`}},
		{name: "no path", proc: Process{PID: 1, Name: "Cyberpunk2077.exe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWatcher(&scriptedLister{}, &recordingSwitcher{})
			_, ok := w.Scan([]Process{tt.proc})
			if ok != tt.want {
				t.Fatalf("Scan matched = %t, want %t", ok, tt.want)
			}
		})
	}
}

func TestSetGamesDropsRemovedGame(t *testing.T) {
	w := newTestWatcher(&scriptedLister{}, &recordingSwitcher{})
	if _, ok := w.Scan([]Process{cyberpunk(1)}); !ok {
		t.Fatal("game not detected")
	}
	w.SetGames(testGames[1:])
	action, ok := w.Scan([]Process{cyberpunk(1)})
	if !ok || action != hdr.ActionOff {
		t.Fatalf("Scan after SetGames = (%q, %t), want (off, true)", action, ok)
	}
}

func TestRunDrivesSwitcher(t *testing.T) {
	lister := &scriptedLister{
		steps: [][]Process{
			nil,
			{cyberpunk(100)},
			{cyberpunk(100)},
			nil,
		},
		errAt: 2,
	}
	sw := &recordingSwitcher{}
	got := runUntil(t, newTestWatcher(lister, sw), sw, 2)

	want := []hdr.Action{hdr.ActionOn, hdr.ActionOff}
	if !equalActions(got, want) {
		t.Fatalf("actions = %v, want %v", got, want)
	}
}

func TestRunRetriesFailedSwitch(t *testing.T) {
	tests := []struct {
		name      string
		steps     [][]Process
		failFirst int
		want      []hdr.Action
	}{
		{
			name:      "on retried while game runs",
			steps:     [][]Process{{cyberpunk(100)}, {cyberpunk(100)}, {cyberpunk(100)}, nil},
			failFirst: 1,
			want:      []hdr.Action{hdr.ActionOn, hdr.ActionOn, hdr.ActionOff},
		},
		{
			name:      "failed on not undone after game exits",
			steps:     [][]Process{{cyberpunk(100)}, nil},
			failFirst: 1,
			want:      []hdr.Action{hdr.ActionOn},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sw := &recordingSwitcher{failFirst: tt.failFirst}
			w := newTestWatcher(&scriptedLister{steps: tt.steps}, sw)
			got := runUntil(t, w, sw, len(tt.want))
			if !equalActions(got, tt.want) {
				t.Fatalf("actions = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunOffRetriedUntilAccepted(t *testing.T) {
	// The second and third calls (both off) fail.
	sw := &failingOffSwitcher{failures: 2}
	w := newTestWatcher(&scriptedLister{steps: [][]Process{{cyberpunk(100)}, nil}}, sw)
	got := runUntil(t, w, &sw.recordingSwitcher, 4)

	want := []hdr.Action{hdr.ActionOn, hdr.ActionOff, hdr.ActionOff, hdr.ActionOff}
	if !equalActions(got, want) {
		t.Fatalf("actions = %v, want %v", got, want)
	}
	if n := w.Active(); n != 0 {
		t.Fatalf("Active = %d, want 0", n)
	}
}

// failingOffSwitcher fails the first failures ActionOff calls.
type failingOffSwitcher struct {
	recordingSwitcher
	failures int
}

func (f *failingOffSwitcher) Apply(action hdr.Action) error {
	_ = f.recordingSwitcher.Apply(action)
	if action != hdr.ActionOff {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return hdr.ErrInjectionFailed
	}
	return nil
}

func TestRunSpacesTogglesByCooldown(t *testing.T) {
	const cooldown = 150 * time.Millisecond
	sw := &recordingSwitcher{}
	w := newCooldownWatcher(&scriptedLister{steps: [][]Process{{cyberpunk(100)}, nil}}, sw, cooldown)
	got := runUntil(t, w, sw, 2)

	want := []hdr.Action{hdr.ActionOn, hdr.ActionOff}
	if !equalActions(got, want) {
		t.Fatalf("actions = %v, want %v", got, want)
	}
	sw.mu.Lock()
	gap := sw.times[1].Sub(sw.times[0])
	sw.mu.Unlock()
	// The limiter's clock starts a hair before the first Apply records its time.
	if gap < cooldown-5*time.Millisecond {
		t.Fatalf("on->off gap = %v, want at least %v", gap, cooldown)
	}
}
