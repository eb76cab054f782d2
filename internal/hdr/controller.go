// Package hdr toggles Windows HDR by synthesizing the Win+Alt+B shell shortcut.
package hdr

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Action is a requested HDR change.
type Action string

const (
	ActionToggle Action = "toggle"
	ActionOn     Action = "on"
	ActionOff    Action = "off"
)

// ParseAction matches s case-insensitively against the known actions.
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionToggle, ActionOn, ActionOff:
		return a, nil
	}
	return "", errors.Wrapf(ErrUnrecognizedAction, "%q", s)
}

// Controller turns actions into key chords.
type Controller struct {
	platform   Platform
	out        io.Writer
	log        zerolog.Logger
	checkState bool
}

type Option func(*Controller)

func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithStateCheck makes on/off consult the display HDR state before
// toggling.
func WithStateCheck(enabled bool) Option {
	return func(c *Controller) { c.checkState = enabled }
}

// NewController returns a Controller that reports results to out.
func NewController(p Platform, out io.Writer, opts ...Option) *Controller {
	c := &Controller{
		platform: p,
		out:      out,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Toggle sends the HDR toggle chord.
func (c *Controller) Toggle() error {
	events := ToggleChord.Events()
	accepted, err := c.platform.SubmitKeyEvents(events)
	c.log.Debug().Stringer("chord", ToggleChord).Int("requested", len(events)).Int("accepted", accepted).Msg("submitted key chord")
	if err != nil {
		return errors.Wrapf(ErrInjectionFailed, "accepted %d of %d events: %v", accepted, len(events), err)
	}
	if accepted != len(events) {
		return errors.Wrapf(ErrInjectionFailed, "accepted %d of %d events", accepted, len(events))
	}

	fmt.Fprintf(c.out, "Toggled HDR via %s\n", ToggleChord)
	return nil
}

// Apply performs action. Without a state check, on and off behave like
// toggle after printing a caveat.
func (c *Controller) Apply(action Action) error {
	var want State
	switch action {
	case ActionToggle:
		return c.Toggle()
	case ActionOn:
		want = StateOn
	case ActionOff:
		want = StateOff
	default:
		return errors.Wrapf(ErrUnrecognizedAction, "%q", action)
	}

	if c.checkState {
		state, err := c.State()
		switch {
		case err != nil:
			c.log.Warn().Err(err).Msg("HDR state query failed")
		case state == want:
			fmt.Fprintf(c.out, "HDR already %s\n", want)
			return nil
		case state != StateUnknown:
			c.log.Debug().Stringer("state", state).Stringer("want", want).Msg("toggling to requested state")
			return c.Toggle()
		}
	}

	fmt.Fprintf(c.out, "Force %s not fully supported without status check. Toggling instead.\n", strings.ToUpper(string(action)))
	return c.Toggle()
}

// Status queries advanced color info for every active display. A failure
// for a single display is recorded in its DisplayStatus.
func (c *Controller) Status() ([]DisplayStatus, error) {
	displays, err := c.platform.Displays()
	if err != nil {
		return nil, errors.Wrap(err, "list displays")
	}

	statuses := make([]DisplayStatus, 0, len(displays))
	for _, d := range displays {
		info, err := c.platform.AdvancedColorInfo(d.Target)
		if err != nil {
			c.log.Debug().Err(err).Str("display", d.Name).Msg("advanced color query failed")
		}
		statuses = append(statuses, DisplayStatus{Display: d, Info: info, Err: err})
	}
	return statuses, nil
}

// State summarizes Status.
func (c *Controller) State() (State, error) {
	statuses, err := c.Status()
	if err != nil {
		return StateUnknown, err
	}
	return Summarize(statuses), nil
}
