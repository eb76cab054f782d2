package hdr

import "github.com/pkg/errors"

var (
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrInjectionFailed     = errors.New("input injection failed")
	ErrUnrecognizedAction  = errors.New("unrecognized action")
)

// Injector submits synthetic key events to the OS input queue as a single
// batch and reports how many the OS accepted. Whatever window has keyboard
// focus receives them.
type Injector interface {
	SubmitKeyEvents(events []KeyEvent) (int, error)
}

// DisplayQuerier reads display configuration.
type DisplayQuerier interface {
	Displays() ([]Display, error)
	AdvancedColorInfo(target DisplayTarget) (AdvancedColorInfo, error)
}

// Platform is the OS binding used by the Controller.
type Platform interface {
	Injector
	DisplayQuerier
}
