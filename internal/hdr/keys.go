package hdr

import (
	"fmt"
	"strings"
)

// KeyCode is a Windows virtual-key code.
type KeyCode uint16

const (
	KeyLWin KeyCode = 0x5B
	KeyAlt  KeyCode = 0x12 // VK_MENU
	KeyB    KeyCode = 0x42
)

func (k KeyCode) String() string {
	switch k {
	case KeyLWin:
		return "Win"
	case KeyAlt:
		return "Alt"
	case KeyB:
		return "B"
	}
	return fmt.Sprintf("VK(0x%02X)", uint16(k))
}

type Direction uint8

const (
	KeyDown Direction = iota
	KeyUp
)

func (d Direction) String() string {
	if d == KeyUp {
		return "up"
	}
	return "down"
}

// KeyEvent is one synthetic key press or release.
type KeyEvent struct {
	Key KeyCode
	Dir Direction
}

func (e KeyEvent) String() string {
	return e.Dir.String() + "(" + e.Key.String() + ")"
}

// Chord is a set of keys held together, in press order.
type Chord []KeyCode

// ToggleChord is the shell shortcut bound to "toggle HDR".
var ToggleChord = Chord{KeyLWin, KeyAlt, KeyB}

// Events returns the input batch for the chord: every key pressed in order,
// then released in reverse order.
func (c Chord) Events() []KeyEvent {
	events := make([]KeyEvent, 0, 2*len(c))
	for _, k := range c {
		events = append(events, KeyEvent{Key: k, Dir: KeyDown})
	}
	for i := len(c) - 1; i >= 0; i-- {
		events = append(events, KeyEvent{Key: c[i], Dir: KeyUp})
	}
	return events
}

func (c Chord) String() string {
	names := make([]string, len(c))
	for i, k := range c {
		names[i] = k.String()
	}
	return strings.Join(names, "+")
}
