//go:build windows

// Package singleinstance keeps a second watcher from fighting the first one
// over the HDR toggle.
package singleinstance

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// ErrAlreadyRunning is returned by TryLock when another watcher holds the mutex.
var ErrAlreadyRunning = errors.New("an HDR watcher is already running for this user")

const namePrefix = `Local\hdr_controller-watch-`

// Lock holds a named mutex. The kernel releases it when the process exits.
type Lock struct {
	name   string
	handle windows.Handle
}

// Name returns the mutex name shared by watch and tray mode. It is keyed by
// the caller's SID, since Win+Alt+B only reaches the interactive desktop of
// that user's session.
func Name() (string, error) {
	tu, err := windows.GetCurrentProcessToken().GetTokenUser()
	if err != nil {
		return "", errors.Wrap(err, "read process token user")
	}
	return namePrefix + tu.User.Sid.String(), nil
}

// TryLock creates and owns the mutex name.
func TryLock(name string) (*Lock, error) {
	if name == "" {
		return nil, errors.New("mutex name is required")
	}
	ptr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid mutex name %q", name)
	}

	h, err := windows.CreateMutex(nil, true, ptr)
	switch {
	case err == nil:
		return &Lock{name: name, handle: h}, nil
	case h != 0:
		// CreateMutex hands back the existing handle with ERROR_ALREADY_EXISTS.
		_ = windows.CloseHandle(h)
	}
	if errors.Is(err, windows.ERROR_ALREADY_EXISTS) {
		return nil, ErrAlreadyRunning
	}
	return nil, errors.Wrapf(err, "CreateMutex %q", name)
}

func (l *Lock) Name() string {
	if l == nil {
		return ""
	}
	return l.name
}

// Release closes the mutex handle. Calling it twice, or on nil, is a no-op.
func (l *Lock) Release() error {
	if l == nil || l.handle == 0 {
		return nil
	}
	h := l.handle
	l.handle = 0
	return errors.Wrapf(windows.CloseHandle(h), "release %q", l.name)
}
