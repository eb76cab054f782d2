//go:build !windows

package singleinstance

import "github.com/pkg/errors"

// ErrAlreadyRunning is returned by TryLock when another watcher holds the mutex.
var ErrAlreadyRunning = errors.New("an HDR watcher is already running for this user")

// Lock is a no-op outside Windows, where there is no shell HDR shortcut to
// contend over.
type Lock struct{}

func Name() (string, error) { return "", nil }

func TryLock(_ string) (*Lock, error) { return &Lock{}, nil }

func (l *Lock) Name() string { return "" }

func (l *Lock) Release() error { return nil }
