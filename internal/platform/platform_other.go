//go:build !windows

// Package platform binds the hdr package to user32.
package platform

import (
	"runtime"

	"hdr_controller/internal/hdr"

	"github.com/pkg/errors"
)

// New reports hdr.ErrUnsupportedPlatform: the HDR shortcut and the
// DisplayConfig API only exist on Windows.
func New() (hdr.Platform, error) {
	return nil, errors.Wrap(hdr.ErrUnsupportedPlatform, runtime.GOOS)
}
