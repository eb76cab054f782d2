//go:build !windows

package procwatch

import (
	"runtime"

	"hdr_controller/internal/hdr"

	"github.com/pkg/errors"
)

func NewLister() (Lister, error) {
	return nil, errors.Wrap(hdr.ErrUnsupportedPlatform, runtime.GOOS)
}
