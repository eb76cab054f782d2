//go:build !windows

package platform

import (
	"testing"

	"hdr_controller/internal/hdr"

	"github.com/pkg/errors"
)

func TestNewUnsupported(t *testing.T) {
	p, err := New()
	if !errors.Is(err, hdr.ErrUnsupportedPlatform) {
		t.Fatalf("New() err = %v, want ErrUnsupportedPlatform", err)
	}
	if p != nil {
		t.Fatal("New() returned a platform alongside the error")
	}
}
