//go:build windows

package platform

import (
	"hdr_controller/internal/hdr"

	"github.com/AllenDang/w32"
)

const (
	inputKeyboard  = uint32(w32.INPUT_KEYBOARD)
	keyEventFKeyUp = uint32(w32.KEYEVENTF_KEYUP)
)

// virtualKey maps a chord key to the code SendInput expects. Letter keys
// share their ASCII capital.
func virtualKey(k hdr.KeyCode) uint16 {
	switch k {
	case hdr.KeyLWin:
		return uint16(w32.VK_LWIN)
	case hdr.KeyAlt:
		return uint16(w32.VK_MENU)
	case hdr.KeyB:
		return 'B'
	}
	return uint16(k)
}

type DeviceInfoType uint32

const (
	DeviceInfoGetSourceName        DeviceInfoType = 1
	DeviceInfoGetTargetName                       = 2
	DeviceInfoGetAdvancedColorInfo                = 9
)

type QueryDisplayFlags uint32

const (
	QueryAllPaths        QueryDisplayFlags = 0x00000001
	QueryOnlyActivePaths                   = 0x00000002
)
