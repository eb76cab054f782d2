//go:build windows

// Package platform binds the hdr package to user32.
package platform

import (
	"fmt"
	"unsafe"

	"hdr_controller/internal/hdr"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

var (
	user32DLL                       = windows.NewLazyDLL("user32.dll")
	procSendInput                   = user32DLL.NewProc("SendInput")
	procGetDisplayConfigBufferSizes = user32DLL.NewProc("GetDisplayConfigBufferSizes")
	procQueryDisplayConfig          = user32DLL.NewProc("QueryDisplayConfig")
	procDisplayConfigGetDeviceInfo  = user32DLL.NewProc("DisplayConfigGetDeviceInfo")
)

// maxQueryAttempts bounds the retry when the display topology changes
// between sizing the buffers and filling them.
const maxQueryAttempts = 3

// Windows injects input through SendInput and reads display state through
// the DisplayConfig API.
type Windows struct{}

// New resolves the user32 entry points.
func New() (hdr.Platform, error) {
	for _, p := range []*windows.LazyProc{procSendInput, procDisplayConfigGetDeviceInfo} {
		if err := p.Find(); err != nil {
			return nil, errors.Wrapf(err, "locate %s", p.Name)
		}
	}
	return &Windows{}, nil
}

// SubmitKeyEvents sends events in a single SendInput call. The OS blocks
// other input from interleaving with the batch.
func (w *Windows) SubmitKeyEvents(events []hdr.KeyEvent) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	inputs := make([]Input, len(events))
	for i, ev := range events {
		inputs[i].Type = inputKeyboard
		inputs[i].Ki.Vk = virtualKey(ev.Key)
		if ev.Dir == hdr.KeyUp {
			inputs[i].Ki.Flags = keyEventFKeyUp
		}
	}

	ret, _, callErr := procSendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		unsafe.Sizeof(inputs[0]),
	)
	if int(ret) != len(inputs) {
		return int(ret), errors.Wrap(callErr, "SendInput")
	}
	return int(ret), nil
}

// Displays lists the active display paths.
func (w *Windows) Displays() ([]hdr.Display, error) {
	paths, err := activePaths()
	if err != nil {
		return nil, err
	}

	displays := make([]hdr.Display, 0, len(paths))
	for i, p := range paths {
		target := hdr.DisplayTarget{
			AdapterLow:  p.TargetInfo.AdapterID.LowPart,
			AdapterHigh: p.TargetInfo.AdapterID.HighPart,
			ID:          p.TargetInfo.ID,
		}
		name, err := targetName(target)
		if err != nil || name == "" {
			name = fmt.Sprintf("Display %d", i+1)
		}
		displays = append(displays, hdr.Display{Target: target, Name: name})
	}
	return displays, nil
}

// AdvancedColorInfo queries GET_ADVANCED_COLOR_INFO for target.
func (w *Windows) AdvancedColorInfo(target hdr.DisplayTarget) (hdr.AdvancedColorInfo, error) {
	packet := AdvancedColorInfoPacket{
		Header: header(DeviceInfoGetAdvancedColorInfo, unsafe.Sizeof(AdvancedColorInfoPacket{}), target),
	}
	if err := getDeviceInfo(unsafe.Pointer(&packet)); err != nil {
		return hdr.AdvancedColorInfo{}, errors.Wrap(err, "advanced color info")
	}
	return hdr.DecodeAdvancedColorInfo(packet.Value, hdr.ColorEncoding(packet.ColorEncoding), packet.BitsPerColorChannel), nil
}

func header(typ DeviceInfoType, size uintptr, target hdr.DisplayTarget) DeviceInfoHeader {
	return DeviceInfoHeader{
		Type:      typ,
		Size:      uint32(size),
		AdapterID: LUID{LowPart: target.AdapterLow, HighPart: target.AdapterHigh},
		ID:        target.ID,
	}
}

func targetName(target hdr.DisplayTarget) (string, error) {
	packet := TargetDeviceName{
		Header: header(DeviceInfoGetTargetName, unsafe.Sizeof(TargetDeviceName{}), target),
	}
	if err := getDeviceInfo(unsafe.Pointer(&packet)); err != nil {
		return "", errors.Wrap(err, "target name")
	}
	return windows.UTF16ToString(packet.MonitorFriendlyDeviceName[:]), nil
}

func getDeviceInfo(packet unsafe.Pointer) error {
	ret, _, _ := procDisplayConfigGetDeviceInfo.Call(uintptr(packet))
	if ret != 0 {
		return errors.Wrap(windows.Errno(ret), "DisplayConfigGetDeviceInfo")
	}
	return nil
}

func activePaths() ([]PathInfo, error) {
	for attempt := 0; attempt < maxQueryAttempts; attempt++ {
		var numPaths, numModes uint32
		ret, _, _ := procGetDisplayConfigBufferSizes.Call(
			uintptr(QueryOnlyActivePaths),
			uintptr(unsafe.Pointer(&numPaths)),
			uintptr(unsafe.Pointer(&numModes)),
		)
		if ret != 0 {
			return nil, errors.Wrap(windows.Errno(ret), "GetDisplayConfigBufferSizes")
		}
		if numPaths == 0 {
			return nil, nil
		}

		paths := make([]PathInfo, numPaths)
		modes := make([]ModeInfo, max(numModes, 1))
		ret, _, _ = procQueryDisplayConfig.Call(
			uintptr(QueryOnlyActivePaths),
			uintptr(unsafe.Pointer(&numPaths)),
			uintptr(unsafe.Pointer(&paths[0])),
			uintptr(unsafe.Pointer(&numModes)),
			uintptr(unsafe.Pointer(&modes[0])),
			0,
		)
		switch windows.Errno(ret) {
		case 0:
			return paths[:numPaths], nil
		case windows.ERROR_INSUFFICIENT_BUFFER:
			continue
		default:
			return nil, errors.Wrap(windows.Errno(ret), "QueryDisplayConfig")
		}
	}
	return nil, errors.New("QueryDisplayConfig: display topology kept changing")
}
