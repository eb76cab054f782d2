//go:build windows

package platform

// KeybdInput mirrors KEYBDINPUT.
type KeybdInput struct {
	Vk        uint16
	Scan      uint16
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
}

// Input is the keyboard arm of the INPUT union. The trailing padding brings
// it to the size of the largest arm (MOUSEINPUT): 40 bytes on 64-bit, 28 on
// 32-bit.
type Input struct {
	Type uint32
	Ki   KeybdInput
	_    [8]byte
}

type LUID struct {
	LowPart  uint32
	HighPart int32
}

// DeviceInfoHeader mirrors DISPLAYCONFIG_DEVICE_INFO_HEADER.
type DeviceInfoHeader struct {
	Type      DeviceInfoType
	Size      uint32
	AdapterID LUID
	ID        uint32
}

// AdvancedColorInfoPacket mirrors DISPLAYCONFIG_GET_ADVANCED_COLOR_INFO.
type AdvancedColorInfoPacket struct {
	Header              DeviceInfoHeader
	Value               uint32
	ColorEncoding       int32
	BitsPerColorChannel uint32
}

// TargetDeviceName mirrors DISPLAYCONFIG_TARGET_DEVICE_NAME.
type TargetDeviceName struct {
	Header                    DeviceInfoHeader
	Flags                     uint32
	OutputTechnology          uint32
	EdidManufactureID         uint16
	EdidProductCodeID         uint16
	ConnectorInstance         uint32
	MonitorFriendlyDeviceName [64]uint16
	MonitorDevicePath         [128]uint16
}

type Rational struct {
	Numerator   uint32
	Denominator uint32
}

type PathSourceInfo struct {
	AdapterID   LUID
	ID          uint32
	ModeInfoIdx uint32
	StatusFlags uint32
}

type PathTargetInfo struct {
	AdapterID        LUID
	ID               uint32
	ModeInfoIdx      uint32
	OutputTechnology uint32
	Rotation         uint32
	Scaling          uint32
	RefreshRate      Rational
	ScanLineOrdering uint32
	TargetAvailable  int32
	StatusFlags      uint32
}

// PathInfo mirrors DISPLAYCONFIG_PATH_INFO.
type PathInfo struct {
	SourceInfo PathSourceInfo
	TargetInfo PathTargetInfo
	Flags      uint32
}

// ModeInfo mirrors DISPLAYCONFIG_MODE_INFO. The mode union is never read.
type ModeInfo struct {
	InfoType  uint32
	ID        uint32
	AdapterID LUID
	_         [6]uint64
}
