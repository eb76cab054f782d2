package hdr

import "fmt"

// ColorEncoding mirrors DISPLAYCONFIG_COLOR_ENCODING.
type ColorEncoding int32

const (
	EncodingRGB ColorEncoding = iota
	EncodingYCbCr444
	EncodingYCbCr422
	EncodingYCbCr420
	EncodingIntensity
)

func (e ColorEncoding) String() string {
	switch e {
	case EncodingRGB:
		return "RGB"
	case EncodingYCbCr444:
		return "YCbCr444"
	case EncodingYCbCr422:
		return "YCbCr422"
	case EncodingYCbCr420:
		return "YCbCr420"
	case EncodingIntensity:
		return "Intensity"
	}
	return fmt.Sprintf("encoding(%d)", int32(e))
}

// Bits of DISPLAYCONFIG_GET_ADVANCED_COLOR_INFO.value.
const (
	colorSupported     uint32 = 1 << 0
	colorEnabled       uint32 = 1 << 1
	wideColorEnforced  uint32 = 1 << 2
	colorForceDisabled uint32 = 1 << 3
)

// AdvancedColorInfo is the decoded advanced color record of one display.
type AdvancedColorInfo struct {
	Supported         bool
	Enabled           bool
	WideColorEnforced bool
	ForceDisabled     bool
	Encoding          ColorEncoding
	BitsPerChannel    uint32
}

// DecodeAdvancedColorInfo unpacks the raw fields returned by the
// display-configuration service.
func DecodeAdvancedColorInfo(value uint32, encoding ColorEncoding, bitsPerChannel uint32) AdvancedColorInfo {
	return AdvancedColorInfo{
		Supported:         value&colorSupported != 0,
		Enabled:           value&colorEnabled != 0,
		WideColorEnforced: value&wideColorEnforced != 0,
		ForceDisabled:     value&colorForceDisabled != 0,
		Encoding:          encoding,
		BitsPerChannel:    bitsPerChannel,
	}
}

// DisplayTarget identifies a display output by adapter LUID and target id.
// The zero value is the default identifier.
type DisplayTarget struct {
	AdapterLow  uint32
	AdapterHigh int32
	ID          uint32
}

// Display is one active display path.
type Display struct {
	Target DisplayTarget
	Name   string
}

// DisplayStatus pairs a display with its advanced color info. Err is set
// when the query for this display failed.
type DisplayStatus struct {
	Display
	Info AdvancedColorInfo
	Err  error
}

// State is the HDR state across the active displays.
type State int

const (
	StateUnknown State = iota
	StateOff
	StateOn
)

func (s State) String() string {
	switch s {
	case StateOn:
		return "on"
	case StateOff:
		return "off"
	}
	return "unknown"
}

// Summarize reports StateOn if any display has HDR enabled, StateOff if at
// least one display supports HDR and none has it enabled, and StateUnknown
// otherwise.
func Summarize(statuses []DisplayStatus) State {
	state := StateUnknown
	for _, s := range statuses {
		if s.Err != nil {
			continue
		}
		if s.Info.Enabled {
			return StateOn
		}
		if s.Info.Supported {
			state = StateOff
		}
	}
	return state
}
