package imaging

import (
	"errors"
	"fmt"
)

// ErrUnknownMode is returned when a color mode tag or name is not recognized.
var ErrUnknownMode = errors.New("unknown color mode")

// Mode represents the color-space conversion applied to a frame before
// histogram computation.
type Mode int

const (
	// ModeNone keeps the frame as-is; three-channel frames stay BGR.
	ModeNone Mode = iota
	// ModeHSV converts BGR to 8-bit HSV (H in [0,180), S and V in [0,256)).
	ModeHSV
	// ModeGray converts BGR to single-channel luma.
	ModeGray
	// ModeRGB reverses the channel order of a BGR frame.
	ModeRGB
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "BGR"
	case ModeHSV:
		return "HSV"
	case ModeGray:
		return "GRAY"
	case ModeRGB:
		return "RGB"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeNone, ModeHSV, ModeGray, ModeRGB:
		return true
	default:
		return false
	}
}

// ParseMode maps a color mode name to its Mode. Recognized names are
// "BGR", "HSV", "GRAY" and "RGB".
func ParseMode(name string) (Mode, error) {
	switch name {
	case "BGR":
		return ModeNone, nil
	case "HSV":
		return ModeHSV, nil
	case "GRAY":
		return ModeGray, nil
	case "RGB":
		return ModeRGB, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
}
