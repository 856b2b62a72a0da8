// Package imaging provides the pixel-level building blocks for color
// histogram classification: an 8-bit frame type, color-space conversion
// and joint multi-dimensional histogram computation.
package imaging

import (
	"errors"
	"fmt"
	"math"
)

// ErrChannelCount is returned when a frame's channel count does not fit
// the requested conversion.
var ErrChannelCount = errors.New("unexpected channel count")

// Engine computes pixel-level operations on frames. Implementations
// must be safe for concurrent use.
type Engine interface {
	// Convert returns the frame converted to the given color mode.
	// ModeNone returns the input frame unchanged (no copy).
	Convert(f *Frame, mode Mode) (*Frame, error)

	// Histogram computes the joint histogram described by spec and
	// returns it flattened in row-major order, one count per bin.
	Histogram(f *Frame, spec HistogramSpec) ([]float64, error)
}

// PixelEngine is the default pure-Go Engine.
type PixelEngine struct{}

// NewPixelEngine creates a new PixelEngine.
func NewPixelEngine() *PixelEngine {
	return &PixelEngine{}
}

// Compile time check to ensure PixelEngine satisfies the Engine interface.
var _ Engine = (*PixelEngine)(nil)

// Convert implements Engine.
func (e *PixelEngine) Convert(f *Frame, mode Mode) (*Frame, error) {
	switch mode {
	case ModeNone:
		return f, nil
	case ModeHSV:
		return convertHSV(f)
	case ModeGray:
		return convertGray(f)
	case ModeRGB:
		return convertRGB(f)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownMode, mode)
	}
}

// Histogram implements Engine.
func (e *PixelEngine) Histogram(f *Frame, spec HistogramSpec) ([]float64, error) {
	if err := spec.Validate(f.Channels); err != nil {
		return nil, err
	}

	hist := make([]float64, spec.Dimension())

	pixels := f.Width * f.Height
	for p := 0; p < pixels; p++ {
		off := p * f.Channels

		idx, counted := 0, true
		for k, c := range spec.Channels {
			v := float64(f.Pix[off+c])
			lo, hi := spec.Ranges[2*k], spec.Ranges[2*k+1]

			bin := int(math.Floor((v - lo) * float64(spec.Bins[k]) / (hi - lo)))
			if bin < 0 || bin >= spec.Bins[k] {
				// Values outside [lo,hi) are not counted.
				counted = false
				break
			}

			idx = idx*spec.Bins[k] + bin
		}

		if counted {
			hist[idx]++
		}
	}

	return hist, nil
}

// convertHSV converts a BGR frame to 8-bit HSV: H in [0,180) (hue
// halved), S and V in [0,256).
func convertHSV(f *Frame) (*Frame, error) {
	if f.Channels != 3 {
		return nil, fmt.Errorf("%w: HSV conversion needs 3 channels, got %d", ErrChannelCount, f.Channels)
	}

	out := NewFrame(f.Width, f.Height, 3)

	for i := 0; i < len(f.Pix); i += 3 {
		b := float64(f.Pix[i])
		g := float64(f.Pix[i+1])
		r := float64(f.Pix[i+2])

		v := math.Max(r, math.Max(g, b))
		delta := v - math.Min(r, math.Min(g, b))

		var s float64
		if v != 0 {
			s = 255 * delta / v
		}

		var h float64
		if delta != 0 {
			switch v {
			case r:
				h = 60 * (g - b) / delta
			case g:
				h = 120 + 60*(b-r)/delta
			default:
				h = 240 + 60*(r-g)/delta
			}

			if h < 0 {
				h += 360
			}
		}

		hh := math.Round(h / 2)
		if hh >= 180 {
			// Hue wraps at 360.
			hh = 0
		}

		out.Pix[i] = uint8(hh)
		out.Pix[i+1] = uint8(math.Round(s))
		out.Pix[i+2] = uint8(math.Round(v))
	}

	return out, nil
}

// convertGray converts a BGR frame to single-channel luma using the
// ITU-R BT.601 weights.
func convertGray(f *Frame) (*Frame, error) {
	if f.Channels != 3 {
		return nil, fmt.Errorf("%w: grayscale conversion needs 3 channels, got %d", ErrChannelCount, f.Channels)
	}

	out := NewFrame(f.Width, f.Height, 1)

	j := 0
	for i := 0; i < len(f.Pix); i += 3 {
		b := float64(f.Pix[i])
		g := float64(f.Pix[i+1])
		r := float64(f.Pix[i+2])

		out.Pix[j] = uint8(math.Round(0.299*r + 0.587*g + 0.114*b))
		j++
	}

	return out, nil
}

// convertRGB reverses the channel order of a BGR frame.
func convertRGB(f *Frame) (*Frame, error) {
	if f.Channels != 3 {
		return nil, fmt.Errorf("%w: RGB conversion needs 3 channels, got %d", ErrChannelCount, f.Channels)
	}

	out := NewFrame(f.Width, f.Height, 3)

	for i := 0; i < len(f.Pix); i += 3 {
		out.Pix[i] = f.Pix[i+2]
		out.Pix[i+1] = f.Pix[i+1]
		out.Pix[i+2] = f.Pix[i]
	}

	return out, nil
}
