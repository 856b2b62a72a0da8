package imaging

import (
	"errors"
	"fmt"
)

// ErrInvalidSpec is returned when a histogram spec is malformed or does
// not fit the frame it is applied to.
var ErrInvalidSpec = errors.New("invalid histogram spec")

// HistogramSpec describes a joint multi-dimensional histogram: which
// channels to sample, how many bins per channel, and the half-open
// [lo,hi) value range per channel, flattened as lo/hi pairs.
type HistogramSpec struct {
	Channels []int
	Bins     []int
	Ranges   []float64
}

// Dimension returns the length of the flattened histogram, the product
// of all bin counts.
func (s HistogramSpec) Dimension() int {
	d := 1
	for _, b := range s.Bins {
		d *= b
	}

	return d
}

// ValidateShape checks the internal consistency of the spec: at least
// one channel, one bin count and one lo/hi pair per channel, positive
// bin counts and non-empty ranges. Channel indices are checked against
// a concrete frame by Validate.
func (s HistogramSpec) ValidateShape() error {
	if len(s.Channels) == 0 {
		return fmt.Errorf("%w: no channels", ErrInvalidSpec)
	}

	if len(s.Bins) != len(s.Channels) {
		return fmt.Errorf("%w: %d channels but %d bin counts", ErrInvalidSpec, len(s.Channels), len(s.Bins))
	}

	if len(s.Ranges) != 2*len(s.Channels) {
		return fmt.Errorf("%w: %d channels but %d range bounds", ErrInvalidSpec, len(s.Channels), len(s.Ranges))
	}

	for i, c := range s.Channels {
		if s.Bins[i] < 1 {
			return fmt.Errorf("%w: bin count %d for channel %d", ErrInvalidSpec, s.Bins[i], c)
		}

		if lo, hi := s.Ranges[2*i], s.Ranges[2*i+1]; lo >= hi {
			return fmt.Errorf("%w: empty range [%g,%g) for channel %d", ErrInvalidSpec, lo, hi, c)
		}
	}

	return nil
}

// Validate checks the spec shape and that every sampled channel exists
// in a frame with the given channel count.
func (s HistogramSpec) Validate(channels int) error {
	if err := s.ValidateShape(); err != nil {
		return err
	}

	for _, c := range s.Channels {
		if c < 0 || c >= channels {
			return fmt.Errorf("%w: channel %d out of range for %d-channel frame", ErrInvalidSpec, c, channels)
		}
	}

	return nil
}
