package chromatch

import (
	"fmt"
	"slices"

	"github.com/chromatch/chromatch/imaging"
)

// ModelSnapshot is one named reference histogram in a Snapshot.
type ModelSnapshot struct {
	Name      string
	Histogram []float64
}

// Snapshot is a point-in-time copy of a classifier's configuration and
// model collection, decoupled from the engine, logger and metrics
// wiring. It is the unit of persistence: the persistence package
// serializes snapshots to a binary format.
type Snapshot struct {
	Mode     imaging.Mode
	Channels []int
	Bins     []int
	Ranges   []float64
	Models   []ModelSnapshot
}

// Snapshot returns a deep copy of the classifier's configuration and
// models, in collection order. The comparison cache is not part of a
// snapshot.
func (c *Classifier) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Mode:     c.mode,
		Channels: slices.Clone(c.spec.Channels),
		Bins:     slices.Clone(c.spec.Bins),
		Ranges:   slices.Clone(c.spec.Ranges),
		Models:   make([]ModelSnapshot, len(c.names)),
	}
	for i, name := range c.names {
		s.Models[i] = ModelSnapshot{
			Name:      name,
			Histogram: slices.Clone(c.histograms[i]),
		}
	}

	return s
}

// FromSnapshot creates a Classifier from a snapshot, installing the
// stored histograms verbatim. Options configure the ambient wiring
// (engine, logger, metrics); mode, channels, bins and ranges always
// come from the snapshot itself.
func FromSnapshot(s Snapshot, optFns ...Option) (*Classifier, error) {
	optFns = append(slices.Clone(optFns),
		WithMode(s.Mode),
		WithChannels(s.Channels...),
		WithBins(s.Bins...),
		WithRanges(s.Ranges...),
	)

	c, err := New(optFns...)
	if err != nil {
		return nil, err
	}

	dim := c.spec.Dimension()
	for _, m := range s.Models {
		if len(m.Histogram) != dim {
			return nil, translateError(fmt.Errorf("%w: model %q histogram length %d, want %d",
				imaging.ErrInvalidSpec, m.Name, len(m.Histogram), dim))
		}

		if i := slices.Index(c.names, m.Name); i >= 0 {
			c.histograms[i] = slices.Clone(m.Histogram)
		} else {
			c.names = append(c.names, m.Name)
			c.histograms = append(c.histograms, slices.Clone(m.Histogram))
		}
	}

	return c, nil
}
