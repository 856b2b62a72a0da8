// Package chromatch provides an embedded color-histogram classifier for Go.
//
// This file implements mode-specific fluent builder APIs for creating and configuring Classifier instances.
// Builders are immutable - each method returns a new builder with the updated configuration.
package chromatch

import (
	"github.com/chromatch/chromatch/imaging"
)

// HSV creates a builder for a classifier that converts frames to HSV
// before computing histograms. Hue carries most of the color identity,
// which makes HSV the usual choice for illumination-tolerant matching.
//
// The builder is immutable - each method returns a new builder with the updated configuration.
// This ensures thread-safety and prevents accidental state sharing.
//
// Example:
//
//	c, err := chromatch.HSV().
//	    Bins(16, 16, 16).
//	    Models(frames, names).
//	    Build()
func HSV() Builder {
	return Builder{mode: imaging.ModeHSV}
}

// BGR creates a builder for a classifier that computes histograms on the
// native BGR pixels without conversion.
func BGR() Builder {
	return Builder{mode: imaging.ModeNone}
}

// RGB creates a builder for a classifier that reorders frames to RGB
// before computing histograms.
func RGB() Builder {
	return Builder{mode: imaging.ModeRGB}
}

// Gray creates a builder for a classifier that converts frames to a
// single luminance channel before computing histograms. The histogram
// covers channel 0 with 10 bins over [0,256).
func Gray() Builder {
	return Builder{
		mode:     imaging.ModeGray,
		channels: []int{0},
		bins:     []int{10},
		ranges:   []float64{0, 256},
	}
}

// Builder is an immutable fluent builder for creating Classifier instances.
// Each method returns a new builder with the updated configuration.
type Builder struct {
	mode     imaging.Mode
	channels []int
	bins     []int
	ranges   []float64
	engine   imaging.Engine
	logger   *Logger
	metrics  MetricsCollector
	frames   []*imaging.Frame
	names    []string
}

// Channels sets the channel indices sampled from the converted frame.
func (b Builder) Channels(channels ...int) Builder {
	b.channels = channels
	return b
}

// Bins sets the bin count per sampled channel.
// Higher values separate similar colors better but spread the histogram
// mass thinner. Default: 10 per channel.
func (b Builder) Bins(bins ...int) Builder {
	b.bins = bins
	return b
}

// Ranges sets the value range per sampled channel as flattened
// lower/upper pairs. Values at or above the upper bound are not counted.
func (b Builder) Ranges(ranges ...float64) Builder {
	b.ranges = ranges
	return b
}

// Engine sets the imaging engine used for conversion and histograms.
func (b Builder) Engine(e imaging.Engine) Builder {
	b.engine = e
	return b
}

// Logger sets the structured logger for operation tracing.
func (b Builder) Logger(l *Logger) Builder {
	b.logger = l
	return b
}

// Metrics sets the metrics collector for monitoring.
func (b Builder) Metrics(mc MetricsCollector) Builder {
	b.metrics = mc
	return b
}

// Models supplies reference frames to add during Build, in order.
// An empty names slice stores the models under their collection indices.
func (b Builder) Models(frames []*imaging.Frame, names []string) Builder {
	b.frames = frames
	b.names = names
	return b
}

// Build creates the Classifier instance.
func (b Builder) Build() (*Classifier, error) {
	optFns := []Option{WithMode(b.mode)}

	if b.channels != nil {
		optFns = append(optFns, WithChannels(b.channels...))
	}
	if b.bins != nil {
		optFns = append(optFns, WithBins(b.bins...))
	}
	if b.ranges != nil {
		optFns = append(optFns, WithRanges(b.ranges...))
	}
	if b.engine != nil {
		optFns = append(optFns, WithEngine(b.engine))
	}
	if b.logger != nil {
		optFns = append(optFns, WithLogger(b.logger))
	}
	if b.metrics != nil {
		optFns = append(optFns, WithMetricsCollector(b.metrics))
	}
	if len(b.frames) > 0 {
		optFns = append(optFns, WithModels(b.frames, b.names))
	}

	return New(optFns...)
}

// MustBuild creates the Classifier instance, panicking on error.
func (b Builder) MustBuild() *Classifier {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}
