package chromatch

import (
	"log/slog"

	"github.com/chromatch/chromatch/imaging"
)

type options struct {
	channels         []int
	bins             []int
	ranges           []float64
	mode             imaging.Mode
	engine           imaging.Engine
	metricsCollector MetricsCollector
	logger           *Logger
	frames           []*imaging.Frame
	names            []string
}

// Option configures Classifier construction behavior.
type Option func(*options)

// WithChannels configures which frame channels are sampled.
//
// Channel indices refer to the frame AFTER color conversion: for the
// default HSV mode, channel 0 is hue, 1 is saturation, 2 is value.
func WithChannels(channels ...int) Option {
	return func(o *options) {
		o.channels = channels
	}
}

// WithBins configures the per-channel bin counts. The flattened
// histogram dimensionality is the product of all bin counts.
func WithBins(bins ...int) Option {
	return func(o *options) {
		o.bins = bins
	}
}

// WithRanges configures the per-channel value ranges as flattened
// lo/hi pairs, one half-open [lo,hi) pair per sampled channel.
//
// Example for two channels: WithRanges(0, 256, 0, 256).
func WithRanges(ranges ...float64) Option {
	return func(o *options) {
		o.ranges = ranges
	}
}

// WithMode configures the color mode frames are converted to before
// histogram computation. imaging.ModeNone keeps frames as-is (BGR).
func WithMode(mode imaging.Mode) Option {
	return func(o *options) {
		o.mode = mode
	}
}

// WithEngine configures the imaging engine used for color conversion
// and histogram computation.
//
// If nil is passed, the default pixel engine is used.
func WithEngine(e imaging.Engine) Option {
	return func(o *options) {
		if e == nil {
			e = imaging.NewPixelEngine()
		}
		o.engine = e
	}
}

// WithModels configures reference models added during construction.
// Frames and names are parallel sequences; pass nil names to have
// every model named by the default naming rule ("0", "1", "2", ...).
//
// If names are given and the lengths differ, no models are added and a
// warning is logged; construction still succeeds.
func WithModels(frames []*imaging.Frame, names []string) Option {
	return func(o *options) {
		o.frames = frames
		o.names = names
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations.
//
// Example with BasicMetricsCollector:
//
//	metrics := &chromatch.BasicMetricsCollector{}
//	c, _ := chromatch.New(chromatch.WithMetricsCollector(metrics))
//	// ... use c ...
//	stats := metrics.GetStats()
//	fmt.Printf("Compares: %d, Avg latency: %dns\n", stats.CompareCount, stats.CompareAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
//
// Example with JSON logging:
//
//	logger := chromatch.NewJSONLogger(slog.LevelInfo)
//	c, _ := chromatch.New(chromatch.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		channels:         []int{0, 1, 2},
		bins:             []int{10, 10, 10},
		ranges:           []float64{0, 256, 0, 256, 0, 256},
		mode:             imaging.ModeHSV,
		engine:           imaging.NewPixelEngine(),
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
