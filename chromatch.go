// Package chromatch provides an embedded color-histogram classifier for Go.
//
// This file implements the classifier core: the named model collection,
// comparison scoring and the last-comparison cache.
package chromatch

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/chromatch/chromatch/imaging"
	"github.com/chromatch/chromatch/metric"
	"gonum.org/v1/gonum/floats"
)

// ErrNilFrame is returned when an operation that needs a reference or
// query frame receives nil.
var ErrNilFrame = errors.New("nil frame")

// comparisonCache holds the outcome of the most recent comparison.
// It is fully overwritten by every successful comparison and cleared
// by any model mutation.
type comparisonCache struct {
	done          bool
	scores        []float64
	probabilities []float64
	bestIndex     int
	bestName      string
}

// Classifier matches query frames against an ordered collection of
// named reference histograms ("models").
//
// Each model is stored as the flattened, L2-normalized joint histogram
// of its reference frame, computed over the configured channels, bins
// and value ranges after conversion to the configured color mode. The
// outcome of the most recent comparison is cached so that probability
// and best-match queries can be answered without recomputation; any
// model mutation clears the cache.
//
// A single mutex serializes all operations; a Classifier is safe for
// concurrent use.
type Classifier struct {
	mu      sync.Mutex
	engine  imaging.Engine
	mode    imaging.Mode
	spec    imaging.HistogramSpec
	metrics MetricsCollector
	logger  *Logger

	names      []string
	histograms [][]float64

	cache comparisonCache
}

// New creates a new Classifier.
//
// Without options the classifier samples all three channels with 10
// bins each over [0,256) and converts frames to HSV before computing
// histograms. Reference models can be supplied up front with
// WithModels; they are added in order through the same path as
// AddModel.
func New(optFns ...Option) (*Classifier, error) {
	opts := applyOptions(optFns)

	if !opts.mode.Valid() {
		return nil, translateError(fmt.Errorf("%w: %v", imaging.ErrUnknownMode, opts.mode))
	}

	spec := imaging.HistogramSpec{
		Channels: opts.channels,
		Bins:     opts.bins,
		Ranges:   opts.ranges,
	}
	if err := spec.ValidateShape(); err != nil {
		return nil, translateError(err)
	}

	c := &Classifier{
		engine:  opts.engine,
		mode:    opts.mode,
		spec:    spec,
		metrics: opts.metricsCollector,
		logger:  opts.logger,
		cache:   comparisonCache{bestIndex: -1},
	}

	if len(opts.frames) > 0 {
		ctx := context.Background()

		if len(opts.names) > 0 && len(opts.names) != len(opts.frames) {
			// Construction still succeeds, with an empty collection.
			c.logger.WarnInitLengthMismatch(ctx, len(opts.frames), len(opts.names))
			return c, nil
		}

		for i, frame := range opts.frames {
			var name string
			if len(opts.names) > 0 {
				name = opts.names[i]
			}

			if err := c.AddModel(ctx, frame, name); err != nil {
				return nil, err
			}
		}
	}

	return c, nil
}

// AddModel computes the histogram of frame and stores it under name.
//
// An empty name defaults to the decimal form of the collection size
// before insertion, so sequential unnamed additions are stored as "0",
// "1", "2" and so on. Adding under an existing name replaces that
// model's histogram in place, keeps its position and logs a warning.
func (c *Classifier) AddModel(ctx context.Context, frame *imaging.Frame, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()

	hist, err := c.modelHistogram(frame)
	if err != nil {
		err = translateError(err)
		c.metrics.RecordAddModel(time.Since(start), err)
		c.logger.LogAddModel(ctx, name, err)
		return err
	}

	if name == "" {
		name = strconv.Itoa(len(c.names))
	}

	if i := slices.Index(c.names, name); i >= 0 {
		c.histograms[i] = hist
		c.logger.WarnModelOverwrite(ctx, name, i)
	} else {
		c.names = append(c.names, name)
		c.histograms = append(c.histograms, hist)
	}

	c.invalidateCache()

	c.metrics.RecordAddModel(time.Since(start), nil)
	c.logger.LogAddModel(ctx, name, nil)

	return nil
}

// RemoveModel removes the model stored under name and reports whether
// one was removed. The order of the remaining models is preserved.
func (c *Classifier) RemoveModel(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := slices.Index(c.names, name)
	if i < 0 {
		c.metrics.RecordRemoveModel(false)
		return false
	}

	c.names = slices.Delete(c.names, i, i+1)
	c.histograms = slices.Delete(c.histograms, i, i+1)

	c.invalidateCache()

	c.metrics.RecordRemoveModel(true)
	c.logger.LogRemoveModel(name, i)

	return true
}

// CompareHistograms compares two flattened histograms under metric m.
// It is a pure function of its arguments; neither the model collection
// nor the cache is touched.
func (c *Classifier) CompareHistograms(h1, h2 []float64, m metric.Metric) (float64, error) {
	score, err := metric.Compare(h1, h2, m)
	return score, translateError(err)
}

// CompareAll compares frame against every stored model and returns the
// scores in collection order. The full comparison outcome (scores,
// probabilities, best match) is cached until the next model mutation.
func (c *Classifier) CompareAll(ctx context.Context, frame *imaging.Frame, m metric.Metric) ([]float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.compareLocked(ctx, frame, m); err != nil {
		return nil, err
	}

	return slices.Clone(c.cache.scores), nil
}

// CompareAllByName is CompareAll with the scores keyed by model name.
func (c *Classifier) CompareAllByName(ctx context.Context, frame *imaging.Frame, m metric.Metric) (map[string]float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.compareLocked(ctx, frame, m); err != nil {
		return nil, err
	}

	return c.byNameLocked(c.cache.scores), nil
}

// Probabilities returns the probability sequence of the most recent
// comparison. With a cold cache it performs a fresh comparison with
// frame first; the cache takes precedence even when frame is non-nil.
// With a cold cache and a nil frame it logs a warning and returns nil.
//
// Each probability is its model's score divided by the sum of all
// scores. Under distance metrics (chisqr, bhattacharyya) scores are
// dissimilarities, so the sequence is not a probability of being the
// best match; the division is kept in this form for compatibility.
func (c *Classifier) Probabilities(ctx context.Context, frame *imaging.Frame, m metric.Metric) ([]float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureComparedLocked(ctx, frame, m); err != nil || !c.cache.done {
		return nil, err
	}

	return slices.Clone(c.cache.probabilities), nil
}

// ProbabilitiesByName is Probabilities with the values keyed by model
// name.
func (c *Classifier) ProbabilitiesByName(ctx context.Context, frame *imaging.Frame, m metric.Metric) (map[string]float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureComparedLocked(ctx, frame, m); err != nil || !c.cache.done {
		return nil, err
	}

	return c.byNameLocked(c.cache.probabilities), nil
}

// BestMatchIndex returns the collection index of the model with the
// maximum score in the most recent comparison, following the same
// cache-first policy as Probabilities. The unset result is -1.
func (c *Classifier) BestMatchIndex(ctx context.Context, frame *imaging.Frame, m metric.Metric) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureComparedLocked(ctx, frame, m); err != nil || !c.cache.done {
		return -1, err
	}

	return c.cache.bestIndex, nil
}

// BestMatchName returns the name of the model with the maximum score
// in the most recent comparison, following the same cache-first policy
// as Probabilities. The unset result is the empty string.
func (c *Classifier) BestMatchName(ctx context.Context, frame *imaging.Frame, m metric.Metric) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureComparedLocked(ctx, frame, m); err != nil || !c.cache.done {
		return "", err
	}

	return c.cache.bestName, nil
}

// Names returns the model names in insertion order.
func (c *Classifier) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.names)
}

// Size returns the number of stored models.
func (c *Classifier) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.names)
}

// ensureComparedLocked implements the cache-first read policy: a cached
// comparison wins, a frame triggers a fresh one, and neither leaves the
// cache cold after a warning.
func (c *Classifier) ensureComparedLocked(ctx context.Context, frame *imaging.Frame, m metric.Metric) error {
	if c.cache.done {
		return nil
	}

	if frame == nil {
		c.logger.WarnNoComparison(ctx)
		return nil
	}

	return c.compareLocked(ctx, frame, m)
}

// compareLocked computes the comparison array for frame and overwrites
// the cache with the full outcome.
func (c *Classifier) compareLocked(ctx context.Context, frame *imaging.Frame, m metric.Metric) error {
	start := time.Now()

	fn, err := metric.Provider(m)
	if err != nil {
		err = translateError(err)
		c.metrics.RecordCompare(0, time.Since(start), err)
		c.logger.LogCompare(ctx, m, 0, err)
		return err
	}

	query, err := c.modelHistogram(frame)
	if err != nil {
		err = translateError(err)
		c.metrics.RecordCompare(0, time.Since(start), err)
		c.logger.LogCompare(ctx, m, 0, err)
		return err
	}

	scores := make([]float64, len(c.histograms))
	for i, h := range c.histograms {
		scores[i] = fn(query, h)
	}

	// Probabilities divide by the raw score sum. Negative or mixed-sign
	// scores (possible under distance metrics) and zero sums pass
	// through the division untouched.
	sum := floats.Sum(scores)
	probs := make([]float64, len(scores))
	for i, s := range scores {
		probs[i] = s / sum
	}

	bestIndex, bestName := -1, ""
	if len(scores) > 0 {
		// Ties resolve to the lowest index.
		bestIndex = floats.MaxIdx(scores)
		bestName = c.names[bestIndex]
	}

	c.cache = comparisonCache{
		done:          true,
		scores:        scores,
		probabilities: probs,
		bestIndex:     bestIndex,
		bestName:      bestName,
	}

	c.metrics.RecordCompare(len(scores), time.Since(start), nil)
	c.logger.LogCompare(ctx, m, len(scores), nil)

	return nil
}

// modelHistogram converts frame per the configured color mode and
// returns its flattened, L2-normalized histogram.
func (c *Classifier) modelHistogram(frame *imaging.Frame) ([]float64, error) {
	if frame == nil {
		return nil, ErrNilFrame
	}

	converted, err := c.engine.Convert(frame, c.mode)
	if err != nil {
		return nil, err
	}

	hist, err := c.engine.Histogram(converted, c.spec)
	if err != nil {
		return nil, err
	}

	// A frame with no in-range pixels keeps its all-zero histogram.
	metric.NormalizeL2InPlace(hist)

	return hist, nil
}

func (c *Classifier) byNameLocked(values []float64) map[string]float64 {
	byName := make(map[string]float64, len(values))
	for i, v := range values {
		byName[c.names[i]] = v
	}

	return byName
}

func (c *Classifier) invalidateCache() {
	c.cache = comparisonCache{bestIndex: -1}
}
