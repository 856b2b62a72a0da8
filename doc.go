// Package chromatch provides an embedded color-histogram classifier for Go.
//
// Chromatch matches a query frame against a named collection of reference
// color histograms and reports the nearest model, in the spirit of the
// color indexing scheme of Swain and Ballard (1991). Reference frames are
// converted to a configurable color mode (HSV by default), reduced to a
// flattened joint histogram over the configured channels, bins and value
// ranges, and L2-normalized so that frames of different sizes compare on
// equal footing.
//
// # Quick Start
//
//	ctx := context.Background()
//
//	model, _ := imaging.ReadFile("models/batman.png")
//	query, _ := imaging.ReadFile("query.png")
//
//	c, _ := chromatch.HSV().Build()
//	_ = c.AddModel(ctx, model, "batman")
//
//	name, _ := c.BestMatchName(ctx, query, metric.MetricIntersection)
//	fmt.Println(name)
//
// # Comparison Metrics
//
// Four metrics are available, with the same formulas OpenCV uses for
// histogram comparison:
//
//	metric.MetricIntersection  // similarity, 1.0 for identical normalized histograms
//	metric.MetricCorrelation   // Pearson correlation, in [-1, 1]
//	metric.MetricChiSquare     // dissimilarity, 0.0 for identical histograms
//	metric.MetricBhattacharyya // dissimilarity, in [0, 1]
//
// Probabilities and the best match are derived from raw scores: each
// probability is its score divided by the score sum, and the best match
// is the first maximum score. Under the distance metrics the maximum
// score is the worst model, so interpret those readings accordingly.
//
// # Comparison Cache
//
// CompareAll computes a fresh comparison and caches its full outcome.
// Probabilities, BestMatchIndex and BestMatchName answer from that cache
// when it is warm, even when a frame is supplied; with a cold cache they
// compare the supplied frame first, and with a cold cache and no frame
// they log a warning and return their unset values. Adding or removing
// a model clears the cache.
//
// # Snapshots
//
// The persistence package saves a classifier's configuration and models
// to a compact binary snapshot, optionally LZ4 or Zstandard compressed,
// and restores it later:
//
//	_ = persistence.SaveFile(c, "models.chrm", persistence.WithCompression(persistence.CompressionZSTD))
//	c, _ = persistence.LoadFile("models.chrm")
//
// # Model Archives
//
// The modelzoo package resolves named model archives to local files,
// downloading and unpacking them on first use. HTTP, local file, S3 and
// MinIO sources are supported.
//
// # Key Features
//
//   - Four comparison metrics (intersection, correlation, chi-square, Bhattacharyya)
//   - HSV, grayscale, RGB and native BGR color modes
//   - Joint N-dimensional histograms with configurable channels, bins and ranges
//   - Cached comparison results for cheap repeated reads
//   - Snapshot persistence with optional LZ4/Zstandard compression
//   - Model archive management with HTTP, file, S3 and MinIO sources
//   - Structured logging (slog) and pluggable metrics
package chromatch
