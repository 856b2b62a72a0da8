package chromatch

import (
	"errors"
	"fmt"

	"github.com/chromatch/chromatch/imaging"
	"github.com/chromatch/chromatch/metric"
)

// ErrInvalidConfig marks configuration errors: unknown color modes,
// unknown comparison metrics and malformed histogram specs. The
// underlying error remains reachable via errors.Is.
var ErrInvalidConfig = errors.New("invalid configuration")

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Configuration unification.
	if errors.Is(err, imaging.ErrUnknownMode) ||
		errors.Is(err, imaging.ErrInvalidSpec) ||
		errors.Is(err, metric.ErrUnknownMetric) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return err
}
