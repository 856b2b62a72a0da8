package modelzoo

import (
	"log/slog"
	"time"
)

// DefaultLockTimeout is the default wait for the cross-process
// download lock.
const DefaultLockTimeout = 5 * time.Minute

// Options contains configuration options for the Manager.
type Options struct {
	// Dir is the root directory models are installed under. Created if
	// missing.
	Dir string

	// Registry is the model catalog. Defaults to DefaultRegistry().
	Registry Registry

	// Source fetches archives. Defaults to an HTTPSource over
	// http.DefaultClient.
	Source Source

	// RateLimitBytesPerSec throttles archive downloads fetched through
	// the Source. 0 means unlimited. The throttle does not apply to
	// sources taking the Downloader fast path.
	RateLimitBytesPerSec int64

	// LockTimeout bounds the wait for the cross-process download lock.
	LockTimeout time.Duration

	// Logger receives download progress and diagnostics. May be nil.
	Logger *slog.Logger
}

// DefaultOptions contains the default configuration options for the
// Manager.
var DefaultOptions = Options{
	Dir:         "models",
	LockTimeout: DefaultLockTimeout,
}
