package modelzoo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// Manager resolves registry model names to installed local
// directories, downloading and extracting archives on first use.
//
// A model is installed exactly when its directory below Dir exists.
// Installation is atomic: archives are extracted into a staging
// directory that is renamed into place, so an existing directory is
// always complete. Concurrent resolves of one model are deduplicated
// in process and serialized across processes with a lock file.
type Manager struct {
	dir         string
	registry    Registry
	source      Source
	limiter     *rate.Limiter
	lockTimeout time.Duration
	logger      *slog.Logger

	group singleflight.Group
}

// New creates a new Manager.
func New(optFns ...func(o *Options)) (*Manager, error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Registry == nil {
		opts.Registry = DefaultRegistry()
	}

	if opts.Source == nil {
		opts.Source = NewHTTPSource(nil)
	}

	if opts.LockTimeout <= 0 {
		opts.LockTimeout = DefaultLockTimeout
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create model directory: %w", err)
	}

	m := &Manager{
		dir:         opts.Dir,
		registry:    opts.Registry,
		source:      opts.Source,
		lockTimeout: opts.LockTimeout,
		logger:      opts.Logger,
	}

	if opts.RateLimitBytesPerSec > 0 {
		m.limiter = rate.NewLimiter(rate.Limit(opts.RateLimitBytesPerSec), int(opts.RateLimitBytesPerSec))
	}

	return m, nil
}

// Dir returns the root directory models are installed under.
func (m *Manager) Dir() string {
	return m.dir
}

// Installed reports whether the named model is installed, keyed by the
// presence of its directory.
func (m *Manager) Installed(name string) bool {
	info, err := os.Stat(m.modelPath(name))
	return err == nil && info.IsDir()
}

// Resolve returns the local directory of the named model, downloading
// and extracting its archive first if it is not installed yet.
func (m *Manager) Resolve(ctx context.Context, name string) (string, error) {
	archive, ok := m.registry[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}

	dir := m.modelPath(name)
	if m.Installed(name) {
		return dir, nil
	}

	// Concurrent resolves of the same model share one install.
	_, err, _ := m.group.Do(name, func() (interface{}, error) {
		return nil, m.install(ctx, name, archive)
	})
	if err != nil {
		return "", err
	}

	return dir, nil
}

// ResolveEntry returns the local path of one named entry inside the
// model's extracted archive, installing the model first if needed.
func (m *Manager) ResolveEntry(ctx context.Context, name, entry string) (string, error) {
	archive, ok := m.registry[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}

	rel, ok := archive.Entries[entry]
	if !ok {
		return "", fmt.Errorf("%w: %q has no entry %q", ErrUnknownEntry, name, entry)
	}

	dir, err := m.Resolve(ctx, name)
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, filepath.FromSlash(rel)), nil
}

// Remove deletes the named model's directory. Removing a model that is
// not installed is not an error.
func (m *Manager) Remove(name string) error {
	if _, ok := m.registry[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}

	return os.RemoveAll(m.modelPath(name))
}

func (m *Manager) modelPath(name string) string {
	return filepath.Join(m.dir, name)
}

// install downloads, verifies and extracts one archive under the
// cross-process lock. The caller holds the singleflight slot.
func (m *Manager) install(ctx context.Context, name string, archive Archive) error {
	lock, err := newFileLock(m.modelPath(name) + ".lock")
	if err != nil {
		return fmt.Errorf("create download lock: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	if err := lock.Lock(ctx, m.lockTimeout); err != nil {
		return err
	}

	// Another process may have finished the install while we waited.
	if m.Installed(name) {
		return nil
	}

	if m.logger != nil {
		m.logger.InfoContext(ctx, "downloading model archive", "model", name, "url", archive.URL)
	}

	start := time.Now()

	archivePath, size, err := m.download(ctx, name, archive)
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(archivePath) }()

	stage, err := os.MkdirTemp(m.dir, ".stage-*")
	if err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(stage) }()

	if err := extractArchive(archivePath, stage); err != nil {
		return err
	}

	if err := os.Rename(stage, m.modelPath(name)); err != nil {
		return fmt.Errorf("install model: %w", err)
	}

	if m.logger != nil {
		m.logger.InfoContext(ctx, "model installed",
			"model", name,
			"bytes", size,
			"elapsed", time.Since(start),
		)
	}

	return nil
}

// download writes the archive to a temp file beside the model
// directories and verifies its checksum when one is configured.
func (m *Manager) download(ctx context.Context, name string, archive Archive) (string, int64, error) {
	tmp, err := os.CreateTemp(m.dir, ".archive-*.zip")
	if err != nil {
		return "", 0, fmt.Errorf("create archive file: %w", err)
	}
	tmpName := tmp.Name()

	size, err := m.downloadTo(ctx, tmp, archive)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil && archive.SHA256 != "" {
		err = verifyChecksum(tmpName, archive.SHA256)
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return "", 0, fmt.Errorf("download %q: %w", name, err)
	}

	return tmpName, size, nil
}

func (m *Manager) downloadTo(ctx context.Context, f *os.File, archive Archive) (int64, error) {
	// Sources that can fill a file directly skip the stream copy, but
	// only the stream path honors the rate limit.
	if d, ok := m.source.(Downloader); ok && m.limiter == nil {
		return d.Download(ctx, archive.URL, f)
	}

	rc, _, err := m.source.Fetch(ctx, archive.URL)
	if err != nil {
		return 0, err
	}
	defer func() { _ = rc.Close() }()

	var r io.Reader = rc
	if m.limiter != nil {
		r = &rateLimitedReader{r: rc, limiter: m.limiter, ctx: ctx}
	}

	return io.Copy(f, r)
}

func verifyChecksum(path, want string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return err
	}

	if got := hex.EncodeToString(h.Sum(nil)); !strings.EqualFold(got, want) {
		return fmt.Errorf("%w: got %s, want %s", ErrChecksum, got, want)
	}

	return nil
}
