package modelzoo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/time/rate"
)

// Source is an abstraction for fetching model archives.
type Source interface {
	// Fetch opens the archive at url for reading. The returned size is
	// the total byte count, or -1 when unknown.
	Fetch(ctx context.Context, url string) (io.ReadCloser, int64, error)
}

// Downloader is an optional interface for Sources that can write an
// archive straight into a file, typically with concurrent range
// requests. The Manager prefers it over Fetch when no download rate
// limit is configured.
type Downloader interface {
	Download(ctx context.Context, url string, w io.WriterAt) (int64, error)
}

// HTTPSource fetches archives over HTTP(S).
type HTTPSource struct {
	client *http.Client
}

// NewHTTPSource creates a new HTTPSource. A nil client falls back to
// http.DefaultClient.
func NewHTTPSource(client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{client: client}
}

// Fetch implements Source.
func (s *HTTPSource) Fetch(ctx context.Context, url string) (io.ReadCloser, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch %s: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, 0, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}

	return resp.Body, resp.ContentLength, nil
}

// FileSource serves archives from a local directory, for tests and
// offline mirrors. Archive URLs are paths relative to the root.
type FileSource struct {
	root string
}

// NewFileSource creates a new FileSource rooted at the given directory.
func NewFileSource(root string) *FileSource {
	return &FileSource{root: root}
}

// Fetch implements Source.
func (s *FileSource) Fetch(ctx context.Context, url string) (io.ReadCloser, int64, error) {
	if !filepath.IsLocal(filepath.FromSlash(url)) {
		return nil, 0, fmt.Errorf("fetch %s: path escapes mirror root", url)
	}

	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(url)))
	if err != nil {
		return nil, 0, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, err
	}

	return f, info.Size(), nil
}

// rateLimitedReader throttles reads against a shared byte-rate limiter.
// Reads are clamped to the limiter burst and the tokens are taken
// before the read, so short reads may slightly undershoot the limit.
type rateLimitedReader struct {
	r       io.Reader
	limiter *rate.Limiter
	ctx     context.Context
}

func (r *rateLimitedReader) Read(p []byte) (int, error) {
	n := len(p)
	if burst := r.limiter.Burst(); n > burst {
		n = burst
	}

	if err := r.limiter.WaitN(r.ctx, n); err != nil {
		return 0, err
	}

	return r.r.Read(p[:n])
}
