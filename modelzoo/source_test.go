package modelzoo

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/archive.zip":
			_, _ = w.Write([]byte("zip bytes"))
		case "/teapot":
			w.WriteHeader(http.StatusTeapot)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.Client())
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rc, size, err := src.Fetch(ctx, srv.URL+"/archive.zip")
		require.NoError(t, err)
		defer func() { _ = rc.Close() }()

		assert.Equal(t, int64(len("zip bytes")), size)

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "zip bytes", string(data))
	})

	t.Run("NotFound", func(t *testing.T) {
		_, _, err := src.Fetch(ctx, srv.URL+"/nope.zip")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status")
	})

	t.Run("NonOKStatus", func(t *testing.T) {
		_, _, err := src.Fetch(ctx, srv.URL+"/teapot")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status")
	})

	t.Run("NilClientDefaults", func(t *testing.T) {
		rc, _, err := NewHTTPSource(nil).Fetch(ctx, srv.URL+"/archive.zip")
		require.NoError(t, err)
		require.NoError(t, rc.Close())
	})
}

func TestFileSource(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "archives"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "archives", "m.zip"), []byte("payload"), 0o644))

	src := NewFileSource(root)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rc, size, err := src.Fetch(ctx, "archives/m.zip")
		require.NoError(t, err)
		defer func() { _ = rc.Close() }()

		assert.Equal(t, int64(len("payload")), size)

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(data))
	})

	t.Run("Missing", func(t *testing.T) {
		_, _, err := src.Fetch(ctx, "archives/other.zip")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("EscapesRoot", func(t *testing.T) {
		_, _, err := src.Fetch(ctx, "../outside.zip")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "escapes mirror root")
	})
}

func TestRateLimitedReader(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 128*1024)

	t.Run("PassesAllBytes", func(t *testing.T) {
		r := &rateLimitedReader{
			r:       bytes.NewReader(payload),
			limiter: rate.NewLimiter(rate.Limit(10<<20), 64*1024),
			ctx:     context.Background(),
		}

		data, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, payload, data)
	})

	t.Run("ContextCanceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		r := &rateLimitedReader{
			r:       bytes.NewReader(payload),
			limiter: rate.NewLimiter(1, 1),
			ctx:     ctx,
		}

		_, err := io.ReadAll(r)
		assert.Error(t, err)
	})
}
