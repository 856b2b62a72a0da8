package modelzoo

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/klauspost/compress/zip"
	"golang.org/x/sync/errgroup"
)

// extractArchive unpacks the zip archive at archivePath into dir.
// Entries are validated against directory escapes before anything is
// written; files are then extracted concurrently.
func extractArchive(archivePath, dir string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer func() { _ = zr.Close() }()

	for _, f := range zr.File {
		if !validEntryName(f.Name) {
			return fmt.Errorf("%w: %q", ErrUnsafeArchive, f.Name)
		}
	}

	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			if err := os.MkdirAll(filepath.Join(dir, filepath.FromSlash(f.Name)), 0o755); err != nil {
				return err
			}
			continue
		}

		g.Go(func() error {
			return extractFile(f, filepath.Join(dir, filepath.FromSlash(f.Name)))
		})
	}

	return g.Wait()
}

// validEntryName reports whether a zip entry name stays inside the
// extraction directory: slash-separated, relative, no "." or ".."
// elements and no rooted or drive-letter forms smuggled in.
func validEntryName(name string) bool {
	name = strings.TrimSuffix(name, "/")
	if name == "" {
		return false
	}

	return fs.ValidPath(name) && filepath.IsLocal(filepath.FromSlash(name))
}

func extractFile(f *zip.File, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer func() { _ = rc.Close() }()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return fmt.Errorf("extract %s: %w", f.Name, err)
	}

	return out.Close()
}
