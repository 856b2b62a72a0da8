package persistence

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chromatch/chromatch"
	"github.com/chromatch/chromatch/imaging"
	"github.com/chromatch/chromatch/metric"
	"github.com/chromatch/chromatch/testutil"
)

// newTestClassifier builds a classifier with three distinctly colored
// reference models.
func newTestClassifier(t *testing.T) *chromatch.Classifier {
	t.Helper()

	frames := []*imaging.Frame{
		testutil.SolidFrame(24, 24, 200, 30, 30), // blue-ish
		testutil.SolidFrame(24, 24, 30, 200, 30), // green-ish
		testutil.SolidFrame(24, 24, 30, 30, 200), // red-ish
	}

	c, err := chromatch.New(
		chromatch.WithModels(frames, []string{"blue", "green", "red"}),
	)
	require.NoError(t, err)

	return c
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	codecs := []Compression{CompressionNone, CompressionLZ4, CompressionZSTD}

	for _, codec := range codecs {
		t.Run(codec.String(), func(t *testing.T) {
			c := newTestClassifier(t)

			var buf bytes.Buffer
			require.NoError(t, Save(&buf, c, WithCompression(codec)))

			loaded, err := Load(bytes.NewReader(buf.Bytes()))
			require.NoError(t, err)

			assert.Equal(t, c.Snapshot(), loaded.Snapshot())

			// The restored classifier classifies like the original.
			probe := testutil.SolidFrame(24, 24, 30, 200, 30)
			want, err := c.BestMatchName(context.Background(), probe, metric.MetricIntersection)
			require.NoError(t, err)
			got, err := loaded.BestMatchName(context.Background(), probe, metric.MetricIntersection)
			require.NoError(t, err)
			assert.Equal(t, want, got)
			assert.Equal(t, "green", got)
		})
	}
}

func TestSaveLoad_EmptyClassifier(t *testing.T) {
	c, err := chromatch.New(chromatch.WithMode(imaging.ModeRGB))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, c))

	loaded, err := Load(&buf)
	require.NoError(t, err)

	assert.Equal(t, 0, loaded.Size())
	assert.Equal(t, imaging.ModeRGB, loaded.Snapshot().Mode)
}

func TestSaveLoad_PreservesModelOrder(t *testing.T) {
	rng := testutil.NewRNG(42)

	frames := make([]*imaging.Frame, 8)
	names := make([]string, 8)
	for i := range frames {
		frames[i] = rng.NoiseFrame(16, 16)
		names[i] = string(rune('a' + i))
	}

	c, err := chromatch.New(chromatch.WithModels(frames, names))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, c, WithCompression(CompressionZSTD)))

	loaded, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, names, loaded.Names())
}

func TestCompression_ShrinksSparseSnapshots(t *testing.T) {
	// Solid-color models produce near-empty histograms, which any
	// codec should shrink substantially.
	c := newTestClassifier(t)

	var raw, lz4Buf, zstdBuf bytes.Buffer
	require.NoError(t, Save(&raw, c))
	require.NoError(t, Save(&lz4Buf, c, WithCompression(CompressionLZ4)))
	require.NoError(t, Save(&zstdBuf, c, WithCompression(CompressionZSTD)))

	assert.Less(t, lz4Buf.Len(), raw.Len())
	assert.Less(t, zstdBuf.Len(), raw.Len())
}

func TestLoad_InvalidMagic(t *testing.T) {
	c := newTestClassifier(t)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, c))

	data := buf.Bytes()
	data[0] = 'X'

	_, err := Load(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrInvalidMagic)
}

func TestLoad_InvalidVersion(t *testing.T) {
	c := newTestClassifier(t)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, c))

	data := buf.Bytes()
	data[4] = 0xFF

	_, err := Load(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrInvalidVersion)
}

func TestLoad_ChecksumMismatch(t *testing.T) {
	c := newTestClassifier(t)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, c))

	// Flip one payload byte past the fixed-size header.
	data := buf.Bytes()
	data[len(data)-1] ^= 0xFF

	_, err := Load(bytes.NewReader(data))
	require.Error(t, err)
	assert.True(t, IsChecksumMismatch(err))

	var mismatch *ChecksumMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.NotEqual(t, mismatch.Expected, mismatch.Actual)
}

func TestLoad_Truncated(t *testing.T) {
	c := newTestClassifier(t)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, c))

	t.Run("Header", func(t *testing.T) {
		_, err := Load(bytes.NewReader(buf.Bytes()[:10]))
		assert.ErrorIs(t, err, ErrCorrupted)
	})

	t.Run("Payload", func(t *testing.T) {
		_, err := Load(bytes.NewReader(buf.Bytes()[:buf.Len()-5]))
		assert.ErrorIs(t, err, ErrCorrupted)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := Load(bytes.NewReader(nil))
		assert.ErrorIs(t, err, ErrCorrupted)
	})
}

func TestSaveFile_LoadFile(t *testing.T) {
	c := newTestClassifier(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "models.chromatch")

	require.NoError(t, SaveFile(c, path, WithCompression(CompressionZSTD)))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, c.Snapshot(), loaded.Snapshot())

	// Overwriting leaves no temp files behind.
	require.NoError(t, SaveFile(c, path))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, strings.Contains(entries[0].Name(), ".tmp-"))
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.chromatch"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_WithClassifierOptions(t *testing.T) {
	c := newTestClassifier(t)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, c))

	collector := &chromatch.BasicMetricsCollector{}
	loaded, err := Load(&buf, WithClassifierOptions(
		chromatch.WithMetricsCollector(collector),
	))
	require.NoError(t, err)

	_, err = loaded.CompareAll(context.Background(), testutil.SolidFrame(8, 8, 1, 2, 3), metric.MetricCorrelation)
	require.NoError(t, err)

	assert.Equal(t, int64(1), collector.GetStats().CompareCount)
}

func TestCompressPayload_IncompressibleStoredRaw(t *testing.T) {
	rng := testutil.NewRNG(7)
	noise := make([]byte, 4096)
	rng.FillBytes(noise)

	for _, codec := range []Compression{CompressionLZ4, CompressionZSTD} {
		t.Run(codec.String(), func(t *testing.T) {
			stored, compressed, err := compressPayload(noise, codec)
			require.NoError(t, err)
			assert.False(t, compressed)
			assert.Equal(t, noise, stored)
		})
	}

	t.Run("CompressibleIsCompressed", func(t *testing.T) {
		zeros := make([]byte, 4096)

		for _, codec := range []Compression{CompressionLZ4, CompressionZSTD} {
			stored, compressed, err := compressPayload(zeros, codec)
			require.NoError(t, err)
			assert.True(t, compressed)
			assert.Less(t, len(stored), len(zeros))

			restored, err := decompressPayload(stored, len(zeros), codec)
			require.NoError(t, err)
			assert.Equal(t, zeros, restored)
		}
	})
}

func TestCompression_String(t *testing.T) {
	assert.Equal(t, "none", CompressionNone.String())
	assert.Equal(t, "lz4", CompressionLZ4.String())
	assert.Equal(t, "zstd", CompressionZSTD.String())
	assert.Equal(t, "unknown(9)", Compression(9).String())
}

func TestSave_UnknownCompression(t *testing.T) {
	c := newTestClassifier(t)

	var buf bytes.Buffer
	err := Save(&buf, c, WithCompression(Compression(9)))
	assert.ErrorIs(t, err, ErrUnknownCompression)
}
