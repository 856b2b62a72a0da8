package persistence

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/chromatch/chromatch"
	"github.com/chromatch/chromatch/imaging"
)

// byteOrder is the on-disk byte order (native on x86/ARM).
var byteOrder = binary.LittleEndian

type saveOptions struct {
	compression Compression
}

// SaveOption configures Save and SaveFile.
type SaveOption func(*saveOptions)

// WithCompression sets the payload compression codec. Default: none.
func WithCompression(codec Compression) SaveOption {
	return func(o *saveOptions) {
		o.compression = codec
	}
}

type loadOptions struct {
	classifierOptions []chromatch.Option
}

// LoadOption configures Load and LoadFile.
type LoadOption func(*loadOptions)

// WithClassifierOptions sets options applied to the restored
// classifier, such as a logger or metrics collector. Mode, channels,
// bins and ranges always come from the snapshot.
func WithClassifierOptions(optFns ...chromatch.Option) LoadOption {
	return func(o *loadOptions) {
		o.classifierOptions = optFns
	}
}

// Save writes a snapshot of the classifier to w.
func Save(w io.Writer, c *chromatch.Classifier, optFns ...SaveOption) error {
	opts := saveOptions{compression: CompressionNone}
	for _, fn := range optFns {
		fn(&opts)
	}

	s := c.Snapshot()

	payload, err := encodePayload(s)
	if err != nil {
		return err
	}

	stored, compressed, err := compressPayload(payload, opts.compression)
	if err != nil {
		return err
	}

	header := FileHeader{
		Magic:       MagicNumber,
		Version:     Version,
		Compression: uint8(opts.compression),
		Mode:        uint8(s.Mode),
		ModelCount:  uint32(len(s.Models)),
		RawSize:     uint32(len(payload)),
		Checksum:    CalculateChecksum(stored),
	}
	if compressed {
		header.PayloadSize = uint32(len(stored))
	}

	if err := binary.Write(w, byteOrder, &header); err != nil {
		return err
	}

	_, err = w.Write(stored)
	return err
}

// Load reads a snapshot from r and restores the classifier.
func Load(r io.Reader, optFns ...LoadOption) (*chromatch.Classifier, error) {
	var opts loadOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	var header FileHeader
	if err := binary.Read(r, byteOrder, &header); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupted, err)
	}
	if header.Magic != MagicNumber {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, header.Magic)
	}
	if header.Version != Version {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidVersion, header.Version)
	}

	size := header.PayloadSize
	if size == 0 {
		size = header.RawSize
	}
	if size > maxPayloadSize || header.RawSize > maxPayloadSize {
		return nil, fmt.Errorf("%w: payload size %d exceeds limit", ErrCorrupted, size)
	}

	stored := make([]byte, size)
	if _, err := io.ReadFull(r, stored); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupted, err)
	}

	if actual := CalculateChecksum(stored); actual != header.Checksum {
		return nil, &ChecksumMismatchError{Expected: header.Checksum, Actual: actual}
	}

	payload := stored
	if header.PayloadSize != 0 {
		var err error
		payload, err = decompressPayload(stored, int(header.RawSize), Compression(header.Compression))
		if err != nil {
			return nil, err
		}
	}

	s, err := decodePayload(payload)
	if err != nil {
		return nil, err
	}
	s.Mode = imaging.Mode(header.Mode)

	if n := uint32(len(s.Models)); n != header.ModelCount {
		return nil, fmt.Errorf("%w: header model count %d, payload has %d", ErrCorrupted, header.ModelCount, n)
	}

	return chromatch.FromSnapshot(s, opts.classifierOptions...)
}

// SaveFile writes a snapshot of the classifier to filename. The
// snapshot is written to a temp file in the same directory and renamed
// over the target, so readers never observe a partial file.
func SaveFile(c *chromatch.Classifier, filename string, optFns ...SaveOption) error {
	dir := filepath.Dir(filename)
	base := filepath.Base(filename)

	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	// Match typical file permissions (best-effort).
	_ = tmp.Chmod(0644)

	buf := bufio.NewWriter(tmp)
	if err := Save(buf, c, optFns...); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, filename); err != nil {
		return err
	}

	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	// Success: prevent deferred cleanup from removing the final file.
	tmpName = ""
	return nil
}

// LoadFile reads a snapshot from filename and restores the classifier.
func LoadFile(filename string, optFns ...LoadOption) (*chromatch.Classifier, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Load(bufio.NewReader(f), optFns...)
}

// encodePayload serializes a snapshot payload. Layout, little-endian:
//
//	uint32  channel count, then int32 per channel
//	uint32  bin count, then int32 per channel
//	uint32  range bound count, then float64 per bound
//	uint32  model count
//	per model:
//	    uint16  name length, then raw name bytes
//	    uint32  histogram length, then float64 per bin
//
// The color mode travels in the file header, not the payload.
func encodePayload(s chromatch.Snapshot) ([]byte, error) {
	var buf bytes.Buffer

	writeIntSlice := func(values []int) error {
		if err := binary.Write(&buf, byteOrder, uint32(len(values))); err != nil {
			return err
		}
		for _, v := range values {
			if err := binary.Write(&buf, byteOrder, int32(v)); err != nil {
				return err
			}
		}
		return nil
	}

	if err := writeIntSlice(s.Channels); err != nil {
		return nil, err
	}
	if err := writeIntSlice(s.Bins); err != nil {
		return nil, err
	}

	if err := binary.Write(&buf, byteOrder, uint32(len(s.Ranges))); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, byteOrder, s.Ranges); err != nil {
		return nil, err
	}

	if err := binary.Write(&buf, byteOrder, uint32(len(s.Models))); err != nil {
		return nil, err
	}

	for _, m := range s.Models {
		if len(m.Name) > math.MaxUint16 {
			return nil, fmt.Errorf("model name too long: %d bytes", len(m.Name))
		}
		if err := binary.Write(&buf, byteOrder, uint16(len(m.Name))); err != nil {
			return nil, err
		}
		buf.WriteString(m.Name)

		if err := binary.Write(&buf, byteOrder, uint32(len(m.Histogram))); err != nil {
			return nil, err
		}
		if err := binary.Write(&buf, byteOrder, m.Histogram); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// decodePayload reverses encodePayload. The mode field of the returned
// snapshot is left zero for the caller to fill from the header.
func decodePayload(payload []byte) (chromatch.Snapshot, error) {
	var s chromatch.Snapshot

	r := bytes.NewReader(payload)

	readIntSlice := func() ([]int, error) {
		var n uint32
		if err := binary.Read(r, byteOrder, &n); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupted, err)
		}
		if int64(n)*4 > int64(r.Len()) {
			return nil, fmt.Errorf("%w: slice length %d exceeds payload", ErrCorrupted, n)
		}

		values := make([]int, n)
		for i := range values {
			var v int32
			if err := binary.Read(r, byteOrder, &v); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrCorrupted, err)
			}
			values[i] = int(v)
		}
		return values, nil
	}

	var err error
	if s.Channels, err = readIntSlice(); err != nil {
		return s, err
	}
	if s.Bins, err = readIntSlice(); err != nil {
		return s, err
	}

	var rangeCount uint32
	if err := binary.Read(r, byteOrder, &rangeCount); err != nil {
		return s, fmt.Errorf("%w: %w", ErrCorrupted, err)
	}
	if int64(rangeCount)*8 > int64(r.Len()) {
		return s, fmt.Errorf("%w: range count %d exceeds payload", ErrCorrupted, rangeCount)
	}
	s.Ranges = make([]float64, rangeCount)
	if err := binary.Read(r, byteOrder, s.Ranges); err != nil {
		return s, fmt.Errorf("%w: %w", ErrCorrupted, err)
	}

	var modelCount uint32
	if err := binary.Read(r, byteOrder, &modelCount); err != nil {
		return s, fmt.Errorf("%w: %w", ErrCorrupted, err)
	}

	s.Models = make([]chromatch.ModelSnapshot, 0, modelCount)
	for i := uint32(0); i < modelCount; i++ {
		var nameLen uint16
		if err := binary.Read(r, byteOrder, &nameLen); err != nil {
			return s, fmt.Errorf("%w: %w", ErrCorrupted, err)
		}

		name := make([]byte, nameLen)
		if _, err := io.ReadFull(r, name); err != nil {
			return s, fmt.Errorf("%w: %w", ErrCorrupted, err)
		}

		var histLen uint32
		if err := binary.Read(r, byteOrder, &histLen); err != nil {
			return s, fmt.Errorf("%w: %w", ErrCorrupted, err)
		}
		if int64(histLen)*8 > int64(r.Len()) {
			return s, fmt.Errorf("%w: histogram length %d exceeds payload", ErrCorrupted, histLen)
		}

		hist := make([]float64, histLen)
		if err := binary.Read(r, byteOrder, hist); err != nil {
			return s, fmt.Errorf("%w: %w", ErrCorrupted, err)
		}

		s.Models = append(s.Models, chromatch.ModelSnapshot{
			Name:      string(name),
			Histogram: hist,
		})
	}

	if r.Len() != 0 {
		return s, fmt.Errorf("%w: %d trailing bytes", ErrCorrupted, r.Len())
	}

	return s, nil
}
