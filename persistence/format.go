package persistence

import (
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

const (
	// MagicNumber identifies chromatch snapshot files (ASCII: "CHRM")
	MagicNumber = 0x4348524D
	// Version is the current file format version (v1.0.0)
	Version = 0x00010000

	// maxPayloadSize caps the payload allocation during load.
	maxPayloadSize = 1 << 30
)

var (
	ErrInvalidMagic       = errors.New("invalid magic number")
	ErrInvalidVersion     = errors.New("unsupported version")
	ErrUnknownCompression = errors.New("unknown compression codec")
	ErrCorrupted          = errors.New("corrupted snapshot")
)

// Compression defines the compression algorithm used for the payload.
type Compression uint8

const (
	// CompressionNone indicates no compression.
	CompressionNone Compression = 0
	// CompressionLZ4 indicates LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD indicates ZSTD block compression (better ratio).
	CompressionZSTD Compression = 2
)

// String implements the fmt.Stringer interface.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// FileHeader is the fixed-size header at the start of every snapshot
// file. The payload that follows it holds the histogram geometry and
// the model collection.
type FileHeader struct {
	Magic       uint32 // 0x4348524D ("CHRM")
	Version     uint32 // File format version
	Compression uint8  // Payload compression codec
	Mode        uint8  // Color mode of the stored classifier
	Padding     [2]byte
	ModelCount  uint32 // Number of stored models
	PayloadSize uint32 // Stored payload bytes; 0 means stored uncompressed
	RawSize     uint32 // Uncompressed payload bytes
	Checksum    uint32 // CRC32 of the stored payload
	Reserved    [8]byte
}

// ZSTD encoder/decoder pools for efficiency
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// compressPayload compresses the payload with the requested codec. The
// returned flag reports whether the result is actually compressed:
// incompressible payloads are stored raw, whatever the codec.
func compressPayload(data []byte, codec Compression) ([]byte, bool, error) {
	if codec == CompressionNone || len(data) == 0 {
		return data, false, nil
	}

	var compressed []byte
	var err error

	switch codec {
	case CompressionLZ4:
		compressed, err = compressLZ4(data)
	case CompressionZSTD:
		compressed = compressZSTD(data)
	default:
		return nil, false, fmt.Errorf("%w: %v", ErrUnknownCompression, codec)
	}

	if err != nil {
		return nil, false, err
	}

	// If compression doesn't help (ratio > 0.9), store uncompressed.
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		return data, false, nil
	}

	return compressed, true, nil
}

func compressLZ4(data []byte) ([]byte, error) {
	compressed := make([]byte, lz4.CompressBlockBound(len(data)))

	n, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil // Incompressible
	}

	return compressed[:n], nil
}

func compressZSTD(data []byte) []byte {
	enc := getZstdEncoder()
	defer putZstdEncoder(enc)

	return enc.EncodeAll(data, nil)
}

// decompressPayload reverses compressPayload for a stored payload of
// known uncompressed size.
func decompressPayload(stored []byte, rawSize int, codec Compression) ([]byte, error) {
	result := make([]byte, rawSize)

	switch codec {
	case CompressionLZ4:
		n, err := lz4.UncompressBlock(stored, result)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupted, err)
		}
		if n != rawSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupted)
		}
		return result, nil

	case CompressionZSTD:
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)

		decoded, err := dec.DecodeAll(stored, result[:0])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupted, err)
		}
		if len(decoded) != rawSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupted)
		}
		return decoded, nil

	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownCompression, codec)
	}
}
