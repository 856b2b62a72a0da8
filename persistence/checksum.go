package persistence

import (
	"errors"
	"fmt"
	"hash/crc32"
)

// Checksum utilities for snapshot integrity verification.
//
// Uses CRC32 (IEEE polynomial): fast, hardware-accelerated on modern
// CPUs and good at detecting storage corruption. CRC32 is NOT
// cryptographically secure; it detects accidents, not tampering.

// CalculateChecksum calculates the CRC32 checksum of data.
func CalculateChecksum(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}

// ChecksumMismatchError is returned when checksum verification fails.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}

// IsChecksumMismatch returns true if err is a checksum mismatch error.
func IsChecksumMismatch(err error) bool {
	var mismatch *ChecksumMismatchError
	return errors.As(err, &mismatch)
}
