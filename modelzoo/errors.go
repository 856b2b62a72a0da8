package modelzoo

import "errors"

// Sentinel errors for model resolution.
// Use errors.Is() to check for specific error conditions.
var (
	// ErrUnknownModel indicates the model name is not in the registry.
	ErrUnknownModel = errors.New("modelzoo: unknown model")

	// ErrUnknownEntry indicates the archive has no entry under the
	// requested name.
	ErrUnknownEntry = errors.New("modelzoo: unknown archive entry")

	// ErrChecksum indicates the downloaded archive failed SHA-256
	// verification. Nothing is installed.
	ErrChecksum = errors.New("modelzoo: archive checksum mismatch")

	// ErrLockTimeout indicates the cross-process download lock could
	// not be acquired in time.
	ErrLockTimeout = errors.New("modelzoo: download lock timeout")

	// ErrUnsafeArchive indicates the archive contains an entry that
	// would be written outside the model directory.
	ErrUnsafeArchive = errors.New("modelzoo: archive entry escapes model directory")
)
