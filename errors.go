package diskcache

import "errors"

// ErrClosed is returned when an operation is invoked on a closed cache.
var ErrClosed = errors.New("cache is closed")

// ErrEntryTooLarge is returned by Set when the serialized record on its own
// exceeds the configured maximum cache size.
var ErrEntryTooLarge = errors.New("entry exceeds maximum cache size")

// ErrCorruptRecord is returned by Get when a stored record cannot be decoded.
var ErrCorruptRecord = errors.New("stored record is corrupt")

// errRecordNotFound reports an absent locator. It never escapes the public
// API; callers translate it into an absent result.
var errRecordNotFound = errors.New("record not found")
