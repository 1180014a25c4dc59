// Package common defines shared constants and sentinel errors used across
// the filevault components. Callers should use errors.Is to match these
// values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound     = errors.New("not found")
	ErrUserNotFound = errors.New("user not found")

	// Validation errors (rejected before any side effect).
	ErrInvalidFile = errors.New("invalid file")

	// Authorization errors. Operations return ErrNotFound instead when the
	// requester has no relation to the file at all, so existence does not
	// leak.
	ErrAccessDenied = errors.New("access denied")

	// Quota errors. The concrete value returned by the upload path is
	// *QuotaExceededError; it matches this sentinel via errors.Is.
	ErrQuotaExceeded = errors.New("storage limit exceeded")

	// Pipeline errors.
	ErrEncryptionFailed    = errors.New("encryption failed")
	ErrDecryptionFailed    = errors.New("decryption failed")
	ErrCompressionFailed   = errors.New("compression failed")
	ErrDecompressionFailed = errors.New("decompression failed")

	// Backing-store errors.
	ErrStorage          = errors.New("storage failure")
	ErrStorageCorrupted = errors.New("stored file corrupted")
)

// QuotaExceededError reports a rejected write together with the owner's
// current accounting, so callers can build a user-facing message.
type QuotaExceededError struct {
	Used      int64
	Available int64
	Requested int64
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("storage limit exceeded: used %d bytes, available %d bytes, requested %d bytes",
		e.Used, e.Available, e.Requested)
}

// Unwrap lets errors.Is(err, ErrQuotaExceeded) match.
func (e *QuotaExceededError) Unwrap() error { return ErrQuotaExceeded }
