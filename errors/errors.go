// Package errors defines all exported error sentinels for the boundrand library.
//
// This is the single source of truth for error values. Both the top-level
// boundrand package and any internal packages import from here, ensuring
// errors.Is checks work across package boundaries.
package errors

import "errors"

// Sampling errors
var (
	ErrInvalidRange = errors.New("boundrand: bound must be at least 1")
)

// Capture write errors
var (
	ErrCaptureClosed = errors.New("boundrand: capture writer is closed")
)

// Capture read errors
var (
	ErrInvalidMagic   = errors.New("boundrand: invalid magic number")
	ErrInvalidVersion = errors.New("boundrand: unsupported capture version")
	ErrTruncatedFile  = errors.New("boundrand: capture file is truncated")
	ErrChecksumFailed = errors.New("boundrand: capture checksum verification failed")
)

// Replay errors
var (
	ErrReplayExhausted = errors.New("boundrand: replay source has no samples left")
)
