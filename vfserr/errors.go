// Package vfserr defines the error taxonomy shared across mcrawfs's
// projection core. Mount construction, the DNG pipeline, and the registry
// return one of these sentinels (wrapped with context via fmt.Errorf's %w),
// so callers can classify those failures with errors.Is without depending
// on the package that produced them. Errors from a container.Decoder or
// from JSON metadata parsing are passed through as they are.
package vfserr

import "errors"

var (
	// ErrInvalidFormat covers an unsupported sensor arrangement, an
	// unreadable container, or a mount path with the wrong extension.
	ErrInvalidFormat = errors.New("vfserr: invalid format")

	// ErrNotFound covers a path that does not resolve to any entry.
	ErrNotFound = errors.New("vfserr: entry not found")

	// ErrAccessDenied covers a non-read open attempt.
	ErrAccessDenied = errors.New("vfserr: access denied")

	// ErrIOFailure covers a container decode or adapter read error. It is
	// per-request and never fatal to the mount.
	ErrIOFailure = errors.New("vfserr: io failure")

	// ErrResourceExhausted covers a cache insertion skipped because a
	// single item exceeds capacity. It is not surfaced to read callers;
	// the item is simply not cached and the request still completes.
	ErrResourceExhausted = errors.New("vfserr: resource exhausted")

	// ErrTimeout covers a cache single-flight wait that exceeded its
	// bound. Treated as a miss by callers.
	ErrTimeout = errors.New("vfserr: timeout")

	// ErrInternal covers a violated invariant. Logged at the point of
	// detection and surfaced to read callers as ErrIOFailure.
	ErrInternal = errors.New("vfserr: internal error")
)
