// Package util provides small cross-package utilities for mcrawfs.
//
// Currently this is the synthetic inode allocator used by hostfuse to hand
// out process-unique, monotonically increasing inode numbers to projected
// entries, plus a filename registry so an inode can be mapped back to the
// entry path it was issued for.
package util
