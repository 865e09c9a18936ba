// Package cache implements the process-wide, byte-bounded content cache
// with single-flight coalescing shared across every mount.
package cache
