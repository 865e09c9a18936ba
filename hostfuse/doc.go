// Package hostfuse is the host projection adapter: it advertises a
// vfs.Core's entries as a bazil.org/fuse directory tree and forwards reads
// into the core's cached/pooled DNG and audio read path. The core never
// imports this package; swapping in a different projection host touches
// nothing outside it.
package hostfuse
