// Package vfs implements the virtual filesystem core: mount and entry
// construction, directory listing, attribute lookup, and the cached/pooled
// DNG and audio read paths. It depends only on container.Decoder,
// dng.Encode, audio.Synthesize, and cache.Cache — never on a host
// projection adapter, which lives in package hostfuse.
package vfs
