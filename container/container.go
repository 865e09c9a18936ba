package container

// AudioChunk is one chunk of interleaved PCM samples starting at TimestampNs.
type AudioChunk struct {
	TimestampNs int64
	Samples     []int16
}

// Frame is everything the I/O pool needs to hand a decoded frame to the DNG
// pipeline: its raw Bayer pixel buffer and per-frame metadata.
type Frame struct {
	Pixels   []uint16
	Metadata FrameMetadata
}

// Decoder is the container reader contract: a library providing frame
// enumeration, per-frame raw-pixel loading, and audio-chunk loading. A
// concrete decoder understands the real .mcraw byte layout; mcrawfs's
// core and DNG pipeline depend only on this interface, never on a
// byte-layout implementation.
type Decoder interface {
	// FrameTimestamps returns every frame's timestamp in nanoseconds, in
	// file order (not necessarily sorted).
	FrameTimestamps() ([]int64, error)

	// FrameByTimestamp decodes the frame whose timestamp equals tsNs
	// exactly, per the I/O pool's contract of looking up the frame index
	// by timestamp equality against the decoder's frame list.
	FrameByTimestamp(tsNs int64) (Frame, error)

	// Metadata returns container-level calibration metadata.
	Metadata() (Metadata, error)

	// AudioChunks returns every audio chunk, channel count, and sample
	// rate. Returns a nil slice (not an error) if the container has no
	// audio track.
	AudioChunks() (chunks []AudioChunk, channels int, sampleRateHz int, err error)

	// Close releases any resources (file handles, mmaps) held by this
	// decoder instance.
	Close() error
}

// Opener constructs a Decoder for a source path. The core's decoder pool
// calls this only when no idle Decoder for that path is available, and
// reuses returned Decoders across tasks to amortize the container-open
// cost.
type Opener func(sourcePath string) (Decoder, error)
