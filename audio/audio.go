package audio

import "github.com/dendrascience/mcrawfs/container"

// Synthesize builds the mount's audio.wav blob: if chunks is empty,
// returns nil — no blob. Otherwise aligns the chunk timeline to videoT0Ns
// and writes a complete BW64/iXML byte stream.
func Synthesize(chunks []container.AudioChunk, channels, sampleRateHz int, videoT0Ns int64, fps float64, meta Metadata) []byte {
	if len(chunks) == 0 {
		return nil
	}

	aligned := align(chunks, channels, sampleRateHz, videoT0Ns)
	ixml := buildIXML(meta, fps)
	return writeBW64(aligned, channels, sampleRateHz, ixml)
}
