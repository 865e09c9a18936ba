package audio

import (
	"math"

	"github.com/dendrascience/mcrawfs/container"
	"github.com/dendrascience/mcrawfs/internal/logging"
)

// maxDriftMs is the drift magnitude beyond which alignment is skipped
// entirely.
const maxDriftMs = 1000.0

// align implements steps 2-4: compute the drift between the first
// audio chunk's timestamp and the video's first timestamp, then trim
// leading audio (if audio starts late) or prepend a silence chunk stamped
// videoT0Ns (if audio starts early).
func align(chunks []container.AudioChunk, channels, sampleRateHz int, videoT0Ns int64) []container.AudioChunk {
	if len(chunks) == 0 {
		return chunks
	}

	driftMs := float64(chunks[0].TimestampNs-videoT0Ns) * 1e-6
	if math.Abs(driftMs) > maxDriftMs {
		logging.Warnf("audio: drift %.1fms exceeds %.0fms, skipping alignment", driftMs, maxDriftMs)
		return chunks
	}

	switch {
	case driftMs > 0:
		return trimLeading(chunks, driftMs, sampleRateHz, channels)
	case driftMs < 0:
		return prependSilence(chunks, -driftMs, sampleRateHz, channels, videoT0Ns)
	default:
		return chunks
	}
}

// trimLeading drops round(driftMs * sampleRate / 1000) * channels samples
// from the head of the chunk sequence, dropping whole chunks and trimming
// the first partial one, advancing its timestamp to match.
func trimLeading(chunks []container.AudioChunk, driftMs float64, sampleRateHz, channels int) []container.AudioChunk {
	toDrop := int(math.Round(driftMs*float64(sampleRateHz)/1000)) * channels
	if toDrop <= 0 {
		return chunks
	}

	out := make([]container.AudioChunk, 0, len(chunks))
	remaining := toDrop
	msPerSample := 1000.0 / float64(sampleRateHz)

	for i, c := range chunks {
		if remaining <= 0 {
			out = append(out, chunks[i:]...)
			break
		}
		if remaining >= len(c.Samples) {
			remaining -= len(c.Samples)
			continue
		}
		droppedFrames := remaining / channels
		trimmed := c.Samples[remaining:]
		out = append(out, container.AudioChunk{
			TimestampNs: c.TimestampNs + int64(float64(droppedFrames)*msPerSample*1e6),
			Samples: trimmed,
		})
		remaining = 0
	}

	return out
}

// prependSilence adds a silence chunk of round(driftMs * sampleRate / 1000)
// * channels zero samples at videoT0Ns, and shifts every existing chunk's
// timestamp forward by driftMs.
func prependSilence(chunks []container.AudioChunk, driftMs float64, sampleRateHz, channels int, videoT0Ns int64) []container.AudioChunk {
	silenceSamples := int(math.Round(driftMs*float64(sampleRateHz)/1000)) * channels

	out := make([]container.AudioChunk, 0, len(chunks)+1)
	out = append(out, container.AudioChunk{
		TimestampNs: videoT0Ns,
		Samples: make([]int16, silenceSamples),
	})

	shiftNs := int64(driftMs * 1e6)
	for _, c := range chunks {
		out = append(out, container.AudioChunk{
			TimestampNs: c.TimestampNs + shiftNs,
			Samples: c.Samples,
		})
	}
	return out
}
