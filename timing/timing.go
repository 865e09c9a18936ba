// Package timing derives recording frame rate from frame timestamps,
// computes presentation indices relative to the first frame, reduces a
// floating-point frame rate to an integer fraction for timecode, and
// encodes SMPTE timecode bytes.
package timing

// Fraction is a reduced integer numerator/denominator pair.
type Fraction struct {
	Num int64
	Den int64
}

// CalculateFrameRate derives fps from a sequence of frame timestamps (ns),
// assumed already sorted ascending, using a numerically stable running mean
// over positive deltas only. Returns 0 for fewer than two timestamps.
func CalculateFrameRate(timestampsNs []int64) float64 {
	if len(timestampsNs) < 2 {
		return 0
	}

	var meanDelta float64
	var n float64

	for i := 1; i < len(timestampsNs); i++ {
		delta := timestampsNs[i] - timestampsNs[i-1]
		if delta <= 0 {
			continue
		}
		n++
		// running mean: avoids summing a potentially huge total before
		// dividing.
		meanDelta += (float64(delta) - meanDelta) / n
	}

	if meanDelta <= 0 {
		return 0
	}
	return 1e9 / meanDelta
}

// PresentationIndex computes a frame's expected presentation index relative
// to the first timestamp: pts = round((ts - ts0) * fps / 1e9).
func PresentationIndex(ts, ts0 int64, fps float64) int {
	if fps <= 0 {
		return 0
	}
	v := float64(ts-ts0) * fps / 1e9
	return int(roundHalfAwayFromZero(v))
}

func roundHalfAwayFromZero(v float64) float64 {
	if v >= 0 {
		return float64(int64(v + 0.5))
	}
	return float64(int64(v - 0.5))
}

func gcd(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

// ToFraction reduces a floating-point frame rate to num/den using base as
// the initial denominator (e.g. base=1000 turns 29.97 into 29970/1000,
// reduced to 2997/100).
func ToFraction(fps float64, base int64) Fraction {
	if base <= 0 {
		base = 1000
	}
	num := int64(roundHalfAwayFromZero(fps * float64(base)))
	den := base
	g := gcd(num, den)
	return Fraction{Num: num / g, Den: den / g}
}

// Timecode is the decomposed HH:MM:SS:FF representation of a frame number
// at a given frame rate.
type Timecode struct {
	Hours, Minutes, Seconds, Frames int
}

// FromFrameNumber decomposes frame F at frame rate R (fps) into non-drop
// SMPTE HH:MM:SS:FF: FF = F mod round(R), SS = floor(F/R) mod 60,
// MM = floor(F/(60R)) mod 60, HH = floor(F/(3600R)).
func FromFrameNumber(frameNumber int64, fps float64) Timecode {
	if fps <= 0 {
		return Timecode{}
	}
	roundedFps := int64(roundHalfAwayFromZero(fps))
	if roundedFps <= 0 {
		roundedFps = 1
	}

	frames := int(frameNumber % roundedFps)
	totalSeconds := int64(float64(frameNumber) / fps)
	seconds := int(totalSeconds % 60)
	minutes := int((totalSeconds / 60) % 60)
	hours := int(totalSeconds / 3600)

	return Timecode{Hours: hours, Minutes: minutes, Seconds: seconds, Frames: frames}
}

// toBCDByte packs a 0-99 value into two BCD nibbles, the encoding SMPTE
// timecode bytes use for each field.
func toBCDByte(v int) byte {
	if v < 0 {
		v = 0
	}
	tens := (v / 10) % 10
	ones := v % 10
	return byte(tens<<4 | ones)
}

// Encode renders an 8-byte non-drop-frame SMPTE timecode: the four BCD
// fields packed contiguously as [frames, seconds, minutes, hours], with
// the binary-group bytes 4-7 left zero. The frames byte and the hours byte
// are masked by 0x3F; the seconds and minutes bytes by 0x7F. The asymmetry
// (hours masked like frames, not like seconds and minutes) keeps the
// drop-frame flag bits zeroed for consumers that read them.
func Encode(tc Timecode) [8]byte {
	var out [8]byte
	out[0] = toBCDByte(tc.Frames) & 0x3F
	out[1] = toBCDByte(tc.Seconds) & 0x7F
	out[2] = toBCDByte(tc.Minutes) & 0x7F
	out[3] = toBCDByte(tc.Hours) & 0x3F
	return out
}

// EncodeFrameNumber is the composition of FromFrameNumber and Encode used
// by the DNG pipeline to stamp each frame's timecode tag.
func EncodeFrameNumber(frameNumber int64, fps float64) [8]byte {
	return Encode(FromFrameNumber(frameNumber, fps))
}
