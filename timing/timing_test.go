package timing

import "testing"

func TestCalculateFrameRateApproximates2997(t *testing.T) {
	ts := []int64{0, 33_333_333, 66_666_666, 100_000_000}
	fps := CalculateFrameRate(ts)
	if fps < 29.9 || fps > 30.1 {
		t.Errorf("fps = %v, want ~29.97-30", fps)
	}
}

func TestCalculateFrameRateSkipsNonPositiveDeltas(t *testing.T) {
	ts := []int64{0, 33_333_333, 33_333_333, 66_666_666}
	fps := CalculateFrameRate(ts)
	if fps < 29.9 || fps > 30.1 {
		t.Errorf("fps = %v, want ~29.97-30 even with a duplicate timestamp", fps)
	}
}

func TestCalculateFrameRateTooFewTimestamps(t *testing.T) {
	if got := CalculateFrameRate([]int64{0}); got != 0 {
		t.Errorf("expected 0 fps for a single timestamp, got %v", got)
	}
}

func TestToFraction2997(t *testing.T) {
	f := ToFraction(29.97, 100)
	if f.Num != 2997 || f.Den != 100 {
		t.Errorf("ToFraction(29.97, 100) = %d/%d, want 2997/100", f.Num, f.Den)
	}
}

func TestPresentationIndexDroppedFrame(t *testing.T) {
	// S3: timestamps 0, 33_333_333, 100_000_000 at fps ~= 29.97. The rate is
	// given directly: CalculateFrameRate over these three timestamps alone
	// averages the 33ms and 67ms deltas to 20fps, which hides the gap.
	ts := []int64{0, 33_333_333, 100_000_000}
	const fps = 29.97

	idx0 := PresentationIndex(ts[0], ts[0], fps)
	idx1 := PresentationIndex(ts[1], ts[0], fps)
	idx2 := PresentationIndex(ts[2], ts[0], fps)

	if idx0 != 0 {
		t.Errorf("idx0 = %d, want 0", idx0)
	}
	if idx1 != 1 {
		t.Errorf("idx1 = %d, want 1", idx1)
	}
	if idx2 != 3 {
		t.Errorf("idx2 = %d, want 3 so a one-frame gap is detected", idx2)
	}
}

func TestFromFrameNumber(t *testing.T) {
	fps := 30.0
	tc := FromFrameNumber(95, fps) // 3 seconds + 5 frames
	if tc.Seconds != 3 || tc.Frames != 5 || tc.Minutes != 0 || tc.Hours != 0 {
		t.Errorf("FromFrameNumber(95, 30) = %+v, want {0 0 3 5}", tc)
	}
}

func TestEncodeFieldLayout(t *testing.T) {
	// 01:02:03:04 in BCD, fields packed contiguously at the front with the
	// binary-group bytes 4-7 zero.
	b := Encode(Timecode{Hours: 1, Minutes: 2, Seconds: 3, Frames: 4})
	want := [8]byte{0x04, 0x03, 0x02, 0x01, 0, 0, 0, 0}
	if b != want {
		t.Errorf("Encode = %x, want %x", b, want)
	}
}

func TestEncodeMasksHighNibbles(t *testing.T) {
	tc := Timecode{Hours: 99, Minutes: 99, Seconds: 99, Frames: 99}
	b := Encode(tc)

	if b[0]&0xC0 != 0 {
		t.Errorf("frames byte high bits should be masked off by 0x3F: got %08b", b[0])
	}
	if b[1]&0x80 != 0 {
		t.Errorf("seconds byte top bit should be masked off by 0x7F: got %08b", b[1])
	}
	if b[2]&0x80 != 0 {
		t.Errorf("minutes byte top bit should be masked off by 0x7F: got %08b", b[2])
	}
	if b[3]&0xC0 != 0 {
		t.Errorf("hours byte high bits should be masked off by 0x3F: got %08b", b[3])
	}
}
