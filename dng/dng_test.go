package dng

import (
	"encoding/binary"
	"testing"

	"github.com/dendrascience/mcrawfs/container"
)

func flatRequest(value uint16, w, h int) Request {
	pixels := make([]uint16, w*h)
	for i := range pixels {
		pixels[i] = value
	}
	return Request{
		Pixels: pixels,
		FrameMeta: container.FrameMetadata{
			Width: w, Height: h,
			OriginalWidth: w, OriginalHeight: h,
			ISO:            100,
			ExposureTimeNs: 8_000_000,
			AsShotNeutral:  [3]float64{1, 1, 1},
		},
		ContainerMeta: container.Metadata{
			BlackLevel:        [4]float64{64, 64, 64, 64},
			WhiteLevel:        1023,
			SensorArrangement: "rggb",
			ColorMatrix1:      [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1},
		},
		RecordingFPS: 30,
		FrameNumber:  0,
		Scale:        1,
	}
}

func TestEncodeS1SingleFrameRGGB(t *testing.T) {
	req := flatRequest(800, 8, 8)

	out, err := Encode(req)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if len(out) < 8 {
		t.Fatalf("output too short: %d bytes", len(out))
	}
	want := []byte{0x49, 0x49, 0x2A, 0x00}
	for i, b := range want {
		if out[i] != b {
			t.Fatalf("header byte %d = %#x, want %#x", i, out[i], b)
		}
	}
}

// findTIFFTagValue returns the inline value of a SHORT/LONG IFD entry.
func findTIFFTagValue(t *testing.T, b []byte, tag uint16) uint32 {
	t.Helper()
	ifdOff := binary.LittleEndian.Uint32(b[4:])
	n := int(binary.LittleEndian.Uint16(b[ifdOff:]))
	for i := 0; i < n; i++ {
		e := b[int(ifdOff)+2+i*12:]
		if binary.LittleEndian.Uint16(e) == tag {
			return binary.LittleEndian.Uint32(e[8:])
		}
	}
	t.Fatalf("tag %d not found in IFD", tag)
	return 0
}

func TestEncodeS2DraftScaleHalvesDimensions(t *testing.T) {
	req := flatRequest(800, 8, 8)
	req.Options = OptDraft
	req.Scale = 2

	out, err := Encode(req)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if w := findTIFFTagValue(t, out, tagImageWidth); w != 4 {
		t.Errorf("ImageWidth = %d, want 4", w)
	}
	if h := findTIFFTagValue(t, out, tagImageLength); h != 4 {
		t.Errorf("ImageLength = %d, want 4", h)
	}
}

func TestPreprocessDraftScaleKeepsBayerPhase(t *testing.T) {
	// Encode the Bayer phase into each pixel value: every (x%2, y%2)
	// position carries a distinct value, so a decimated output block must
	// reproduce exactly {100, 101, 102, 103} in phase order. Sampling the
	// wrong neighbor (e.g. offsets multiplied by scale, which lands on the
	// same phase for any even scale) would flatten every block to 100.
	const w, h = 8, 8
	raw := make([]uint16, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			raw[y*w+x] = uint16(100 + (y%2)*2 + x%2)
		}
	}

	prec := workingPrecision{workBits: 10, dstWhite: 1023}
	plane := preprocessData(raw, w, h, cfaPatterns["rggb"], [4]float64{}, 1023, prec, 2, OptNone, nil, 0, 0, w, h, 0, 0)

	if plane.width != 4 || plane.height != 4 {
		t.Fatalf("plane = %dx%d, want 4x4", plane.width, plane.height)
	}
	for y := 0; y < plane.height; y++ {
		for x := 0; x < plane.width; x++ {
			want := uint16(100 + (y%2)*2 + x%2)
			if got := plane.values[y*plane.width+x]; got != want {
				t.Errorf("plane[%d][%d] = %d, want %d", y, x, got, want)
			}
		}
	}
}

func TestEncodeRejectsUnknownSensorArrangement(t *testing.T) {
	req := flatRequest(800, 8, 8)
	req.ContainerMeta.SensorArrangement = "weird"

	if _, err := Encode(req); err == nil {
		t.Fatalf("expected error for unknown sensor arrangement")
	}
}

func TestChooseBitDepthNarrowestFit(t *testing.T) {
	tests := []struct {
		dstWhite, width int
		want            int
	}{
		{1023, 8, 10},
		{4095, 8, 12},
		{16383, 8, 14},
		{65535, 8, 16},
		{1023, 6, 12},  // width not a multiple of 4: falls through to 12-bit
		{16383, 6, 16}, // neither 10/14 (width) nor 12 (range) fit
	}
	for _, tt := range tests {
		if got := chooseBitDepth(tt.dstWhite, tt.width); got != tt.want {
			t.Errorf("chooseBitDepth(%d, %d) = %d, want %d", tt.dstWhite, tt.width, got, tt.want)
		}
	}
}

func TestPackPixelsRoundTrip16Bit(t *testing.T) {
	values := []uint16{0, 1, 1023, 65535}
	packed := packPixels(values, 16)
	if len(packed) != 8 {
		t.Fatalf("expected 8 bytes for 4 16-bit values, got %d", len(packed))
	}
	got := uint16(packed[4]) | uint16(packed[5])<<8
	if got != 1023 {
		t.Errorf("round-tripped third value = %d, want 1023", got)
	}
}

func TestPackBits10BitGroupSize(t *testing.T) {
	values := []uint16{0, 1023, 512, 256}
	packed := packBits(values, 10)
	if len(packed) != 5 {
		t.Fatalf("expected 5 bytes for 4 10-bit values, got %d", len(packed))
	}
}

func TestBitsNeeded(t *testing.T) {
	tests := []struct {
		max  int
		want int
	}{
		{0, 1},
		{1, 1},
		{1023, 10},
		{4095, 12},
		{16383, 14},
		{65535, 16},
	}
	for _, tt := range tests {
		if got := bitsNeeded(tt.max); got != tt.want {
			t.Errorf("bitsNeeded(%d) = %d, want %d", tt.max, got, tt.want)
		}
	}
}

func TestResolveIlluminant(t *testing.T) {
	if got := ResolveIlluminant("d65"); got != IlluminantD65 {
		t.Errorf("ResolveIlluminant(d65) = %d, want %d", got, IlluminantD65)
	}
	if got := ResolveIlluminant("nonsense"); got != IlluminantUnknown {
		t.Errorf("ResolveIlluminant(nonsense) = %d, want unknown (0)", got)
	}
}
