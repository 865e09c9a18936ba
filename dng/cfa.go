package dng

import (
	"fmt"

	"github.com/dendrascience/mcrawfs/vfserr"
)

// CFA channel indices: R=0, G=1, B=2.
const (
	ChannelRed   = 0
	ChannelGreen = 1
	ChannelBlue  = 2
)

// cfaPattern is the 2x2 grid of channel indices in row-major order:
// [top-left, top-right, bottom-left, bottom-right].
type cfaPattern [4]int

// cfaPatterns maps each supported sensorArrangement string to its 2x2
// channel-index pattern.
var cfaPatterns = map[string]cfaPattern{
	"rggb": {0, 1, 1, 2},
	"bggr": {2, 1, 1, 0},
	"grbg": {1, 0, 2, 1},
	"gbrg": {1, 2, 0, 1},
}

// cfaTiffTag is the 2x2 TIFF CFAPattern tag bytes (channel indices again,
// same order) for each arrangement, used verbatim in the DNG CFAPattern
// tag.
var cfaTiffTag = map[string][4]byte{
	"rggb": {0, 1, 1, 2},
	"bggr": {2, 1, 1, 0},
	"grbg": {1, 0, 2, 1},
	"gbrg": {1, 2, 0, 1},
}

// resolveCFA maps a sensorArrangement string to its channel pattern. An
// unrecognized arrangement fails the pipeline with ErrInvalidFormat.
func resolveCFA(sensorArrangement string) (cfaPattern, error) {
	p, ok := cfaPatterns[sensorArrangement]
	if !ok {
		return cfaPattern{}, fmt.Errorf("%w: unsupported sensor arrangement %q", vfserr.ErrInvalidFormat, sensorArrangement)
	}
	return p, nil
}
