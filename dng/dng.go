package dng

import (
	"fmt"

	"github.com/dendrascience/mcrawfs/container"
	"github.com/dendrascience/mcrawfs/timing"
	"github.com/dendrascience/mcrawfs/vfserr"
)

// Software is the fixed DNG Software tag value.
const Software = "MotionCam Tools"

// Request bundles everything one DNG render needs: the raw pixel buffer
// plus per-frame and container metadata, recording context, and
// rendering options.
type Request struct {
	Pixels []uint16 // row-major, length >= FrameMeta.Width*FrameMeta.Height

	FrameMeta     container.FrameMetadata
	ContainerMeta container.Metadata

	RecordingFPS float64
	FrameNumber  int64

	Options           Options
	Scale             int // 1, 2, 4, or 8; ignored unless Options has OptDraft
	CustomCameraModel string
}

// Encode runs the full pipeline and returns a complete DNG byte stream.
func Encode(req Request) ([]byte, error) {
	pattern, err := resolveCFA(req.ContainerMeta.SensorArrangement)
	if err != nil {
		return nil, err
	}

	scale := 1
	if req.Options.Has(OptDraft) && req.Scale > 1 {
		scale = req.Scale
	}

	blackSrc := req.FrameMeta.DynamicBlackLevel
	if blackSrc == ([4]float64{}) {
		blackSrc = req.ContainerMeta.BlackLevel
	}
	whiteSrc := req.FrameMeta.DynamicWhiteLevel
	if whiteSrc == 0 {
		whiteSrc = req.ContainerMeta.WhiteLevel
	}
	if whiteSrc <= 0 {
		return nil, fmt.Errorf("%w: zero white level", vfserr.ErrInvalidFormat)
	}

	prec := chooseWorkingPrecision(req.Options, int(whiteSrc), blackSrc, pattern)

	shadingMap := req.FrameMeta.LensShadingMap
	if req.Options.Has(OptNormalizeShading) {
		shadingMap = normalizeShadingMap(shadingMap)
	}

	plane := preprocessData(
		req.Pixels, req.FrameMeta.Width, req.FrameMeta.Height,
		pattern,
		blackSrc, whiteSrc,
		prec,
		scale,
		req.Options,
		shadingMap, req.FrameMeta.LensShadingMapWidth, req.FrameMeta.LensShadingMapHeight,
		req.FrameMeta.OriginalWidth, req.FrameMeta.OriginalHeight, 0, 0,
	)

	bitDepth := chooseBitDepth(prec.dstWhite, plane.width)
	packed := packPixels(plane.values, bitDepth)

	return assemble(req, pattern, prec, plane, bitDepth, packed)
}

func assemble(
	req Request,
	pattern cfaPattern,
	prec workingPrecision,
	plane processedPlane,
	bitDepth int,
	packed []byte,
) ([]byte, error) {
	b := &tiffBuilder{}

	b.addLong(tagNewSubfileType, 0)
	b.addLong(tagImageWidth, uint32(plane.width))
	b.addLong(tagImageLength, uint32(plane.height))
	b.addShort(tagBitsPerSample, uint16(bitDepth))
	b.addShort(tagCompression, compressionNone)
	b.addShort(tagPhotometricInterp, photometricCFA)
	b.addLong(tagStripOffsets, 0) // patched in tiffBuilder.build
	b.addShort(tagSamplesPerPixel, 1)
	b.addLong(tagRowsPerStrip, uint32(plane.height))
	b.addLong(tagStripByteCounts, uint32(len(packed)))
	b.addShort(tagPlanarConfiguration, planarConfigContiguous)
	b.addASCII(tagSoftware, Software)

	b.addBytes(tagDNGVersion, []byte{1, 4, 0, 0})
	b.addBytes(tagDNGBackwardVersion, []byte{1, 1, 0, 0})

	model := req.CustomCameraModel
	if model == "" {
		model = req.ContainerMeta.DeviceModel
	}
	b.addASCII(tagUniqueCameraModel, model)

	b.addShorts(tagCFARepeatPatternDim, []uint16{2, 2})
	cfaTag, ok := cfaTiffTag[req.ContainerMeta.SensorArrangement]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported sensor arrangement %q", vfserr.ErrInvalidFormat, req.ContainerMeta.SensorArrangement)
	}
	b.addBytes(tagCFAPattern, cfaTag[:])
	b.addShort(tagCFALayout, cfaLayoutRectangular)

	blackLevels := make([]uint32, 4)
	for i, v := range prec.blackDst {
		blackLevels[i] = uint32(v)
	}
	b.addLongs(tagBlackLevel, blackLevels)
	b.addLong(tagWhiteLevel, uint32(prec.dstWhite))

	b.addLongs(tagActiveArea, []uint32{0, 0, uint32(plane.height), uint32(plane.width)})

	b.addShort(tagISOSpeedRatings, uint16(clampUint16(req.FrameMeta.ISO)))
	b.addRational(tagExposureTime, uint32(req.FrameMeta.ExposureTimeNs), 1_000_000_000)

	neutral := make([][2]uint32, 3)
	for i, v := range req.FrameMeta.AsShotNeutral {
		num, den := floatToRational(v, 1_000_000)
		neutral[i] = [2]uint32{num, den}
	}
	b.addRationals(tagAsShotNeutral, neutral)

	b.addShort(tagCalibrationIlluminant1, uint16(ResolveIlluminant(req.ContainerMeta.ColorIlluminant1)))
	b.addShort(tagCalibrationIlluminant2, uint16(ResolveIlluminant(req.ContainerMeta.ColorIlluminant2)))

	b.addSRationals(tagColorMatrix1, matrixToSRationals(req.ContainerMeta.ColorMatrix1))
	b.addSRationals(tagColorMatrix2, matrixToSRationals(req.ContainerMeta.ColorMatrix2))
	b.addSRationals(tagForwardMatrix1, matrixToSRationals(req.ContainerMeta.ForwardMatrix1))
	b.addSRationals(tagForwardMatrix2, matrixToSRationals(req.ContainerMeta.ForwardMatrix2))

	fpsFraction := timing.ToFraction(req.RecordingFPS, 1000)
	b.addSRationals(tagFrameRate, [][2]int32{{int32(fpsFraction.Num), int32(fpsFraction.Den)}})

	tc := timing.EncodeFrameNumber(req.FrameNumber, req.RecordingFPS)
	b.addBytes(tagTimeCodes, tc[:])

	return b.build(packed), nil
}

func clampUint16(v int) int {
	if v < 0 {
		return 0
	}
	if v > 65535 {
		return 65535
	}
	return v
}

// floatToRational converts a float to an (num, den) pair using the given
// fixed denominator, rounding to nearest.
func floatToRational(v float64, den uint32) (uint32, uint32) {
	if v < 0 {
		v = 0
	}
	return uint32(v*float64(den) + 0.5), den
}

func matrixToSRationals(m [9]float64) [][2]int32 {
	out := make([][2]int32, 9)
	for i, v := range m {
		num := int32(v * 1_000_000)
		out[i] = [2]int32{num, 1_000_000}
	}
	return out
}
