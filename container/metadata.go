package container

import "encoding/json"

// FrameMetadata is the required subset of per-frame JSON fields, each
// defaulted when absent rather than failing to parse.
type FrameMetadata struct {
	Width, Height                 int
	OriginalWidth, OriginalHeight int
	ISO                           int
	ExposureTimeNs                int64
	AsShotNeutral                 [3]float64
	DynamicBlackLevel             [4]float64
	DynamicWhiteLevel             float64
	LensShadingMap                [][]float64 // up to 4 channels, each lensShadingMapWidth*lensShadingMapHeight long
	LensShadingMapWidth           int
	LensShadingMapHeight          int
	Orientation                   int
}

type frameMetadataJSON struct {
	Width                int         `json:"width"`
	Height               int         `json:"height"`
	OriginalWidth        int         `json:"originalWidth"`
	OriginalHeight       int         `json:"originalHeight"`
	ISO                  int         `json:"iso"`
	ExposureTime         int64       `json:"exposureTime"`
	AsShotNeutral        []float64   `json:"asShotNeutral"`
	DynamicBlackLevel    []float64   `json:"dynamicBlackLevel"`
	DynamicWhiteLevel    float64     `json:"dynamicWhiteLevel"`
	LensShadingMap       [][]float64 `json:"lensShadingMap"`
	LensShadingMapWidth  int         `json:"lensShadingMapWidth"`
	LensShadingMapHeight int         `json:"lensShadingMapHeight"`
	Orientation          int         `json:"orientation"`
}

// ParseFrameMetadata parses one frame's JSON metadata blob, defaulting any
// missing field to its zero value.
func ParseFrameMetadata(data []byte) (FrameMetadata, error) {
	var raw frameMetadataJSON
	if len(data) > 0 {
		if err := json.Unmarshal(data, &raw); err != nil {
			return FrameMetadata{}, err
		}
	}

	fm := FrameMetadata{
		Width:                raw.Width,
		Height:               raw.Height,
		OriginalWidth:        raw.OriginalWidth,
		OriginalHeight:       raw.OriginalHeight,
		ISO:                  raw.ISO,
		ExposureTimeNs:       raw.ExposureTime,
		DynamicWhiteLevel:    raw.DynamicWhiteLevel,
		LensShadingMap:       raw.LensShadingMap,
		LensShadingMapWidth:  raw.LensShadingMapWidth,
		LensShadingMapHeight: raw.LensShadingMapHeight,
		Orientation:          raw.Orientation,
	}
	for i := 0; i < 3 && i < len(raw.AsShotNeutral); i++ {
		fm.AsShotNeutral[i] = raw.AsShotNeutral[i]
	}
	for i := 0; i < 4 && i < len(raw.DynamicBlackLevel); i++ {
		fm.DynamicBlackLevel[i] = raw.DynamicBlackLevel[i]
	}
	return fm, nil
}

// Metadata is the required subset of container-level JSON fields.
type Metadata struct {
	BlackLevel         [4]float64
	WhiteLevel         float64
	SensorArrangement  string
	ColorMatrix1       [9]float64
	ColorMatrix2       [9]float64
	ForwardMatrix1     [9]float64
	ForwardMatrix2     [9]float64
	CalibrationMatrix1 [9]float64
	CalibrationMatrix2 [9]float64
	ColorIlluminant1   string
	ColorIlluminant2   string
	DeviceModel        string
}

type deviceProfileJSON struct {
	DeviceModel string `json:"deviceModel"`
}

type metadataJSON struct {
	BlackLevel            []float64         `json:"blackLevel"`
	WhiteLevel            float64           `json:"whiteLevel"`
	SensorArrangement     string            `json:"sensorArrangement"`
	SensorArrangementAlt  string            `json:"sensorArrangment"` // tolerated misspelling
	ColorMatrix1          []float64         `json:"colorMatrix1"`
	ColorMatrix2          []float64         `json:"colorMatrix2"`
	ForwardMatrix1        []float64         `json:"forwardMatrix1"`
	ForwardMatrix2        []float64         `json:"forwardMatrix2"`
	CalibrationMatrix1    []float64         `json:"calibrationMatrix1"`
	CalibrationMatrix2    []float64         `json:"calibrationMatrix2"`
	ColorIlluminant1      string            `json:"colorIlluminant1"`
	ColorIlluminant2      string            `json:"colorIlluminant2"`
	DeviceSpecificProfile deviceProfileJSON `json:"deviceSpecificProfile"`
}

// identityMatrix3x3 is the documented default for a missing 3x3 matrix
// field.
var identityMatrix3x3 = [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}

func copyMatrix(dst *[9]float64, src []float64) {
	*dst = identityMatrix3x3
	for i := 0; i < 9 && i < len(src); i++ {
		dst[i] = src[i]
	}
}

// ParseMetadata parses container-level JSON metadata, defaulting missing
// fields (zero for black level/white level, identity for 3x3 matrices,
// empty string for illuminants/device model) and tolerating the
// "sensorArrangment" misspelling alias.
func ParseMetadata(data []byte) (Metadata, error) {
	var raw metadataJSON
	if len(data) > 0 {
		if err := json.Unmarshal(data, &raw); err != nil {
			return Metadata{}, err
		}
	}

	m := Metadata{
		WhiteLevel:       raw.WhiteLevel,
		ColorIlluminant1: raw.ColorIlluminant1,
		ColorIlluminant2: raw.ColorIlluminant2,
		DeviceModel:      raw.DeviceSpecificProfile.DeviceModel,
	}

	m.SensorArrangement = raw.SensorArrangement
	if m.SensorArrangement == "" {
		m.SensorArrangement = raw.SensorArrangementAlt
	}

	for i := 0; i < 4 && i < len(raw.BlackLevel); i++ {
		m.BlackLevel[i] = raw.BlackLevel[i]
	}

	copyMatrix(&m.ColorMatrix1, raw.ColorMatrix1)
	copyMatrix(&m.ColorMatrix2, raw.ColorMatrix2)
	copyMatrix(&m.ForwardMatrix1, raw.ForwardMatrix1)
	copyMatrix(&m.ForwardMatrix2, raw.ForwardMatrix2)
	copyMatrix(&m.CalibrationMatrix1, raw.CalibrationMatrix1)
	copyMatrix(&m.CalibrationMatrix2, raw.CalibrationMatrix2)

	return m, nil
}
