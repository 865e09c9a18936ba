package dng

// Illuminant is a DNG CalibrationIlluminant tag code.
type Illuminant int

// DNG-standard illuminant codes (EXIF LightSource values).
const (
	IlluminantUnknown   Illuminant = 0
	IlluminantStandardA Illuminant = 17
	IlluminantStandardB Illuminant = 18
	IlluminantStandardC Illuminant = 19
	IlluminantD55       Illuminant = 20
	IlluminantD65       Illuminant = 21
	IlluminantD75       Illuminant = 22
	IlluminantD50       Illuminant = 23
)

// illuminantByName maps the lowercase string names used in container
// metadata to their DNG codes.
var illuminantByName = map[string]Illuminant{
	"standarda": IlluminantStandardA,
	"standardb": IlluminantStandardB,
	"standardc": IlluminantStandardC,
	"d50":       IlluminantD50,
	"d55":       IlluminantD55,
	"d65":       IlluminantD65,
	"d75":       IlluminantD75,
}

// ResolveIlluminant maps a container-supplied illuminant name to its DNG
// code; an unrecognized name maps to IlluminantUnknown (0), matching the
// "unknown -> 0" rule rather than failing the pipeline.
func ResolveIlluminant(name string) Illuminant {
	if code, ok := illuminantByName[name]; ok {
		return code
	}
	return IlluminantUnknown
}
