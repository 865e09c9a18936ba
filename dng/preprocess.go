package dng

import "math"

// workingPrecision carries the working-precision decision: how many bits
// each processed pixel occupies and the black/white levels at that width.
type workingPrecision struct {
	workBits int
	dstWhite int
	blackDst [4]int // per-CFA-channel-position dst black level, indexed by Bayer position i (0..3)
}

// chooseWorkingPrecision picks the processing bit width: the source depth
// by default, widened to at least 14 bits when shading normalization is on
// and by 2 bits (capped) when vignette correction alone is on, so gain
// application has headroom. Destination black levels are the source levels
// shifted up to the working width, each capped at a quarter of white.
func chooseWorkingPrecision(opts Options, whiteLevel int, blackSrc [4]float64, pattern cfaPattern) workingPrecision {
	srcBits := bitsNeeded(whiteLevel)

	var workBits int
	switch {
	case opts.Has(OptNormalizeShading):
		workBits = srcBits
		if workBits < 14 {
			workBits = 14
		}
		if workBits > 16 {
			workBits = 16
		}
	case opts.Has(OptApplyVignette) && srcBits < 14:
		workBits = srcBits + 2
		if workBits > 14 {
			workBits = 14
		}
	case opts.Has(OptApplyVignette):
		workBits = srcBits + 2
		if workBits > 16 {
			workBits = 16
		}
	default:
		workBits = srcBits
	}

	dstWhite := (1 << uint(workBits)) - 1
	shift := uint(workBits - srcBits)

	var blackDst [4]int
	capVal := dstWhite / 4
	for i := 0; i < 4; i++ {
		c := pattern[i]
		v := int(blackSrc[c]) << shift
		if v > capVal {
			v = capVal
		}
		blackDst[i] = v
	}

	return workingPrecision{workBits: workBits, dstWhite: dstWhite, blackDst: blackDst}
}

// normalizeShadingMap divides every gain in a 4-channel shading map by the
// map's own global maximum, leaving it unchanged if that maximum is at or
// below 1e-6.
func normalizeShadingMap(shadingMap [][]float64) [][]float64 {
	maxGain := 0.0
	for _, channel := range shadingMap {
		for _, g := range channel {
			if g > maxGain {
				maxGain = g
			}
		}
	}
	if maxGain <= 1e-6 {
		return shadingMap
	}

	out := make([][]float64, len(shadingMap))
	for i, channel := range shadingMap {
		row := make([]float64, len(channel))
		for j, g := range channel {
			row[j] = g / maxGain
		}
		out[i] = row
	}
	return out
}

// sampleShadingMap bilinearly samples channel ch of shadingMap (each of
// dimensions mapW x mapH) at normalized coordinates (u, v) in [0,1].
func sampleShadingMap(shadingMap [][]float64, mapW, mapH int, ch int, u, v float64) float64 {
	if ch >= len(shadingMap) || mapW <= 0 || mapH <= 0 {
		return 1.0
	}
	channel := shadingMap[ch]
	if len(channel) < mapW*mapH {
		return 1.0
	}

	if u < 0 {
		u = 0
	}
	if u > 1 {
		u = 1
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}

	fx := u * float64(mapW-1)
	fy := v * float64(mapH-1)

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	x1 := x0 + 1
	y1 := y0 + 1
	if x1 >= mapW {
		x1 = mapW - 1
	}
	if y1 >= mapH {
		y1 = mapH - 1
	}

	dx := fx - float64(x0)
	dy := fy - float64(y0)

	g00 := channel[y0*mapW+x0]
	g10 := channel[y0*mapW+x1]
	g01 := channel[y1*mapW+x0]
	g11 := channel[y1*mapW+x1]

	top := g00*(1-dx) + g10*dx
	bottom := g01*(1-dx) + g11*dx
	return top*(1-dy) + bottom*dy
}

// processedPlane is the result of steps 2-5: a newW x newH plane of
// linearized, shading-corrected pixel values at workBits precision.
type processedPlane struct {
	width, height int
	values        []uint16
}

// preprocessData implements steps 2 and 5: computes output geometry,
// then for every 2x2 output block samples the source at the given scale,
// linearizes against black/white levels, optionally applies the
// (optionally normalized) lens-shading map, and rounds/clamps into
// workBits range.
func preprocessData(
	raw []uint16, srcW, srcH int,
	pattern cfaPattern,
	blackSrc [4]float64, whiteSrc float64,
	prec workingPrecision,
	scale int,
	opts Options,
	shadingMap [][]float64, mapW, mapH int,
	origW, origH, cropX, cropY int,
) processedPlane {
	if scale > 1 && scale%2 != 0 {
		scale--
	}
	if scale < 1 {
		scale = 1
	}

	newW := (srcW / scale) / 4 * 4
	newH := (srcH / scale) / 4 * 4
	if newW < 4 {
		newW = 4
	}
	if newH < 4 {
		newH = 4
	}

	out := make([]uint16, newW*newH)

	applyVignette := opts.Has(OptApplyVignette)

	for by := 0; by < newH; by += 2 {
		for bx := 0; bx < newW; bx += 2 {
			srcX := bx * scale
			srcY := by * scale

			for i := 0; i < 4; i++ {
				dx := i % 2
				dy := i / 2
				c := pattern[i]

				sx := srcX + dx
				sy := srcY + dy
				if sx >= srcW {
					sx = srcW - 1
				}
				if sy >= srcH {
					sy = srcH - 1
				}

				raw0 := float64(raw[sy*srcW+sx])
				v := raw0 - blackSrc[c]

				denom := whiteSrc - blackSrc[c]
				gain := 1.0
				if denom > 0 {
					gain = (float64(prec.dstWhite) - float64(prec.blackDst[i])) / denom
				}
				v *= gain

				if applyVignette && origW > 0 && origH > 0 {
					u := float64(sx+cropX) / float64(origW)
					vv := float64(sy+cropY) / float64(origH)
					shadingCh := i
					if len(shadingMap) < 4 {
						shadingCh = c
					}
					v *= sampleShadingMap(shadingMap, mapW, mapH, shadingCh, u, vv)
				}

				v += float64(prec.blackDst[i])
				if v < 0 {
					v = 0
				}
				if v > float64(prec.dstWhite) {
					v = float64(prec.dstWhite)
				}
				rounded := uint16(math.Floor(v + 0.5))

				outX := bx + dx
				outY := by + dy
				out[outY*newW+outX] = rounded
			}
		}
	}

	return processedPlane{width: newW, height: newH, values: out}
}
