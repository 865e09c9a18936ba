package dng

// bitsNeeded returns the number of bits required to represent the values
// [0, maxValue] inclusive, i.e. ceil(log2(maxValue+1)). Used to derive the
// source bit depth from the white level.
func bitsNeeded(maxValue int) int {
	if maxValue <= 0 {
		return 1
	}
	n := maxValue
	bits := 0
	for n > 0 {
		bits++
		n >>= 1
	}
	return bits
}

// chooseBitDepth selects the narrowest of {10, 12, 14, 16} that represents
// dstWhite, restricted to 10/14 when width is a multiple of 4 and 12 when
// width is a multiple of 2 — the only widths whose packed layouts tile
// evenly into whole bytes across a row of that length.
func chooseBitDepth(dstWhite, width int) int {
	need := bitsNeeded(dstWhite)

	canPack10or14 := width%4 == 0
	canPack12 := width%2 == 0

	switch {
	case need <= 10 && canPack10or14:
		return 10
	case need <= 12 && canPack12:
		return 12
	case need <= 14 && canPack10or14:
		return 14
	default:
		return 16
	}
}

// packBits packs values (each already clamped to [0, 2^bitWidth)) into an
// MSB-first bitstream, one byte at a time. For the group sizes this
// pipeline uses — 4 values at 10 or 14 bits (40/56 bits, divisible by 8)
// and 2 values at 12 bits (24 bits) — this produces byte-for-byte the
// standard hand-unrolled 4-pixels-to-5-bytes / 2-pixels-to-3-bytes /
// 4-pixels-to-7-bytes layouts, since both are just the big-endian
// concatenation of the same fixed-width fields.
func packBits(values []uint16, bitWidth int) []byte {
	out := make([]byte, 0, (len(values)*bitWidth+7)/8)

	var acc uint64
	var accBits int

	for _, v := range values {
		acc = (acc << uint(bitWidth)) | uint64(v)&((1<<uint(bitWidth))-1)
		accBits += bitWidth
		for accBits >= 8 {
			shift := accBits - 8
			out = append(out, byte(acc>>uint(shift)))
			accBits -= 8
		}
	}
	if accBits > 0 {
		out = append(out, byte(acc<<uint(8-accBits)))
	}
	return out
}

// packPixels bit-packs a full plane of pixel values at the chosen depth.
// For depth 16 the values pass through unpacked as little-endian u16.
func packPixels(values []uint16, bitDepth int) []byte {
	if bitDepth == 16 {
		out := make([]byte, len(values)*2)
		for i, v := range values {
			out[2*i] = byte(v)
			out[2*i+1] = byte(v >> 8)
		}
		return out
	}
	return packBits(values, bitDepth)
}
