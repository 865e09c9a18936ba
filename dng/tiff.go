package dng

import (
	"bytes"
	"encoding/binary"
	"sort"
)

// TIFF/DNG tag IDs used by the pipeline. Where no baseline TIFF tag exists
// (FrameRate, TimeCodes) the CinemaDNG/DNG-1.4 extension tag numbers are
// used.
const (
	tagNewSubfileType         = 254
	tagImageWidth             = 256
	tagImageLength            = 257
	tagBitsPerSample          = 258
	tagCompression            = 259
	tagPhotometricInterp      = 262
	tagStripOffsets           = 273
	tagSamplesPerPixel        = 277
	tagRowsPerStrip           = 278
	tagStripByteCounts        = 279
	tagPlanarConfiguration    = 284
	tagSoftware               = 305
	tagExposureTime           = 33434
	tagISOSpeedRatings        = 34855
	tagCFARepeatPatternDim    = 33421
	tagCFAPattern             = 33422
	tagDNGVersion             = 50706
	tagDNGBackwardVersion     = 50707
	tagUniqueCameraModel      = 50708
	tagColorMatrix1           = 50721
	tagColorMatrix2           = 50722
	tagCFALayout              = 50711
	tagBlackLevel             = 50714
	tagWhiteLevel             = 50717
	tagAsShotNeutral          = 50728
	tagCalibrationIlluminant1 = 50778
	tagCalibrationIlluminant2 = 50779
	tagActiveArea             = 50829
	tagForwardMatrix1         = 50964
	tagForwardMatrix2         = 50965
	tagTimeCodes              = 51043
	tagFrameRate              = 51044

	photometricCFA         = 32803
	cfaLayoutRectangular   = 1
	compressionNone        = 1
	planarConfigContiguous = 1

	typeByte      = 1
	typeASCII     = 2
	typeShort     = 3
	typeLong      = 4
	typeRational  = 5
	typeSRational = 10
)

// tiffEntry is one not-yet-serialized IFD entry; value holds its payload in
// raw little-endian bytes regardless of whether it ends up inline or in
// the overflow area.
type tiffEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	value []byte
}

type tiffBuilder struct {
	entries []tiffEntry
}

func (b *tiffBuilder) add(tag uint16, typ uint16, count uint32, value []byte) {
	b.entries = append(b.entries, tiffEntry{tag: tag, typ: typ, count: count, value: value})
}

func (b *tiffBuilder) addShort(tag uint16, v uint16) {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, v)
	b.add(tag, typeShort, 1, buf)
}

func (b *tiffBuilder) addShorts(tag uint16, vs []uint16) {
	buf := make([]byte, 2*len(vs))
	for i, v := range vs {
		binary.LittleEndian.PutUint16(buf[2*i:], v)
	}
	b.add(tag, typeShort, uint32(len(vs)), buf)
}

func (b *tiffBuilder) addLong(tag uint16, v uint32) {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, v)
	b.add(tag, typeLong, 1, buf)
}

func (b *tiffBuilder) addLongs(tag uint16, vs []uint32) {
	buf := make([]byte, 4*len(vs))
	for i, v := range vs {
		binary.LittleEndian.PutUint32(buf[4*i:], v)
	}
	b.add(tag, typeLong, uint32(len(vs)), buf)
}

func (b *tiffBuilder) addBytes(tag uint16, vs []byte) {
	b.add(tag, typeByte, uint32(len(vs)), append([]byte(nil), vs...))
}

func (b *tiffBuilder) addASCII(tag uint16, s string) {
	buf := append([]byte(s), 0)
	b.add(tag, typeASCII, uint32(len(buf)), buf)
}

// rationalBytes encodes a single unsigned rational (num, den) in 8 bytes.
func rationalBytes(num, den uint32) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf[0:], num)
	binary.LittleEndian.PutUint32(buf[4:], den)
	return buf
}

// srationalBytes encodes a single signed rational (num, den) in 8 bytes.
func srationalBytes(num, den int32) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf[0:], uint32(num))
	binary.LittleEndian.PutUint32(buf[4:], uint32(den))
	return buf
}

func (b *tiffBuilder) addRational(tag uint16, num, den uint32) {
	b.add(tag, typeRational, 1, rationalBytes(num, den))
}

func (b *tiffBuilder) addRationals(tag uint16, pairs [][2]uint32) {
	buf := make([]byte, 8*len(pairs))
	for i, p := range pairs {
		copy(buf[8*i:], rationalBytes(p[0], p[1]))
	}
	b.add(tag, typeRational, uint32(len(pairs)), buf)
}

func (b *tiffBuilder) addSRationals(tag uint16, pairs [][2]int32) {
	buf := make([]byte, 8*len(pairs))
	for i, p := range pairs {
		copy(buf[8*i:], srationalBytes(p[0], p[1]))
	}
	b.add(tag, typeSRational, uint32(len(pairs)), buf)
}

// build assembles the full TIFF byte stream: header, one IFD (entries
// sorted ascending by tag, as TIFF requires), an overflow area for values
// that don't fit inline, and finally the pixel-data strip. stripData is
// appended after everything else and its placement is wired back into the
// StripOffsets entry.
func (b *tiffBuilder) build(stripData []byte) []byte {
	sort.Slice(b.entries, func(i, j int) bool { return b.entries[i].tag < b.entries[j].tag })

	const headerSize = 8
	ifdCountSize := 2
	entrySize := 12
	ifdEntriesSize := entrySize * len(b.entries)
	nextIFDSize := 4

	ifdOffset := uint32(headerSize)
	overflowStart := ifdOffset + uint32(ifdCountSize) + uint32(ifdEntriesSize) + uint32(nextIFDSize)

	var overflow bytes.Buffer
	inlineOrOffset := make([][]byte, len(b.entries))
	overflowOffsetOf := make([]uint32, len(b.entries))
	needsOverflow := make([]bool, len(b.entries))

	for i, e := range b.entries {
		if len(e.value) <= 4 {
			buf := make([]byte, 4)
			copy(buf, e.value)
			inlineOrOffset[i] = buf
			continue
		}
		needsOverflow[i] = true
		overflowOffsetOf[i] = overflowStart + uint32(overflow.Len())
		overflow.Write(e.value)
		if overflow.Len()%2 != 0 {
			overflow.WriteByte(0) // word-align, as TIFF requires
		}
	}

	stripOffset := overflowStart + uint32(overflow.Len())

	// Patch the StripOffsets entry now that we know where strip data lands.
	for i, e := range b.entries {
		if e.tag == tagStripOffsets {
			buf := make([]byte, 4)
			binary.LittleEndian.PutUint32(buf, stripOffset)
			inlineOrOffset[i] = buf
		}
	}

	var out bytes.Buffer
	out.WriteByte('I')
	out.WriteByte('I')
	binary.Write(&out, binary.LittleEndian, uint16(42))
	binary.Write(&out, binary.LittleEndian, ifdOffset)

	binary.Write(&out, binary.LittleEndian, uint16(len(b.entries)))
	for i, e := range b.entries {
		binary.Write(&out, binary.LittleEndian, e.tag)
		binary.Write(&out, binary.LittleEndian, e.typ)
		binary.Write(&out, binary.LittleEndian, e.count)
		if needsOverflow[i] {
			binary.Write(&out, binary.LittleEndian, overflowOffsetOf[i])
		} else {
			out.Write(inlineOrOffset[i])
		}
	}
	binary.Write(&out, binary.LittleEndian, uint32(0)) // no next IFD

	out.Write(overflow.Bytes())
	out.Write(stripData)

	return out.Bytes()
}
