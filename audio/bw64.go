package audio

import (
	"bytes"
	"encoding/binary"

	"github.com/dendrascience/mcrawfs/container"
)

const (
	bitsPerSample  = 16
	audioFormatPCM = 1
)

// writeBW64 assembles a RIFF/WAVE container carrying 16-bit PCM samples
// plus an iXML chunk. A full BW64 ds64 chunk (for >4GiB payloads) is not
// written, so RIFF and chunk sizes are 32-bit.
func writeBW64(chunks []container.AudioChunk, channels, sampleRateHz int, ixml string) []byte {
	var data bytes.Buffer
	for _, c := range chunks {
		binary.Write(&data, binary.LittleEndian, c.Samples)
	}

	ixmlBytes := []byte(ixml)
	if len(ixmlBytes)%2 != 0 {
		ixmlBytes = append(ixmlBytes, 0)
	}

	blockAlign := channels * bitsPerSample / 8
	byteRate := sampleRateHz * blockAlign

	var fmtChunk bytes.Buffer
	binary.Write(&fmtChunk, binary.LittleEndian, uint16(audioFormatPCM))
	binary.Write(&fmtChunk, binary.LittleEndian, uint16(channels))
	binary.Write(&fmtChunk, binary.LittleEndian, uint32(sampleRateHz))
	binary.Write(&fmtChunk, binary.LittleEndian, uint32(byteRate))
	binary.Write(&fmtChunk, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&fmtChunk, binary.LittleEndian, uint16(bitsPerSample))

	var out bytes.Buffer
	out.WriteString("RIFF")
	riffSizePos := out.Len()
	binary.Write(&out, binary.LittleEndian, uint32(0)) // patched below
	out.WriteString("WAVE")

	writeChunk(&out, "fmt ", fmtChunk.Bytes())
	writeChunk(&out, "iXML", ixmlBytes)
	writeChunk(&out, "data", data.Bytes())

	riffSize := uint32(out.Len() - 8)
	b := out.Bytes()
	binary.LittleEndian.PutUint32(b[riffSizePos:], riffSize)

	return b
}

func writeChunk(out *bytes.Buffer, id string, body []byte) {
	out.WriteString(id)
	binary.Write(out, binary.LittleEndian, uint32(len(body)))
	out.Write(body)
	if len(body)%2 != 0 {
		out.WriteByte(0)
	}
}
