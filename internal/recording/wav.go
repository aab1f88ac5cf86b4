package recording

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// EncodeWAV wraps raw 16-bit little-endian PCM in a WAV container.
func EncodeWAV(pcm []byte, sampleRate, channels int) ([]byte, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("invalid wav format: rate=%d channels=%d", sampleRate, channels)
	}

	var buf bytes.Buffer

	const bitsPerSample = 16
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	dataSize := len(pcm)

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))            // fmt chunk size
	binary.Write(&buf, binary.LittleEndian, uint16(1))             // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))      // channels
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))    // sample rate
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))      // byte rate
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))    // block align
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample)) // bits per sample

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	buf.Write(pcm)

	return buf.Bytes(), nil
}
