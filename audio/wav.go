// Package audio reads and writes uncompressed PCM WAV files. It exists so the
// providers and detectors can probe durations and decode samples without an
// external decoder; compressed formats go through the media tool first.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// ErrNotWAV is returned when a file does not carry a RIFF/WAVE header.
var ErrNotWAV = errors.New("audio: not a wav file")

// Track holds decoded mono samples in [-1, 1].
type Track struct {
	Samples    []float64
	SampleRate int
	Duration   float64
}

type wavHeader struct {
	channels      int
	sampleRate    int
	bitsPerSample int
	dataSize      int
}

// ProbeDuration reads only the WAV header and returns the duration in
// seconds. Returns an error for missing or non-WAV files; callers decide the
// default to fall back to.
func ProbeDuration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	h, err := readHeader(f)
	if err != nil {
		return 0, err
	}
	bytesPerSecond := h.sampleRate * h.channels * h.bitsPerSample / 8
	if bytesPerSecond == 0 {
		return 0, fmt.Errorf("audio: zero byte rate in %s", path)
	}
	return float64(h.dataSize) / float64(bytesPerSecond), nil
}

// Decode reads a PCM WAV file and returns mono samples. Multi-channel input
// is averaged down to one channel.
func Decode(path string) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h, err := readHeader(f)
	if err != nil {
		return nil, err
	}

	raw := make([]byte, h.dataSize)
	n, err := io.ReadFull(f, raw)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("audio: read data chunk: %w", err)
	}
	raw = raw[:n]

	bytesPerSample := h.bitsPerSample / 8
	if bytesPerSample == 0 {
		return nil, fmt.Errorf("audio: unsupported bit depth %d", h.bitsPerSample)
	}
	frameCount := len(raw) / (bytesPerSample * h.channels)

	samples := make([]float64, 0, frameCount)
	for i := 0; i < frameCount; i++ {
		var sum float64
		for c := 0; c < h.channels; c++ {
			off := (i*h.channels + c) * bytesPerSample
			sum += decodeSample(raw[off:off+bytesPerSample], h.bitsPerSample)
		}
		samples = append(samples, sum/float64(h.channels))
	}

	duration := 0.0
	if h.sampleRate > 0 {
		duration = float64(frameCount) / float64(h.sampleRate)
	}
	return &Track{Samples: samples, SampleRate: h.sampleRate, Duration: duration}, nil
}

func decodeSample(b []byte, bits int) float64 {
	switch bits {
	case 8:
		return (float64(b[0]) - 128) / 128.0
	case 16:
		return float64(int16(binary.LittleEndian.Uint16(b))) / 32768.0
	case 32:
		return float64(int32(binary.LittleEndian.Uint32(b))) / 2147483648.0
	default:
		return 0
	}
}

func readHeader(r io.Reader) (*wavHeader, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return nil, ErrNotWAV
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return nil, ErrNotWAV
	}

	h := &wavHeader{}
	sawFmt := false
	for {
		var chunk [8]byte
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			return nil, fmt.Errorf("audio: truncated chunk header: %w", err)
		}
		id := string(chunk[0:4])
		size := int(binary.LittleEndian.Uint32(chunk[4:8]))

		switch id {
		case "fmt ":
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, fmt.Errorf("audio: truncated fmt chunk: %w", err)
			}
			h.channels = int(binary.LittleEndian.Uint16(body[2:4]))
			h.sampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			h.bitsPerSample = int(binary.LittleEndian.Uint16(body[14:16]))
			sawFmt = true
		case "data":
			if !sawFmt {
				return nil, errors.New("audio: data chunk before fmt chunk")
			}
			h.dataSize = size
			return h, nil
		default:
			// Skip LIST/INFO and other chunks.
			if _, err := io.CopyN(io.Discard, r, int64(size)); err != nil {
				return nil, fmt.Errorf("audio: skip %q chunk: %w", id, err)
			}
		}
	}
}

// WriteSilent writes a silent 16-bit mono PCM WAV of the given duration.
func WriteSilent(path string, duration float64, sampleRate int) error {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	numSamples := int(float64(sampleRate) * duration)
	return WriteMono(path, make([]float64, numSamples), sampleRate)
}

// WriteMono writes mono samples in [-1, 1] as a 16-bit PCM WAV.
func WriteMono(path string, samples []float64, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dataSize := len(samples) * 2
	byteRate := sampleRate * 2

	var header [44]byte
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+dataSize))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], 1) // mono
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], 2)
	binary.LittleEndian.PutUint16(header[34:36], 16)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataSize))
	if _, err := f.Write(header[:]); err != nil {
		return err
	}

	buf := make([]byte, dataSize)
	for i, s := range samples {
		v := int16(math.Round(math.Max(-1, math.Min(1, s)) * 32767))
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(v))
	}
	_, err = f.Write(buf)
	return err
}
