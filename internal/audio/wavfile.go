// SPDX-License-Identifier: MIT
package audio

import (
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAVInfo describes a WAV file's format.
type WAVInfo struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// ProbeWAV reads a WAV file's header without decoding its samples.
func ProbeWAV(path string) (WAVInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return WAVInfo{}, err
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return WAVInfo{}, fmt.Errorf("%s is not a valid WAV file", path)
	}
	return WAVInfo{
		SampleRate: int(decoder.SampleRate),
		Channels:   int(decoder.NumChans),
		BitDepth:   int(decoder.BitDepth),
	}, nil
}

// StreamWAV decodes a WAV file and invokes fn with consecutive mono int16
// chunks of chunkSize frames. Multi-channel audio is downmixed by
// averaging; 24 and 32 bit samples are reduced to 16 bit. The final
// partial chunk is delivered as-is.
func StreamWAV(path string, chunkSize int, fn func(chunk []int16)) error {
	if chunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return fmt.Errorf("%s is not a valid WAV file", path)
	}

	channels := int(decoder.NumChans)
	if channels < 1 {
		return fmt.Errorf("%s declares no channels", path)
	}
	shift, err := depthShift(int(decoder.BitDepth))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	buf := &goaudio.IntBuffer{
		Data: make([]int, chunkSize*channels),
		Format: &goaudio.Format{
			NumChannels: channels,
			SampleRate:  int(decoder.SampleRate),
		},
	}
	chunk := make([]int16, chunkSize)

	for {
		n, err := decoder.PCMBuffer(buf)
		if err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		if n == 0 {
			return nil
		}

		frames := n / channels
		for i := 0; i < frames; i++ {
			var sum int
			for c := 0; c < channels; c++ {
				sum += buf.Data[i*channels+c]
			}
			chunk[i] = int16((sum / channels) >> shift)
		}
		fn(chunk[:frames])
	}
}

// depthShift returns the right shift reducing the given bit depth to 16.
func depthShift(bitDepth int) (uint, error) {
	switch bitDepth {
	case 16:
		return 0, nil
	case 24:
		return 8, nil
	case 32:
		return 16, nil
	default:
		return 0, fmt.Errorf("unsupported bit depth %d", bitDepth)
	}
}
