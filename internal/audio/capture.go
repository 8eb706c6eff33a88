// SPDX-License-Identifier: MIT
package audio

import (
	"fmt"
	"runtime"
	"time"

	"lightbeat/internal/config"
	"lightbeat/internal/engine"
	applog "lightbeat/internal/log"

	"github.com/gordonklaus/portaudio"
)

// Listener captures live audio and feeds mono int16 chunks into the
// engine. The PortAudio callback does the downmix with pre-allocated
// buffers; everything heavier happens inside the engine.
type Listener struct {
	cfg     *config.Config
	eng     *engine.Engine
	device  *portaudio.DeviceInfo
	latency time.Duration
	stream  *portaudio.Stream

	monoBuffer []int16 // ...for the stereo downmix
}

// NewListener resolves the input device and prepares capture buffers.
// PortAudio must already be initialized.
func NewListener(cfg *config.Config, eng *engine.Engine) (*Listener, error) {
	device, err := InputDevice(cfg.Audio.InputDevice)
	if err != nil {
		return nil, err
	}

	l := &Listener{
		cfg:        cfg,
		eng:        eng,
		device:     device,
		monoBuffer: make([]int16, cfg.Audio.ChunkSize),
	}
	if cfg.Audio.LowLatency {
		l.latency = device.DefaultLowInputLatency
	} else {
		l.latency = device.DefaultHighInputLatency
	}

	applog.Infof("Audio: Capturing from %q (%.0f Hz, %d ch, chunk %d)",
		device.Name, cfg.Audio.SampleRate, cfg.Audio.Channels, cfg.Audio.ChunkSize)
	return l, nil
}

// Start opens and starts the capture stream.
func (l *Listener) Start() error {
	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Channels: l.cfg.Audio.Channels,
			Device:   l.device,
			Latency:  l.latency,
		},
		FramesPerBuffer: l.cfg.Audio.ChunkSize,
		SampleRate:      l.cfg.Audio.SampleRate,
	}

	stream, err := portaudio.OpenStream(params, l.processInput)
	if err != nil {
		return fmt.Errorf("open capture stream: %w", err)
	}
	l.stream = stream

	if err := l.stream.Start(); err != nil {
		l.stream.Close()
		l.stream = nil
		return fmt.Errorf("start capture stream: %w", err)
	}
	return nil
}

// Stop stops and closes the capture stream.
func (l *Listener) Stop() error {
	if l.stream == nil {
		return nil
	}
	if err := l.stream.Stop(); err != nil {
		return err
	}
	if err := l.stream.Close(); err != nil {
		return err
	}
	l.stream = nil
	return nil
}

// processInput is the capture callback.
// Performance critical:
// - Runs on a dedicated OS thread (LockOSThread)
// - Pre-allocated buffers only, no allocations
func (l *Listener) processInput(in []int16) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	chunk := in
	if l.cfg.Audio.Channels == 2 {
		frames := len(in) / 2
		if frames > len(l.monoBuffer) {
			frames = len(l.monoBuffer)
		}
		for i := 0; i < frames; i++ {
			left := int32(in[2*i])
			right := int32(in[2*i+1])
			l.monoBuffer[i] = int16((left + right) / 2)
		}
		chunk = l.monoBuffer[:frames]
	}

	l.eng.ProcessChunk(chunk)
}
