// SPDX-License-Identifier: MIT
package main

import (
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"lightbeat/cmd"
	"lightbeat/internal/audio"
	"lightbeat/internal/config"
	"lightbeat/internal/engine"
	applog "lightbeat/internal/log"
	"lightbeat/internal/transport"
	"lightbeat/internal/transport/udp"
	"lightbeat/internal/tui"
	"lightbeat/pkg/wavegen"
)

// main runs in three phases:
//
// 1. Startup (cold path): parse arguments, build configuration, set up
// transports and the detection engine.
//
// 2. Capture (hot path): the PortAudio callback (or file/demo feeder)
// pushes chunks through the engine until a signal or the end of input.
//
// 3. Shutdown (cold path): stop capture, drain the engine and close the
// transports.
func main() {
	// One thread for the audio callback, one for UI and I/O.
	runtime.GOMAXPROCS(2)

	cfg, err := cmd.ParseArgs()
	if err != nil {
		applog.Fatalf("%v", err)
	}

	if level, ok := applog.ParseLevel(cfg.LogLevel); ok {
		applog.SetLevel(level)
	}
	if cfg.Debug {
		applog.SetLevel(applog.LevelDebug)
	}

	switch cfg.Command {
	case "list":
		err = runList()
	case "analyze":
		err = runAnalyze(cfg)
	case "demo":
		err = runDemo(cfg)
	default:
		err = runLive(cfg)
	}
	if err != nil {
		applog.Fatalf("%v", err)
	}
}

// buildSinks assembles the configured transports into one fanout. The
// returned meter is non-nil when the TUI is enabled; its Run method must
// be driven by the caller.
func buildSinks(cfg *config.Config) (*transport.Fanout, *tui.Meter, error) {
	var sinks []transport.Transport

	var meter *tui.Meter
	if cfg.Meter {
		meter = tui.NewMeter()
		sinks = append(sinks, meter)
	} else {
		sinks = append(sinks, transport.NewLoggingTransport())
	}

	if cfg.Transport.WebSocketEnabled {
		sinks = append(sinks, transport.NewWebSocketTransport(cfg.Transport.WebSocketAddr))
	}

	if cfg.Transport.UDPEnabled {
		sender, err := udp.NewSender(cfg.Transport.UDPTargetAddress)
		if err != nil {
			return nil, nil, err
		}
		publisher, err := udp.NewEventPublisher(sender, cfg.Transport.UDPQueueSize)
		if err != nil {
			sender.Close()
			return nil, nil, err
		}
		sinks = append(sinks, publisher)
	}

	return transport.NewFanout(sinks...), meter, nil
}

// runLive captures from the configured input device until interrupted.
func runLive(cfg *config.Config) error {
	if err := audio.Initialize(); err != nil {
		return err
	}
	defer audio.Terminate()

	sink, meter, err := buildSinks(cfg)
	if err != nil {
		return err
	}
	defer sink.Close()

	eng, err := engine.New(cfg, sink)
	if err != nil {
		return err
	}
	if err := eng.Start(); err != nil {
		return err
	}

	listener, err := audio.NewListener(cfg, eng)
	if err != nil {
		return err
	}
	if err := listener.Start(); err != nil {
		return err
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	if meter != nil {
		// The meter owns the terminal; a signal just quits it.
		go func() {
			<-done
			meter.Close()
		}()
		if err := meter.Run(); err != nil {
			applog.Warnf("Meter: %v", err)
		}
	} else {
		applog.Infof("Listening. Press Ctrl+C to stop.")
		<-done
	}

	if err := listener.Stop(); err != nil {
		applog.Warnf("Audio: Error stopping capture: %v", err)
	}
	eng.Stop()
	applog.Infof("Detected %d events", eng.EventCount())
	return nil
}

// runAnalyze streams a WAV file through the engine at real-time pace, so
// the cooldown and tempo behavior match live capture.
func runAnalyze(cfg *config.Config) error {
	info, err := audio.ProbeWAV(cfg.FilePath)
	if err != nil {
		return err
	}
	cfg.Audio.SampleRate = float64(info.SampleRate)

	cfg.Meter = false
	sink, _, err := buildSinks(cfg)
	if err != nil {
		return err
	}
	defer sink.Close()

	eng, err := engine.New(cfg, sink)
	if err != nil {
		return err
	}
	if err := eng.Start(); err != nil {
		return err
	}

	pace := time.Duration(float64(cfg.Audio.ChunkSize) / cfg.Audio.SampleRate * float64(time.Second))
	applog.Infof("Analyze: %s (%d Hz, %d ch, %d bit), chunk pace %s",
		cfg.FilePath, info.SampleRate, info.Channels, info.BitDepth, pace)

	err = audio.StreamWAV(cfg.FilePath, cfg.Audio.ChunkSize, func(chunk []int16) {
		eng.ProcessChunk(chunk)
		time.Sleep(pace)
	})
	eng.Stop()
	if err != nil {
		return err
	}

	applog.Infof("Detected %d events", eng.EventCount())
	if bpm := eng.Tempo(); bpm > 0 {
		applog.Infof("Estimated tempo: %.1f BPM", bpm)
	}
	return nil
}

// runDemo feeds the built-in synthetic beat patterns through the engine.
func runDemo(cfg *config.Config) error {
	cfg.Meter = false
	sink, _, err := buildSinks(cfg)
	if err != nil {
		return err
	}
	defer sink.Close()

	eng, err := engine.New(cfg, sink)
	if err != nil {
		return err
	}
	if err := eng.Start(); err != nil {
		return err
	}

	for _, pattern := range wavegen.Patterns() {
		applog.Infof("Demo: %s", pattern.Name)
		for _, beat := range pattern.Beats {
			chunk := wavegen.BeatChunk(cfg.Audio.ChunkSize, cfg.Audio.SampleRate, beat)
			eng.ProcessChunk(chunk)
			time.Sleep(150 * time.Millisecond)
		}
	}
	eng.Stop()

	applog.Infof("Detected %d events", eng.EventCount())
	return nil
}

// runList prints the available audio devices.
func runList() error {
	if err := audio.Initialize(); err != nil {
		return err
	}
	defer audio.Terminate()
	return audio.ListDevices()
}
