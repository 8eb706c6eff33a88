// SPDX-License-Identifier: MIT
package transport

import (
	"lightbeat/internal/engine"
	applog "lightbeat/internal/log"
)

// LoggingTransport prints each event to the application log. It is the
// default transport so a bare invocation shows what the detector hears.
type LoggingTransport struct{}

// NewLoggingTransport creates a console event printer.
func NewLoggingTransport() *LoggingTransport {
	return &LoggingTransport{}
}

// Send logs the event. Non-event payloads are ignored silently.
func (lt *LoggingTransport) Send(data any) error {
	ev, ok := data.(*engine.Event)
	if !ok {
		return nil
	}
	if ev.Tempo > 0 {
		applog.Infof("Event: %-9s intensity=%.2f bpm=%d bass=%d mid=%d high=%d",
			ev.Kind, ev.Intensity, ev.Tempo, ev.BassEnergy, ev.MidEnergy, ev.HighEnergy)
	} else {
		applog.Infof("Event: %-9s intensity=%.2f bass=%d mid=%d high=%d",
			ev.Kind, ev.Intensity, ev.BassEnergy, ev.MidEnergy, ev.HighEnergy)
	}
	return nil
}

// Close is a no-op.
func (lt *LoggingTransport) Close() error { return nil }

var _ Transport = (*LoggingTransport)(nil)
