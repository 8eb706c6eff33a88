// SPDX-License-Identifier: MIT
/*
Package transport delivers detected events to consumers: the console, a
WebSocket broadcast for browser visualizers, and a binary UDP feed for
light controllers. All implementations are non-blocking from the caller's
perspective; a slow or absent consumer drops events instead of stalling
the audio path.
*/
package transport

// Transport sends events to a consumer. Implementations must be safe for
// concurrent use and must not block in Send.
type Transport interface {
	Send(data any) error
	Close() error
}

// Fanout delivers each event to every underlying transport. A failure in
// one transport does not stop delivery to the others; the first error is
// returned.
type Fanout struct {
	transports []Transport
}

// NewFanout creates a Fanout over the given transports. Nil entries are
// skipped.
func NewFanout(transports ...Transport) *Fanout {
	f := &Fanout{}
	for _, t := range transports {
		if t != nil {
			f.transports = append(f.transports, t)
		}
	}
	return f
}

// Send delivers data to all transports.
func (f *Fanout) Send(data any) error {
	var first error
	for _, t := range f.transports {
		if err := t.Send(data); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Close closes all transports, returning the first error.
func (f *Fanout) Close() error {
	var first error
	for _, t := range f.transports {
		if err := t.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

var _ Transport = (*Fanout)(nil)
