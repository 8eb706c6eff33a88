// SPDX-License-Identifier: MIT
package udp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"lightbeat/internal/analysis"
	"lightbeat/internal/engine"
	applog "lightbeat/internal/log"
	"lightbeat/internal/transport"
)

// packetSender abstracts the socket so packing can be tested without one.
type packetSender interface {
	Send(data []byte) error
	Close() error
}

// Wire codes for the event kind byte. 0 is reserved for unknown.
var kindCodes = map[analysis.EventKind]byte{
	analysis.KindBassDrop: 1,
	analysis.KindRhythm:   2,
	analysis.KindVocal:    3,
	analysis.KindBuild:    4,
}

/*
Event packet layout (BigEndian):

	| Field      | Type    | Bytes |
	|------------|---------|-------|
	| Sequence   | uint32  | 4     |
	| Timestamp  | int64   | 8     | Nanoseconds since epoch
	| Kind       | byte    | 1     |
	| Intensity  | float32 | 4     |
	| BPM        | uint16  | 2     |
	| BassEnergy | uint32  | 4     |
	| MidEnergy  | uint32  | 4     |
	| HighEnergy | uint32  | 4     |
*/
const packetSize = 31

// EventPublisher queues events and ships them as binary packets on a
// drain goroutine. Send never blocks; when the queue is full the event
// is dropped and counted.
type EventPublisher struct {
	sender packetSender
	queue  chan *engine.Event

	stopOnce sync.Once
	wg       sync.WaitGroup

	seq    uint32        // Drain goroutine only
	packet *bytes.Buffer // Drain goroutine only

	droppedMu sync.Mutex
	dropped   uint64
}

// NewEventPublisher creates a publisher over the given sender with a
// bounded queue and starts its drain goroutine.
func NewEventPublisher(sender packetSender, queueSize int) (*EventPublisher, error) {
	if sender == nil {
		return nil, fmt.Errorf("udp publisher: sender cannot be nil")
	}
	if queueSize <= 0 {
		return nil, fmt.Errorf("udp publisher: queue size must be positive, got %d", queueSize)
	}

	p := &EventPublisher{
		sender: sender,
		queue:  make(chan *engine.Event, queueSize),
		packet: new(bytes.Buffer),
	}
	p.wg.Add(1)
	go p.drain()
	return p, nil
}

// Send queues one event for transmission. Never blocks.
func (p *EventPublisher) Send(data any) error {
	ev, ok := data.(*engine.Event)
	if !ok {
		return nil
	}
	select {
	case p.queue <- ev:
	default:
		p.droppedMu.Lock()
		p.dropped++
		n := p.dropped
		p.droppedMu.Unlock()
		applog.Debugf("UDP: Queue full, dropped event (%d total)", n)
	}
	return nil
}

func (p *EventPublisher) drain() {
	defer p.wg.Done()
	for ev := range p.queue {
		p.seq++
		pkt, err := p.encode(ev)
		if err != nil {
			applog.Errorf("UDP: Packing event failed: %v", err)
			continue
		}
		if err := p.sender.Send(pkt); err != nil {
			applog.Debugf("UDP: Send failed: %v", err)
			continue
		}
		applog.Debugf("UDP: Sent packet %d (%d bytes)", p.seq, len(pkt))
	}
}

// encode packs one event into the wire format, reusing the internal
// buffer. The returned slice is valid until the next call.
func (p *EventPublisher) encode(ev *engine.Event) ([]byte, error) {
	p.packet.Reset()

	fields := []any{
		p.seq,
		time.Now().UnixNano(),
		kindCodes[ev.Kind],
		float32(ev.Intensity),
		clampUint16(ev.Tempo),
		clampUint32(ev.BassEnergy),
		clampUint32(ev.MidEnergy),
		clampUint32(ev.HighEnergy),
	}
	for _, f := range fields {
		if err := binary.Write(p.packet, binary.BigEndian, f); err != nil {
			return nil, err
		}
	}
	return p.packet.Bytes(), nil
}

func clampUint16(v int) uint16 {
	if v < 0 {
		return 0
	}
	if v > 0xFFFF {
		return 0xFFFF
	}
	return uint16(v)
}

func clampUint32(v int) uint32 {
	if v < 0 {
		return 0
	}
	return uint32(v)
}

// Close stops the drain goroutine after the queue empties, then closes
// the sender. Safe to call more than once. The caller must have stopped
// producing events first.
func (p *EventPublisher) Close() error {
	p.stopOnce.Do(func() { close(p.queue) })
	p.wg.Wait()
	return p.sender.Close()
}

var _ transport.Transport = (*EventPublisher)(nil)
