// SPDX-License-Identifier: MIT
/*
Package udp implements the binary event feed for light controllers.
A Sender owns the socket; an EventPublisher drains a bounded queue of
events, packs each into a fixed wire format and ships it.
*/
package udp

import (
	"fmt"
	"net"
	"sync"

	applog "lightbeat/internal/log"
)

// Sender transmits raw packets to a single UDP target.
type Sender struct {
	conn   *net.UDPConn
	mu     sync.Mutex // Protects conn against concurrent Close
	closed bool
}

// NewSender dials the target address ("host:port").
func NewSender(targetAddress string) (*Sender, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", targetAddress)
	if err != nil {
		return nil, fmt.Errorf("resolve UDP target %q: %w", targetAddress, err)
	}
	conn, err := net.DialUDP("udp", nil, udpAddr)
	if err != nil {
		return nil, fmt.Errorf("dial UDP target %q: %w", targetAddress, err)
	}

	applog.Infof("UDP: Sending events to %s", conn.RemoteAddr())
	return &Sender{conn: conn}, nil
}

// Send transmits one packet. Safe for concurrent use.
func (s *Sender) Send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("udp sender is closed")
	}
	if _, err := s.conn.Write(data); err != nil {
		return fmt.Errorf("send UDP packet: %w", err)
	}
	return nil
}

// Close shuts the socket down. Subsequent Sends fail.
func (s *Sender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}
