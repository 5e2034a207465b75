package transport

import (
	"fmt"
	"net"
)

// UDPTransport is a UDP datagram transport. Unlike TCPTransport it has no
// ordering or reliability guarantee: datagram transports should decode each
// datagram with packet.Decode directly rather than through a stream.Framer.
type UDPTransport struct {
	conn   *net.UDPConn
	remote *net.UDPAddr
}

// ListenUDP binds a UDP socket at addr (host:port). The transport starts
// with no remote peer; the first datagram received via Read sets it as the
// implicit peer for subsequent Writes.
func ListenUDP(addr string) (*UDPTransport, error) {
	laddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: resolve %s: %w", addr, err)
	}

	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, fmt.Errorf("transport: listen %s: %w", addr, err)
	}

	return &UDPTransport{conn: conn}, nil
}

// Read reads one datagram into p, recording its source as the implicit
// remote peer if none has been set yet.
func (t *UDPTransport) Read(p []byte) (int, error) {
	n, addr, err := t.conn.ReadFromUDP(p)
	if err != nil {
		return n, err
	}
	if t.remote == nil {
		t.remote = addr
	}

	return n, nil
}

// Write sends p as a single datagram to the remote peer. It is a no-op
// until a peer has been established via Read.
func (t *UDPTransport) Write(p []byte) (int, error) {
	if t.remote == nil {
		return 0, nil
	}

	return t.conn.WriteToUDP(p, t.remote)
}

// Close closes the underlying socket.
func (t *UDPTransport) Close() error {
	return t.conn.Close()
}

var _ Transport = (*UDPTransport)(nil)
