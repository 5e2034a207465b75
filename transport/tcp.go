package transport

import (
	"fmt"
	"io"
	"net"
	"time"

	"github.com/btelem/btelem/errs"
)

// TCPTransport is a client-mode TCP stream transport.
type TCPTransport struct {
	conn net.Conn
}

// DialTCP connects to addr (host:port) with the given dial timeout.
func DialTCP(addr string, timeout time.Duration) (*TCPTransport, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", addr, err)
	}

	return &TCPTransport{conn: conn}, nil
}

// Read reads whatever is immediately available, per io.Reader.
func (t *TCPTransport) Read(p []byte) (int, error) {
	return t.conn.Read(p)
}

// ReadExact blocks until exactly n bytes have arrived, returning
// errs.ErrConnectionClosed if the connection closes first.
func (t *TCPTransport) ReadExact(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(t.conn, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("transport: read %d bytes: %w", n, errs.ErrConnectionClosed)
		}

		return nil, fmt.Errorf("transport: read %d bytes: %w", n, err)
	}

	return buf, nil
}

// Write sends data in full, per io.Writer.
func (t *TCPTransport) Write(p []byte) (int, error) {
	return t.conn.Write(p)
}

// Close closes the underlying connection.
func (t *TCPTransport) Close() error {
	return t.conn.Close()
}

var (
	_ Transport   = (*TCPTransport)(nil)
	_ ExactReader = (*TCPTransport)(nil)
)
