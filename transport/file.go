package transport

import (
	"fmt"
	"os"
)

// FileTransport reads from or writes to a raw binary file, for replaying a
// captured stream or logging a live one to disk.
type FileTransport struct {
	f *os.File
}

// OpenFileTransport opens path with the given os.O_* flags (e.g.
// os.O_RDONLY for replay, os.O_WRONLY|os.O_CREATE|os.O_TRUNC for capture).
func OpenFileTransport(path string, flag int) (*FileTransport, error) {
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, fmt.Errorf("transport: open %s: %w", path, err)
	}

	return &FileTransport{f: f}, nil
}

// Read reads from the file, per io.Reader.
func (t *FileTransport) Read(p []byte) (int, error) {
	return t.f.Read(p)
}

// Write writes to the file, per io.Writer.
func (t *FileTransport) Write(p []byte) (int, error) {
	return t.f.Write(p)
}

// Close closes the underlying file.
func (t *FileTransport) Close() error {
	return t.f.Close()
}

var _ Transport = (*FileTransport)(nil)
