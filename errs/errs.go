// Package errs collects the sentinel errors returned across btelem's
// schema, packet, stream, log file, and capture packages.
//
// Callers compare with errors.Is; wrapped errors carry additional context
// via fmt.Errorf("...: %w", ...).
package errs

import "errors"

var (
	// ErrSchemaTruncated is returned when a schema blob ends before a
	// fixed-size header, entry, or extension-section record can be read.
	ErrSchemaTruncated = errors.New("schema: truncated")

	// ErrFileTruncated is returned when a log file ends before its fixed-size
	// header or its embedded schema blob can be read. A short packet or
	// footer is not reported with it: reading stops, or the index is dropped.
	ErrFileTruncated = errors.New("logfile: truncated")

	// ErrBadMagic is returned when a file or footer magic value doesn't match
	// the expected constant.
	ErrBadMagic = errors.New("bad magic")

	// ErrUnsupportedVersion is returned when a log file's version field isn't
	// one this package knows how to read.
	ErrUnsupportedVersion = errors.New("unsupported version")

	// ErrUnknownChannel is returned when a query names an entry or field that
	// isn't present in the schema.
	ErrUnknownChannel = errors.New("unknown channel")

	// ErrOversizedPacket names the condition of a length prefix exceeding a
	// framer's configured maximum. Framer.Feed and LiveCapture.AddStream only
	// log that condition and resync; no function returns this error.
	ErrOversizedPacket = errors.New("oversized packet")

	// ErrConnectionClosed is returned by TCPTransport.ReadExact when the
	// underlying connection closes before the requested bytes arrive.
	ErrConnectionClosed = errors.New("connection closed")

	// ErrNotOpen names a call on a file handle that is not open. No function
	// in this module returns it; Reader and Writer methods after Close return
	// the underlying os.File error instead.
	ErrNotOpen = errors.New("not open")

	// ErrUsage is returned by cmd/btelem's subcommands on bad arguments or an
	// unknown command, distinguishing misuse from an I/O or parse failure so
	// main can map each to its own exit code.
	ErrUsage = errors.New("usage error")
)
