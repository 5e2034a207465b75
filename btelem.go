// Package btelem provides a binary telemetry codec and capture engine:
// producers describe signals as a schema of typed entries, pack many
// timestamped entries per transmission into batch packets, and consumers
// reconstruct columnar time series for analysis or plotting.
//
// # Core components
//
//   - schema: typed entry/field descriptions and their fixed-stride wire
//     format
//   - packet: the packed-batch packet codec (Build/Decode)
//   - stream: stateful length-prefixed reassembly over a live byte stream
//   - logfile: the append-only log file format with a footer time index
//   - capture: file-backed and live column extractors
//
// # Basic usage
//
// Writing a log file:
//
//	sch := schema.New(format.LittleEndian, schema.SchemaEntry{
//	    ID: 1, Name: "imu", PayloadSize: 4,
//	    Fields: []schema.FieldDef{{Name: "temp", Size: 4, Type: format.F32, Count: 1}},
//	})
//	w, _ := logfile.Create("capture.btlm", sch)
//	w.WriteEntries([]packet.BuildEntry{{ID: 1, Timestamp: ts, Payload: payload}})
//	w.Close()
//
// Extracting a column:
//
//	fc, _ := capture.OpenFile("capture.btlm")
//	defer fc.Close()
//	timestamps, values, _ := fc.Series("imu", "temp", 0, false, 0, false)
//
// This package itself only re-exports the handful of constructors most
// programs need; for anything beyond basic open/write/extract, use the
// subpackages directly.
package btelem

import (
	"github.com/btelem/btelem/capture"
	"github.com/btelem/btelem/format"
	"github.com/btelem/btelem/logfile"
	"github.com/btelem/btelem/schema"
)

// Endian constants re-exported for convenience.
const (
	LittleEndian = format.LittleEndian
	BigEndian    = format.BigEndian
)

// NewSchema is a thin wrapper over schema.New.
func NewSchema(endian format.Endian, entries ...schema.SchemaEntry) *schema.Schema {
	return schema.New(endian, entries...)
}

// CreateLog is a thin wrapper over logfile.Create.
func CreateLog(path string, sch *schema.Schema, opts ...logfile.WriterOption) (*logfile.Writer, error) {
	return logfile.Create(path, sch, opts...)
}

// OpenLog is a thin wrapper over logfile.Open.
func OpenLog(path string, opts ...logfile.ReaderOption) (*logfile.Reader, error) {
	return logfile.Open(path, opts...)
}

// OpenCapture is a thin wrapper over capture.OpenFile.
func OpenCapture(path string) (*capture.FileCapture, error) {
	return capture.OpenFile(path)
}

// NewLiveCapture is a thin wrapper over capture.NewLiveCapture.
func NewLiveCapture(sch *schema.Schema, opts ...capture.LiveCaptureOption) *capture.LiveCapture {
	return capture.NewLiveCapture(sch, opts...)
}
