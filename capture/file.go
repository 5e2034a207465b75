package capture

import (
	"fmt"

	"github.com/btelem/btelem/logfile"
	"github.com/btelem/btelem/schema"
)

// FileCapture is a read-only column extractor over a closed log file. Its
// footer index, when present, lets Series/Table skip packets outside the
// requested time range without reading them.
type FileCapture struct {
	r *logfile.Reader
}

// OpenFile opens path for column extraction.
func OpenFile(path string) (*FileCapture, error) {
	r, err := logfile.Open(path)
	if err != nil {
		return nil, fmt.Errorf("capture: open %s: %w", path, err)
	}

	return &FileCapture{r: r}, nil
}

// Close closes the underlying file.
func (fc *FileCapture) Close() error {
	return fc.r.Close()
}

// Schema returns the file's embedded schema.
func (fc *FileCapture) Schema() *schema.Schema {
	return fc.r.Schema()
}

// TimeRange returns the min/max timestamp across every packet in the file.
func (fc *FileCapture) TimeRange() (uint64, uint64) {
	packets, err := fc.r.Packets(0, false, 0, false)
	if err != nil {
		return 0, 0
	}

	return timeRangeOf(packets)
}

// Series extracts one field of one entry across the full file or a time
// window, returning (timestamps, values). hasT0/hasT1 select whether t0/t1
// bound the query; both sides are inclusive.
func (fc *FileCapture) Series(entryName, fieldName string, t0 uint64, hasT0 bool, t1 uint64, hasT1 bool) ([]uint64, any, error) {
	packets, err := fc.r.Packets(t0, hasT0, t1, hasT1)
	if err != nil {
		return nil, nil, err
	}

	return series(fc.r.Schema(), packets, entryName, fieldName, bound{t0, hasT0}, bound{t1, hasT1})
}

// Table extracts every field of one entry in a single pass.
func (fc *FileCapture) Table(entryName string, t0 uint64, hasT0 bool, t1 uint64, hasT1 bool) ([]uint64, map[string]any, error) {
	packets, err := fc.r.Packets(t0, hasT0, t1, hasT1)
	if err != nil {
		return nil, nil, err
	}

	return table(fc.r.Schema(), packets, entryName, bound{t0, hasT0}, bound{t1, hasT1})
}

// EntryCounts returns the total row count per entry name across the file.
func (fc *FileCapture) EntryCounts() (map[string]uint64, error) {
	packets, err := fc.r.Packets(0, false, 0, false)
	if err != nil {
		return nil, err
	}

	return entryCounts(fc.r.Schema(), packets), nil
}
