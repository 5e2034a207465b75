package btelem

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btelem/btelem/format"
	"github.com/btelem/btelem/packet"
	"github.com/btelem/btelem/schema"
)

func TestEndToEnd_WriteAndExtract(t *testing.T) {
	sch := NewSchema(LittleEndian, schema.SchemaEntry{
		ID:          1,
		Name:        "imu",
		PayloadSize: 4,
		Fields: []schema.FieldDef{
			{Name: "temp", Offset: 0, Size: 4, Type: format.F32, Count: 1},
		},
	})

	path := filepath.Join(t.TempDir(), "capture.btlm")
	w, err := CreateLog(path, sch)
	require.NoError(t, err)
	require.NoError(t, w.WriteEntries([]packet.BuildEntry{
		{ID: 1, Timestamp: 1000, Payload: []byte{0, 0, 0, 0}},
	}))
	require.NoError(t, w.Close())

	fc, err := OpenCapture(path)
	require.NoError(t, err)
	defer fc.Close()

	timestamps, _, err := fc.Series("imu", "temp", 0, false, 0, false)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1000}, timestamps)
}
