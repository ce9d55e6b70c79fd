package fat12

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildBootSector constructs a raw 512-byte boot sector matching
// RawBootSector's field layout, for use directly with ReadBootSector.
func buildBootSector(t *testing.T, oem string, bytesPerSector uint16, reservedSectors uint16,
	numFATs uint8, rootEntryCount uint16, totalSectors16 uint16, sectorsPerFAT uint16) []byte {
	t.Helper()

	raw := make([]byte, 512)
	copy(raw[3:11], padRight(oem, 8))
	binary.LittleEndian.PutUint16(raw[11:13], bytesPerSector)
	raw[13] = 1 // sectors per cluster
	binary.LittleEndian.PutUint16(raw[14:16], reservedSectors)
	raw[16] = numFATs
	binary.LittleEndian.PutUint16(raw[17:19], rootEntryCount)
	binary.LittleEndian.PutUint16(raw[19:21], totalSectors16)
	raw[21] = 0xF0
	binary.LittleEndian.PutUint16(raw[22:24], sectorsPerFAT)
	raw[510] = 0x55
	raw[511] = 0xAA
	return raw
}

func padRight(s string, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	copy(b, s)
	return b
}

func TestReadBootSector(t *testing.T) {
	raw := buildBootSector(t, "MSWIN4.1", 512, 1, 2, 224, 2880, 9)

	g, err := ReadBootSector(bytes.NewReader(raw))
	require.NoError(t, err)

	require.Equal(t, "MSWIN4.1", g.OEMName)
	require.EqualValues(t, 512, g.BytesPerSector)
	require.EqualValues(t, 2, g.NumFATs)
	require.EqualValues(t, 2880, g.TotalSectors)
	require.EqualValues(t, 1474560, g.TotalSizeBytes())
	require.EqualValues(t, 9, g.SectorsPerFAT)
	require.EqualValues(t, 512, g.FATRegionStart) // 1 reserved sector
	require.EqualValues(t, 512+9*2*512, g.RootRegionStart)
}

func TestReadBootSectorRejectsZeroSectorSize(t *testing.T) {
	raw := buildBootSector(t, "X", 0, 1, 2, 224, 2880, 9)
	_, err := ReadBootSector(bytes.NewReader(raw))
	require.Error(t, err)
}
