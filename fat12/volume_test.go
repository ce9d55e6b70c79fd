package fat12

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fat12errors "github.com/tomkern/fat12/errors"
)

const (
	testBytesPerSector  = 512
	testReservedSectors = 1
	testNumFATs         = 2
	testSectorsPerFAT   = 9
	testRootEntryCount  = 224
	testTotalSectors    = 2880
)

// newBlankImage returns a zeroed 1.44MB-floppy-shaped image with a valid
// boot sector and otherwise empty root directory and FAT.
func newBlankImage(t *testing.T) []byte {
	t.Helper()
	boot := buildBootSector(t, "MSWIN4.1", testBytesPerSector, testReservedSectors,
		testNumFATs, testRootEntryCount, testTotalSectors, testSectorsPerFAT)

	img := make([]byte, testTotalSectors*testBytesPerSector)
	copy(img, boot)
	return img
}

func writeDirentAt(img []byte, offset int64, d Dirent) {
	copy(img[offset:offset+BytesPerDirent], d.encode())
}

// writeFATEntry packs v at cluster index i directly into both FAT copies of
// img, without going through a live FAT (whose free-cluster bitmap would
// otherwise need a properly sized backing image to construct).
func writeFATEntry(img []byte, fatStart int64, fatSize int64, i uint, v uint16) {
	v &= 0x0FFF
	for _, base := range []int64{fatStart, fatStart + fatSize} {
		data := img[base : base+fatSize]
		if i&1 == 1 {
			j := (1 + 3*i) / 2
			data[j] = byte(v >> 4)
			data[j-1] = (data[j-1] & 0x0F) | byte((v&0x0F)<<4)
		} else {
			j := 3 * i / 2
			data[j] = byte(v)
			data[j+1] = (data[j+1] & 0xF0) | byte((v>>8)&0x0F)
		}
	}
}

func clusterOffset(cluster uint) int64 {
	return int64(cluster-firstDataCluster+dataAreaSectorBias) * testBytesPerSector
}

// buildSampleImage assembles a small populated volume: a root file A.TXT
// (matching the reference extraction scenario exactly), a volume label, and
// a subdirectory SUB containing B.BIN.
func buildSampleImage(t *testing.T) []byte {
	t.Helper()
	img := newBlankImage(t)

	fatStart := int64(testReservedSectors) * testBytesPerSector
	fatSize := int64(testSectorsPerFAT) * testBytesPerSector
	rootStart := fatStart + fatSize*testNumFATs

	name, ext := encodeShortName("TESTVOL")
	label := Dirent{RawName: name, RawExtension: ext, Attributes: AttrVolumeLabel}
	writeDirentAt(img, rootStart, label)

	name, ext = encodeShortName("A.TXT")
	aTxt := Dirent{
		RawName: name, RawExtension: ext, Attributes: AttrArchive,
		CreatedDate: PackDate(2024, 3, 1), CreatedTime: PackTime(12, 30),
		FirstCluster: 2, Size: 600,
	}
	writeDirentAt(img, rootStart+BytesPerDirent, aTxt)

	name, ext = encodeShortName("SUB")
	sub := Dirent{RawName: name, RawExtension: ext, Attributes: AttrDirectory, FirstCluster: 4}
	writeDirentAt(img, rootStart+2*BytesPerDirent, sub)

	writeFATEntry(img, fatStart, fatSize, 2, 3)
	writeFATEntry(img, fatStart, fatSize, 3, fatEndOfChain)
	writeFATEntry(img, fatStart, fatSize, 4, fatEndOfChain)
	writeFATEntry(img, fatStart, fatSize, 5, 6)
	writeFATEntry(img, fatStart, fatSize, 6, fatEndOfChain)

	// A.TXT's data: cluster 2 all zero (already zeroed), cluster 3 is 0xAA * 88.
	tail := bytes.Repeat([]byte{0xAA}, 88)
	copy(img[clusterOffset(3):], tail)

	// SUB's directory cluster holds one entry: B.BIN.
	name, ext = encodeShortName("B.BIN")
	bBin := Dirent{RawName: name, RawExtension: ext, Attributes: AttrArchive, FirstCluster: 5, Size: 600}
	writeDirentAt(img, clusterOffset(4), bBin)

	bContent := bytes.Repeat([]byte{0xBB}, 600)
	copy(img[clusterOffset(5):], bContent[:512])
	copy(img[clusterOffset(6):], bContent[512:])

	return img
}

func openVolume(t *testing.T, img []byte, readWrite bool) *Volume {
	t.Helper()
	v, err := Open(NewMemoryImage(img), readWrite)
	require.NoError(t, err)
	return v
}

func TestVolumeInfoFields(t *testing.T) {
	v := openVolume(t, buildSampleImage(t), false)

	require.EqualValues(t, 1474560, v.Geometry().TotalSizeBytes())
	require.EqualValues(t, 2, v.Geometry().NumFATs)
	require.EqualValues(t, 9, v.Geometry().SectorsPerFAT)

	label, ok := v.VolumeLabel()
	require.True(t, ok)
	require.Equal(t, "TESTVOL", label)

	// Total clusters minus the 5 used by A.TXT (2), SUB (1), B.BIN (2).
	require.EqualValues(t, 2847-5, v.FreeClusterCount())
}

func TestVolumeList(t *testing.T) {
	v := openVolume(t, buildSampleImage(t), false)

	entries, err := v.List()
	require.NoError(t, err)

	var paths []string
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	require.Equal(t, []string{"/A.TXT", "/SUB", "/SUB/B.BIN"}, paths)
}

func TestVolumeExtractMatchesReferenceScenario(t *testing.T) {
	v := openVolume(t, buildSampleImage(t), false)

	data, err := v.Extract("A.TXT")
	require.NoError(t, err)
	require.Len(t, data, 600)
	require.Equal(t, make([]byte, 512), data[:512])
	require.Equal(t, bytes.Repeat([]byte{0xAA}, 88), data[512:])
}

func TestVolumeExtractNotFound(t *testing.T) {
	v := openVolume(t, buildSampleImage(t), false)
	_, err := v.Extract("NOPE.TXT")
	require.ErrorIs(t, err, fat12errors.ErrNotFound)
}

func TestVolumeInsertAndRoundTrip(t *testing.T) {
	img := newBlankImage(t)
	v := openVolume(t, img, true)

	content := bytes.Repeat([]byte{0x42}, 700)
	before := v.FreeClusterCount()

	modTime := time.Date(2024, 5, 6, 9, 15, 0, 0, time.UTC)
	err := v.Insert("C.DAT", "", bytes.NewReader(content), int64(len(content)), modTime)
	require.NoError(t, err)

	require.EqualValues(t, before-2, v.FreeClusterCount())

	d, err := v.LookupInRoot("C.DAT")
	require.NoError(t, err)
	require.EqualValues(t, 700, d.Size)
	require.Equal(t, "C       ", string(d.RawName[:]))
	require.Equal(t, "DAT", string(d.RawExtension[:]))

	got, err := v.Extract("C.DAT")
	require.NoError(t, err)
	require.Equal(t, content, got)
}

func TestVolumeInsertWithByteOffsetQuirkLinks(t *testing.T) {
	img := newBlankImage(t)
	v := openVolume(t, img, true)

	content := bytes.Repeat([]byte{0x99}, 700)
	modTime := time.Date(2024, 5, 6, 9, 15, 0, 0, time.UTC)
	err := v.InsertWithLinkMode("Q.DAT", "", bytes.NewReader(content), int64(len(content)), modTime, ByteOffsetQuirkLinks)
	require.NoError(t, err)

	d, err := v.LookupInRoot("Q.DAT")
	require.NoError(t, err)
	first := uint(d.FirstCluster)

	// The first cluster's link should carry the reference tool's documented
	// quirk value (next_cluster - 2 + 33), not the plain next-cluster number.
	next := v.fat.Read(first)
	require.EqualValues(t, linkValue(uint16(first+1), ByteOffsetQuirkLinks), next)
	require.NotEqualValues(t, first+1, next)
}

func TestVolumeInsertNoSpace(t *testing.T) {
	img := newBlankImage(t)

	fatStart := int64(testReservedSectors) * testBytesPerSector
	fatSize := int64(testSectorsPerFAT) * testBytesPerSector
	for i := uint(2); i < 2849; i++ {
		writeFATEntry(img, fatStart, fatSize, i, fatEndOfChain)
	}

	v := openVolume(t, img, true)
	err := v.Insert("C.DAT", "", bytes.NewReader([]byte{0x01, 0x02}), 2, time.Now())
	require.ErrorIs(t, err, fat12errors.ErrNoSpace)
}
