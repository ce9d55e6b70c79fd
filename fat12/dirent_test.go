package fat12

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJoinName(t *testing.T) {
	require.Equal(t, "HELLO.TXT", joinName([]byte("HELLO   "), []byte("TXT")))
	require.Equal(t, "README", joinName([]byte("README  "), []byte("   ")))
}

func TestEncodeShortName(t *testing.T) {
	name, ext := encodeShortName("README.TXT")
	require.Equal(t, "README  ", string(name[:]))
	require.Equal(t, "TXT", string(ext[:]))

	name, ext = encodeShortName("C")
	require.Equal(t, "C       ", string(name[:]))
	require.Equal(t, "   ", string(ext[:]))
}

func TestDirentEncodeDecodeRoundTrip(t *testing.T) {
	name, ext := encodeShortName("A.TXT")
	original := Dirent{
		RawName:          name,
		RawExtension:     ext,
		Attributes:       AttrArchive,
		CreatedDate:      PackDate(2024, 3, 1),
		CreatedTime:      PackTime(12, 30),
		LastModifiedDate: PackDate(2024, 3, 1),
		LastModifiedTime: PackTime(12, 30),
		FirstCluster:     5,
		Size:             10,
	}

	decoded := decodeDirent(0, original.encode())
	require.Equal(t, "A.TXT", decoded.DisplayName())
	require.Equal(t, original.FirstCluster, decoded.FirstCluster)
	require.Equal(t, original.Size, decoded.Size)
	require.Equal(t, original.CreatedDate, decoded.CreatedDate)
}
