// Package fat12 implements a read/write driver for the FAT12 volume format:
// boot sector geometry, the 12-bit-packed File Allocation Table, directory
// entries, and the path resolution, extraction and insertion operations built
// on top of them.
//
// The package deliberately stays within FAT12: no FAT16/FAT32 handling, no
// long-file-name production or interpretation (LFN entries are recognized and
// skipped), and no concurrent-access protection. A Volume is meant to be used
// from a single goroutine for the lifetime of one command invocation.
package fat12

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-restruct/restruct"

	"github.com/tomkern/fat12/errors"
)

// restructOrder is the byte order used to decode every packed structure in
// this package. FAT is little-endian end to end.
var restructOrder binary.ByteOrder = binary.LittleEndian

// BytesPerDirent is the size of one on-disk directory entry.
const BytesPerDirent = 32

// RootDirentCapacity is the classic 1.44MB floppy root directory entry count.
// It's also what RawBootSector.RootEntryCount is expected to carry; the
// decoder trusts whatever value is actually on disk instead of hard-coding
// this, but most standard floppy images use it.
const RootDirentCapacity = 224

// firstDataCluster is the lowest cluster number usable for file data. 0 and 1
// are reserved by the FAT itself; clusters below this never appear as a
// starting cluster of a live file or directory.
const firstDataCluster = 2

// dataAreaSectorBias converts a cluster number into its physical sector: FAT12
// numbers clusters starting at 2, but the data area's first sector follows
// the root directory, so cluster N lives at sector (N - 2 + dataAreaSectorBias).
const dataAreaSectorBias = 33

// RawBootSector is the on-disk layout of the first 512 bytes of a FAT12
// volume, trimmed to the fields this driver cares about. Boot code and the
// trailing 0xAA55 signature are read but not validated, matching the lenient
// decoding the specification calls for: exotic geometries and a missing
// signature are not treated as fatal.
type RawBootSector struct {
	JumpBoot         [3]byte
	OEMName          [8]byte
	BytesPerSector   uint16
	SectorsPerCluster uint8
	ReservedSectors  uint16
	NumFATs          uint8
	RootEntryCount   uint16
	TotalSectors16   uint16
	MediaDescriptor  uint8
	SectorsPerFAT    uint16
	SectorsPerTrack  uint16
	NumHeads         uint16
	HiddenSectors    uint32
	TotalSectors32   uint32
	DriveNumber      uint8
	NTReserved       uint8
	ExtendedBootSig  uint8
	VolumeID         uint32
	VolumeLabel      [11]byte
	FileSystemType   [8]byte
	BootCode         [448]byte
	BootSignature    uint16
}

// Geometry holds the immutable-after-load description of a volume, combining
// the raw boot sector fields with the derived byte offsets every other
// component needs: where the FAT region starts, where the root directory
// starts, where the data area starts, and how many FAT entries exist.
type Geometry struct {
	OEMName        string
	BytesPerSector uint
	NumFATs        uint
	RootEntryCount uint
	TotalSectors   uint
	SectorsPerFAT  uint

	FATRegionStart  int64
	RootRegionStart int64
	RootRegionSize  int64
	DataRegionStart int64

	// FATEntryCount is the number of 12-bit slots in the FAT, including the
	// two reserved entries at index 0 and 1.
	FATEntryCount uint
}

// ClusterByteOffset returns the byte offset of the first byte of cluster.
// Callers are responsible for validating cluster is >= 2.
func (g *Geometry) ClusterByteOffset(cluster uint) int64 {
	return int64(cluster-firstDataCluster+dataAreaSectorBias) * int64(g.BytesPerSector)
}

// ReadBootSector decodes the first 512 bytes read from r into a Geometry.
// Decoding is lenient: the 0xAA55 signature is never checked, and unusual but
// self-consistent geometries (e.g. a handful of sectors per FAT) are accepted
// as-is. The FAT, root-directory and data region offsets are computed from the
// fields actually on disk; cluster addresses (ClusterByteOffset) and
// FATEntryCount use the standard floppy layout's fixed data-area start at
// sector dataAreaSectorBias.
func ReadBootSector(r io.Reader) (*Geometry, error) {
	raw := make([]byte, 512)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, errors.ErrIoOpen.WrapError(err)
	}

	var boot RawBootSector
	if err := restruct.Unpack(raw, restructOrder, &boot); err != nil {
		return nil, errors.ErrIoOpen.WrapError(err)
	}

	if boot.BytesPerSector == 0 {
		return nil, errors.ErrFileSystemCorrupted.WithMessage("bytes-per-sector is zero")
	}

	totalSectors := uint(boot.TotalSectors16)
	if totalSectors == 0 {
		totalSectors = uint(boot.TotalSectors32)
	}

	bytesPerSector := uint(boot.BytesPerSector)
	numFATs := uint(boot.NumFATs)
	sectorsPerFAT := uint(boot.SectorsPerFAT)
	rootEntryCount := uint(boot.RootEntryCount)

	fatRegionStart := int64(boot.ReservedSectors) * int64(bytesPerSector)
	rootRegionStart := int64(boot.ReservedSectors+uint16(numFATs)*boot.SectorsPerFAT) * int64(bytesPerSector)
	rootRegionSectors := (rootEntryCount*BytesPerDirent + bytesPerSector - 1) / bytesPerSector
	rootRegionSize := int64(rootRegionSectors) * int64(bytesPerSector)
	dataRegionStart := rootRegionStart + rootRegionSize

	fatEntryCount := totalSectors - dataAreaSectorBias + firstDataCluster

	geometry := &Geometry{
		OEMName:         trimField(boot.OEMName[:]),
		BytesPerSector:  bytesPerSector,
		NumFATs:         numFATs,
		RootEntryCount:  rootEntryCount,
		TotalSectors:    totalSectors,
		SectorsPerFAT:   sectorsPerFAT,
		FATRegionStart:  fatRegionStart,
		RootRegionStart: rootRegionStart,
		RootRegionSize:  rootRegionSize,
		DataRegionStart: dataRegionStart,
		FATEntryCount:   fatEntryCount,
	}

	return geometry, nil
}

// TotalSizeBytes is the whole-volume size implied by the boot sector, used by
// the info utility.
func (g *Geometry) TotalSizeBytes() int64 {
	return int64(g.TotalSectors) * int64(g.BytesPerSector)
}

func trimField(b []byte) string {
	end := len(b)
	for end > 0 && (b[end-1] == ' ' || b[end-1] == 0) {
		end--
	}
	return string(b[:end])
}

// sanityCheckCluster returns an error if cluster cannot possibly address data
// on this volume.
func (g *Geometry) sanityCheckCluster(cluster uint) error {
	if cluster < firstDataCluster || cluster >= g.FATEntryCount {
		return errors.ErrFileSystemCorrupted.WithMessage(
			fmt.Sprintf("cluster %d out of range [2, %d)", cluster, g.FATEntryCount))
	}
	return nil
}
