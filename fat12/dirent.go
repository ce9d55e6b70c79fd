package fat12

import (
	"strings"
)

// Directory entry attribute bits.
const (
	AttrReadOnly    = 0x01
	AttrHidden      = 0x02
	AttrSystem      = 0x04
	AttrVolumeLabel = 0x08
	AttrDirectory   = 0x10
	AttrArchive     = 0x20
	// AttrLongName marks a slot as part of a long-file-name entry. This
	// driver recognizes and skips these but never produces or interprets
	// them (LFN support is a non-goal).
	AttrLongName = 0x0F
)

// First-byte sentinels for a directory entry's filename field.
const (
	direntUnused    = 0x00
	direntDeleted   = 0xE5
	direntSelfOrUp  = 0x2E
	direntKanjiE5   = 0x05 // escapes a leading 0xE5 byte in a real filename
)

// Dirent is the decoded form of a 32-byte FAT directory entry.
type Dirent struct {
	// Offset is the byte offset of this entry within the image, needed when
	// writing it back (rewriting a deleted slot) or reading its data chain.
	Offset int64

	RawName      [8]byte
	RawExtension [3]byte
	Attributes   uint8

	CreatedTimeHundredths uint8
	CreatedTime           uint16
	CreatedDate           uint16
	LastAccessDate        uint16
	LastModifiedTime      uint16
	LastModifiedDate      uint16

	FirstCluster uint16
	Size         uint32
}

// IsDirectory reports whether this entry describes a subdirectory.
func (d *Dirent) IsDirectory() bool { return d.Attributes&AttrDirectory != 0 }

// IsVolumeLabel reports whether this entry carries the volume label.
func (d *Dirent) IsVolumeLabel() bool { return d.Attributes == AttrVolumeLabel }

// IsLongNamePart reports whether this slot is part of a long-file-name
// sequence. The scanner skips these; this driver neither writes nor follows
// them.
func (d *Dirent) IsLongNamePart() bool { return d.Attributes == AttrLongName }

// DisplayName returns the canonical 8.3 form of the entry's name: trailing
// spaces stripped from both the name and extension fields, joined with a dot
// only if an extension is present.
func (d *Dirent) DisplayName() string {
	return joinName(d.RawName[:], d.RawExtension[:])
}

func joinName(rawName, rawExt []byte) string {
	name := strings.TrimRight(string(rawName), " ")
	ext := strings.TrimRight(string(rawExt), " ")
	if rawExt[0] == ' ' || ext == "" {
		return name
	}
	return name + "." + ext
}

// decodeDirent unpacks a 32-byte slice, read from offset in the image, into a
// Dirent. The caller is responsible for having already filtered out unused,
// deleted, and LFN slots via the sentinel checks in scanner.go; this function
// always decodes whatever bytes it's given.
func decodeDirent(offset int64, raw []byte) Dirent {
	d := Dirent{Offset: offset}
	copy(d.RawName[:], raw[0:8])
	copy(d.RawExtension[:], raw[8:11])
	d.Attributes = raw[11]
	d.CreatedTimeHundredths = raw[13]
	d.CreatedTime = leUint16(raw[14:16])
	d.CreatedDate = leUint16(raw[16:18])
	d.LastAccessDate = leUint16(raw[18:20])
	d.LastModifiedTime = leUint16(raw[22:24])
	d.LastModifiedDate = leUint16(raw[24:26])
	d.FirstCluster = leUint16(raw[26:28])
	d.Size = leUint32(raw[28:32])
	return d
}

// encode packs the Dirent's fields into a fresh 32-byte on-disk record.
func (d *Dirent) encode() []byte {
	raw := make([]byte, BytesPerDirent)
	copy(raw[0:8], d.RawName[:])
	copy(raw[8:11], d.RawExtension[:])
	raw[11] = d.Attributes
	raw[13] = d.CreatedTimeHundredths
	putLeUint16(raw[14:16], d.CreatedTime)
	putLeUint16(raw[16:18], d.CreatedDate)
	putLeUint16(raw[18:20], d.LastAccessDate)
	putLeUint16(raw[22:24], d.LastModifiedTime)
	putLeUint16(raw[24:26], d.LastModifiedDate)
	putLeUint16(raw[26:28], d.FirstCluster)
	putLeUint32(raw[28:32], d.Size)
	return raw
}

func leUint16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func putLeUint16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

func putLeUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// encodeShortName splits an upper-cased 8.3 host filename (e.g. "README.TXT")
// into the space-padded 8-byte name and 3-byte extension fields a directory
// entry expects. The extension is only recognized if its separating dot
// occurs within the first 8 characters of name; this matches the reference
// tool's behavior of treating a later dot as part of the name instead of
// rejecting it.
func encodeShortName(name string) (rawName [8]byte, rawExt [3]byte) {
	for i := range rawName {
		rawName[i] = ' '
	}
	for i := range rawExt {
		rawExt[i] = ' '
	}

	dot := -1
	for i := 0; i < len(name) && i < 8; i++ {
		if name[i] == '.' {
			dot = i
			break
		}
	}

	if dot < 0 {
		n := len(name)
		if n > 8 {
			n = 8
		}
		copy(rawName[:], name[:n])
		return rawName, rawExt
	}

	copy(rawName[:], name[:dot])
	ext := name[dot+1:]
	if len(ext) > 3 {
		ext = ext[:3]
	}
	copy(rawExt[:], ext)
	return rawName, rawExt
}
