package fat12

import (
	"strings"

	"github.com/tomkern/fat12/errors"
)

// LookupInRoot scans the root directory for a live entry whose canonical 8.3
// name equals name (case-sensitive; callers are expected to upper-case user
// input first, matching the reference tools' argv handling).
func (v *Volume) LookupInRoot(name string) (Dirent, error) {
	var found Dirent
	haveIt := false

	err := v.scanRoot(func(d Dirent) (bool, error) {
		if d.DisplayName() == name {
			found = d
			haveIt = true
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return Dirent{}, err
	}
	if !haveIt {
		return Dirent{}, errors.ErrNotFound
	}
	return found, nil
}

// findFreeSlotInRoot scans the root directory looking for a byte offset to
// reuse for a new entry -- the first deleted (0xE5) slot, falling back to the
// terminal 0x00 slot -- while simultaneously checking for a name collision,
// mirroring the single-pass scan the reference put utility performs.
func (v *Volume) findFreeSlotInRoot(uppName string) (int64, error) {
	offset := v.geometry.RootRegionStart
	end := offset + v.geometry.RootRegionSize
	raw := make([]byte, BytesPerDirent)

	freeOffset := int64(-1)

	for offset < end {
		if _, err := v.image.ReadAt(raw, offset); err != nil {
			return 0, err
		}

		switch raw[0] {
		case direntUnused:
			if freeOffset < 0 {
				freeOffset = offset
			}
			return freeOffset, nil
		case direntDeleted:
			if freeOffset < 0 {
				freeOffset = offset
			}
		default:
			if joinName(raw[0:8], raw[8:11]) == uppName {
				return 0, errors.ErrDuplicateName
			}
		}

		offset += BytesPerDirent
	}

	if freeOffset >= 0 {
		return freeOffset, nil
	}
	return 0, errors.ErrRootFull
}

// subtreeSearchState accumulates results across the recursive descent
// findFreeSlotInSubtree performs.
type subtreeSearchState struct {
	targetDirName string
	uppName       string

	foundTarget   bool
	candidate     int64
	duplicate     bool
}

// findFreeSlotInSubtree recursively walks the directory tree from root
// looking for the subdirectory named targetDirName. Every regular file
// encountered along the way is checked against uppName for a collision. Once
// inside the target directory, every free slot (deleted or terminal) updates
// the candidate offset; the last one seen before the directory ends is the
// one returned.
func (v *Volume) findFreeSlotInSubtree(targetDirName, uppName string) (int64, error) {
	state := &subtreeSearchState{
		targetDirName: strings.ToUpper(targetDirName),
		uppName:       uppName,
		candidate:     -1,
	}

	if err := v.walkForFreeSlot(0, false, state); err != nil {
		return 0, err
	}
	if state.duplicate {
		return 0, errors.ErrDuplicateName
	}
	if !state.foundTarget {
		return 0, errors.ErrNoDirectoryFound
	}
	if state.candidate < 0 {
		return 0, errors.ErrRootFull
	}
	return state.candidate, nil
}

// walkForFreeSlot scans one directory (root if cluster==0, else the chain
// starting at cluster), recursing into subdirectories. isTarget indicates
// this directory's raw name already matched targetDirName.
func (v *Volume) walkForFreeSlot(cluster uint16, isTarget bool, state *subtreeSearchState) error {
	visit := func(offset int64, raw []byte) (stopDir bool, err error) {
		switch raw[0] {
		case direntUnused:
			if isTarget {
				state.candidate = offset
			}
			return true, nil
		case direntDeleted:
			if isTarget {
				state.candidate = offset
			}
			return false, nil
		}

		if raw[11] == AttrLongName || raw[0] == direntSelfOrUp {
			return false, nil
		}

		d := decodeDirent(offset, raw)
		if d.FirstCluster < firstDataCluster {
			return false, nil
		}

		if d.IsDirectory() {
			childIsTarget := strings.TrimRight(string(d.RawName[:]), " ") == state.targetDirName
			if childIsTarget {
				state.foundTarget = true
			}
			if err := v.walkForFreeSlot(d.FirstCluster, childIsTarget, state); err != nil {
				return false, err
			}
			return false, nil
		}

		if d.DisplayName() == state.uppName {
			state.duplicate = true
			return true, nil
		}
		return false, nil
	}

	return v.walkRawDirectory(cluster, visit)
}

// walkRawDirectory is the unfiltered counterpart to scanDirectory: it hands
// every slot, including deleted and terminal ones, to visit.
func (v *Volume) walkRawDirectory(cluster uint16, visit func(offset int64, raw []byte) (bool, error)) error {
	if cluster == 0 {
		offset := v.geometry.RootRegionStart
		end := offset + v.geometry.RootRegionSize
		for offset < end {
			raw := make([]byte, BytesPerDirent)
			if _, err := v.image.ReadAt(raw, offset); err != nil {
				return err
			}
			stop, err := visit(offset, raw)
			if err != nil {
				return err
			}
			if stop {
				return nil
			}
			offset += BytesPerDirent
		}
		return nil
	}

	cur := uint(cluster)
	for {
		offset := v.geometry.ClusterByteOffset(cur)
		sector := make([]byte, v.geometry.BytesPerSector)
		if _, err := v.image.ReadAt(sector, offset); err != nil {
			return err
		}

		for slot := 0; slot+BytesPerDirent <= len(sector); slot += BytesPerDirent {
			stop, err := visit(offset+int64(slot), sector[slot:slot+BytesPerDirent])
			if err != nil {
				return err
			}
			if stop {
				return nil
			}
		}

		next := v.fat.Read(cur)
		if IsEndOfChain(next) {
			return nil
		}
		cur = uint(next)
	}
}

// AllocateCluster returns the lowest-numbered free cluster, per a linear scan
// of the FAT starting at cluster 2.
func (v *Volume) AllocateCluster() (uint16, error) {
	for i := uint(firstDataCluster); i < v.geometry.FATEntryCount; i++ {
		if IsFree(v.fat.Read(i)) {
			return uint16(i), nil
		}
	}
	return 0, errors.ErrNoSpace
}
