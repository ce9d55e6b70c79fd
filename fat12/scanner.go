package fat12

// VisitFunc is called once per live directory entry found by a scan. Scanning
// stops early, without error, if stop is true; it aborts immediately,
// propagating err, if err is non-nil.
type VisitFunc func(d Dirent) (stop bool, err error)

// scanRoot sweeps the fixed-size root directory region linearly, emitting
// every live entry to visit. The region has no FAT chain backing it: it ends
// after RootRegionSize bytes no matter what.
func (v *Volume) scanRoot(visit VisitFunc) error {
	offset := v.geometry.RootRegionStart
	end := offset + v.geometry.RootRegionSize

	for offset < end {
		raw := make([]byte, BytesPerDirent)
		if _, err := v.image.ReadAt(raw, offset); err != nil {
			return err
		}

		done, stop, err := visitSlot(offset, raw, visit)
		if done || err != nil {
			return err
		}
		if stop {
			return nil
		}
		offset += BytesPerDirent
	}
	return nil
}

// scanSubdirectory walks the cluster chain starting at startCluster,
// decoding each sector's worth of entries in turn and following the chain via
// the FAT until end-of-chain.
func (v *Volume) scanSubdirectory(startCluster uint16, visit VisitFunc) error {
	cluster := uint(startCluster)

	for {
		offset := v.geometry.ClusterByteOffset(cluster)
		raw := make([]byte, v.geometry.BytesPerSector)
		if _, err := v.image.ReadAt(raw, offset); err != nil {
			return err
		}

		for slot := 0; slot+BytesPerDirent <= len(raw); slot += BytesPerDirent {
			done, stop, err := visitSlot(offset+int64(slot), raw[slot:slot+BytesPerDirent], visit)
			if done || err != nil {
				return err
			}
			if stop {
				return nil
			}
		}

		next := v.fat.Read(cluster)
		if IsEndOfChain(next) {
			return nil
		}
		cluster = uint(next)
	}
}

// scanDirectory dispatches to scanRoot or scanSubdirectory depending on
// whether cluster identifies the root (0) or a real subdirectory cluster.
func (v *Volume) scanDirectory(cluster uint16, visit VisitFunc) error {
	if cluster == 0 {
		return v.scanRoot(visit)
	}
	return v.scanSubdirectory(cluster, visit)
}

// visitSlot applies the directory-entry filtering rules from the
// specification to one raw 32-byte slot. done reports that the terminal
// 0x00 sentinel was hit and the entire directory scan (not just the current
// sector) must stop.
func visitSlot(offset int64, raw []byte, visit VisitFunc) (done bool, stop bool, err error) {
	switch {
	case raw[0] == direntUnused:
		return true, false, nil
	case raw[0] == direntDeleted:
		return false, false, nil
	case raw[11] == AttrLongName:
		return false, false, nil
	case raw[0] == direntSelfOrUp:
		return false, false, nil
	}

	d := decodeDirent(offset, raw)
	if d.FirstCluster < firstDataCluster {
		return false, false, nil
	}

	stop, err = visit(d)
	return false, stop, err
}

// findVolumeLabel scans the root directory for the single entry carrying the
// AttrVolumeLabel attribute, the way the reference info utility does: by
// examining the raw attribute byte directly rather than going through the
// filtered scanner, since a label entry conventionally has no data cluster
// and would otherwise be dropped by the cluster-number defensive filter.
func (v *Volume) findVolumeLabel() (string, bool) {
	offset := v.geometry.RootRegionStart
	end := offset + v.geometry.RootRegionSize
	raw := make([]byte, BytesPerDirent)

	for offset < end {
		if _, err := v.image.ReadAt(raw, offset); err != nil {
			return "", false
		}
		if raw[11] == AttrVolumeLabel {
			return trimField(raw[0:8]), true
		}
		offset += BytesPerDirent
	}
	return "", false
}
