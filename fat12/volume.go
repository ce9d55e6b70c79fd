package fat12

import (
	"github.com/hashicorp/go-multierror"

	"github.com/tomkern/fat12/errors"
)

// Volume ties together an open image, its decoded geometry, and its in-memory
// FAT mirror. It is the entry point every one of the four command-line
// utilities builds on.
type Volume struct {
	image     ImageAccessor
	geometry  *Geometry
	fat       *FAT
	readWrite bool
}

// Open decodes the boot sector and loads the first FAT copy from image,
// producing a ready-to-use Volume. readWrite must be true if the caller
// intends to insert a file; Insert returns an error otherwise.
func Open(image ImageAccessor, readWrite bool) (*Volume, error) {
	geometry, err := ReadBootSector(&offsetReader{image: image})
	if err != nil {
		return nil, err
	}

	fat, err := LoadFAT(image, geometry)
	if err != nil {
		return nil, err
	}

	return &Volume{
		image:     image,
		geometry:  geometry,
		fat:       fat,
		readWrite: readWrite,
	}, nil
}

// Close releases the backing image. It is safe to call even if earlier
// operations on the Volume failed.
func (v *Volume) Close() error {
	return v.image.Close()
}

// offsetReader adapts an io.ReaderAt positioned at offset 0 into an io.Reader,
// so ReadBootSector can share its signature with the plain os.File-backed
// startup path and with in-memory test images alike.
type offsetReader struct {
	image  ImageAccessor
	offset int64
}

func (r *offsetReader) Read(p []byte) (int, error) {
	n, err := r.image.ReadAt(p, r.offset)
	r.offset += int64(n)
	return n, err
}

// Geometry exposes the volume's decoded boot-sector geometry, chiefly for the
// info utility.
func (v *Volume) Geometry() *Geometry { return v.geometry }

// FreeClusterCount returns the number of unallocated data clusters.
func (v *Volume) FreeClusterCount() uint { return v.fat.FreeCount() }

// VolumeLabel returns the root directory's label entry, if one exists.
func (v *Volume) VolumeLabel() (string, bool) { return v.findVolumeLabel() }

// Entry pairs a decoded directory entry with its full slash-joined path from
// the root (e.g. "/SUB/B.BIN"); the list utility derives each row's nesting
// depth from it.
type Entry struct {
	Path   string
	Dirent Dirent
}

// List walks the entire directory tree from the root, returning every live
// file and subdirectory entry paired with its full slash-joined path.
func (v *Volume) List() ([]Entry, error) {
	var entries []Entry
	var walk func(cluster uint16, prefix string) error

	walk = func(cluster uint16, prefix string) error {
		return v.scanDirectory(cluster, func(d Dirent) (bool, error) {
			path := prefix + d.DisplayName()
			entries = append(entries, Entry{Path: path, Dirent: d})
			if d.IsDirectory() {
				if err := walk(d.FirstCluster, path+"/"); err != nil {
					return true, err
				}
			}
			return false, nil
		})
	}

	if err := walk(0, "/"); err != nil {
		return nil, err
	}
	return entries, nil
}

// CloseAll aggregates errors from closing multiple handles — a Volume and a
// host-side file, in get/put's case — in the spirit of the reference
// driver's preference for surfacing every failure instead of only the first
// one encountered.
func CloseAll(closers ...func() error) error {
	var result *multierror.Error
	for _, c := range closers {
		if err := c(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if result == nil {
		return nil
	}
	return errors.ErrIoOpen.WrapError(result.ErrorOrNil())
}
