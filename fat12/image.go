package fat12

import (
	"io"
	"os"

	"github.com/xaionaro-go/bytesextra"

	"github.com/tomkern/fat12/errors"
)

// ImageAccessor is the positioned read/write surface a Volume needs from its
// backing image. It is satisfied by *os.File and, in tests, by an
// in-memory github.com/xaionaro-go/bytesextra.ReadWriteSeeker wrapped with
// this package's NewMemoryImage.
type ImageAccessor interface {
	io.ReaderAt
	io.WriterAt
	io.Closer
}

// OpenImageFile opens path for use as a Volume's backing image. readWrite
// requests O_RDWR instead of O_RDONLY; the four command-line utilities only
// need write access for the put operation, which may allocate directory
// slots and clusters.
func OpenImageFile(path string, readWrite bool) (*os.File, error) {
	flag := os.O_RDONLY
	if readWrite {
		flag = os.O_RDWR
	}

	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, errors.ErrIoOpen.WrapError(err)
	}
	return f, nil
}

// memoryImage adapts an in-memory byte slice into an ImageAccessor, for tests
// that need a Volume without a real file on disk.
type memoryImage struct {
	stream interface {
		io.ReaderAt
		io.WriterAt
	}
}

// NewMemoryImage wraps buf as an ImageAccessor backed entirely by memory. buf
// is used directly (not copied); writes through the returned accessor mutate
// it in place. Close is a no-op.
func NewMemoryImage(buf []byte) ImageAccessor {
	return memoryImage{stream: bytesextra.NewReadWriteSeeker(buf)}
}

func (m memoryImage) ReadAt(p []byte, off int64) (int, error)  { return m.stream.ReadAt(p, off) }
func (m memoryImage) WriteAt(p []byte, off int64) (int, error) { return m.stream.WriteAt(p, off) }
func (m memoryImage) Close() error                             { return nil }
