package fat12

import (
	"io"
	"os"
	"time"
)

// HostFS is the driver's view of the local filesystem: the collaborator get
// and put use to read/write the host-side copy of a file and to read its
// modification time. The engine in fileio.go does not use it: Insert reads
// from an io.Reader and Extract returns a byte slice, so only the
// command-line utilities touch the host filesystem through HostFS.
type HostFS interface {
	// Exists reports whether name is present in the current directory.
	Exists(name string) bool
	// Open opens name for reading, alongside its size and modification time.
	Open(name string) (io.ReadCloser, int64, time.Time, error)
	// Create creates name for writing; it must not overwrite an existing file.
	Create(name string) (io.WriteCloser, error)
}

// OSHostFS is the default HostFS, backed directly by the os package.
type OSHostFS struct{}

func (OSHostFS) Exists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}

func (OSHostFS) Open(name string) (io.ReadCloser, int64, time.Time, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, 0, time.Time{}, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, time.Time{}, err
	}
	return f, info.Size(), info.ModTime(), nil
}

func (OSHostFS) Create(name string) (io.WriteCloser, error) {
	return os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
}
