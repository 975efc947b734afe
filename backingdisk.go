package cryptodisk

import (
	"fmt"
	"io"
	"os"

	"github.com/absfs/absfs"
)

// AbsfsBackingDisk adapts an absfs.File to the BackingDisk capability
// set, reading raw ciphertext sectors via Seek+Read. id/devID are
// caller-assigned opaque identifiers, mirroring grub_disk_t's
// disk->id/disk->dev->id pair used for reverse lookup by source.
type AbsfsBackingDisk struct {
	file  absfs.File
	id    uint64
	devID uint64
}

// NewAbsfsBackingDisk wraps an already-opened absfs.File.
func NewAbsfsBackingDisk(file absfs.File, id, devID uint64) *AbsfsBackingDisk {
	return &AbsfsBackingDisk{file: file, id: id, devID: devID}
}

func (a *AbsfsBackingDisk) ID() uint64       { return a.id }
func (a *AbsfsBackingDisk) DeviceID() uint64 { return a.devID }

// ReadSectors reads count*SectorSize bytes starting at the given
// absolute sector index into buf.
func (a *AbsfsBackingDisk) ReadSectors(sector uint64, count uint64, buf []byte) error {
	want := count * SectorSize
	if uint64(len(buf)) < want {
		return NewValidationError("buf", len(buf), "too small for requested sector count")
	}

	off := int64(sector * SectorSize)
	if _, err := a.file.Seek(off, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seek: %v", ErrIO, err)
	}
	if _, err := io.ReadFull(a.file, buf[:want]); err != nil {
		return fmt.Errorf("%w: %v", ErrReadError, err)
	}
	return nil
}

// AbsfsProvider opens named volumes as files on an absfs.FileSystem,
// assigning each a distinct ID from a shared device ID.
type AbsfsProvider struct {
	fs      absfs.FileSystem
	devID   uint64
	nextID  uint64
}

// NewAbsfsProvider returns a BackingDiskProvider backed by fs; devID
// identifies the filesystem itself for Descriptor.SourceDevID.
func NewAbsfsProvider(fs absfs.FileSystem, devID uint64) *AbsfsProvider {
	return &AbsfsProvider{fs: fs, devID: devID}
}

func (p *AbsfsProvider) Open(name string) (BackingDisk, error) {
	f, err := p.fs.OpenFile(name, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	p.nextID++
	return NewAbsfsBackingDisk(f, p.nextID, p.devID), nil
}

func (p *AbsfsProvider) Close(disk BackingDisk) {
	if a, ok := disk.(*AbsfsBackingDisk); ok {
		a.file.Close()
	}
}
