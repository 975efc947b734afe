package cryptodisk

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Registry maintains the head-inserted, ordered list of registered
// descriptors and assigns each one a monotonically increasing ID.
//
// Per spec, this core is single-threaded and non-reentrant: the
// registry, its id counter, and every descriptor's Ref are mutated
// without locking because there is exactly one logical caller.
// Registry is not safe for concurrent use.
type Registry struct {
	head *registryEntry
	next uint32
	disks BackingDiskProvider
}

type registryEntry struct {
	desc *Descriptor
	next *registryEntry
}

// NewRegistry returns an empty registry that opens backing disks
// through disks.
func NewRegistry(disks BackingDiskProvider) *Registry {
	return &Registry{disks: disks}
}

// Insert validates d's mode-specific invariants (a missing secondary
// cipher on XTS, a missing essiv hash on ESSIV, and so on), then
// assigns d an ID, records the backing disk's identity, and prepends
// d to the registry's list. The identity is taken from sourceDisk when
// it is non-nil; sourceDisk is neither stored in d.SourceDisk nor
// opened here. Open opens the backing disk by sourceName on first use.
func (r *Registry) Insert(d *Descriptor, sourceName string, sourceDisk BackingDisk) error {
	if d == nil {
		return NewValidationError("descriptor", nil, "must not be nil")
	}
	if err := validateDescriptorMode(d); err != nil {
		return err
	}

	d.SourceName = sourceName
	d.ID = r.next
	r.next++
	if sourceDisk != nil {
		d.SourceID = sourceDisk.ID()
		d.SourceDevID = sourceDisk.DeviceID()
	}
	if d.UUID != "" {
		if parsed, err := uuid.Parse(d.UUID); err == nil {
			d.UUID = parsed.String()
		}
		// An unparseable UUID is kept as-is: spec §4.6 only requires
		// case-insensitive string comparison, not RFC-4122 validity.
	}

	r.head = &registryEntry{desc: d, next: r.head}
	return nil
}

// GetByUUID returns the descriptor whose UUID matches uuid
// case-insensitively, or nil if none is registered.
func (r *Registry) GetByUUID(id string) *Descriptor {
	for e := r.head; e != nil; e = e.next {
		if strings.EqualFold(e.desc.UUID, id) {
			return e.desc
		}
	}
	return nil
}

// GetBySourceDisk returns the descriptor registered against the given
// backing-disk identity, or nil if none matches.
func (r *Registry) GetBySourceDisk(sourceID, sourceDevID uint64) *Descriptor {
	for e := r.head; e != nil; e = e.next {
		if e.desc.SourceID == sourceID && e.desc.SourceDevID == sourceDevID {
			return e.desc
		}
	}
	return nil
}

// Cleanup discards every registered descriptor. It does not close
// backing disks still open with Ref > 0; callers are expected to have
// closed all handles first. The id counter is unaffected, matching the
// reference design's module-global counter surviving a list teardown.
func (r *Registry) Cleanup() {
	r.head = nil
}

// Iterate calls hook with the "crypto<id>" name of every registered
// descriptor, in list order, stopping early if hook returns false.
// For any pull phase other than PullPhaseNone, Iterate returns
// immediately without calling hook: this core never defers to a later
// pull of removable media.
func (r *Registry) Iterate(hook func(name string) bool, pull PullPhase) {
	if pull != PullPhaseNone {
		return
	}
	for e := r.head; e != nil; e = e.next {
		if !hook(fmt.Sprintf("crypto%d", e.desc.ID)) {
			return
		}
	}
}

// lookup finds a descriptor by the crypto<id> / cryptouuid/<uuid> name
// syntax, or returns nil if none matches.
func (r *Registry) lookup(name string) *Descriptor {
	switch {
	case strings.HasPrefix(name, "cryptouuid/"):
		uuid := name[len("cryptouuid/"):]
		for e := r.head; e != nil; e = e.next {
			if strings.EqualFold(e.desc.UUID, uuid) {
				return e.desc
			}
		}

	case strings.HasPrefix(name, "crypto"):
		id, err := strconv.ParseUint(name[len("crypto"):], 0, 32)
		if err != nil {
			return nil
		}
		for e := r.head; e != nil; e = e.next {
			if uint64(e.desc.ID) == id {
				return e.desc
			}
		}
	}
	return nil
}

// Handle is a caller's reference to an opened registered volume.
type Handle struct {
	Descriptor   *Descriptor
	TotalSectors uint64
	ID           uint32
}

// Open resolves name to a registered descriptor, opening its backing
// disk on first use, and returns a ref-counted handle onto it.
func (r *Registry) Open(name string) (*Handle, error) {
	d := r.lookup(name)
	if d == nil {
		return nil, NewDeviceError("open", name, ErrUnknownDevice)
	}

	if d.SourceDisk == nil {
		disk, err := r.disks.Open(d.SourceName)
		if err != nil {
			return nil, NewDeviceError("open", name, err)
		}
		d.SourceDisk = disk
	}

	d.Ref++
	return &Handle{Descriptor: d, TotalSectors: d.TotalSectors, ID: d.ID}, nil
}

// Close decrements h's descriptor's ref count, closing the backing
// disk once it reaches zero.
func (r *Registry) Close(h *Handle) {
	d := h.Descriptor
	d.Ref--
	if d.Ref != 0 {
		return
	}
	r.disks.Close(d.SourceDisk)
	d.SourceDisk = nil
}

// Read reads count sectors starting at the logical sector index into
// buf, then decrypts buf in place.
func (r *Registry) Read(h *Handle, sector uint64, count uint64, buf []byte) error {
	d := h.Descriptor
	want := count * SectorSize
	if uint64(len(buf)) != want {
		return NewValidationError("buf", len(buf), "must be count*SectorSize bytes")
	}

	if err := d.SourceDisk.ReadSectors(sector+d.Offset, count, buf); err != nil {
		return NewDeviceError("read", d.SourceName, fmt.Errorf("%w: %v", ErrReadError, err))
	}

	return decryptSectors(d, sector, buf, buf)
}

// Write always fails: this core implements a read-only cryptodisk.
func (r *Registry) Write(h *Handle, sector uint64, count uint64, buf []byte) error {
	return NewDeviceError("write", h.Descriptor.SourceName, ErrNotImplementedYet)
}
