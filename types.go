package cryptodisk

import (
	"crypto/cipher"
	"hash"
)

// ChainMode is the block-cipher chaining mode used to decrypt a sector.
type ChainMode uint8

const (
	// ModeECB decrypts each block independently; no IV.
	ModeECB ChainMode = iota
	// ModeCBC chains ciphertext blocks through XOR with the previous
	// block's ciphertext, seeded by the per-sector IV.
	ModeCBC
	// ModePCBC XORs the running IV with both ciphertext and plaintext.
	ModePCBC
	// ModeXTS encrypts a per-sector tweak with a secondary cipher and
	// XORs it around each block, advancing the tweak in GF(2^128).
	ModeXTS
	// ModeLRW derives a per-block tweak from a precomputed GF(2^128)
	// table keyed by a dedicated tweak key.
	ModeLRW
)

// String returns the name of the chaining mode.
func (m ChainMode) String() string {
	switch m {
	case ModeECB:
		return "ecb"
	case ModeCBC:
		return "cbc"
	case ModePCBC:
		return "pcbc"
	case ModeXTS:
		return "xts"
	case ModeLRW:
		return "lrw"
	default:
		return "unknown"
	}
}

// IVMode selects how the per-sector initialization vector is derived.
type IVMode uint8

const (
	// IVNull leaves the IV all-zero.
	IVNull IVMode = iota
	// IVPlain32 writes the low 32 bits of the sector number, little-endian.
	IVPlain32
	// IVPlain64 writes the full 64-bit sector number, little-endian.
	IVPlain64
	// IVBenbi writes a big-endian shifted-and-incremented counter into
	// the last 8 bytes of the IV.
	IVBenbi
	// IVESSIV encrypts a Plain32 IV under a key derived by hashing the
	// main key.
	IVESSIV
	// IVBytecount64Hash hashes a prefix plus the byte offset of the
	// sector and truncates the digest to the IV buffer.
	IVBytecount64Hash
)

// String returns the name of the IV scheme.
func (m IVMode) String() string {
	switch m {
	case IVNull:
		return "null"
	case IVPlain32:
		return "plain32"
	case IVPlain64:
		return "plain64"
	case IVBenbi:
		return "benbi"
	case IVESSIV:
		return "essiv"
	case IVBytecount64Hash:
		return "bytecount64-hash"
	default:
		return "unknown"
	}
}

// PullPhase mirrors the disk-device layer's iteration phase, which
// controls whether a device-enumeration pass should produce results
// immediately or defer to a later, explicit "pull" of removable media.
type PullPhase string

const (
	// PullPhaseNone is the only phase this core answers: a normal,
	// non-deferred enumeration pass.
	PullPhaseNone PullPhase = "none"
	// PullPhaseRemovable and other non-"none" phases exist only so
	// callers can model the external disk layer's calling convention;
	// Iterate returns immediately without invoking hook for any of them.
	PullPhaseRemovable PullPhase = "removable"
)

// SectorSize is the fixed size, in bytes, of every plaintext and
// ciphertext sector handled by the pipeline.
const SectorSize = 512

// gfBytes is the width, in bytes, of a GF(2^128) element, also the
// block size this core is built around (AES's 16 bytes).
const gfBytes = 16

// maxIVSize upper-bounds the stack-sized IV buffer; real block sizes
// this core will ever see are 16 bytes, but the buffer is reserved
// generously to avoid dynamic allocation on the hot path.
const maxIVSize = 32

// HashFactory produces a fresh hash.Hash instance, mirroring the
// init/write/final/read capability set of the hash handle in the
// external-interfaces contract: a new instance per call models
// independent init/finalize lifecycles without exposing reset races.
type HashFactory func() hash.Hash

// Descriptor holds everything needed to decrypt one registered volume.
//
// (Mode, IVMode, Cipher) are fixed from Insert to removal. The
// mode-specific fields below are only populated, and only ever read,
// for the modes that require them; validateDescriptorMode enforces this
// structurally in place of runtime dispatch on missing pointers.
type Descriptor struct {
	// ID is assigned by the registry on Insert.
	ID uint32
	// UUID is the textual volume identifier, compared case-insensitively.
	UUID string
	// SourceName is the backing-disk name string recorded at Insert.
	SourceName string
	// SourceID and SourceDevID cache the backing disk's identity at
	// insertion time, for reverse lookup by GetBySourceDisk.
	SourceID, SourceDevID uint64
	// SourceDisk is the opened backing disk; nil when Ref == 0.
	SourceDisk BackingDisk

	// Offset is the sector index on the backing disk where the
	// encrypted region begins.
	Offset uint64
	// TotalSectors is the number of plaintext sectors this volume exposes.
	TotalSectors uint64
	// Ref counts open handles; the backing disk is released at zero.
	Ref int

	Mode   ChainMode
	IVMode IVMode

	// Cipher is the primary block cipher. Its BlockSize() must divide
	// SectorSize.
	Cipher cipher.Block
	// SecondaryCipher is present iff Mode == ModeXTS.
	SecondaryCipher cipher.Block
	// EssivCipher is present iff IVMode == IVESSIV.
	EssivCipher cipher.Block

	// IVHash is used by IVBytecount64Hash.
	IVHash HashFactory
	// EssivHash derives the ESSIV cipher's key from the main key.
	EssivHash HashFactory

	// IVPrefix is fed to IVHash ahead of the sector's byte offset.
	IVPrefix []byte
	// BenbiLog is the shift amount used by IVBenbi.
	BenbiLog uint

	// LRWKey is the 16-byte tweak key, present iff Mode == ModeLRW.
	LRWKey [gfBytes]byte
	// LRWPrecalc holds 32 precomputed 16-byte GF(2^128) products,
	// present iff Mode == ModeLRW.
	LRWPrecalc [32 * gfBytes]byte
}

// BackingDisk is the capability set this core consumes to read
// ciphertext sectors from the disk underneath a registered volume.
type BackingDisk interface {
	// ID and DeviceID identify the disk for reverse lookup by
	// Registry.GetBySourceDisk; they are opaque to this package.
	ID() uint64
	DeviceID() uint64
	// ReadSectors reads count sectors of SectorSize bytes starting at
	// the given absolute sector index into buf.
	ReadSectors(sector uint64, count uint64, buf []byte) error
}

// BackingDiskProvider opens and closes named backing disks on demand.
type BackingDiskProvider interface {
	Open(name string) (BackingDisk, error)
	Close(disk BackingDisk)
}
