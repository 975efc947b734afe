package cryptodisk

import (
	"github.com/google/uuid"
)

// DescriptorBuilder assembles a Descriptor field by field and validates
// it in one place, in the Config-then-Validate idiom: callers set the
// mode, IV scheme, and key material up front, then call Build once.
type DescriptorBuilder struct {
	d   Descriptor
	key []byte
	nc  CipherFactory
	err error
}

// NewDescriptorBuilder starts a builder for a volume using the given
// chaining mode and IV scheme.
func NewDescriptorBuilder(mode ChainMode, ivMode IVMode) *DescriptorBuilder {
	return &DescriptorBuilder{
		d: Descriptor{Mode: mode, IVMode: ivMode},
	}
}

// UUID sets the volume's UUID to raw as given. Registry.Insert later
// rewrites a value that parses as an RFC 4122 UUID into its canonical
// form and keeps any other value verbatim; lookups compare it
// case-insensitively either way.
func (b *DescriptorBuilder) UUID(raw string) *DescriptorBuilder {
	b.d.UUID = raw
	return b
}

// GenerateUUID assigns a fresh random UUID (v4) to the volume, for
// callers that don't already have one from an on-disk header.
func (b *DescriptorBuilder) GenerateUUID() *DescriptorBuilder {
	b.d.UUID = uuid.NewString()
	return b
}

// Offset sets the backing-disk sector offset where the encrypted
// region begins.
func (b *DescriptorBuilder) Offset(sectors uint64) *DescriptorBuilder {
	b.d.Offset = sectors
	return b
}

// TotalSectors sets the number of plaintext sectors the volume exposes.
func (b *DescriptorBuilder) TotalSectors(sectors uint64) *DescriptorBuilder {
	b.d.TotalSectors = sectors
	return b
}

// BenbiLog sets the shift amount used by the BENBI IV scheme.
func (b *DescriptorBuilder) BenbiLog(shift uint) *DescriptorBuilder {
	b.d.BenbiLog = shift
	return b
}

// IVPrefix sets the prefix hashed ahead of the sector offset under the
// BYTECOUNT64_HASH IV scheme.
func (b *DescriptorBuilder) IVPrefix(prefix []byte) *DescriptorBuilder {
	b.d.IVPrefix = prefix
	return b
}

// IVHash sets the hash factory used by the BYTECOUNT64_HASH IV scheme.
func (b *DescriptorBuilder) IVHash(h HashFactory) *DescriptorBuilder {
	b.d.IVHash = h
	return b
}

// EssivHash sets the hash factory used to derive the ESSIV cipher's key
// from the main key.
func (b *DescriptorBuilder) EssivHash(h HashFactory) *DescriptorBuilder {
	b.d.EssivHash = h
	return b
}

// Key records the raw key bytes and the cipher constructor SetKey will
// use to install them once Build runs validation.
func (b *DescriptorBuilder) Key(key []byte, newCipher CipherFactory) *DescriptorBuilder {
	b.key = key
	b.nc = newCipher
	return b
}

// Build installs the key material and validates the assembled
// Descriptor, returning it only if every mode-specific invariant
// (secondary cipher present for XTS, ESSIV hash present for ESSIV, ...)
// holds.
func (b *DescriptorBuilder) Build() (*Descriptor, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.nc == nil {
		return nil, NewValidationError("cipher_factory", nil, "Key must be called before Build")
	}

	d := b.d
	if err := SetKey(&d, b.key, b.nc); err != nil {
		return nil, err
	}
	return &d, nil
}
