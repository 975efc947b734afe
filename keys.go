package cryptodisk

import "crypto/cipher"

// CipherFactory constructs a keyed block cipher from raw key bytes,
// mirroring the external cipher handle's set_key capability (spec
// §6): SetKey treats keying as producing a fresh cipher.Block rather
// than mutating one in place, which is the idiomatic Go shape for
// crypto/cipher's stdlib ciphers.
type CipherFactory func(key []byte) (cipher.Block, error)

// SetKey installs raw key bytes into a descriptor, splitting them into
// primary/secondary/tweak segments according to the descriptor's
// chaining mode and IV scheme, and precomputing the LRW table when
// needed. d.Mode, d.IVMode, and (for ESSIV) d.EssivHash must already
// be set; newCipher constructs the block cipher algorithm this
// descriptor uses.
//
// Errors leave the descriptor partially keyed; callers must discard
// it rather than retry in place (spec §7).
func SetKey(d *Descriptor, key []byte, newCipher CipherFactory) error {
	if err := validateKeySize(key, 1); err != nil {
		return err
	}

	const blockSize = gfBytes // every chaining/tweak mode here assumes a 16-byte block cipher
	realKeysize := len(key)

	switch d.Mode {
	case ModeXTS:
		if realKeysize%2 != 0 {
			return NewValidationError("key", realKeysize, "XTS key size must be even")
		}
		realKeysize /= 2
	case ModeLRW:
		if err := validateKeySize(key, blockSize+1); err != nil {
			return err
		}
		realKeysize -= blockSize
	}

	primary, err := newCipher(key[:realKeysize])
	if err != nil {
		return NewCryptoError("setkey", d.Mode.String(), 0, err)
	}
	d.Cipher = primary

	if d.IVMode == IVESSIV {
		if d.EssivHash == nil {
			return NewValidationError("essiv_hash", nil, "required for ESSIV IV mode")
		}
		h := d.EssivHash()
		h.Write(key)
		essiv, err := newCipher(h.Sum(nil))
		if err != nil {
			return NewCryptoError("setkey", "essiv", 0, err)
		}
		d.EssivCipher = essiv
	}

	switch d.Mode {
	case ModeXTS:
		// Spec note: this span is written as key[real_keysize..real_keysize+keysize/2],
		// but keysize/2 == real_keysize for XTS, so a single expression suffices
		// (REDESIGN FLAG: the two-constant version in the reference implementation
		// was an artifact of an earlier refactor).
		secondary, err := newCipher(key[realKeysize : realKeysize+realKeysize])
		if err != nil {
			return NewCryptoError("setkey", d.Mode.String(), 0, err)
		}
		d.SecondaryCipher = secondary

	case ModeLRW:
		copy(d.LRWKey[:], key[realKeysize:realKeysize+blockSize])
		populateLRWPrecalc(&d.LRWPrecalc, &d.LRWKey)
	}

	return validateDescriptorMode(d)
}

// populateLRWPrecalc fills precalc[k*16:(k+1)*16] with mul_be(idx_k,
// lrwKey) for k = 0..31, where idx_k is the 16-byte value with
// idx_k[15] = k and every other byte zero.
func populateLRWPrecalc(precalc *[32 * gfBytes]byte, lrwKey *[gfBytes]byte) {
	var idx, product [gfBytes]byte
	for k := 0; k < 32; k++ {
		idx = [gfBytes]byte{}
		idx[gfBytes-1] = byte(k)
		mulBE(&product, &idx, lrwKey)
		copy(precalc[k*gfBytes:(k+1)*gfBytes], product[:])
	}
}
