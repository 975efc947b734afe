package cryptodisk

import "crypto/cipher"

// decryptECB decrypts a ciphertext buffer block-by-block; no IV.
func decryptECB(blk cipher.Block, dst, src []byte) error {
	bs := blk.BlockSize()
	for i := 0; i+bs <= len(src); i += bs {
		blk.Decrypt(dst[i:i+bs], src[i:i+bs])
	}
	return nil
}

// decryptCBC decrypts one sector's worth of ciphertext under CBC,
// seeded by iv. iv is read but not mutated. dst and src may alias the
// same buffer; the previous block's ciphertext is saved before each
// in-place decrypt so chaining survives in-place use.
func decryptCBC(blk cipher.Block, dst, src, iv []byte) error {
	bs := blk.BlockSize()
	prev := make([]byte, bs)
	copy(prev, iv)
	saved := make([]byte, bs)
	for i := 0; i+bs <= len(src); i += bs {
		copy(saved, src[i:i+bs])
		blk.Decrypt(dst[i:i+bs], src[i:i+bs])
		xorInto(dst[i:i+bs], prev)
		copy(prev, saved)
	}
	return nil
}

// decryptPCBC decrypts one sector's worth of ciphertext under
// plaintext-chained CBC. iv is mutated in place across blocks, matching
// the reference semantics. Callers must pass a fresh IV per sector.
func decryptPCBC(blk cipher.Block, dst, src, iv []byte) error {
	bs := blk.BlockSize()
	ivt := make([]byte, bs)
	for i := 0; i+bs <= len(src); i += bs {
		copy(ivt, src[i:i+bs])
		blk.Decrypt(dst[i:i+bs], src[i:i+bs])
		xorInto(dst[i:i+bs], iv)
		copy(iv, ivt)
		xorInto(iv, dst[i:i+bs])
	}
	return nil
}

// decryptXTS decrypts one sector under XTS. iv holds the per-sector IV
// on entry; it is encrypted under secondary to form the initial tweak
// and then advanced in GF(2^128) (little-endian bit order) once per
// block. Tweak advancement never continues across sectors; each sector
// re-derives its tweak from iv.
func decryptXTS(primary, secondary cipher.Block, dst, src, iv []byte) error {
	bs := primary.BlockSize()
	tweak := make([]byte, bs)
	secondary.Encrypt(tweak, iv)

	var tweakArr [gfBytes]byte
	copy(tweakArr[:], tweak)

	for i := 0; i+bs <= len(src); i += bs {
		copy(dst[i:i+bs], src[i:i+bs])
		xorInto(dst[i:i+bs], tweakArr[:bs])
		primary.Decrypt(dst[i:i+bs], dst[i:i+bs])
		xorInto(dst[i:i+bs], tweakArr[:bs])
		mulXLE(&tweakArr)
	}
	return nil
}

// lrwSector holds the two GF(2^128) tweaks and block-offset split for a
// single 512-byte sector, derived from the sector's IV per the LRW tweak
// construction (spec §4.4).
type lrwSector struct {
	low, high      [gfBytes]byte
	lowByte        byte // in-sector block offset of the window start
	lowByteBlocks  byte // number of blocks belonging to the low window
}

// gfPerSector is the number of 16-byte GF blocks in one 512-byte sector.
const gfPerSector = SectorSize / gfBytes

// generateLRWSector derives the low/high tweaks for one sector from its
// IV and the descriptor's LRW key, including the carry propagation when
// advancing the index by one sector's worth of GF blocks.
func generateLRWSector(sec *lrwSector, lrwKey *[gfBytes]byte, iv []byte) {
	var idx [gfBytes]byte
	copy(idx[:], iv)

	sec.lowByte = idx[gfBytes-1] & (gfPerSector - 1)
	sec.lowByteBlocks = byte((gfPerSector-1)&^sec.lowByte) + 1
	idx[gfBytes-1] &^= (gfPerSector - 1)

	mulBE(&sec.low, lrwKey, &idx)
	if sec.lowByte == 0 {
		return
	}

	c := uint16(idx[gfBytes-1]) + gfPerSector
	if c&0x100 != 0 {
		for j := gfBytes - 2; j >= 0; j-- {
			idx[j]++
			if idx[j] != 0 {
				break
			}
		}
	}
	idx[gfBytes-1] = byte(c)
	mulBE(&sec.high, lrwKey, &idx)
}

// lrwXor applies (or re-applies) the LRW tweak mask to a whole sector,
// mixing in the descriptor's precalc table at the offsets matching each
// block's position in the stream.
func lrwXor(sec *lrwSector, precalc *[32 * gfBytes]byte, b []byte) {
	lowSpan := int(sec.lowByteBlocks) * gfBytes

	for i := 0; i < lowSpan; i += gfBytes {
		xorInto(b[i:i+gfBytes], sec.low[:])
	}
	xorInto(b[:lowSpan], precalc[gfBytes*int(sec.lowByte):gfBytes*int(sec.lowByte)+lowSpan])

	if sec.lowByte == 0 {
		return
	}

	for i := lowSpan; i < SectorSize; i += gfBytes {
		xorInto(b[i:i+gfBytes], sec.high[:])
	}
	highSpan := int(sec.lowByte) * gfBytes
	xorInto(b[lowSpan:lowSpan+highSpan], precalc[:highSpan])
}

// decryptLRW decrypts one sector under LRW: mask, ECB-decrypt, re-mask.
func decryptLRW(blk cipher.Block, lrwKey *[gfBytes]byte, precalc *[32 * gfBytes]byte, dst, src, iv []byte) error {
	copy(dst, src)

	var sec lrwSector
	generateLRWSector(&sec, lrwKey, iv)
	lrwXor(&sec, precalc, dst)

	if err := decryptECB(blk, dst, dst); err != nil {
		return err
	}

	lrwXor(&sec, precalc, dst)
	return nil
}
