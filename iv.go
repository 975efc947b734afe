package cryptodisk

import "encoding/binary"

// generateIV fills iv[:blockSize] with the per-sector initialization
// vector for the descriptor's IV scheme, given the absolute plaintext
// sector index. iv must be at least blockSize bytes and is zeroed
// before being overlaid.
func generateIV(d *Descriptor, sector uint64, iv []byte) error {
	blockSize := d.Cipher.BlockSize()
	for i := range iv[:blockSize] {
		iv[i] = 0
	}

	switch d.IVMode {
	case IVNull:
		// already zero

	case IVPlain32:
		binary.LittleEndian.PutUint32(iv[0:4], uint32(sector))

	case IVPlain64:
		binary.LittleEndian.PutUint32(iv[0:4], uint32(sector))
		binary.LittleEndian.PutUint32(iv[4:8], uint32(sector>>32))

	case IVBenbi:
		num := (sector << d.BenbiLog) + 1
		binary.BigEndian.PutUint64(iv[blockSize-8:blockSize], num)

	case IVESSIV:
		binary.LittleEndian.PutUint32(iv[0:4], uint32(sector))
		d.EssivCipher.Encrypt(iv[:blockSize], iv[:blockSize])

	case IVBytecount64Hash:
		h := d.IVHash()
		h.Write(d.IVPrefix)
		var offset [8]byte
		binary.LittleEndian.PutUint64(offset[:], sector<<9)
		h.Write(offset[:])
		digest := h.Sum(nil)
		n := copy(iv[:blockSize], digest)
		for ; n < blockSize; n++ {
			iv[n] = 0
		}

	default:
		return NewCryptoError("iv", d.IVMode.String(), sector, ErrNotImplemented)
	}

	return nil
}
