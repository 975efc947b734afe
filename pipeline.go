package cryptodisk

// decryptSectors decrypts src into dst; both must span a whole number
// of SectorSize sectors. startSector is the absolute plaintext sector
// index of src[0:SectorSize].
//
// ECB has no IV and is decrypted as a single pass over the whole
// buffer; every other mode is decrypted sector by sector, each with
// its own freshly generated IV.
func decryptSectors(d *Descriptor, startSector uint64, dst, src []byte) error {
	if len(src) == 0 {
		return nil
	}
	if err := validateSectorAligned(src); err != nil {
		return err
	}
	if len(dst) != len(src) {
		return NewValidationError("dst", len(dst), "must be the same length as src")
	}

	if d.Mode == ModeECB {
		if err := decryptECB(d.Cipher, dst, src); err != nil {
			return NewCryptoError("decrypt", d.Mode.String(), startSector, err)
		}
		return nil
	}

	iv := make([]byte, maxIVSize)
	nsectors := len(src) / SectorSize

	for s := 0; s < nsectors; s++ {
		sector := startSector + uint64(s)
		off := s * SectorSize
		sdst := dst[off : off+SectorSize]
		ssrc := src[off : off+SectorSize]

		if err := generateIV(d, sector, iv); err != nil {
			return err
		}

		var err error
		switch d.Mode {
		case ModeCBC:
			err = decryptCBC(d.Cipher, sdst, ssrc, iv[:d.Cipher.BlockSize()])
		case ModePCBC:
			err = decryptPCBC(d.Cipher, sdst, ssrc, iv[:d.Cipher.BlockSize()])
		case ModeXTS:
			err = decryptXTS(d.Cipher, d.SecondaryCipher, sdst, ssrc, iv[:d.Cipher.BlockSize()])
		case ModeLRW:
			err = decryptLRW(d.Cipher, &d.LRWKey, &d.LRWPrecalc, sdst, ssrc, iv)
		default:
			err = ErrNotImplemented
		}
		if err != nil {
			return NewCryptoError("decrypt", d.Mode.String(), sector, err)
		}
	}

	return nil
}
