// Package cryptodisk implements the read path of a GRUB-style
// block-level cryptodisk: it turns ciphertext sectors on a backing
// disk into plaintext sectors, covering IV generation, block-cipher
// chaining (including XTS and LRW tweak arithmetic over GF(2^128)),
// key installation, and a device registry mapping logical names to
// backing disks.
//
// # Overview
//
// A volume is described by a Descriptor: a chaining mode, an IV
// scheme, and the cipher handles those require. Descriptors are
// registered with a Registry, which assigns each an ID and allows
// lookup by "crypto<id>" or "cryptouuid/<uuid>" name syntax. Opening a
// registered volume through a Device yields a ref-counted Handle whose
// Read decrypts on the fly; Write always fails, since this core never
// implements the write path.
//
// # Basic Usage
//
//	reg := cryptodisk.NewRegistry(diskProvider)
//	d := &cryptodisk.Descriptor{
//		UUID:   "9b1f...-uuid",
//		Mode:   cryptodisk.ModeXTS,
//		IVMode: cryptodisk.IVPlain64,
//	}
//	if err := cryptodisk.SetKey(d, rawKey, cryptodisk.CipherFactory(aes.NewCipher)); err != nil {
//		// key installation failed; discard d
//	}
//	if err := reg.Insert(d, "ata0", sourceDisk); err != nil {
//		// ...
//	}
//
//	dev := cryptodisk.NewDevice(reg)
//	h, err := dev.Open("crypto0")
//	// ...
//	buf := make([]byte, cryptodisk.SectorSize*4)
//	err = dev.Read(h, 0, 4, buf)
//	dev.Close(h)
//
// # Chaining modes and IV schemes
//
// Five chaining modes (ECB, CBC, PCBC, XTS, LRW) combine with six IV
// schemes (null, plain32, plain64, benbi, ESSIV, bytecount64-hash) to
// match the on-disk volume's configuration; see ChainMode and IVMode.
// XTS and LRW additionally derive per-block tweaks in GF(2^128); see
// mulXLE, mulXBE, and mulBE in gf.go.
//
// # Concurrency
//
// This core is single-threaded and non-reentrant by design, matching
// its origin as boot-time block I/O code: Registry, Device, and
// Descriptor are not safe for concurrent use. Callers needing
// concurrent access must serialize it themselves.
//
// # Security
//
// This package decrypts; it does not authenticate. A corrupted or
// malicious ciphertext sector decrypts to garbage rather than being
// rejected: there is no MAC or AEAD tag in any of these chaining
// modes. Header parsing, key derivation from a passphrase, and
// protection of key material in memory are all the caller's
// responsibility; this package only ever sees already-derived raw key
// bytes.
package cryptodisk
