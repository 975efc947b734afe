package cryptodisk

import (
	"crypto/sha256"
	"crypto/sha512"
	"hash"

	"golang.org/x/crypto/blake2b"
)

// SHA256Hash is a HashFactory suitable for ESSIV or BYTECOUNT64_HASH,
// grounded on the reference design's hash handle contract (spec §6):
// any fixed-digest hash with init/write/final/read semantics fits,
// and crypto/sha256 is the common ESSIV choice on real LUKS volumes.
func SHA256Hash() hash.Hash {
	return sha256.New()
}

// SHA512Hash is a HashFactory for volumes configured with a wider
// digest, typically paired with BYTECOUNT64_HASH.
func SHA512Hash() hash.Hash {
	return sha512.New()
}

// Blake2b256Hash is an alternate HashFactory using BLAKE2b-256, offered
// for volumes configured with it as their IV or ESSIV hash.
func Blake2b256Hash() hash.Hash {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only errors on a too-long key; nil key never does.
		panic(err)
	}
	return h
}
