package crypto

import (
	"encoding/hex"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// HashSize is the width in bytes of every digest produced by this package.
const HashSize = 32

// Keccak256Hash computes the keccak-256 digest of data as a fixed-width array.
func Keccak256Hash(data []byte) [HashSize]byte {
	var h [HashSize]byte
	copy(h[:], ethcrypto.Keccak256(data))
	return h
}

// HashToHex renders a digest as a lowercase hex string.
func HashToHex(h [HashSize]byte) string {
	return hex.EncodeToString(h[:])
}

// HexToHash parses a lowercase or uppercase hex string into a digest.
// The input must encode exactly HashSize bytes.
func HexToHash(s string) ([HashSize]byte, error) {
	var h [HashSize]byte
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, err
	}
	if len(b) != HashSize {
		return h, ErrInvalidHashLength
	}
	copy(h[:], b)
	return h, nil
}

// LeadingHexZeros counts the leading '0' characters in the hex rendering of h,
// i.e. the number of leading zero nibbles of the digest.
func LeadingHexZeros(h [HashSize]byte) int {
	count := 0
	for _, b := range h {
		if b>>4 != 0 {
			return count
		}
		count++
		if b&0x0f != 0 {
			return count
		}
		count++
	}
	return count
}
