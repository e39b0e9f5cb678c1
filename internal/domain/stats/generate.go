package stats

import (
	"crypto/md5" //nolint:gosec // seed derivation, not a security boundary
	"encoding/binary"
	"encoding/hex"
)

// Generate derives the StatSet for name. It is a pure function: the same name
// always yields the same scores. Any string, including "", is accepted.
func Generate(name string) StatSet {
	rng := &mt19937{}
	rng.seedArray(seedKey(md5.Sum([]byte(name)))) //nolint:gosec // see import

	var s StatSet
	for i := range categories {
		s.values[i] = int(rng.below(MaxScore + 1))
	}
	return s
}

// Digest returns the lowercase hex MD5 of name. Chart artifacts are keyed by it.
func Digest(name string) string {
	sum := md5.Sum([]byte(name)) //nolint:gosec // see import
	return hex.EncodeToString(sum[:])
}

// seedKey splits the digest, read as a big-endian integer, into little-endian
// 32-bit words and trims high zero words. At least one word is returned.
func seedKey(sum [md5.Size]byte) []uint32 {
	const words = md5.Size / 4
	key := make([]uint32, words)
	for i := 0; i < words; i++ {
		off := md5.Size - 4*(i+1)
		key[i] = binary.BigEndian.Uint32(sum[off : off+4])
	}
	n := words
	for n > 1 && key[n-1] == 0 {
		n--
	}
	return key[:n]
}
