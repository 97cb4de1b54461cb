// Package rng derives seedable, deterministic random sources for one
// game session. The engine never reads global RNG state (§9 design
// notes); every session gets its own *rand.Rand handle.
package rng

import (
	"encoding/binary"
	"math/rand"

	"lukechampine.com/blake3"
)

// New returns a deterministic RNG seeded directly from seed.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// SeedFromMaterial derives a reproducible int64 seed from arbitrary
// session material (e.g. a registration order + start time string) by
// hashing it with BLAKE3 and reading the first 8 bytes of the digest,
// mirroring the teacher's hashBLAKE3 identity-derivation pattern in
// db.go.
func SeedFromMaterial(material []byte) int64 {
	sum := blake3.Sum256(material)
	return int64(binary.LittleEndian.Uint64(sum[:8]))
}

// NewFromMaterial is a convenience wrapper combining SeedFromMaterial
// and New.
func NewFromMaterial(material []byte) *rand.Rand {
	return New(SeedFromMaterial(material))
}

// GameID derives a stable, hex-encoded session identifier from the
// session's RNG seed, so replaying a recorded action sequence against
// the same seed reproduces an identical gameID for log correlation
// (§D.4).
func GameID(seed int64) string {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(seed))
	sum := blake3.Sum256(buf[:])
	const hexDigits = "0123456789abcdef"
	out := make([]byte, 16)
	for i, b := range sum[:8] {
		out[i*2] = hexDigits[b>>4]
		out[i*2+1] = hexDigits[b&0x0f]
	}
	return string(out)
}
