package store

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// SeedFromPhrase derives a 64-bit seed from an arbitrary phrase so
// deployments can pin the random-pick stream with a memorable string
// instead of a raw integer.
func SeedFromPhrase(phrase string) uint64 {
	sum := blake2b.Sum256([]byte(phrase))
	return binary.BigEndian.Uint64(sum[:8])
}

// The pick methods consume the DB's seeded stream under the transaction
// lock, so a given seed always yields the same sequence relative to the
// committed command order.

// PickOne returns one index in [0, n). n must be positive.
func (tx *Tx) PickOne(n int) int {
	return tx.db.rng.Intn(n)
}

// PickDistinct returns up to count distinct indexes in [0, n), in random
// order (a sample without replacement).
func (tx *Tx) PickDistinct(count, n int) []int {
	if count > n {
		count = n
	}
	if count <= 0 {
		return nil
	}
	return tx.db.rng.Perm(n)[:count]
}

// PickRepeated returns exactly count indexes in [0, n), duplicates
// allowed (a sample with replacement).
func (tx *Tx) PickRepeated(count, n int) []int {
	if count <= 0 || n <= 0 {
		return nil
	}
	out := make([]int, count)
	for i := range out {
		out[i] = tx.db.rng.Intn(n)
	}
	return out
}
