// Package faultinject manufactures invalid work items for exercising failure
// paths. Corruption is driven by a seeded generator, so a given seed, offset
// and identifier always produce the same output.
package faultinject

import (
	"math/rand/v2"
)

// Sentinel replaces corrupted characters. It is not valid in a URL host.
const Sentinel = '^'

// DefaultOffset skips the "http://" prefix so the scheme stays intact
const DefaultOffset = len("http://")

// Corrupt replaces count distinct characters at or after offset with
// Sentinel. Positions are drawn from a PCG generator seeded with seed.
// A count larger than the available span corrupts the whole span; an offset
// at or past the end returns id unchanged.
func Corrupt(id string, count, offset int, seed uint64) string {
	if offset < 0 {
		offset = 0
	}

	b := []byte(id)
	span := len(b) - offset
	if count <= 0 || span <= 0 {
		return id
	}
	if count > span {
		count = span
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	// Partial Fisher-Yates over the candidate positions
	positions := make([]int, span)
	for i := range positions {
		positions[i] = offset + i
	}
	for i := 0; i < count; i++ {
		j := i + rng.IntN(span-i)
		positions[i], positions[j] = positions[j], positions[i]
		b[positions[i]] = Sentinel
	}

	return string(b)
}

// Injector corrupts one item of a batch
type Injector struct {
	// Index of the batch item to corrupt
	Index int

	// Count of characters to replace
	Count int

	// Offset of the first character eligible for replacement
	Offset int

	// Seed for the position generator
	Seed uint64
}

// Apply returns a copy of ids with ids[Index] corrupted. An index outside
// the batch returns an unmodified copy.
func (in Injector) Apply(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)

	if in.Index < 0 || in.Index >= len(out) {
		return out
	}
	out[in.Index] = Corrupt(out[in.Index], in.Count, in.Offset, in.Seed)

	return out
}

// Corrupted reports whether id contains the sentinel character
func Corrupted(id string) bool {
	for i := 0; i < len(id); i++ {
		if id[i] == Sentinel {
			return true
		}
	}
	return false
}
