// =============================================================================
// SEPA Batch Generator - Message Identifier Module
// =============================================================================
//
// Message identifiers tie one submitted batch to the bank's processing logs,
// so every run mints a fresh one. The layout is fixed:
//
//   ABCDE-20260301174501-k3x9qm2
//   |___| |____________| |_____|
//   prefix timestamp      random suffix
//   5      YYYYMMDDHHMMSS 7 x [a-z0-9]
//
// 28 characters in total. The ids derived from it stay inside the schema's
// 35-character identifier fields: the payment info id appends "-1" (30) and
// each end-to-end id appends a 4-digit index on top of that (exactly 35).
//
// =============================================================================

package sepa

import (
	"math/rand/v2"
	"strings"
	"time"
)

// suffixAlphabet is the 36-symbol set the random suffix draws from.
const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

const (
	prefixLen = 5
	suffixLen = 7
)

// Generator mints message identifiers. The randomness source is owned by
// the generator so tests can seed it; no security property is claimed for
// the suffix, it only has to make collisions between runs unlikely.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a Generator with its own randomness source.
func NewGenerator() *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeededGenerator returns a Generator with reproducible suffixes.
func NewSeededGenerator(seed1, seed2 uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// Generate mints a message id from the prefix and the run timestamp.
// The prefix charset is deliberately not validated.
func (g *Generator) Generate(prefix string, now time.Time) string {
	var b strings.Builder
	b.Grow(prefixLen + 1 + 14 + 1 + suffixLen)
	b.WriteString(normalizePrefix(prefix))
	b.WriteByte('-')
	b.WriteString(now.Format("20060102150405"))
	b.WriteByte('-')
	for i := 0; i < suffixLen; i++ {
		b.WriteByte(suffixAlphabet[g.rng.IntN(len(suffixAlphabet))])
	}
	return b.String()
}

// normalizePrefix forces the id prefix to exactly five characters: longer
// than four takes the first five, anything else is left-padded with zeros.
func normalizePrefix(prefix string) string {
	r := []rune(prefix)
	if len(r) > 4 {
		return string(r[:prefixLen])
	}
	return strings.Repeat("0", prefixLen-len(r)) + prefix
}
