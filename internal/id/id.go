// Package id generates platform-style opaque identifiers and message keys.
//
// Entity identifiers carry a short kind prefix followed by a fixed
// random uppercase alphanumeric suffix (e.g. "T8F3K2Q9Z", "C0PNCRP9N").
// Message keys are "<unix-seconds>.<microseconds>" strings that are
// strictly increasing per channel, even for back-to-back calls inside the
// same microsecond. Uniqueness is probabilistic for entity IDs (callers
// must not assume cryptographic strength) and guaranteed per channel for
// message keys.
package id

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Kind selects the prefix of a generated entity identifier.
type Kind string

// Identifier kinds understood by New.
const (
	KindWorkspace Kind = "T"
	KindUser      Kind = "U"
	KindChannel   Kind = "C"
	KindIM        Kind = "D"
	KindGroup     Kind = "G"
	KindApp       Kind = "A"
	KindEvent     Kind = "Ev"
	KindBot       Kind = "B"
)

const (
	suffixLen      = 8
	suffixAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// New returns a fresh identifier of the given kind: the kind prefix plus
// eight random uppercase alphanumerics.
func New(kind Kind) string {
	var b strings.Builder
	b.Grow(len(kind) + suffixLen)
	b.WriteString(string(kind))
	for i := 0; i < suffixLen; i++ {
		b.WriteByte(suffixAlphabet[rand.Intn(len(suffixAlphabet))])
	}
	return b.String()
}

// Generator issues monotonically increasing message keys per channel.
// The zero value is not usable; construct with NewGenerator.
//
// The per-channel high-water mark is the only state; it is owned
// exclusively by this type and accessed under a single mutex.
type Generator struct {
	mu   sync.Mutex
	last map[string]struct{ sec, usec int64 }

	// now is a seam for tests; defaults to time.Now.
	now func() time.Time
}

// NewGenerator returns a ready-to-use message key generator.
func NewGenerator() *Generator {
	return &Generator{
		last: make(map[string]struct{ sec, usec int64 }),
		now:  time.Now,
	}
}

// MessageKey returns the next message key for channelID, formatted as
// "<unix-seconds>.<six-digit microseconds>". The result is strictly
// greater than every key previously issued for that channel: when the
// clock has not advanced past the last key, the microsecond component is
// bumped instead (rolling into the seconds on overflow).
func (g *Generator) MessageKey(channelID string) string {
	t := g.now()
	sec, usec := t.Unix(), int64(t.Nanosecond()/1000)

	g.mu.Lock()
	if prev, ok := g.last[channelID]; ok {
		if sec < prev.sec || (sec == prev.sec && usec <= prev.usec) {
			sec, usec = prev.sec, prev.usec+1
			if usec >= 1_000_000 {
				sec, usec = sec+1, 0
			}
		}
	}
	g.last[channelID] = struct{ sec, usec int64 }{sec, usec}
	g.mu.Unlock()

	return fmt.Sprintf("%d.%06d", sec, usec)
}
