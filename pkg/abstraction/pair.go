package abstraction

import (
	"fmt"

	"github.com/behrlich/holdem-abstractor/pkg/notation"
)

// Pair is an unordered pair of same-street abstractions, used as the
// persistent key of a Metric (spec.md §3). Pair(a, a) is never
// constructed: self-distance is 0 by definition and is never stored.
type Pair struct {
	street   notation.Street
	lo, hi   int // lo < hi, both indices on street
}

// NewPair canonicalizes an unordered pair of abstractions. It panics if
// a and b are on different streets (a Metric only ever relates
// abstractions within one street's codebook) or if a == b (self-pairs
// are not representable; callers should special-case distance(a,a)=0
// before reaching for a Pair).
func NewPair(a, b Abstraction) Pair {
	if a.street != b.street {
		panic("abstraction: Pair requires both abstractions on the same street")
	}
	if a.index == b.index {
		panic("abstraction: Pair requires distinct abstractions")
	}
	lo, hi := a.index, b.index
	if lo > hi {
		lo, hi = hi, lo
	}
	return Pair{street: a.street, lo: lo, hi: hi}
}

// Encode maps a Pair bijectively to an int64: street in the high byte,
// then the low and high index each packed into 28 bits. This is an
// exact closed-form bijection (spec.md §6's requirement), not a hash.
func (p Pair) Encode() int64 {
	return int64(p.street)<<56 | int64(p.lo)<<28 | int64(p.hi)
}

// DecodePair inverts Encode.
func DecodePair(v int64) Pair {
	street := notation.Street(uint64(v) >> 56)
	lo := int((v >> 28) & 0x0FFFFFFF)
	hi := int(v & 0x0FFFFFFF)
	return Pair{street: street, lo: lo, hi: hi}
}

func (p Pair) String() string {
	return fmt.Sprintf("Pair(%s, %d, %d)", p.street, p.lo, p.hi)
}
