package equity

import (
	"github.com/behrlich/holdem-abstractor/pkg/cards"
	"github.com/behrlich/holdem-abstractor/pkg/notation"
)

// Percentile buckets hero's exact river equity against opponentRange
// into one of buckets equal-width bins, used to fabricate the River
// Lookup directly rather than by clustering (spec.md §4.D item 5: the
// finest street has no coarser street to project from, so its
// abstraction is an exact equity quantile, not a learned cluster).
func Percentile(hero []cards.Card, board []cards.Card, opponentRange []notation.Combo, buckets int) int {
	if buckets <= 0 {
		panic("equity: Percentile requires buckets > 0")
	}
	c := NewCalculator()
	result := c.CalculateEquity(hero, board, opponentRange)
	bucket := int(result.Equity * float64(buckets))
	if bucket >= buckets {
		bucket = buckets - 1
	}
	if bucket < 0 {
		bucket = 0
	}
	return bucket
}
