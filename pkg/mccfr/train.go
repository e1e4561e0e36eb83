package mccfr

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/behrlich/holdem-abstractor/pkg/tree"
)

// Train runs epochs full epochs (2*epochs iterations, one per player
// per epoch) of external-sampling MCCFR over t, updating profile in
// place (spec.md §4.F: "epochs() = iterations / 2"). The two players'
// walks within one epoch run concurrently: Profile's locking is
// bucket-level, so the only place they can actually contend is a
// bucket both players' walks visit, which already serializes correctly
// (spec.md §5: "multiple walks in one epoch may run in parallel by
// partitioning over infosets").
func Train(t *tree.Tree, profile *Profile, epochs int) {
	walk := NewTraversal(t, profile)
	for e := 0; e < epochs; e++ {
		g, _ := errgroup.WithContext(context.Background())
		for player := 0; player < 2; player++ {
			g.Go(func() error {
				profile.Next()
				walk.Walk(t.Root, player, 1.0)
				return nil
			})
		}
		_ = g.Wait() // Walk never errors; kept for errgroup's worker-pool shape
	}
}
