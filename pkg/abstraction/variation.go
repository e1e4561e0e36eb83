package abstraction

// VariationDistance computes half the L1 distance between two Percent
// histograms' densities over their combined equity-bucket support
// (spec.md §4.C). Unlike Sinkhorn this needs no ground metric: equity
// buckets are already linearly ordered integers, so the plain
// total-variation distance is the contract.
func VariationDistance(source, target Histogram) Energy {
	a := source.Normalize()
	b := target.Normalize()

	seen := make(map[Abstraction]struct{})
	total := 0.0
	for _, x := range a.Support() {
		seen[x] = struct{}{}
	}
	for _, x := range b.Support() {
		seen[x] = struct{}{}
	}
	for x := range seen {
		diff := a.Density(x) - b.Density(x)
		if diff < 0 {
			diff = -diff
		}
		total += diff
	}
	return total / 2
}
