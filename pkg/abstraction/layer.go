package abstraction

import (
	"context"
	"math"
	"math/rand"
	"runtime"

	"github.com/behrlich/holdem-abstractor/pkg/deal"
	"github.com/behrlich/holdem-abstractor/pkg/equity"
	"github.com/behrlich/holdem-abstractor/pkg/notation"
	"golang.org/x/sync/errgroup"
)

// LayerConfig holds the per-street hyperparameters that drive a
// Layer's k-means clustering and lookup/decomposition fabrication
// (spec.md §4.D, §9).
type LayerConfig struct {
	K             int // centroid count, flop/turn only
	T             int // Lloyd iteration count; defaults to 100
	Seed          int64
	Sinkhorn      SinkhornParams   // carried only; Metric.EMD always uses DefaultSinkhornParams
	EquityBuckets int              // river bucket count; defaults to 50
	OpponentRange []notation.Combo // river equity opponent range
}

func (c LayerConfig) withDefaults() LayerConfig {
	if c.T == 0 {
		c.T = 100
	}
	if c.EquityBuckets == 0 {
		c.EquityBuckets = 50
	}
	return c
}

// Layer holds one street's clustering state: points (histograms over
// the next, finer street's abstractions), the evolving centroid
// vector, and the prior (finer) street's Metric used as the ground
// distance for EMD (spec.md §4.D).
type Layer struct {
	street     notation.Street
	metric     Metric
	points     []Histogram
	kmeans     []Histogram
	enumerator deal.Enumerator
	config     LayerConfig
}

// Load assembles street's points from the next (finer) street's
// persisted Lookup and Metric. River has no finer street and no
// clustering input (spec.md §4.D: "river has no clustering").
func Load(dir string, street notation.Street, enumerator deal.Enumerator, config LayerConfig) (*Layer, error) {
	config = config.withDefaults()
	if street == notation.River {
		return &Layer{street: street, enumerator: enumerator, config: config}, nil
	}
	finer := street.Next()
	finerLookup, err := LoadLookup(dir, finer)
	if err != nil {
		return nil, err
	}
	finerMetric, err := LoadMetric(dir, finer)
	if err != nil {
		return nil, err
	}
	return &Layer{
		street:     street,
		metric:     finerMetric,
		points:     finerLookup.Projections(street, enumerator),
		enumerator: enumerator,
		config:     config,
	}, nil
}

// Make loads then clusters street in one call.
func Make(dir string, street notation.Street, enumerator deal.Enumerator, config LayerConfig) (*Layer, error) {
	l, err := Load(dir, street, enumerator, config)
	if err != nil {
		return nil, err
	}
	return l.Cluster()
}

// Done reports whether all three of street's artifacts exist.
func Done(dir string, street notation.Street) bool {
	return LookupDone(dir, street) && DecompositionDone(dir, street) && MetricDone(dir, street)
}

// Cluster runs k-means for Flop/Turn; Preflop and River have no
// clustering step, their Lookup/Decomp/Metric are fabricated directly.
func (l *Layer) Cluster() (*Layer, error) {
	if l.street != notation.Flop && l.street != notation.Turn {
		return l, nil
	}
	l.initPlusPlus()
	l.lloyd()
	return l, nil
}

// initPlusPlus seeds l.kmeans via k-means++ (spec.md §4.D item 1),
// with the picked-set fix mandated by spec.md §9's open question:
// already-picked points are forced to potential 0 every round, so they
// can never be re-selected.
func (l *Layer) initPlusPlus() {
	n := len(l.points)
	k := l.config.K
	if k > n {
		k = n
	}
	rng := rand.New(rand.NewSource(int64(l.street) + l.config.Seed))

	potentials := make([]float64, n)
	for i := range potentials {
		potentials[i] = 1
	}
	picked := make([]bool, n)
	centroids := make([]Histogram, 0, k)

	for len(centroids) < k {
		i := weightedSample(rng, potentials)
		centroids = append(centroids, l.points[i])
		picked[i] = true

		next := make([]float64, n)
		for j, p := range l.points {
			if picked[j] {
				next[j] = 0
				continue
			}
			d := l.metric.EMD(l.points[i], p)
			w := d * d
			if w < potentials[j] {
				next[j] = w
			} else {
				next[j] = potentials[j]
			}
		}
		potentials = next
	}
	l.kmeans = centroids
}

// weightedSample draws an index proportional to weights, matching the
// Rust source's WeightedIndex::sample.
func weightedSample(rng *rand.Rand, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return rng.Intn(len(weights))
	}
	r := rng.Float64() * total
	cum := 0.0
	for i, w := range weights {
		cum += w
		if r < cum {
			return i
		}
	}
	return len(weights) - 1
}

// lloyd runs T Lloyd iterations (spec.md §4.D item 2): a data-parallel
// assignment step (read-only on centroids) followed by a sequential
// reduction, per spec.md §5/§9's determinism requirement.
func (l *Layer) lloyd() {
	n := len(l.points)
	k := len(l.kmeans)
	if n == 0 || k == 0 {
		return
	}

	for iter := 0; iter < l.config.T; iter++ {
		assignments := make([]int, n)
		g, _ := errgroup.WithContext(context.Background())

		workers := runtime.GOMAXPROCS(0)
		if workers > n {
			workers = n
		}
		chunk := (n + workers - 1) / workers
		for w := 0; w < workers; w++ {
			start := w * chunk
			end := start + chunk
			if end > n {
				end = n
			}
			if start >= end {
				continue
			}
			g.Go(func() error {
				for i := start; i < end; i++ {
					assignments[i] = l.nearest(l.points[i])
				}
				return nil
			})
		}
		_ = g.Wait() // nearest() never errors; kept for errgroup's worker-pool shape

		next := make([]Histogram, k)
		for i := range next {
			next[i] = NewHistogram()
		}
		for i, a := range assignments {
			next[a].Absorb(l.points[i])
		}
		l.kmeans = next
	}
}

// nearest returns the centroid index minimizing EMD(h, centroid),
// tie-breaking by lowest index (spec.md §4.D item 2, §5).
func (l *Layer) nearest(h Histogram) int {
	best := 0
	bestDist := math.Inf(1)
	for i, c := range l.kmeans {
		d := l.metric.EMD(h, c)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func (l *Layer) label(i int) Abstraction {
	return New(l.street, i)
}

// MetricLift computes the pairwise metric over this street's centroids
// under the prior (finer) metric (spec.md §4.D item 4): the averaged,
// symmetrized EMD between every pair of centroids.
func (l *Layer) MetricLift() Metric {
	raw := make(map[Pair]Energy)
	for i := 0; i < len(l.kmeans); i++ {
		for j := i + 1; j < len(l.kmeans); j++ {
			d := (l.metric.EMD(l.kmeans[i], l.kmeans[j]) + l.metric.EMD(l.kmeans[j], l.kmeans[i])) / 2
			raw[NewPair(l.label(i), l.label(j))] = d
		}
	}
	return NewMetricFrom(raw)
}

// computeMetric dispatches to the street-appropriate metric source:
// an EMD lift for Flop/Turn, a closed-form distance for Preflop/River
// (spec.md §9 open question on uniform street artifacts, resolved: all
// four streets emit a real Metric).
func (l *Layer) computeMetric() Metric {
	switch l.street {
	case notation.Preflop:
		return PreflopMetric()
	case notation.River:
		return RiverMetric(l.config.EquityBuckets)
	default:
		return l.MetricLift()
	}
}

// Lookup computes this street's Observation -> Abstraction mapping
// (spec.md §4.D item 5).
func (l *Layer) Lookup() Lookup {
	lookup := NewLookup()
	switch l.street {
	case notation.Preflop:
		for _, o := range l.enumerator.Enumerate(notation.Preflop) {
			hole, _ := deal.Cards(o)
			lookup.Set(o, New(notation.Preflop, deal.HandClass(hole)))
		}
	case notation.River:
		for _, o := range l.enumerator.Enumerate(notation.River) {
			hole, board := deal.Cards(o)
			bucket := equity.Percentile(hole[:], board, l.config.OpponentRange, l.config.EquityBuckets)
			lookup.Set(o, New(notation.River, bucket))
		}
	default:
		for i, o := range l.enumerator.Enumerate(l.street) {
			lookup.Set(o, l.label(l.nearest(l.points[i])))
		}
	}
	return lookup
}

// Decomp computes this street's Abstraction -> centroid Histogram
// mapping (spec.md §4.D item 6). Preflop and River have no centroids
// to emit, so each label decomposes to a single-point histogram at
// itself (the same uniform-contract resolution as computeMetric).
func (l *Layer) Decomp() Decomposition {
	d := NewDecomposition()
	switch l.street {
	case notation.Preflop, notation.River:
		k := deal.NumHandClasses
		if l.street == notation.River {
			k = l.config.EquityBuckets
		}
		for i := 0; i < k; i++ {
			label := New(l.street, i)
			h := NewHistogram()
			h.Add(label, 1)
			d.Set(label, h)
		}
	default:
		for i, h := range l.kmeans {
			d.Set(l.label(i), h)
		}
	}
	return d
}

// Save computes and persists this street's metric, lookup, and
// decomposition (spec.md §4.D: "save()").
func (l *Layer) Save(dir string) error {
	if err := l.computeMetric().Save(dir, l.street); err != nil {
		return err
	}
	if err := l.Lookup().Save(dir, l.street); err != nil {
		return err
	}
	return l.Decomp().Save(dir, l.street)
}
