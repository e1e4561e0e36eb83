package abstraction

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// SinkhornParams are the hyperparameters of the entropic-regularized
// optimal-transport solver (spec.md §4.C).
type SinkhornParams struct {
	Lambda  float64 // entropic regularization strength
	MaxIter int     // hard iteration cap; non-convergence returns the last cost
	Epsilon float64 // marginal-violation tolerance for early stop
}

// DefaultSinkhornParams mirrors the spec's "T_max = 100" style default.
func DefaultSinkhornParams() SinkhornParams {
	return SinkhornParams{Lambda: 0.1, MaxIter: 100, Epsilon: 1e-4}
}

func (p SinkhornParams) orDefault() SinkhornParams {
	if p.MaxIter == 0 {
		return DefaultSinkhornParams()
	}
	return p
}

// Sinkhorn computes an entropic-regularized approximation to the earth
// mover distance between two Learned-abstraction histograms, under a
// fixed ground Metric.
type Sinkhorn struct {
	sa, sb []Abstraction // fixed, sorted supports
	a, b   []float64     // densities over sa, sb
	metric Metric
	params SinkhornParams

	u, v []float64
	cost Energy
}

// NewSinkhorn builds a solver with the default parameters.
func NewSinkhorn(source, target Histogram, metric Metric) *Sinkhorn {
	return NewSinkhornWithParams(source, target, metric, DefaultSinkhornParams())
}

// NewSinkhornWithParams builds a solver with explicit hyperparameters.
func NewSinkhornWithParams(source, target Histogram, metric Metric, params SinkhornParams) *Sinkhorn {
	sourceDensity := source.Normalize()
	targetDensity := target.Normalize()

	sa := sourceDensity.Support()
	sb := targetDensity.Support()
	sort.Slice(sa, func(i, j int) bool { return sa[i].Less(sa[j]) })
	sort.Slice(sb, func(i, j int) bool { return sb[i].Less(sb[j]) })

	a := make([]float64, len(sa))
	for i, x := range sa {
		a[i] = sourceDensity.Density(x)
	}
	b := make([]float64, len(sb))
	for i, x := range sb {
		b[i] = targetDensity.Density(x)
	}

	return &Sinkhorn{sa: sa, sb: sb, a: a, b: b, metric: metric, params: params.orDefault()}
}

// Minimize runs the dual-scaling iteration to convergence or MaxIter,
// whichever comes first, and returns the receiver so callers can chain
// straight into Cost().
func (s *Sinkhorn) Minimize() *Sinkhorn {
	n, m := len(s.sa), len(s.sb)
	if n == 0 || m == 0 {
		s.cost = 0
		return s
	}

	cost := mat.NewDense(n, m, nil)
	kernel := mat.NewDense(n, m, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			d := s.metric.Distance(s.sa[i], s.sb[j])
			cost.Set(i, j, d)
			kernel.Set(i, j, math.Exp(-d/s.params.Lambda))
		}
	}

	u := make([]float64, n)
	v := make([]float64, m)
	floats.AddConst(1, u)
	floats.AddConst(1, v)

	row := make([]float64, m)
	col := make([]float64, n)
	for iter := 0; iter < s.params.MaxIter; iter++ {
		for i := 0; i < n; i++ {
			mat.Row(row, i, kernel)
			denom := math.Max(floats.Dot(row, v), minPositive)
			u[i] = clampNaN(s.a[i] / denom)
		}
		for j := 0; j < m; j++ {
			mat.Col(col, j, kernel)
			denom := math.Max(floats.Dot(col, u), minPositive)
			v[j] = clampNaN(s.b[j] / denom)
		}
		if s.marginalViolation(kernel, u, v) < s.params.Epsilon {
			break
		}
	}

	s.u, s.v = u, v
	total := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			total += u[i] * kernel.At(i, j) * v[j] * cost.At(i, j)
		}
	}
	s.cost = total
	return s
}

// Cost returns the transport cost found by Minimize (or the last
// iteration's cost, if the solver did not converge within MaxIter —
// spec.md §4.D: "Sinkhorn non-convergence -> return the last-iteration
// cost").
func (s *Sinkhorn) Cost() Energy { return s.cost }

// marginalViolation is the max absolute deviation of the current
// coupling's row/column sums from the target marginals a, b.
func (s *Sinkhorn) marginalViolation(kernel *mat.Dense, u, v []float64) float64 {
	n, m := len(s.sa), len(s.sb)
	worst := 0.0
	for i := 0; i < n; i++ {
		sum := 0.0
		for j := 0; j < m; j++ {
			sum += u[i] * kernel.At(i, j) * v[j]
		}
		if d := math.Abs(sum - s.a[i]); d > worst {
			worst = d
		}
	}
	for j := 0; j < m; j++ {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += u[i] * kernel.At(i, j) * v[j]
		}
		if d := math.Abs(sum - s.b[j]); d > worst {
			worst = d
		}
	}
	return worst
}

// clampNaN resets a NaN dual-scaling entry to 1, per spec.md §4.C's
// numerical guard.
func clampNaN(x float64) float64 {
	if math.IsNaN(x) {
		return 1
	}
	return x
}
