package profile

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/quenby/go-skylight/pkg/core"
)

const (
	onedQuadNodes = 16
	onedMaxDepth  = 24
)

// interval is one cell of the sampler's cumulative-probability table.
type interval struct {
	a, b   float64 // abscissa range
	wa, wb float64 // weight (density) at the endpoints
	flux   float64 // signed integrated weight over [a, b]
	cum    float64 // cumulative |flux| through the end of this interval
}

// OneDSampler draws weighted point samples from a one-dimensional flux
// density. Construction subdivides the density into intervals whose
// individual flux contribution is small, then draws by inverse-CDF lookup
// over the interval table with a linear-density inversion inside the
// selected interval.
//
// In radial mode the density f(r) is weighted by 2·pi·r and draws are
// completed with a uniform azimuth, which is the axisymmetric-profile
// case. Negative density regions are handled by sampling from |flux| and
// carrying the sign on the photon weight.
type OneDSampler struct {
	intervals []interval
	cumEnds   []float64 // cum values, for binary search
	totalAbs  float64
	radial    bool
}

// NewOneDSampler builds a sampler for f on [xmin, xmax]. shootAccuracy
// controls the interval budget: subdivision stops once an interval's
// |flux| drops below sqrt(shootAccuracy) of the total |flux|, which keeps the
// linear in-interval inversion error well inside the accuracy target
// while the table stays a few hundred entries.
func NewOneDSampler(f func(float64) float64, xmin, xmax float64, radial bool, shootAccuracy float64) (*OneDSampler, error) {
	if xmax <= xmin {
		return nil, core.Configf("sampler: empty range [%g, %g]", xmin, xmax)
	}
	if shootAccuracy <= 0 {
		return nil, core.Configf("sampler: shoot accuracy must be positive")
	}
	weight := f
	if radial {
		weight = func(x float64) float64 { return 2 * math.Pi * x * f(x) }
	}

	// The budget scales with the integral of |density|, not the signed
	// total: a density whose lobes nearly cancel still carries full
	// sampling weight in each lobe.
	total := quad.Fixed(func(x float64) float64 {
		return math.Abs(weight(x))
	}, xmin, xmax, 8*onedQuadNodes, nil, 0)
	absBudget := total * math.Sqrt(shootAccuracy)
	if absBudget == 0 {
		return nil, &core.NumericalError{Msg: "sampler: density integrates to zero"}
	}

	s := &OneDSampler{radial: radial}
	if err := s.subdivide(weight, xmin, xmax, absBudget, 0); err != nil {
		return nil, err
	}

	cum := 0.0
	for i := range s.intervals {
		cum += math.Abs(s.intervals[i].flux)
		s.intervals[i].cum = cum
		s.cumEnds = append(s.cumEnds, cum)
	}
	s.totalAbs = cum
	return s, nil
}

func (s *OneDSampler) subdivide(weight func(float64) float64, a, b, budget float64, depth int) error {
	flux := quad.Fixed(weight, a, b, onedQuadNodes, nil, 0)
	if math.Abs(flux) <= budget || depth >= onedMaxDepth {
		if depth >= onedMaxDepth && math.Abs(flux) > budget {
			return &core.NumericalError{Msg: "sampler: interval subdivision exceeded depth limit"}
		}
		s.intervals = append(s.intervals, interval{
			a: a, b: b,
			wa: weight(a), wb: weight(b),
			flux: flux,
		})
		return nil
	}
	mid := 0.5 * (a + b)
	if err := s.subdivide(weight, a, mid, budget, depth+1); err != nil {
		return err
	}
	return s.subdivide(weight, mid, b, budget, depth+1)
}

// TotalAbsFlux returns the integral of |density| over the sampler range.
func (s *OneDSampler) TotalAbsFlux() float64 { return s.totalAbs }

// invert maps a fraction v in [0, 1) of an interval's |flux| to an
// abscissa, treating the density as linear between the endpoint weights.
func (iv *interval) invert(v float64) float64 {
	w := iv.b - iv.a
	wa, wb := iv.wa, iv.wb
	// Sampling within the interval uses |weight|; the interval sign is
	// carried separately on the photon.
	if iv.flux < 0 {
		wa, wb = -wa, -wb
	}
	if wa < 0 {
		wa = 0
	}
	if wb < 0 {
		wb = 0
	}
	sum := wa + wb
	if sum <= 0 {
		return iv.a + v*w
	}
	d := wb - wa
	if math.Abs(d) < 1e-12*sum {
		return iv.a + v*w
	}
	// Solve wa*t + d*t^2/2 = v*(wa+wb)/2 for t in [0, 1].
	t := (-wa + math.Sqrt(wa*wa+d*sum*v)) / d
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return iv.a + t*w
}

// Draw fills a PhotonArray with n samples. Each photon carries weight
// ±TotalAbsFlux/n, the sign taken from the density in the selected
// interval, so the expected weight total equals the signed flux integral.
func (s *OneDSampler) Draw(n int, ud core.UniformDeviate) (*core.PhotonArray, error) {
	if err := checkShootCount(n); err != nil {
		return nil, err
	}
	pa := core.NewPhotonArray(n)
	fluxPer := s.totalAbs / float64(n)
	for i := 0; i < n; i++ {
		u := ud.Float64() * s.totalAbs
		idx := sort.SearchFloat64s(s.cumEnds, u)
		if idx >= len(s.intervals) {
			idx = len(s.intervals) - 1
		}
		iv := &s.intervals[idx]
		start := iv.cum - math.Abs(iv.flux)
		v := (u - start) / math.Abs(iv.flux)
		x := iv.invert(v)
		sign := 1.0
		if iv.flux < 0 {
			sign = -1.0
		}
		if s.radial {
			theta := 2 * math.Pi * ud.Float64()
			pa.SetPhoton(i, x*math.Cos(theta), x*math.Sin(theta), sign*fluxPer)
		} else {
			pa.SetPhoton(i, x, 0, sign*fluxPer)
		}
	}
	return pa, nil
}
