package bandit

import (
	"math"

	"golang.org/x/exp/rand"
)

// Variate generates the random draws behind Thompson Sampling: standard
// normals via the Box-Muller transform and Gamma variates via the
// Marsaglia-Tsang squeeze method. Not safe for concurrent use.
type Variate struct {
	rng      *rand.Rand
	spare    float64
	hasSpare bool
}

func NewVariate(seed uint64) *Variate {
	return &Variate{rng: rand.New(rand.NewSource(seed))}
}

// Normal returns a standard normal draw. Box-Muller produces variates in
// pairs; the second of each pair is cached for the next call.
func (v *Variate) Normal() float64 {
	if v.hasSpare {
		v.hasSpare = false
		return v.spare
	}

	var u1 float64
	for u1 == 0 { // log(0) guard
		u1 = v.rng.Float64()
	}
	u2 := v.rng.Float64()

	r := math.Sqrt(-2 * math.Log(u1))
	v.spare = r * math.Sin(2*math.Pi*u2)
	v.hasSpare = true
	return r * math.Cos(2*math.Pi*u2)
}

// Gamma returns a Gamma(shape, 1) draw. Marsaglia-Tsang covers
// shape >= 1; smaller shapes are boosted through
// Gamma(a) = Gamma(a+1) * U^(1/a).
func (v *Variate) Gamma(shape float64) float64 {
	if shape <= 0 {
		panic("bandit: gamma shape must be positive")
	}

	if shape < 1 {
		var u float64
		for u == 0 {
			u = v.rng.Float64()
		}
		return v.Gamma(shape+1) * math.Pow(u, 1/shape)
	}

	d := shape - 1.0/3.0
	c := 1 / math.Sqrt(9*d)
	for {
		x := v.Normal()
		t := 1 + c*x
		if t <= 0 {
			continue
		}
		w := t * t * t
		u := v.rng.Float64()
		// Squeeze check before the expensive log
		if u < 1-0.0331*x*x*x*x {
			return d * w
		}
		if math.Log(u) < 0.5*x*x+d*(1-w+math.Log(w)) {
			return d * w
		}
	}
}

// Beta returns a Beta(alpha, beta) draw via two independent Gamma draws.
func (v *Variate) Beta(alpha, beta float64) float64 {
	x := v.Gamma(alpha)
	y := v.Gamma(beta)
	if x+y == 0 {
		return 0.5
	}
	return x / (x + y)
}
