package bandit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVariateNormal(t *testing.T) {
	t.Run("draws match a standard normal", func(t *testing.T) {
		v := NewVariate(1)
		const n = 50000

		var sum, sumSq float64
		for i := 0; i < n; i++ {
			x := v.Normal()
			sum += x
			sumSq += x * x
		}

		mean := sum / n
		variance := sumSq/n - mean*mean
		require.InDelta(t, 0, mean, 0.02, "Sample mean should be near 0")
		require.InDelta(t, 1, variance, 0.05, "Sample variance should be near 1")
	})
}

func TestVariateGamma(t *testing.T) {
	t.Run("sample mean matches the shape parameter", func(t *testing.T) {
		// Gamma(shape, 1) has mean = shape; covers both the squeeze
		// branch (shape >= 1) and the boost branch (shape < 1)
		for _, shape := range []float64{0.5, 1.0, 2.5, 9.0} {
			v := NewVariate(7)
			const n = 50000

			var sum float64
			for i := 0; i < n; i++ {
				x := v.Gamma(shape)
				require.Greater(t, x, 0.0, "Gamma draws should be positive")
				sum += x
			}

			require.InDelta(t, shape, sum/n, shape*0.05,
				"Sample mean should be near the shape %v", shape)
		}
	})

	t.Run("panics on a non-positive shape", func(t *testing.T) {
		v := NewVariate(1)

		require.Panics(t, func() { v.Gamma(0) }, "Zero shape should panic")
		require.Panics(t, func() { v.Gamma(-1) }, "Negative shape should panic")
	})
}

func TestVariateBeta(t *testing.T) {
	t.Run("draws stay in the unit interval with the right mean", func(t *testing.T) {
		v := NewVariate(11)
		const n = 20000
		alpha, beta := 3.0, 7.0

		var sum float64
		for i := 0; i < n; i++ {
			x := v.Beta(alpha, beta)
			require.GreaterOrEqual(t, x, 0.0)
			require.LessOrEqual(t, x, 1.0)
			sum += x
		}

		require.InDelta(t, alpha/(alpha+beta), sum/n, 0.01,
			"Sample mean should be near alpha/(alpha+beta)")
	})

	t.Run("uniform prior covers the whole interval", func(t *testing.T) {
		v := NewVariate(13)

		low, high := false, false
		for i := 0; i < 1000; i++ {
			x := v.Beta(1, 1)
			if x < 0.1 {
				low = true
			}
			if x > 0.9 {
				high = true
			}
		}

		require.True(t, low, "Beta(1,1) should produce draws below 0.1")
		require.True(t, high, "Beta(1,1) should produce draws above 0.9")
	})
}
