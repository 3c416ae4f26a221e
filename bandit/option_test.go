package bandit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptionRecord(t *testing.T) {
	t.Run("new option starts at the uniform prior", func(t *testing.T) {
		o := NewOption("a")

		require.Zero(t, o.Trials)
		require.Zero(t, o.AverageReward(), "Average reward should be 0, not NaN, with no trials")
		require.Equal(t, 1.0, o.Alpha)
		require.Equal(t, 1.0, o.Beta)
	})

	t.Run("reward-only record leaves the Beta posterior untouched", func(t *testing.T) {
		o := NewOption("a")

		o.Record(0)

		require.Equal(t, 1, o.Trials)
		require.Zero(t, o.AverageReward(), "Zero reward should keep the average at 0")
		require.Equal(t, 1.0, o.Alpha, "Alpha should stay at the prior without a success signal")
		require.Equal(t, 1.0, o.Beta, "Beta should stay at the prior without a success signal")
	})

	t.Run("outcome record moves the posterior", func(t *testing.T) {
		o := NewOption("a")

		o.RecordOutcome(1.0, true)
		o.RecordOutcome(0.0, false)
		o.RecordOutcome(1.0, true)

		require.Equal(t, 3, o.Trials)
		require.Equal(t, 2, o.Successes)
		require.Equal(t, 3.0, o.Alpha, "Two successes should add two to Alpha")
		require.Equal(t, 2.0, o.Beta, "One failure should add one to Beta")
		require.InDelta(t, 2.0/3, o.AverageReward(), 1e-9)
		require.InDelta(t, 2.0/3, o.SuccessRate(), 1e-9)
	})

	t.Run("welford variance matches the two-pass computation", func(t *testing.T) {
		o := NewOption("a")
		rewards := []float64{0.2, 0.9, 0.4, 1.3, -0.5, 0.7}
		for _, r := range rewards {
			o.Record(r)
		}

		var mean float64
		for _, r := range rewards {
			mean += r
		}
		mean /= float64(len(rewards))
		var sumSq float64
		for _, r := range rewards {
			sumSq += (r - mean) * (r - mean)
		}
		expected := sumSq / float64(len(rewards)-1)

		require.InDelta(t, expected, o.RewardVariance(), 1e-9,
			"Online variance should match the direct sample variance")
	})

	t.Run("variance is 0 below two trials", func(t *testing.T) {
		o := NewOption("a")
		require.Zero(t, o.RewardVariance())

		o.Record(3)
		require.Zero(t, o.RewardVariance())
	})
}

func TestOptionUCBScore(t *testing.T) {
	t.Run("untried arm scores infinite", func(t *testing.T) {
		o := NewOption("a")

		require.True(t, math.IsInf(o.UCBScore(10, math.Sqrt2), 1),
			"Untried arm should score +Inf")
	})

	t.Run("untried arm beats any tried arm", func(t *testing.T) {
		tried := NewOption("a")
		for i := 0; i < 100; i++ {
			tried.Record(1.0)
		}
		untried := NewOption("b")

		require.Greater(t, untried.UCBScore(101, math.Sqrt2), tried.UCBScore(101, math.Sqrt2),
			"Untried arm should outrank a perfect tried arm")
	})

	t.Run("computes average plus exploration bonus", func(t *testing.T) {
		o := NewOption("a")
		o.Record(0.5)
		o.Record(1.0)

		got := o.UCBScore(10, 2.0)

		expected := 0.75 + 2.0*math.Sqrt(math.Log(10)/2)
		require.InDelta(t, expected, got, 1e-9)
	})
}

func TestOptionConfidence(t *testing.T) {
	t.Run("blends success rate with trial saturation", func(t *testing.T) {
		o := NewOption("a")
		for i := 0; i < 25; i++ {
			o.RecordOutcome(1.0, true)
		}

		// success rate 1.0, saturation 25/50
		require.InDelta(t, 0.7*1.0+0.3*0.5, o.Confidence(), 1e-9)
	})

	t.Run("saturation caps at one", func(t *testing.T) {
		o := NewOption("a")
		for i := 0; i < 200; i++ {
			o.RecordOutcome(1.0, true)
		}

		require.InDelta(t, 1.0, o.Confidence(), 1e-9,
			"A perfect, heavily tested arm should reach full confidence")
	})
}
