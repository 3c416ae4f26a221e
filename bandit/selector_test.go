package bandit

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

type recordingObserver struct {
	selections []Decision
	learned    []string
}

func (r *recordingObserver) Selected(d Decision) {
	r.selections = append(r.selections, d)
}

func (r *recordingObserver) Learned(optionID string, reward float64) {
	r.learned = append(r.learned, optionID)
}

func TestSelectorSelect(t *testing.T) {
	t.Run("selecting with no options is an error", func(t *testing.T) {
		s := NewSelector(Greedy)

		_, err := s.Select()

		require.ErrorIs(t, err, ErrNoOptions, "Empty registry should not be a silent no-op")
	})

	t.Run("greedy picks the arm that always paid out", func(t *testing.T) {
		s := NewSelector(Greedy, WithSeed(1))
		s.AddOption("A")
		s.AddOption("B")

		// Round-robin A (always 1) and B (always 0) five times each
		for i := 0; i < 5; i++ {
			require.NoError(t, s.Record("A", 1))
			require.NoError(t, s.Record("B", 0))
		}

		chosen, err := s.Select()
		require.NoError(t, err)
		require.Equal(t, "A", chosen.ID, "Greedy should pick the arm with the higher average")
	})

	t.Run("greedy breaks ties by registration order", func(t *testing.T) {
		s := NewSelector(Greedy, WithSeed(1))
		s.AddOption("first")
		s.AddOption("second")

		chosen, err := s.Select()
		require.NoError(t, err)
		require.Equal(t, "first", chosen.ID, "Ties should keep the first registered arm")
	})

	t.Run("epsilon zero always exploits", func(t *testing.T) {
		s := NewSelector(EpsilonGreedy, WithEpsilon(0), WithSeed(1))
		s.AddOption("A")
		s.AddOption("B")
		require.NoError(t, s.Record("B", 1))

		for i := 0; i < 20; i++ {
			chosen, err := s.Select()
			require.NoError(t, err)
			require.Equal(t, "B", chosen.ID, "With epsilon 0 every pick should be greedy")
		}
	})

	t.Run("epsilon one eventually explores every arm", func(t *testing.T) {
		s := NewSelector(EpsilonGreedy, WithEpsilon(1), WithSeed(1))
		s.AddOption("A")
		s.AddOption("B")
		s.AddOption("C")
		require.NoError(t, s.Record("A", 1)) // A is the greedy pick

		seen := map[string]bool{}
		for i := 0; i < 100; i++ {
			chosen, err := s.Select()
			require.NoError(t, err)
			seen[chosen.ID] = true
		}

		require.Len(t, seen, 3, "Pure exploration should reach every arm")
	})

	t.Run("ucb pulls every arm once before comparing", func(t *testing.T) {
		s := NewSelector(UCB1, WithSeed(1))
		s.AddOption("A")
		s.AddOption("B")
		s.AddOption("C")

		seen := map[string]bool{}
		for i := 0; i < 3; i++ {
			chosen, err := s.Select()
			require.NoError(t, err)
			seen[chosen.ID] = true
			require.NoError(t, s.Record(chosen.ID, 0.5))
		}

		require.Len(t, seen, 3, "First three pulls should cover all three arms")
	})

	t.Run("thompson favors the arm with the strong posterior", func(t *testing.T) {
		s := NewSelector(ThompsonSampling, WithSeed(3))
		s.AddOption("good")
		s.AddOption("bad")
		for i := 0; i < 50; i++ {
			require.NoError(t, s.RecordOutcome("good", 1, true))
			require.NoError(t, s.RecordOutcome("bad", 0, false))
		}

		goodPicks := 0
		for i := 0; i < 100; i++ {
			chosen, err := s.Select()
			require.NoError(t, err)
			if chosen.ID == "good" {
				goodPicks++
			}
		}

		require.Greater(t, goodPicks, 90, "Posterior draws should almost always favor the good arm")
	})

	t.Run("softmax concentrates on the best arm at low temperature", func(t *testing.T) {
		s := NewSelector(Softmax, WithTemperature(0.05), WithSeed(5))
		s.AddOption("good")
		s.AddOption("bad")
		for i := 0; i < 10; i++ {
			require.NoError(t, s.Record("good", 1))
			require.NoError(t, s.Record("bad", 0))
		}

		goodPicks := 0
		for i := 0; i < 100; i++ {
			chosen, err := s.Select()
			require.NoError(t, err)
			if chosen.ID == "good" {
				goodPicks++
			}
		}

		require.Greater(t, goodPicks, 95, "Low temperature should make the distribution near-greedy")
	})

	t.Run("unknown strategy panics at construction", func(t *testing.T) {
		require.Panics(t, func() {
			NewSelector(Strategy("annealing"))
		}, "Misconfiguration should fail loudly, not default silently")
	})
}

func TestSelectorRecord(t *testing.T) {
	t.Run("recording an unregistered arm is an error", func(t *testing.T) {
		s := NewSelector(Greedy)

		err := s.Record("ghost", 1)

		require.ErrorIs(t, err, ErrUnknownOption)
	})

	t.Run("every outcome bumps the global trial counter", func(t *testing.T) {
		s := NewSelector(Greedy)
		s.AddOption("A")
		s.AddOption("B")

		require.NoError(t, s.Record("A", 1))
		require.NoError(t, s.RecordOutcome("B", 0, false))

		require.Equal(t, 2, s.TotalTrials())
	})

	t.Run("re-registering an id keeps the existing statistics", func(t *testing.T) {
		s := NewSelector(Greedy)
		s.AddOption("A")
		require.NoError(t, s.Record("A", 1))

		again := s.AddOption("A")

		require.Equal(t, 1, again.Trials, "AddOption should not reset an existing arm")
		require.Len(t, s.Options(), 1)
	})
}

func TestSelectorHistory(t *testing.T) {
	t.Run("every select appends a decision record", func(t *testing.T) {
		observer := &recordingObserver{}
		s := NewSelector(Greedy, WithObserver(observer), WithSeed(1))
		s.AddOption("A")

		_, err := s.Select()
		require.NoError(t, err)
		_, err = s.Select()
		require.NoError(t, err)

		history := s.History()
		require.Len(t, history, 2)
		require.Equal(t, "A", history[0].OptionID)
		require.Equal(t, Greedy, history[0].Strategy)
		require.NotEmpty(t, history[0].ID, "Decision records should carry an id")
		require.Len(t, observer.selections, 2, "Observer should see every selection")
	})

	t.Run("observer sees every recorded outcome", func(t *testing.T) {
		observer := &recordingObserver{}
		s := NewSelector(Greedy, WithObserver(observer))
		s.AddOption("A")

		require.NoError(t, s.Record("A", 1))
		require.NoError(t, s.RecordOutcome("A", 0, false))

		require.Equal(t, []string{"A", "A"}, observer.learned)
	})
}

// bernoulliArm pays 1 with probability p.
type bernoulliArm struct {
	id string
	p  float64
}

func runBanditRounds(t *testing.T, s *Selector, arms []bernoulliArm, rounds int, rng *rand.Rand, useOutcome bool) []float64 {
	t.Helper()

	best := arms[0].p
	for _, arm := range arms[1:] {
		if arm.p > best {
			best = arm.p
		}
	}

	probabilities := map[string]float64{}
	for _, arm := range arms {
		s.AddOption(arm.id)
		probabilities[arm.id] = arm.p
	}

	regret := make([]float64, rounds)
	var cumulative float64
	for round := 0; round < rounds; round++ {
		chosen, err := s.Select()
		require.NoError(t, err)

		p := probabilities[chosen.ID]
		var reward float64
		success := rng.Float64() < p
		if success {
			reward = 1
		}
		if useOutcome {
			require.NoError(t, s.RecordOutcome(chosen.ID, reward, success))
		} else {
			require.NoError(t, s.Record(chosen.ID, reward))
		}

		cumulative += best - p // Expected per-round regret
		regret[round] = cumulative
	}
	return regret
}

func TestSelectorRegret(t *testing.T) {
	arms := []bernoulliArm{{"a", 0.8}, {"b", 0.5}, {"c", 0.2}}

	t.Run("ucb regret grows sublinearly", func(t *testing.T) {
		s := NewSelector(UCB1, WithSeed(17))
		regret := runBanditRounds(t, s, arms, 1000, rand.New(rand.NewSource(17)), false)

		require.Less(t, regret[999], regret[99]*10,
			"Regret at round 1000 should be well below 10x regret at round 100")
	})

	t.Run("thompson regret grows sublinearly", func(t *testing.T) {
		s := NewSelector(ThompsonSampling, WithSeed(23))
		regret := runBanditRounds(t, s, arms, 1000, rand.New(rand.NewSource(23)), true)

		require.Less(t, regret[999], regret[99]*10,
			"Regret at round 1000 should be well below 10x regret at round 100")
	})
}
