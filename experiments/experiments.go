package experiments

import (
	"github.com/rs/zerolog/log"

	"plancore/bandit"
)

const (
	Rounds = 1000
	Seed   = 42
)

var strategies = []bandit.Strategy{
	bandit.Greedy,
	bandit.EpsilonGreedy,
	bandit.UCB1,
	bandit.ThompsonSampling,
	bandit.Softmax,
}

// RunStrategyComparison plays every selection strategy against the same
// Bernoulli testbed and writes per-round CSV records for offline
// comparison of regret curves.
func RunStrategyComparison(arms []BernoulliArm) error {
	writer, err := NewWriter()
	if err != nil {
		return err
	}

	for _, strategy := range strategies {
		selector := bandit.NewSelector(strategy, bandit.WithSeed(Seed))
		testbed := NewTestbed(arms, Seed)

		records, err := testbed.Run(selector, Rounds)
		if err != nil {
			return err
		}

		final := records[len(records)-1]
		log.Info().
			Str("strategy", string(strategy)).
			Float64("reward", final.CumulativeReward).
			Float64("regret", final.CumulativeRegret).
			Msg("strategy comparison finished")

		if err := writer.WriteRoundRecords(string(strategy), records); err != nil {
			return err
		}
	}
	return nil
}
