package experiments

import (
	"fmt"

	"golang.org/x/exp/rand"

	"plancore/bandit"
)

// BernoulliArm pays 1 with probability P and 0 otherwise.
type BernoulliArm struct {
	ID string
	P  float64
}

// RoundRecord is one row of a testbed run.
type RoundRecord struct {
	Round            int
	ChosenOption     string
	Reward           float64
	CumulativeReward float64
	CumulativeRegret float64
}

// Testbed evaluates a selector against a fixed set of Bernoulli arms,
// tracking expected regret against the best arm.
type Testbed struct {
	arms []BernoulliArm
	best float64
	rng  *rand.Rand
}

func NewTestbed(arms []BernoulliArm, seed uint64) *Testbed {
	if len(arms) == 0 {
		panic("experiments: testbed needs at least one arm")
	}
	best := arms[0].P
	for _, arm := range arms[1:] {
		if arm.P > best {
			best = arm.P
		}
	}
	return &Testbed{
		arms: arms,
		best: best,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Run plays the selector for the given number of rounds, feeding every
// outcome back through RecordOutcome so both reward-only and posterior
// strategies learn.
func (t *Testbed) Run(selector *bandit.Selector, rounds int) ([]RoundRecord, error) {
	probabilities := map[string]float64{}
	for _, arm := range t.arms {
		selector.AddOption(arm.ID)
		probabilities[arm.ID] = arm.P
	}

	records := make([]RoundRecord, 0, rounds)
	var cumulativeReward, cumulativeRegret float64
	for round := 0; round < rounds; round++ {
		chosen, err := selector.Select()
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", round, err)
		}

		p := probabilities[chosen.ID]
		var reward float64
		success := t.rng.Float64() < p
		if success {
			reward = 1
		}
		if err := selector.RecordOutcome(chosen.ID, reward, success); err != nil {
			return nil, fmt.Errorf("round %d: %w", round, err)
		}

		cumulativeReward += reward
		cumulativeRegret += t.best - p
		records = append(records, RoundRecord{
			Round:            round + 1,
			ChosenOption:     chosen.ID,
			Reward:           reward,
			CumulativeReward: cumulativeReward,
			CumulativeRegret: cumulativeRegret,
		})
	}
	return records, nil
}
