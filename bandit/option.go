package bandit

import "math"

// Option is a single bandit arm: an identity plus the online statistics
// every selection strategy reads. Alpha and Beta are Beta-distribution
// pseudo-counts starting at the uniform prior and never falling below it.
type Option struct {
	ID               string
	Trials           int
	Successes        int
	CumulativeReward float64
	Alpha            float64
	Beta             float64
	Rewards          []float64 // full reward history; callers truncate

	mean float64 // Welford running mean
	m2   float64 // Welford sum of squared deviations
}

func NewOption(id string) *Option {
	return &Option{ID: id, Alpha: 1, Beta: 1}
}

// Record logs a reward without a success signal, leaving the Beta
// pseudo-counts untouched: reward-only strategies (greedy, UCB1,
// softmax) never move the posterior.
func (o *Option) Record(reward float64) {
	o.Trials++
	o.CumulativeReward += reward
	o.Rewards = append(o.Rewards, reward)

	delta := reward - o.mean
	o.mean += delta / float64(o.Trials)
	o.m2 += delta * (reward - o.mean)
}

// RecordOutcome logs a reward together with a success signal, updating
// the Beta posterior for Thompson Sampling.
func (o *Option) RecordOutcome(reward float64, success bool) {
	o.Record(reward)
	if success {
		o.Successes++
		o.Alpha++
	} else {
		o.Beta++
	}
}

func (o *Option) AverageReward() float64 {
	if o.Trials == 0 {
		return 0
	}
	return o.CumulativeReward / float64(o.Trials)
}

// RewardVariance is the sample variance of the observed rewards,
// maintained online with Welford's algorithm.
func (o *Option) RewardVariance() float64 {
	if o.Trials < 2 {
		return 0
	}
	return o.m2 / float64(o.Trials-1)
}

func (o *Option) SuccessRate() float64 {
	if o.Trials == 0 {
		return 0
	}
	return float64(o.Successes) / float64(o.Trials)
}

// UCBScore is the arm's UCB1 value against the selector-wide trial
// count. An untried arm scores +Inf so every arm is pulled once before
// any comparison.
func (o *Option) UCBScore(totalTrials int, exploration float64) float64 {
	if o.Trials == 0 {
		return math.Inf(1)
	}
	return o.AverageReward() + exploration*math.Sqrt(math.Log(float64(totalTrials))/float64(o.Trials))
}

// SampleBeta draws from the arm's Beta(Alpha, Beta) posterior.
func (o *Option) SampleBeta(v *Variate) float64 {
	return v.Beta(o.Alpha, o.Beta)
}

// Confidence blends the arm's empirical success rate with a trial-count
// saturation term, so an arm must both look good and be well tested to
// score high.
func (o *Option) Confidence() float64 {
	saturation := math.Min(1, float64(o.Trials)/50)
	return 0.7*o.SuccessRate() + 0.3*saturation
}
