package decider

import (
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"plancore/bandit"
)

// DecisionType classifies how a single Decide call was resolved.
type DecisionType string

const (
	RuleBased   DecisionType = "rule_based"
	Learned     DecisionType = "learned"
	Exploration DecisionType = "exploration"
	NoOptions   DecisionType = "no_options"
)

// Rule pairs a pure condition with the action to take when it fires.
// Lower priority numbers win: a CRITICAL=1 rule outranks a ROUTINE=9
// one, and any matching rule overrides learned behavior outright.
type Rule[C any] struct {
	Name      string
	Priority  int
	Condition func(C) bool
	Action    string
}

// Decision is the classification of one Decide call.
type Decision struct {
	Timestamp  time.Time
	Type       DecisionType
	Rule       string // winning rule name, set for rule_based only
	Action     string // option id, empty for no_options
	Confidence float64
}

// Observer receives every decision, fired inline before Decide returns.
type Observer interface {
	Decision(Decision)
}

type noopObserver struct{}

func NewNoopObserver() Observer { return noopObserver{} }

func (noopObserver) Decision(Decision) {}

const (
	DefaultMinTrialsForAuto    = 10
	DefaultConfidenceThreshold = 0.8

	explorationConfidence = 0.5
)

// Engine composes deterministic priority rules with a bandit selector.
// Rules decide first; with enough accumulated trials the selector takes
// over; before that the engine explores uniformly at random.
type Engine[C any] struct {
	selector            *bandit.Selector
	rules               []Rule[C] // kept sorted by ascending Priority
	minTrialsForAuto    int
	confidenceThreshold float64
	history             []Decision
	rng                 *rand.Rand
	observer            Observer
}

type Option func(*config)

type config struct {
	minTrialsForAuto    int
	confidenceThreshold float64
	seed                uint64
	observer            Observer
}

func WithMinTrials(trials int) Option {
	return func(c *config) {
		if trials >= 0 {
			c.minTrialsForAuto = trials
		}
	}
}

func WithConfidenceThreshold(threshold float64) Option {
	return func(c *config) {
		if threshold >= 0 && threshold <= 1 {
			c.confidenceThreshold = threshold
		}
	}
}

// WithSeed pins the exploration RNG for reproducible runs.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

func WithObserver(observer Observer) Option {
	return func(c *config) {
		if observer != nil {
			c.observer = observer
		}
	}
}

func New[C any](selector *bandit.Selector, options ...Option) *Engine[C] {
	cfg := config{
		minTrialsForAuto:    DefaultMinTrialsForAuto,
		confidenceThreshold: DefaultConfidenceThreshold,
		seed:                uint64(time.Now().UnixNano()),
		observer:            NewNoopObserver(),
	}
	for _, option := range options {
		option(&cfg)
	}
	return &Engine[C]{
		selector:            selector,
		minTrialsForAuto:    cfg.minTrialsForAuto,
		confidenceThreshold: cfg.confidenceThreshold,
		rng:                 rand.New(rand.NewSource(cfg.seed)),
		observer:            cfg.observer,
	}
}

// AddRule registers a rule, keeping the rule list sorted by ascending
// priority number. Registration order breaks priority ties.
func (e *Engine[C]) AddRule(rule Rule[C]) {
	e.rules = append(e.rules, rule)
	sort.SliceStable(e.rules, func(i, j int) bool {
		return e.rules[i].Priority < e.rules[j].Priority
	})
}

// AddOption registers a bandit arm on the underlying selector.
func (e *Engine[C]) AddOption(id string) *bandit.Option {
	return e.selector.AddOption(id)
}

// Decide classifies one decision for the given context. An empty option
// registry is not an error: "decide nothing" is a valid signal reported
// as a no_options decision with zero confidence.
func (e *Engine[C]) Decide(context C) Decision {
	decision := e.decide(context)
	e.history = append(e.history, decision)
	e.observer.Decision(decision)
	log.Debug().
		Str("type", string(decision.Type)).
		Str("action", decision.Action).
		Float64("confidence", decision.Confidence).
		Msg("autonomous decision")
	return decision
}

func (e *Engine[C]) decide(context C) Decision {
	now := time.Now()

	// Deterministic rules win outright
	for _, rule := range e.rules {
		if rule.Condition(context) {
			return Decision{
				Timestamp:  now,
				Type:       RuleBased,
				Rule:       rule.Name,
				Action:     rule.Action,
				Confidence: 1,
			}
		}
	}

	options := e.selector.Options()
	if len(options) == 0 {
		return Decision{Timestamp: now, Type: NoOptions}
	}

	if e.selector.TotalTrials() >= e.minTrialsForAuto {
		chosen, err := e.selector.Select()
		if err != nil { // Registry emptied since the Options call
			return Decision{Timestamp: now, Type: NoOptions}
		}
		return Decision{
			Timestamp:  now,
			Type:       Learned,
			Action:     chosen.ID,
			Confidence: chosen.Confidence(),
		}
	}

	// Not enough data to trust the statistics yet
	chosen := options[e.rng.Intn(len(options))]
	return Decision{
		Timestamp:  now,
		Type:       Exploration,
		Action:     chosen.ID,
		Confidence: explorationConfidence,
	}
}

// ShouldActAutonomously reports whether the engine's best-looking option
// is trustworthy enough to act on without human review: enough trials
// overall and a blended confidence meeting the threshold.
func (e *Engine[C]) ShouldActAutonomously() bool {
	if e.selector.TotalTrials() < e.minTrialsForAuto {
		return false
	}
	best := e.selector.Best()
	if best == nil {
		return false
	}
	return best.Confidence() >= e.confidenceThreshold
}

// Learn records a reward-only outcome for an action. Rules are pure
// functions of context, so learning touches only the selector.
func (e *Engine[C]) Learn(action string, reward float64) error {
	return e.selector.Record(action, reward)
}

// LearnOutcome records a reward plus a success signal for an action.
func (e *Engine[C]) LearnOutcome(action string, reward float64, success bool) error {
	return e.selector.RecordOutcome(action, reward, success)
}

// History returns a copy of the decision log.
func (e *Engine[C]) History() []Decision {
	return append([]Decision(nil), e.history...)
}
