package bandit

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Strategy names a selection policy.
type Strategy string

const (
	Greedy           Strategy = "greedy"
	EpsilonGreedy    Strategy = "epsilon_greedy"
	UCB1             Strategy = "ucb1"
	ThompsonSampling Strategy = "thompson_sampling"
	Softmax          Strategy = "softmax"
)

var (
	// ErrNoOptions is returned by Select when no arms are registered.
	ErrNoOptions = errors.New("bandit: no options registered")
	// ErrUnknownOption is returned when recording against an
	// unregistered arm id.
	ErrUnknownOption = errors.New("bandit: unknown option")
)

// Decision is one append-only entry in the selection history. The
// history is unbounded; long-running callers truncate via History.
type Decision struct {
	ID         string
	Timestamp  time.Time
	OptionID   string
	Strategy   Strategy
	Confidence float64
}

// Observer receives selection and learning notifications, fired inline
// before the triggering call returns.
type Observer interface {
	Selected(Decision)
	Learned(optionID string, reward float64)
}

type noopObserver struct{}

func NewNoopObserver() Observer { return noopObserver{} }

func (noopObserver) Selected(Decision)       {}
func (noopObserver) Learned(string, float64) {}

const (
	DefaultEpsilon     = 0.1
	DefaultExploration = math.Sqrt2
	DefaultTemperature = 1.0
)

// Selector chooses an Option each round under a fixed strategy and
// updates arm statistics from observed outcomes. All methods hold an
// internal mutex, so a single Selector may be shared across goroutines.
type Selector struct {
	mu          sync.Mutex
	strategy    Strategy
	epsilon     float64
	exploration float64
	temperature float64
	options     []*Option // registration order, used for tie-breaks
	index       map[string]*Option
	totalTrials int
	history     []Decision
	rng         *rand.Rand
	variate     *Variate
	observer    Observer
}

type SelectorOption func(*Selector)

func WithEpsilon(epsilon float64) SelectorOption {
	return func(s *Selector) {
		if epsilon >= 0 && epsilon <= 1 {
			s.epsilon = epsilon
		}
	}
}

func WithExploration(exploration float64) SelectorOption {
	return func(s *Selector) {
		if exploration > 0 {
			s.exploration = exploration
		}
	}
}

func WithTemperature(temperature float64) SelectorOption {
	return func(s *Selector) {
		if temperature > 0 {
			s.temperature = temperature
		}
	}
}

// WithSeed pins the selector's RNG for reproducible runs.
func WithSeed(seed uint64) SelectorOption {
	return func(s *Selector) {
		s.rng = rand.New(rand.NewSource(seed))
		s.variate = NewVariate(seed + 1)
	}
}

func WithObserver(observer Observer) SelectorOption {
	return func(s *Selector) {
		if observer != nil {
			s.observer = observer
		}
	}
}

func NewSelector(strategy Strategy, options ...SelectorOption) *Selector {
	switch strategy {
	case Greedy, EpsilonGreedy, UCB1, ThompsonSampling, Softmax:
	default:
		panic(fmt.Sprintf("bandit: unknown strategy %q", strategy))
	}

	seed := uint64(time.Now().UnixNano())
	s := &Selector{
		strategy:    strategy,
		epsilon:     DefaultEpsilon,
		exploration: DefaultExploration,
		temperature: DefaultTemperature,
		index:       map[string]*Option{},
		rng:         rand.New(rand.NewSource(seed)),
		variate:     NewVariate(seed + 1),
		observer:    NewNoopObserver(),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// AddOption registers a new arm and returns it. Re-registering an id
// returns the existing arm unchanged.
func (s *Selector) AddOption(id string) *Option {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.index[id]; ok {
		return existing
	}
	o := NewOption(id)
	s.options = append(s.options, o)
	s.index[id] = o
	return o
}

// RemoveOption deletes an arm. Arms are never removed implicitly.
func (s *Selector) RemoveOption(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[id]; !ok {
		return
	}
	delete(s.index, id)
	for i, o := range s.options {
		if o.ID == id {
			s.options = append(s.options[:i], s.options[i+1:]...)
			break
		}
	}
}

// Options returns the registered arms in registration order.
func (s *Selector) Options() []*Option {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]*Option(nil), s.options...)
}

// Option returns the arm with the given id, or nil.
func (s *Selector) Option(id string) *Option {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.index[id]
}

// TotalTrials is the number of outcomes recorded across all arms.
func (s *Selector) TotalTrials() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.totalTrials
}

// History returns a copy of the decision log.
func (s *Selector) History() []Decision {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Decision(nil), s.history...)
}

// Select chooses an arm under the configured strategy, appends a
// decision record and notifies the observer. Selecting with no arms
// registered is an error, not a silent no-op.
func (s *Selector) Select() (*Option, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.options) == 0 {
		return nil, ErrNoOptions
	}

	var chosen *Option
	switch s.strategy {
	case Greedy:
		chosen = s.greedy()
	case EpsilonGreedy:
		if s.rng.Float64() < s.epsilon {
			chosen = s.options[s.rng.Intn(len(s.options))]
		} else {
			chosen = s.greedy()
		}
	case UCB1:
		chosen = s.ucb()
	case ThompsonSampling:
		chosen = s.thompson()
	case Softmax:
		chosen = s.softmax()
	}

	decision := Decision{
		ID:         uuid.NewString(),
		Timestamp:  time.Now(),
		OptionID:   chosen.ID,
		Strategy:   s.strategy,
		Confidence: chosen.Confidence(),
	}
	s.history = append(s.history, decision)
	s.observer.Selected(decision)
	log.Debug().
		Str("strategy", string(s.strategy)).
		Str("option", chosen.ID).
		Float64("confidence", decision.Confidence).
		Msg("option selected")

	return chosen, nil
}

// Record logs a reward-only outcome for an arm.
func (s *Selector) Record(id string, reward float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOption, id)
	}
	o.Record(reward)
	s.totalTrials++
	s.observer.Learned(id, reward)
	return nil
}

// RecordOutcome logs a reward plus a success signal for an arm.
func (s *Selector) RecordOutcome(id string, reward float64, success bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOption, id)
	}
	o.RecordOutcome(reward, success)
	s.totalTrials++
	s.observer.Learned(id, reward)
	return nil
}

// Best returns the arm with the highest average reward, nil when none
// are registered. Ties keep the first registered arm.
func (s *Selector) Best() *Option {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.options) == 0 {
		return nil
	}
	return s.greedy()
}

func (s *Selector) greedy() *Option {
	best := s.options[0]
	for _, o := range s.options[1:] {
		if o.AverageReward() > best.AverageReward() {
			best = o
		}
	}
	return best
}

func (s *Selector) ucb() *Option {
	best := s.options[0]
	bestScore := best.UCBScore(s.totalTrials+1, s.exploration)
	for _, o := range s.options[1:] {
		if score := o.UCBScore(s.totalTrials+1, s.exploration); score > bestScore {
			best = o
			bestScore = score
		}
	}
	return best
}

func (s *Selector) thompson() *Option {
	best := s.options[0]
	bestSample := best.SampleBeta(s.variate)
	for _, o := range s.options[1:] {
		if sample := o.SampleBeta(s.variate); sample > bestSample {
			best = o
			bestSample = sample
		}
	}
	return best
}

func (s *Selector) softmax() *Option {
	// Exp-normalize: subtract the max before exponentiating
	scores := make([]float64, len(s.options))
	maxScore := math.Inf(-1)
	for i, o := range s.options {
		scores[i] = o.AverageReward() / s.temperature
		if scores[i] > maxScore {
			maxScore = scores[i]
		}
	}

	var total float64
	for i := range scores {
		scores[i] = math.Exp(scores[i] - maxScore)
		total += scores[i]
	}

	target := s.rng.Float64() * total
	for i, weight := range scores {
		target -= weight
		if target <= 0 {
			return s.options[i]
		}
	}
	return s.options[len(s.options)-1]
}
