package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"plancore/searcher"
)

// Strategy picks which search engine backs a planning call.
type Strategy string

const (
	StrategyMCTS    Strategy = "mcts"
	StrategyMinimax Strategy = "minimax"
	// StrategyHybrid runs both engines and keeps the MCTS
	// recommendation only when its visit-share confidence clears
	// hybridThreshold; below that an exhaustive bounded search is more
	// trustworthy.
	StrategyHybrid Strategy = "hybrid"
)

// ErrUnknownStrategy is a configuration error: an unrecognized strategy
// fails the call instead of silently defaulting.
var ErrUnknownStrategy = errors.New("planner: unknown strategy")

const hybridThreshold = 0.7

const DefaultDiscount = 0.9

// Prediction is one append-only entry in the planner's log. Unbounded;
// long-running callers truncate via Predictions.
type Prediction struct {
	Timestamp  time.Time
	Strategy   Strategy
	Value      float64
	Confidence float64
}

// Observer receives one Prediction per planning call, fired inline
// before the call returns.
type Observer interface {
	Prediction(Prediction)
}

type noopObserver struct{}

func NewNoopObserver() Observer { return noopObserver{} }

func (noopObserver) Prediction(Prediction) {}

// Planner recommends actions by searching a hypothetical future of the
// caller's environment. Engines are constructed and owned by the
// caller's composition root and passed in explicitly.
type Planner[S, A any] struct {
	strategy    Strategy
	discount    float64
	mcts        *searcher.MCTS[S, A]
	minimax     *searcher.Minimax[S, A]
	observer    Observer
	predictions []Prediction
}

type Option func(*config)

type config struct {
	strategy Strategy
	discount float64
	observer Observer
}

func WithStrategy(strategy Strategy) Option {
	return func(c *config) {
		c.strategy = strategy
	}
}

// WithDiscount sets the future-value discount used by EvaluateAction.
func WithDiscount(discount float64) Option {
	return func(c *config) {
		if discount > 0 && discount <= 1 {
			c.discount = discount
		}
	}
}

func WithObserver(observer Observer) Option {
	return func(c *config) {
		if observer != nil {
			c.observer = observer
		}
	}
}

func New[S, A any](mcts *searcher.MCTS[S, A], minimax *searcher.Minimax[S, A], options ...Option) *Planner[S, A] {
	cfg := config{
		strategy: StrategyHybrid,
		discount: DefaultDiscount,
		observer: NewNoopObserver(),
	}
	for _, option := range options {
		option(&cfg)
	}
	return &Planner[S, A]{
		strategy: cfg.strategy,
		discount: cfg.discount,
		mcts:     mcts,
		minimax:  minimax,
		observer: cfg.observer,
	}
}

// PlanOneStep recommends the next action from state. Environment panics
// propagate unchanged; the planner performs no environment-error
// recovery.
func (p *Planner[S, A]) PlanOneStep(ctx context.Context, state S, env searcher.Environment[S, A]) (searcher.Result[S, A], error) {
	var result searcher.Result[S, A]

	switch p.strategy {
	case StrategyMCTS:
		r, err := p.mcts.Search(ctx, state, env)
		if err != nil {
			return searcher.Result[S, A]{}, err
		}
		result = r
	case StrategyMinimax:
		r, err := p.minimax.Search(ctx, state, env, true)
		if err != nil {
			return searcher.Result[S, A]{}, err
		}
		result = fromMinimax(state, env, r)
	case StrategyHybrid:
		// Both engines run even though only one result is used; the
		// discarded result still lands in the log for comparison
		mr, err := p.mcts.Search(ctx, state, env)
		if err != nil {
			return searcher.Result[S, A]{}, err
		}
		xr, err := p.minimax.Search(ctx, state, env, true)
		if err != nil {
			return searcher.Result[S, A]{}, err
		}
		if mr.Confidence > hybridThreshold {
			result = mr
		} else {
			result = fromMinimax(state, env, xr)
		}
	default:
		return searcher.Result[S, A]{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, p.strategy)
	}

	p.record(result)
	return result, nil
}

// PlannedStep is one entry of a multi-step plan.
type PlannedStep[A any] struct {
	Step       int
	Action     A
	Value      float64
	Confidence float64
}

// PlanSequence plans up to steps actions ahead, applying each
// recommendation before planning the next. It stops early when the
// environment signals terminal or a step yields no action.
func (p *Planner[S, A]) PlanSequence(ctx context.Context, state S, env searcher.Environment[S, A], steps int) ([]PlannedStep[A], error) {
	var sequence []PlannedStep[A]
	for i := 0; i < steps; i++ {
		if env.IsTerminal(state) {
			break
		}
		result, err := p.PlanOneStep(ctx, state, env)
		if err != nil {
			return nil, err
		}
		if result.Action == nil {
			break
		}
		sequence = append(sequence, PlannedStep[A]{
			Step:       i,
			Action:     *result.Action,
			Value:      result.Value,
			Confidence: result.Confidence,
		})
		state = env.Transition(state, *result.Action)
	}
	return sequence, nil
}

// EvaluateAction scores a single action as its immediate reward plus the
// discounted value of a one-step lookahead from the resulting state.
func (p *Planner[S, A]) EvaluateAction(ctx context.Context, state S, action A, env searcher.Environment[S, A]) (float64, error) {
	next := env.Transition(state, action)
	immediate := env.Evaluate(next)

	future, err := p.PlanOneStep(ctx, next, env)
	if err != nil {
		return 0, err
	}
	return immediate + p.discount*future.Value, nil
}

// Predictions returns a copy of the planner's prediction log.
func (p *Planner[S, A]) Predictions() []Prediction {
	return append([]Prediction(nil), p.predictions...)
}

func (p *Planner[S, A]) record(result searcher.Result[S, A]) {
	prediction := Prediction{
		Timestamp:  time.Now(),
		Strategy:   p.strategy,
		Value:      result.Value,
		Confidence: result.Confidence,
	}
	p.predictions = append(p.predictions, prediction)
	p.observer.Prediction(prediction)
	log.Debug().
		Str("strategy", string(p.strategy)).
		Float64("value", result.Value).
		Float64("confidence", result.Confidence).
		Msg("prediction recorded")
}

// fromMinimax adapts an exhaustive search result to the planning result
// shape. Minimax is deterministic and exhaustive within its depth, so
// its confidence is reported as 1.
func fromMinimax[S, A any](state S, env searcher.Environment[S, A], r searcher.MinimaxResult[A]) searcher.Result[S, A] {
	result := searcher.Result[S, A]{
		Action:     r.Action,
		Value:      r.Value,
		Confidence: 1,
	}
	if r.Action != nil {
		result.Path = []searcher.Step[S, A]{{
			Action: *r.Action,
			State:  env.Transition(state, *r.Action),
		}}
	}
	return result
}
