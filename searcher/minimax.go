package searcher

import (
	"context"
	"math"
)

// MinimaxResult carries the chosen action and value plus the counters a
// caller needs to judge how much of the tree the run actually explored.
type MinimaxResult[A any] struct {
	Action        *A
	Value         float64
	NodesExplored int
	Pruned        int
}

// Minimax is a depth-bounded alpha-beta search. Unlike MCTS it is fully
// deterministic: the same environment and depth always yield the same
// action, with ties broken by enumeration order.
type Minimax[S, A any] struct {
	maxDepth int
	observer Observer
}

func NewMinimax[S, A any](options ...Option) *Minimax[S, A] {
	cfg := defaultConfig()
	for _, option := range options {
		option(&cfg)
	}
	return &Minimax[S, A]{
		maxDepth: cfg.maxDepth,
		observer: cfg.observer,
	}
}

// Search evaluates the game tree below state to maxDepth plies for the
// given root polarity. The context is checked once per recursion step.
func (m *Minimax[S, A]) Search(ctx context.Context, state S, env Environment[S, A], maximizing bool) (MinimaxResult[A], error) {
	run := &minimaxRun[S, A]{ctx: ctx, env: env}
	value, action, err := run.search(state, m.maxDepth, math.Inf(-1), math.Inf(1), maximizing)
	if err != nil {
		return MinimaxResult[A]{}, err
	}

	m.observer.Complete(run.explored, run.pruned)
	return MinimaxResult[A]{
		Action:        action,
		Value:         value,
		NodesExplored: run.explored,
		Pruned:        run.pruned,
	}, nil
}

type minimaxRun[S, A any] struct {
	ctx      context.Context
	env      Environment[S, A]
	explored int
	pruned   int
}

func (r *minimaxRun[S, A]) search(state S, depth int, alpha, beta float64, maximizing bool) (float64, *A, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, nil, err
	}
	r.explored++

	if depth == 0 || r.env.IsTerminal(state) {
		return r.env.Evaluate(state), nil, nil
	}

	actions := r.env.Actions(state)
	if len(actions) == 0 { // No moves, treat as terminal
		return r.env.Evaluate(state), nil, nil
	}

	var best *A
	if maximizing {
		bestValue := math.Inf(-1)
		for i := range actions {
			value, _, err := r.search(r.env.Transition(state, actions[i]), depth-1, alpha, beta, false)
			if err != nil {
				return 0, nil, err
			}
			if value > bestValue {
				bestValue = value
				best = &actions[i]
			}
			alpha = math.Max(alpha, value)
			if beta <= alpha {
				r.pruned += len(actions) - i - 1
				break
			}
		}
		return bestValue, best, nil
	}

	bestValue := math.Inf(1)
	for i := range actions {
		value, _, err := r.search(r.env.Transition(state, actions[i]), depth-1, alpha, beta, true)
		if err != nil {
			return 0, nil, err
		}
		if value < bestValue {
			bestValue = value
			best = &actions[i]
		}
		beta = math.Min(beta, value)
		if beta <= alpha {
			r.pruned += len(actions) - i - 1
			break
		}
	}
	return bestValue, best, nil
}
