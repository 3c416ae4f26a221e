package searcher

import "math"

// Default hyperparameters for the search engines.

const DefaultSimulations = 1000

const DefaultMaxDepth = 50

// DefaultExploration is the UCB1 exploration constant.
const DefaultExploration = math.Sqrt2

// Environment is the contract a domain implements to be searchable. All
// four functions must be pure: Transition returns a new state and never
// mutates its input. An empty action list is treated like a terminal
// state.
type Environment[S, A any] interface {
	Actions(state S) []A
	Transition(state S, action A) S
	Evaluate(state S) float64
	IsTerminal(state S) bool
}

// Step is one action on a projected line of play and the state it leads to.
type Step[S, A any] struct {
	Action A
	State  S
}

// Result is the recommendation produced by a search. Action is nil when
// the root state offers no moves.
type Result[S, A any] struct {
	Action     *A
	Value      float64
	Confidence float64
	Path       []Step[S, A]
}

func ucb1(rewards float64, visits int, c2LnN float64) float64 {
	// Prioritize unexplored nodes
	if visits == 0 {
		return math.Inf(1)
	}

	return rewards/float64(visits) + math.Sqrt(c2LnN/float64(visits))
}
