package searcher

import (
	"context"
	"time"

	"golang.org/x/exp/rand"
)

const progressInterval = 100

// Option configures a search engine. Options that do not apply to an
// engine (simulations on Minimax, say) are ignored by it.
type Option func(*config)

type config struct {
	simulations int
	maxDepth    int
	exploration float64
	seed        uint64
	observer    Observer
}

func defaultConfig() config {
	return config{
		simulations: DefaultSimulations,
		maxDepth:    DefaultMaxDepth,
		exploration: DefaultExploration,
		seed:        uint64(time.Now().UnixNano()),
		observer:    NewNoopObserver(),
	}
}

func WithSimulations(simulations int) Option {
	return func(c *config) {
		if simulations > 0 {
			c.simulations = simulations
		}
	}
}

func WithMaxDepth(depth int) Option {
	return func(c *config) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

func WithExploration(exploration float64) Option {
	return func(c *config) {
		if exploration > 0 {
			c.exploration = exploration
		}
	}
}

// WithSeed pins the rollout RNG for reproducible searches.
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

// MCTS is a rollout-based tree search over an Environment. Each Search
// call builds its own tree and discards it on return; an engine may be
// reused across calls but a single call's tree is never shared, so the
// engine is not safe for concurrent Search calls sharing one receiver
// RNG.
type MCTS[S, A any] struct {
	config
	rng *rand.Rand
}

func NewMCTS[S, A any](options ...Option) *MCTS[S, A] {
	cfg := defaultConfig()
	for _, option := range options {
		option(&cfg)
	}
	return &MCTS[S, A]{
		config: cfg,
		rng:    rand.New(rand.NewSource(cfg.seed)),
	}
}

// Search runs the fixed simulation budget and returns the root child
// with the highest visit count. Confidence is that child's share of the
// root's visits. The context is checked once per simulation; a cancelled
// search returns the context error and no partial result.
func (m *MCTS[S, A]) Search(ctx context.Context, root S, env Environment[S, A]) (Result[S, A], error) {
	t := newTree[S, A](root, env.IsTerminal(root))

	for i := 0; i < m.simulations; i++ {
		if err := ctx.Err(); err != nil {
			return Result[S, A]{}, err
		}
		m.simulate(t, env)
		if (i+1)%progressInterval == 0 {
			m.observer.Progress(i+1, t.mean(rootID))
		}
	}

	best := t.mostVisited(rootID)
	if best == -1 { // Root state offers no moves
		return Result[S, A]{Value: t.mean(rootID)}, nil
	}

	action := t.nodes[best].action
	return Result[S, A]{
		Action:     &action,
		Value:      t.mean(best),
		Confidence: float64(t.nodes[best].visits) / float64(t.nodes[rootID].visits),
		Path:       t.principalVariation(rootID),
	}, nil
}

func (m *MCTS[S, A]) simulate(t *tree[S, A], env Environment[S, A]) {
	// Selection: descend to a leaf by UCB1
	id := rootID
	for len(t.nodes[id].children) > 0 {
		id = t.bestChild(id, m.exploration)
	}

	// Expansion: a visited non-terminal leaf expands every action at
	// once, and the rollout continues from a random new child
	if !t.nodes[id].terminal && t.nodes[id].visits > 0 {
		actions := env.Actions(t.states[id])
		if len(actions) == 0 {
			t.nodes[id].terminal = true
		} else {
			for _, action := range actions {
				next := env.Transition(t.states[id], action)
				t.addChild(id, action, next, env.IsTerminal(next))
			}
			children := t.nodes[id].children
			id = children[m.rng.Intn(len(children))]
		}
	}

	value := m.rollout(t.states[id], env)
	t.backup(id, value)
}

// rollout plays a uniformly random line from state until the environment
// signals terminal or the depth cap is spent, then scores the final
// state. The cap guarantees termination even on environments that never
// signal terminal.
func (m *MCTS[S, A]) rollout(state S, env Environment[S, A]) float64 {
	for depth := 0; depth < m.maxDepth && !env.IsTerminal(state); depth++ {
		actions := env.Actions(state)
		if len(actions) == 0 {
			break
		}
		state = env.Transition(state, actions[m.rng.Intn(len(actions))])
	}
	return env.Evaluate(state)
}
