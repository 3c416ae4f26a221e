package searcher

import "math"

// A search tree is an arena: nodes live in a flat slice and refer to
// each other by index, so parent back-references carry no ownership and
// the whole tree is dropped in one step when a search call returns.

const rootID = 0

const noParent = -1

type node[A any] struct {
	parent    int
	action    A
	hasAction bool // false only for the root
	children  []int
	depth     int
	visits    int
	rewards   float64
	terminal  bool
}

type tree[S, A any] struct {
	nodes  []node[A]
	states []S
}

func newTree[S, A any](root S, terminal bool) *tree[S, A] {
	return &tree[S, A]{
		nodes:  []node[A]{{parent: noParent, terminal: terminal}},
		states: []S{root},
	}
}

func (t *tree[S, A]) addChild(parent int, action A, state S, terminal bool) int {
	id := len(t.nodes)
	t.nodes = append(t.nodes, node[A]{
		parent:    parent,
		action:    action,
		hasAction: true,
		depth:     t.nodes[parent].depth + 1,
		terminal:  terminal,
	})
	t.states = append(t.states, state)
	t.nodes[parent].children = append(t.nodes[parent].children, id)
	return id
}

// bestChild returns the child maximizing UCB1. Unvisited children score
// +Inf and short-circuit the scan, so every child is tried once before
// any statistical comparison.
func (t *tree[S, A]) bestChild(id int, exploration float64) int {
	parent := t.nodes[id]
	if parent.visits == 0 {
		panic("node has children but no visits")
	}
	normalizer := exploration * exploration * math.Log(float64(parent.visits))

	maxIndex := -1
	maxScore := math.Inf(-1)
	for _, child := range parent.children {
		score := ucb1(t.nodes[child].rewards, t.nodes[child].visits, normalizer)
		if math.IsInf(score, 1) {
			return child
		}
		if score > maxScore {
			maxScore = score
			maxIndex = child
		}
	}
	return maxIndex
}

// backup walks from a node to the root, counting the visit and adding
// the rollout value at every node on the path, root included.
func (t *tree[S, A]) backup(id int, value float64) {
	for id != noParent {
		n := &t.nodes[id]
		n.visits++
		n.rewards += value
		id = n.parent
	}
}

// mostVisited returns the "robust child": the child with the highest
// visit count, -1 when the node has none. Ties keep the first child in
// expansion order.
func (t *tree[S, A]) mostVisited(id int) int {
	best := -1
	bestVisits := -1
	for _, child := range t.nodes[id].children {
		if v := t.nodes[child].visits; v > bestVisits {
			best = child
			bestVisits = v
		}
	}
	return best
}

func (t *tree[S, A]) mean(id int) float64 {
	n := t.nodes[id]
	if n.visits == 0 {
		return 0
	}
	return n.rewards / float64(n.visits)
}

// principalVariation follows most-visited children from a node down to
// the first unvisited or childless one.
func (t *tree[S, A]) principalVariation(id int) []Step[S, A] {
	var path []Step[S, A]
	for {
		child := t.mostVisited(id)
		if child == -1 || t.nodes[child].visits == 0 {
			return path
		}
		path = append(path, Step[S, A]{Action: t.nodes[child].action, State: t.states[child]})
		id = child
	}
}
