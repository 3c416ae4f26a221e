package searcher

// Observer receives live search notifications: Progress fires every
// progressInterval MCTS simulations with the running root value estimate,
// Complete fires once per Minimax run with its exploration counters.
// Fires happen inline on the searching goroutine before the call returns.
type Observer interface {
	Progress(simulations int, bestValue float64)
	Complete(nodesExplored int, pruned int)
}

type noopObserver struct{}

// NewNoopObserver returns an Observer that discards every notification.
func NewNoopObserver() Observer {
	return noopObserver{}
}

func (noopObserver) Progress(int, float64) {}
func (noopObserver) Complete(int, int)     {}
