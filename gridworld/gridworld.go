// Package gridworld is a small deterministic navigation domain used to
// exercise the search engines end to end: an agent on a bounded grid
// walks toward a goal under a step budget.
package gridworld

// Action is one of the four cardinal moves.
type Action int

const (
	Up Action = iota
	Down
	Left
	Right
)

func (a Action) String() string {
	switch a {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// State is the agent's position and the number of steps taken so far.
// States are values; every transition returns a fresh one.
type State struct {
	X, Y  int
	Steps int
}

// World is the static part of the domain and implements the search
// environment contract over State and Action.
type World struct {
	Width, Height int
	GoalX, GoalY  int
	MaxSteps      int
}

// Actions returns the moves that stay on the grid. Terminal states have
// no moves.
func (w World) Actions(s State) []Action {
	if w.IsTerminal(s) {
		return nil
	}

	actions := make([]Action, 0, 4)
	if s.Y > 0 {
		actions = append(actions, Up)
	}
	if s.Y < w.Height-1 {
		actions = append(actions, Down)
	}
	if s.X > 0 {
		actions = append(actions, Left)
	}
	if s.X < w.Width-1 {
		actions = append(actions, Right)
	}
	return actions
}

func (w World) Transition(s State, a Action) State {
	next := State{X: s.X, Y: s.Y, Steps: s.Steps + 1}
	switch a {
	case Up:
		next.Y--
	case Down:
		next.Y++
	case Left:
		next.X--
	case Right:
		next.X++
	}
	return next
}

// Evaluate scores a state in [0, 1]: 1 at the goal, falling off with
// Manhattan distance, with a small penalty per step spent.
func (w World) Evaluate(s State) float64 {
	if w.AtGoal(s) {
		return 1.0
	}
	distance := abs(s.X-w.GoalX) + abs(s.Y-w.GoalY)
	score := 1 - float64(distance)/float64(w.Width+w.Height)
	score -= 0.01 * float64(s.Steps)
	if score < 0 {
		return 0
	}
	return score
}

func (w World) IsTerminal(s State) bool {
	return w.AtGoal(s) || s.Steps >= w.MaxSteps
}

func (w World) AtGoal(s State) bool {
	return s.X == w.GoalX && s.Y == w.GoalY
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
