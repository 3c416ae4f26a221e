package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"plancore/bandit"
	"plancore/decider"
	"plancore/experiments"
	"plancore/gridworld"
	"plancore/planner"
	"plancore/searcher"
)

func main() {
	strategy := flag.String("strategy", "hybrid", "Planning strategy: mcts, minimax or hybrid")
	simulations := flag.Int("simulations", 2000, "MCTS simulations per planning call")
	depth := flag.Int("depth", 10, "Search depth cap")
	steps := flag.Int("steps", 20, "Maximum plan length")
	rounds := flag.Int("rounds", 200, "Bandit learning rounds")
	compare := flag.Bool("compare", false, "Run the bandit strategy comparison and exit")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if *compare {
		arms := []experiments.BernoulliArm{{ID: "a", P: 0.8}, {ID: "b", P: 0.5}, {ID: "c", P: 0.2}}
		if err := experiments.RunStrategyComparison(arms); err != nil {
			log.Fatal().Err(err).Msg("strategy comparison failed")
		}
		return
	}

	runPlanningDemo(planner.Strategy(*strategy), *simulations, *depth, *steps)
	runDecisionDemo(*rounds)
}

func runPlanningDemo(strategy planner.Strategy, simulations, depth, steps int) {
	world := gridworld.World{Width: 8, Height: 8, GoalX: 7, GoalY: 7, MaxSteps: 40}

	mcts := searcher.NewMCTS[gridworld.State, gridworld.Action](
		searcher.WithSimulations(simulations),
		searcher.WithMaxDepth(depth),
	)
	minimax := searcher.NewMinimax[gridworld.State, gridworld.Action](
		searcher.WithMaxDepth(depth),
	)
	p := planner.New(mcts, minimax, planner.WithStrategy(strategy))

	sequence, err := p.PlanSequence(context.Background(), gridworld.State{}, world, steps)
	if err != nil {
		log.Fatal().Err(err).Msg("planning failed")
	}

	state := gridworld.State{}
	for _, step := range sequence {
		state = world.Transition(state, step.Action)
		log.Info().
			Int("step", step.Step).
			Stringer("action", step.Action).
			Float64("value", step.Value).
			Float64("confidence", step.Confidence).
			Msg("planned step")
	}
	log.Info().
		Bool("reached_goal", world.AtGoal(state)).
		Int("plan_length", len(sequence)).
		Msg("planning demo finished")
}

func runDecisionDemo(rounds int) {
	// Three retry policies with hidden success rates; the engine has to
	// discover the best one while a critical rule keeps overriding it
	// under high load
	selector := bandit.NewSelector(bandit.ThompsonSampling)
	engine := decider.New[float64](selector, decider.WithMinTrials(10))

	engine.AddOption("retry-fast")
	engine.AddOption("retry-slow")
	engine.AddOption("give-up")
	engine.AddRule(decider.Rule[float64]{
		Name:     "shed-load",
		Priority: 1,
		Condition: func(load float64) bool {
			return load > 0.9
		},
		Action: "give-up",
	})

	successRates := map[string]float64{"retry-fast": 0.7, "retry-slow": 0.5, "give-up": 0.1}
	variate := bandit.NewVariate(99)
	for i := 0; i < rounds; i++ {
		load := variate.Beta(2, 5)
		decision := engine.Decide(load)
		if decision.Type == decider.RuleBased || decision.Action == "" {
			continue
		}

		success := variate.Beta(1, 1) < successRates[decision.Action]
		reward := 0.0
		if success {
			reward = 1.0
		}
		if err := engine.LearnOutcome(decision.Action, reward, success); err != nil {
			log.Fatal().Err(err).Msg("learning failed")
		}
	}

	best := selector.Best()
	log.Info().
		Str("best_option", best.ID).
		Float64("average_reward", best.AverageReward()).
		Float64("confidence", best.Confidence()).
		Bool("act_autonomously", engine.ShouldActAutonomously()).
		Int("decisions", len(engine.History())).
		Msg("decision demo finished")
}
