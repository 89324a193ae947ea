package experiments

import (
	"context"
	"math"
	"time"

	"checkers/draughts"
	"checkers/engine"
	"checkers/experiments/metrics"
	"checkers/game"
	"checkers/searcher"
	"checkers/searcher/agent"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
	"lukechampine.com/frand"
)

// Report holds everything recorded by an experiment.
type Report struct {
	Dir     string // Folder the CSV files were written to
	Games   []metrics.GameRecord
	Moves   []metrics.MoveRecord
	Summary []AgentSummary
}

type job struct {
	id           int
	white, black metrics.AgentConfig
}

// Run plays every match-up of config and stores agent configs, game records
// and move records as CSV files.
func Run(ctx context.Context, config Config) (Report, error) {
	config.Agents = slices.Clone(config.Agents)
	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return Report{}, err
	}
	writer, err := metrics.NewWriter(config.OutputDir, config.Name)
	if err != nil {
		return Report{}, errors.Wrap(err, "failed to create experiment writer")
	}

	// Alternate colours so neither agent always moves first
	var jobs []job
	for _, m := range config.MatchUps {
		agent1, agent2 := config.agent(m.Agent1), config.agent(m.Agent2)
		for i := 0; i < config.Games; i++ {
			j := job{id: len(jobs) + 1, white: agent1, black: agent2}
			if i%2 == 1 {
				j.white, j.black = agent2, agent1
			}
			jobs = append(jobs, j)
		}
	}

	log.Info().Msgf("starting %s experiment with %d games...", config.Name, len(jobs))

	games := make([]metrics.GameRecord, len(jobs))
	moves := make([][]metrics.MoveRecord, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(config.Concurrency)
	for i, j := range jobs {
		g.Go(func() error {
			result, err := runGame(ctx, config, j)
			if err != nil {
				return errors.Wrapf(err, "game %d", j.id)
			}
			games[i] = metrics.GameRecord{ID: j.id, Agent1: j.white.ID, Agent2: j.black.ID, GameMetric: result.Game}
			for _, mm := range result.Moves {
				moves[i] = append(moves[i], metrics.MoveRecord{Game: j.id, MoveMetric: mm})
			}
			log.Info().Msgf("completed game %d of %d (%s vs %s) with winner: %q", j.id, len(jobs), j.white.Name, j.black.Name, result.Game.Winner)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	report := Report{Dir: writer.Dir(), Games: games}
	for _, m := range moves {
		report.Moves = append(report.Moves, m...)
	}

	log.Info().Msgf("completed %s experiment", config.Name)

	if err := writer.WriteAgentConfigs(config.Agents); err != nil {
		return report, err
	}
	log.Info().Msg("stored agent configs")
	if err := writer.WriteGameRecords(report.Games); err != nil {
		return report, err
	}
	log.Info().Msg("stored game records")
	if err := writer.WriteMoveRecords(report.Moves); err != nil {
		return report, err
	}
	log.Info().Msgf("stored move records in %s", writer.Dir())

	report.Summary = Summarize(config.Agents, report.Games, report.Moves)
	for _, s := range report.Summary {
		log.Info().
			Str("agent", s.Name).
			Int("games", s.Games).
			Int("wins", s.Wins).
			Int("losses", s.Losses).
			Int("draws", s.Draws).
			Float64("mean_ms", s.MeanMillis).
			Float64("std_ms", s.StdMillis).
			Float64("mean_nodes", s.MeanNodes).
			Float64("std_nodes", s.StdNodes).
			Msg("summary")
	}
	return report, nil
}

// runGame plays a single game between the agents of j from the starting position.
func runGame(ctx context.Context, config Config, j job) (engine.Result, error) {
	rules := draughts.Rules{}
	var whiteSeed, blackSeed uint64
	if config.Seed != 0 {
		whiteSeed = config.Seed + uint64(2*j.id)
		blackSeed = whiteSeed + 1
	}
	white := engine.Player{Name: j.white.Name, Agent: NewAgent(rules, j.white, whiteSeed)}
	black := engine.Player{Name: j.black.Name, Agent: NewAgent(rules, j.black, blackSeed)}
	e := engine.LocalEngine(rules, draughts.NewBoard(), white, black, engine.WithMaxTurns(config.MaxTurns))
	return e.Run(ctx)
}

// NewAgent builds the agent described by config. A zero seed draws one at random.
func NewAgent(rules game.Rules, config metrics.AgentConfig, seed uint64) agent.Agent {
	if seed == 0 {
		seed = frand.Uint64n(math.MaxUint64)
	}
	searchConfig := searcher.Config{
		KingWeight:     config.KingWeight,
		PawnWeight:     config.PawnWeight,
		MobilityWeight: config.MobilityWeight,
		MaxPly:         config.MaxPly,
	}
	options := []searcher.Option{
		searcher.WithMetrics(),
		searcher.WithGoroutines(config.Goroutines),
		searcher.WithSeed(seed),
	}
	if config.Evaluator == Positional {
		options = append(options, searcher.WithEvaluator(game.Positional(rules, searchConfig.Weights(), game.DefaultBonuses)))
	}
	s := searcher.New(rules, searchConfig, options...)

	switch {
	case config.Temperature > 0:
		return agent.NewSamplingAgent(s, config.Temperature, rand.New(rand.NewSource(seed^0x9e3779b97f4a7c15)))
	case config.Deepen:
		return agent.NewDeepeningAgent(s)
	default:
		return agent.NewEvaluationAgent(s)
	}
}

type AgentSummary struct {
	Name                  string
	Games                 int
	Wins, Losses, Draws   int
	Moves                 int
	MeanMillis, StdMillis float64 // Decision time
	MeanNodes, StdNodes   float64
}

// Summarize aggregates results per agent profile, in the order of agents.
func Summarize(agents []metrics.AgentConfig, games []metrics.GameRecord, moves []metrics.MoveRecord) []AgentSummary {
	summaries := make([]AgentSummary, len(agents))
	index := make(map[string]int, len(agents))
	for i, a := range agents {
		summaries[i].Name = a.Name
		index[a.Name] = i
	}

	for _, g := range games {
		for side, name := range map[game.Side]string{game.White: g.White, game.Black: g.Black} {
			i, ok := index[name]
			if !ok {
				continue
			}
			summaries[i].Games++
			switch g.Winner {
			case "":
				summaries[i].Draws++
			case side.String():
				summaries[i].Wins++
			default:
				summaries[i].Losses++
			}
		}
	}

	durations := make([][]float64, len(agents))
	nodes := make([][]float64, len(agents))
	for _, m := range moves {
		i, ok := index[m.Player]
		if !ok {
			continue
		}
		durations[i] = append(durations[i], float64(m.Duration)/float64(time.Millisecond))
		nodes[i] = append(nodes[i], float64(m.Nodes))
	}
	for i := range summaries {
		summaries[i].Moves = len(durations[i])
		summaries[i].MeanMillis, summaries[i].StdMillis = meanStdDev(durations[i])
		summaries[i].MeanNodes, summaries[i].StdNodes = meanStdDev(nodes[i])
	}
	return summaries
}

func meanStdDev(x []float64) (mean, std float64) {
	switch len(x) {
	case 0:
		return 0, 0
	case 1:
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}
