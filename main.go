package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"checkers/draughts"
	"checkers/experiments"
	"checkers/game"
	"checkers/meta"
	"checkers/searcher"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	mode := flag.String("mode", "decide", "One of decide, experiment, throughput")
	level := flag.String("log-level", "info", "Log level")
	configPath := flag.String("config", "", "YAML experiment config, the built-in match-up when empty")
	boardPath := flag.String("board", "", "File holding the position to decide, the starting position when empty")
	sideName := flag.String("side", "white", "Side to move")
	evaluator := flag.String("evaluator", experiments.Positional, "material or positional")
	maxPly := flag.Int("ply", meta.MAX_PLY, "Search depth")
	goroutines := flag.Int("goroutines", meta.GO_ROUTINES, "Goroutines searching root moves")
	budget := flag.Duration("budget", 0, "Time budget per decision, unlimited when 0")
	dotPath := flag.String("dot", "", "Write the explored search tree as Graphviz DOT to this file")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	lvl, err := zerolog.ParseLevel(*level)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}
	zerolog.SetGlobalLevel(lvl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch *mode {
	case "decide":
		err = decide(ctx, *boardPath, *sideName, *evaluator, *maxPly, *goroutines, *budget, *dotPath)
	case "experiment":
		err = runExperiment(ctx, *configPath)
	case "throughput":
		config := experiments.DefaultThroughputConfig()
		config.MaxPly = *maxPly
		_, err = experiments.RunThroughput(ctx, config)
	default:
		err = errors.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Fatal().Err(err).Msgf("%s failed", *mode)
	}
}

func runExperiment(ctx context.Context, path string) error {
	config := experiments.DefaultConfig()
	if path != "" {
		var err error
		if config, err = experiments.LoadConfig(path); err != nil {
			return err
		}
	}
	_, err := experiments.Run(ctx, config)
	return err
}

// decide searches a single position and prints the chosen move.
func decide(ctx context.Context, boardPath, sideName, evaluator string, maxPly, goroutines int, budget time.Duration, dotPath string) error {
	board := draughts.NewBoard()
	if boardPath != "" {
		data, err := os.ReadFile(boardPath)
		if err != nil {
			return errors.Wrap(err, "failed to read board")
		}
		if board, err = draughts.ParseBoard(string(data)); err != nil {
			return errors.Wrapf(err, "board %s", boardPath)
		}
	}
	var side game.Side
	switch sideName {
	case "white":
		side = game.White
	case "black":
		side = game.Black
	default:
		return errors.Errorf("unknown side %q", sideName)
	}

	rules := draughts.Rules{}
	config := searcher.Config{
		KingWeight:     meta.KING_WEIGHT,
		PawnWeight:     meta.PAWN_WEIGHT,
		MobilityWeight: meta.MOBILITY_WEIGHT,
		MaxPly:         maxPly,
	}
	if err := config.Validate(); err != nil {
		return err
	}
	options := []searcher.Option{searcher.WithGoroutines(goroutines), searcher.WithMetrics()}
	switch evaluator {
	case experiments.Material:
	case experiments.Positional:
		options = append(options, searcher.WithEvaluator(game.Positional(rules, config.Weights(), game.DefaultBonuses)))
	default:
		return errors.Errorf("unknown evaluator %q", evaluator)
	}
	var trace *searcher.Trace
	if dotPath != "" {
		trace = searcher.NewTrace(meta.TRACE_LIMIT)
		options = append(options, searcher.WithTrace(trace))
	}
	s := searcher.New(rules, config, options...)

	// Under a budget deepen one ply at a time so the last completed depth wins
	search := s.Decide
	if budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
		search = s.Deepen
	}
	result, ok := search(ctx, board, side)
	if !ok {
		fmt.Printf("%s has no legal move\n", side)
		return nil
	}

	fmt.Print(board)
	fmt.Printf("%s plays %s (score %d, %d tied)\n", side, result.Move, result.Score, len(result.Best))
	for _, sm := range result.Scores {
		fmt.Printf("  %-12s %d\n", sm.Move, sm.Score)
	}
	log.Info().
		Int("nodes", result.Metric.Nodes).
		Int("leaves", result.Metric.Leaves).
		Int("cutoffs", result.Metric.Cutoffs).
		Int("ply", result.Metric.MaxPly).
		Dur("duration", result.Metric.Duration).
		Bool("interrupted", result.Interrupted).
		Msg("search")

	if trace != nil {
		dot, err := trace.DOT()
		if err != nil {
			return err
		}
		if err := os.WriteFile(dotPath, []byte(dot), 0644); err != nil {
			return errors.Wrap(err, "failed to write search tree")
		}
		log.Info().Msgf("wrote %d nodes to %s", trace.Len(), dotPath)
	}
	return nil
}
