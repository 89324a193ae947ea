package experiments

import (
	"context"
	"fmt"
	"time"

	"checkers/draughts"
	"checkers/experiments/metrics"
	"checkers/game"
	"checkers/meta"
	"checkers/searcher"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
)

type ThroughputConfig struct {
	OutputDir  string
	Goroutines []int // Root fan-out widths to compare
	MaxPly     int
	Positions  int // Sampled from random games
	Seed       uint64
}

func DefaultThroughputConfig() ThroughputConfig {
	return ThroughputConfig{
		OutputDir:  "results",
		Goroutines: []int{1, 2, 4, 8, 16},
		MaxPly:     meta.MAX_PLY,
		Positions:  10,
		Seed:       1,
	}
}

type Throughput struct {
	Goroutines  int
	MeanMillis  float64
	NodesPerSec float64
	Speedup     float64 // Relative to the first width
}

// RunThroughput searches the same positions with each root fan-out width and
// reports how decision time scales.
func RunThroughput(ctx context.Context, config ThroughputConfig) ([]Throughput, error) {
	if len(config.Goroutines) == 0 {
		return nil, errors.New("no goroutine counts to compare")
	}
	rules := draughts.Rules{}
	positions := samplePositions(rules, config.Positions, config.Seed)

	writer, err := metrics.NewWriter(config.OutputDir, "throughput")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create experiment writer")
	}

	log.Info().Msgf("starting throughput experiment on %d positions...", len(positions))

	var configs []metrics.AgentConfig
	var records []metrics.MoveRecord
	var results []Throughput
	for i, goroutines := range config.Goroutines {
		agentConfig := metrics.AgentConfig{
			ID:             i + 1,
			Name:           fmt.Sprintf("goroutines-%d", goroutines),
			Evaluator:      Material,
			KingWeight:     meta.KING_WEIGHT,
			PawnWeight:     meta.PAWN_WEIGHT,
			MobilityWeight: meta.MOBILITY_WEIGHT,
			MaxPly:         config.MaxPly,
			Goroutines:     goroutines,
		}
		configs = append(configs, agentConfig)
		s := searcher.New(rules, searcher.Config{
			KingWeight:     agentConfig.KingWeight,
			PawnWeight:     agentConfig.PawnWeight,
			MobilityWeight: agentConfig.MobilityWeight,
			MaxPly:         agentConfig.MaxPly,
		}, searcher.WithGoroutines(goroutines), searcher.WithMetrics(), searcher.WithSeed(config.Seed))

		var millis []float64
		var nodes, elapsed float64
		for step, p := range positions {
			if err := ctx.Err(); err != nil {
				return results, errors.Wrap(err, "throughput experiment cancelled")
			}
			result, ok := s.Decide(ctx, p.position, p.side)
			if !ok || result.Forced {
				continue
			}
			millis = append(millis, float64(result.Metric.Duration)/float64(time.Millisecond))
			nodes += float64(result.Metric.Nodes + result.Metric.Leaves)
			elapsed += result.Metric.Duration.Seconds()
			records = append(records, metrics.MoveRecord{Game: i + 1, MoveMetric: metrics.MoveMetric{
				Step:         step + 1,
				Player:       agentConfig.Name,
				Side:         p.side.String(),
				Move:         result.Move.String(),
				SearchMetric: result.Metric,
			}})
		}

		t := Throughput{Goroutines: goroutines}
		if len(millis) > 0 {
			t.MeanMillis = stat.Mean(millis, nil)
		}
		if elapsed > 0 {
			t.NodesPerSec = nodes / elapsed
		}
		t.Speedup = 1
		if len(results) > 0 && t.MeanMillis > 0 {
			t.Speedup = results[0].MeanMillis / t.MeanMillis
		}
		results = append(results, t)
		log.Info().
			Int("goroutines", goroutines).
			Float64("mean_ms", t.MeanMillis).
			Float64("nodes_per_sec", t.NodesPerSec).
			Float64("speedup", t.Speedup).
			Msg("throughput")
	}

	log.Info().Msg("completed throughput experiment")

	if err := writer.WriteAgentConfigs(configs); err != nil {
		return results, err
	}
	if err := writer.WriteMoveRecords(records); err != nil {
		return results, err
	}
	log.Info().Msgf("stored throughput records in %s", writer.Dir())
	return results, nil
}

type sample struct {
	position game.Position
	side     game.Side
}

// samplePositions plays random games and keeps one position every few plies,
// skipping the ones where the side to move has no choice.
func samplePositions(rules game.Rules, n int, seed uint64) []sample {
	rng := rand.New(rand.NewSource(seed))
	var samples []sample
	for attempts := 0; len(samples) < n && attempts < 100*n+100; attempts++ {
		var p game.Position = draughts.NewBoard()
		side := game.White
		for ply := 0; ply < 40 && len(samples) < n; ply++ {
			moves := rules.LegalMoves(p, side)
			if len(moves) == 0 {
				break
			}
			if ply%6 == 0 && len(moves) > 1 {
				samples = append(samples, sample{position: p, side: side})
			}
			p = rules.Apply(p, moves[rng.Intn(len(moves))], side)
			side = side.Opponent()
		}
	}
	return samples
}
