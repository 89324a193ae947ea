package searcher

import (
	"math"

	"checkers/experiments/metrics"
	"checkers/game"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"lukechampine.com/frand"
)

var ErrInvalidConfig = errors.New("invalid search config")

// Config is fixed for the lifetime of a searcher.
type Config struct {
	KingWeight     int `yaml:"king_weight"`
	PawnWeight     int `yaml:"pawn_weight"`
	MobilityWeight int `yaml:"mobility_weight"`
	MaxPly         int `yaml:"max_ply"`
}

func (c Config) Weights() game.Weights {
	return game.Weights{King: c.KingWeight, Pawn: c.PawnWeight, Mobility: c.MobilityWeight}
}

func (c Config) Validate() error {
	if c.MaxPly < 0 {
		return errors.Wrapf(ErrInvalidConfig, "max ply must not be negative, got %d", c.MaxPly)
	}
	return nil
}

type Option func(s *AlphaBeta)

// WithEvaluator replaces the material evaluator built from the config weights.
func WithEvaluator(evaluate game.Evaluate) Option {
	return func(s *AlphaBeta) {
		if evaluate != nil {
			s.evaluate = evaluate
		}
	}
}

// WithRand sets the source used to break ties between equally good root moves.
func WithRand(rng *rand.Rand) Option {
	return func(s *AlphaBeta) {
		if rng != nil {
			s.rng = rng
		}
	}
}

func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

// WithGoroutines searches root moves on up to n goroutines.
func WithGoroutines(n int) Option {
	return func(s *AlphaBeta) {
		if n > 0 {
			s.goroutines = n
		}
	}
}

func WithMetrics() Option {
	return func(s *AlphaBeta) {
		s.newCollector = metrics.NewCollector
	}
}

// WithoutPruning disables alpha-beta cutoffs, leaving plain minimax.
func WithoutPruning() Option {
	return func(s *AlphaBeta) {
		s.pruning = false
	}
}

// WithTrace records every explored node into trace.
func WithTrace(trace *Trace) Option {
	return func(s *AlphaBeta) {
		s.trace = trace
	}
}

func randomSource() *rand.Rand {
	return rand.New(rand.NewSource(frand.Uint64n(math.MaxUint64)))
}
