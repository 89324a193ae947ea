package agent

import (
	"context"

	"checkers/experiments/metrics"
	"checkers/game"
	"checkers/meta"
	"checkers/searcher"
)

// DefaultConfig holds the weights and depth both shipped agents play with.
var DefaultConfig = searcher.Config{
	KingWeight:     meta.KING_WEIGHT,
	PawnWeight:     meta.PAWN_WEIGHT,
	MobilityWeight: meta.MOBILITY_WEIGHT,
	MaxPly:         meta.MAX_PLY,
}

type evaluationAgent struct {
	searcher *searcher.AlphaBeta
	deepen   bool
}

// NewEvaluationAgent returns a new agent that plays the best move found by s.
func NewEvaluationAgent(s *searcher.AlphaBeta) Agent {
	return evaluationAgent{searcher: s}
}

// NewDeepeningAgent searches one ply at a time, so a cancelled context still
// yields the move of the deepest completed iteration.
func NewDeepeningAgent(s *searcher.AlphaBeta) Agent {
	return evaluationAgent{searcher: s, deepen: true}
}

// NewBaseline plays on material and mobility alone.
func NewBaseline(rules game.Rules, options ...searcher.Option) Agent {
	return NewEvaluationAgent(searcher.New(rules, DefaultConfig, options...))
}

// NewPositional adds edge, centre and promotion bonuses to the baseline score.
func NewPositional(rules game.Rules, options ...searcher.Option) Agent {
	evaluate := game.Positional(rules, DefaultConfig.Weights(), game.DefaultBonuses)
	options = append([]searcher.Option{searcher.WithEvaluator(evaluate)}, options...)
	return NewEvaluationAgent(searcher.New(rules, DefaultConfig, options...))
}

func (a evaluationAgent) FindMove(ctx context.Context, p game.Position, side game.Side) (game.Move, metrics.SearchMetric, bool) {
	var result searcher.Result
	var ok bool
	if a.deepen {
		result, ok = a.searcher.Deepen(ctx, p, side)
	} else {
		result, ok = a.searcher.Decide(ctx, p, side)
	}
	return result.Move, result.Metric, ok
}
