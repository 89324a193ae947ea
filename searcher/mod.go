package searcher

import (
	"context"
	"math"

	"checkers/experiments/metrics"
	"checkers/game"
)

// Bounds of the search window. MinusInfinity also marks a root move that was
// never scored.
const (
	PlusInfinity  = math.MaxInt
	MinusInfinity = math.MinInt
)

// Searcher picks a move for side. It returns false when side has no legal move.
type Searcher interface {
	FindMove(ctx context.Context, p game.Position, side game.Side) (game.Move, bool)
}

// ScoredMove pairs a root move with its search value. Score is exact only when
// Complete; an interrupted branch keeps the best value found before it stopped.
type ScoredMove struct {
	Score    int
	Move     game.Move
	Complete bool
}

// Result describes one root decision.
type Result struct {
	Move        game.Move
	Score       int
	Scores      []ScoredMove // One per legal root move, empty when Forced
	Best        []game.Move  // Root moves tied for the best score among the candidates
	Forced      bool         // Only one legal move, no search was run
	Interrupted bool         // Some root move was not fully searched
	Metric      metrics.SearchMetric
}
