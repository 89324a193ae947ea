package agent

import (
	"context"

	"checkers/experiments/metrics"
	"checkers/game"
)

type Agent interface {
	// FindMove returns a move for side and performance metrics (if collected) from the search.
	// It returns false when side has no legal move.
	FindMove(ctx context.Context, p game.Position, side game.Side) (game.Move, metrics.SearchMetric, bool)
}
