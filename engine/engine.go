package engine

import (
	"context"

	"checkers/experiments/metrics"
	"checkers/game"

	"github.com/pkg/errors"
)

var (
	ErrIllegalMove = errors.New("illegal move")
	ErrGameOver    = errors.New("game is over")
	ErrNoMove      = errors.New("agent found no move")
)

// Result of a finished game. Decided is false on a draw by the turn cap.
type Result struct {
	Winner  game.Side
	Decided bool
	Game    metrics.GameMetric
	Moves   []metrics.MoveMetric
}

type Engine interface {
	// Run starts a game till a side cannot move or a max number of turns is reached
	Run(ctx context.Context) (Result, error)
}

var _ Engine = (*Local)(nil)
