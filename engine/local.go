package engine

import (
	"context"
	"time"

	"checkers/experiments/metrics"
	"checkers/game"
	"checkers/meta"
	"checkers/searcher/agent"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

// Player is an agent seated at one side of the board.
type Player struct {
	Name  string
	Agent agent.Agent
}

// Local plays two in-process agents against each other. White moves first.
type Local struct {
	rules    game.Rules
	position game.Position
	toMove   game.Side
	players  [2]Player // Indexed by game.Side
	maxTurns int
	gameOver bool
}

type Option func(e *Local)

// WithMaxTurns caps the number of moves before the game is declared a draw.
func WithMaxTurns(n int) Option {
	return func(e *Local) {
		if n > 0 {
			e.maxTurns = n
		}
	}
}

func LocalEngine(rules game.Rules, start game.Position, white, black Player, options ...Option) *Local {
	if white.Agent == nil || black.Agent == nil {
		panic("both sides need an agent")
	}
	e := &Local{
		rules:    rules,
		position: start,
		toMove:   game.White,
		players:  [2]Player{game.White: white, game.Black: black},
		maxTurns: meta.MAX_TURNS,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

func (e *Local) Position() game.Position {
	return e.position
}

func (e *Local) ToMove() game.Side {
	return e.toMove
}

// Play applies move for the side to move after checking it against the legal moves.
func (e *Local) Play(move game.Move) error {
	if e.gameOver {
		return ErrGameOver
	}
	legalMoves := e.rules.LegalMoves(e.position, e.toMove)
	if len(legalMoves) == 0 {
		e.gameOver = true
		return ErrGameOver
	}
	if slices.IndexFunc(legalMoves, move.Equal) < 0 {
		return errors.Wrapf(ErrIllegalMove, "%s cannot play %s", e.toMove, move)
	}

	e.position = e.rules.Apply(e.position, move, e.toMove)
	e.toMove = e.toMove.Opponent()
	return nil
}

// Run executes the entire game loop until a side has no legal move.
func (e *Local) Run(ctx context.Context) (result Result, err error) {
	result = Result{Game: metrics.GameMetric{
		White:     e.players[game.White].Name,
		Black:     e.players[game.Black].Name,
		StartTime: time.Now(),
	}}
	defer func() {
		result.Game.EndTime = time.Now()
		result.Game.Duration = result.Game.EndTime.Sub(result.Game.StartTime)
		result.Game.TotalMoves = len(result.Moves)
	}()

	log.Debug().Msgf("%s (white) vs %s (black)", result.Game.White, result.Game.Black)

	for turn := 1; turn <= e.maxTurns; turn++ {
		if err := ctx.Err(); err != nil {
			return result, errors.Wrap(err, "game cancelled")
		}
		if len(e.rules.LegalMoves(e.position, e.toMove)) == 0 {
			e.gameOver = true
			result.Winner, result.Decided = e.toMove.Opponent(), true
			result.Game.Winner = result.Winner.String()
			log.Debug().Msgf("%s wins after %d moves", result.Winner, len(result.Moves))
			return result, nil
		}

		player := e.players[e.toMove]
		move, searchMetric, ok := player.Agent.FindMove(ctx, e.position, e.toMove)
		if !ok {
			return result, errors.Wrapf(ErrNoMove, "%s at turn %d", player.Name, turn)
		}
		result.Moves = append(result.Moves, metrics.MoveMetric{
			Step:         turn,
			Player:       player.Name,
			Side:         e.toMove.String(),
			Move:         move.String(),
			SearchMetric: searchMetric,
		})

		if err := e.Play(move); err != nil {
			return result, errors.Wrapf(err, "%s at turn %d", player.Name, turn)
		}
	}

	log.Debug().Msgf("stopped after %d turns (no winner yet)", e.maxTurns)
	return result, nil
}
