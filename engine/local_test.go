package engine

import (
	"context"
	"testing"

	"checkers/draughts"
	"checkers/experiments/metrics"
	"checkers/game"
	"checkers/searcher"
	"checkers/searcher/agent"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// firstMoveAgent always plays the first legal move.
type firstMoveAgent struct {
	rules game.Rules
}

func (a firstMoveAgent) FindMove(ctx context.Context, p game.Position, side game.Side) (game.Move, metrics.SearchMetric, bool) {
	moves := a.rules.LegalMoves(p, side)
	if len(moves) == 0 {
		return nil, metrics.SearchMetric{}, false
	}
	return moves[0], metrics.SearchMetric{RootMoves: len(moves)}, true
}

// fixedAgent replies with the same move whatever the position.
type fixedAgent struct {
	move game.Move
}

func (a fixedAgent) FindMove(ctx context.Context, p game.Position, side game.Side) (game.Move, metrics.SearchMetric, bool) {
	return a.move, metrics.SearchMetric{}, true
}

func pt(x, y int) game.Point {
	return game.Point{X: x, Y: y}
}

func newEngine(start game.Position, options ...Option) *Local {
	rules := draughts.Rules{}
	white := Player{Name: "white-first", Agent: firstMoveAgent{rules: rules}}
	black := Player{Name: "black-first", Agent: firstMoveAgent{rules: rules}}
	return LocalEngine(rules, start, white, black, options...)
}

func TestLocalEnginePlay(t *testing.T) {
	t.Run("valid move is applied and the turn passes", func(t *testing.T) {
		e := newEngine(draughts.NewBoard())

		err := e.Play(game.Move{pt(2, 5), pt(3, 4)})

		require.NoError(t, err)
		require.Equal(t, game.Black, e.ToMove())
		require.Equal(t, game.WhitePawn, e.Position().PieceAt(3, 4))
		require.Equal(t, game.None, e.Position().PieceAt(2, 5))
	})

	t.Run("illegal move is rejected", func(t *testing.T) {
		e := newEngine(draughts.NewBoard())

		err := e.Play(game.Move{pt(2, 5), pt(2, 4)})

		require.ErrorIs(t, err, ErrIllegalMove)
		require.Equal(t, game.White, e.ToMove(), "Turn should not pass")
	})

	t.Run("quiet move is illegal when a capture exists", func(t *testing.T) {
		board, err := draughts.ParseBoard(`
			........
			b.......
			.b......
			........
			.b......
			w.w.....
			........
			........`)
		require.NoError(t, err)
		e := newEngine(board)

		err = e.Play(game.Move{pt(2, 5), pt(3, 4)})

		require.ErrorIs(t, err, ErrIllegalMove)
	})

	t.Run("no moves are allowed once the game is over", func(t *testing.T) {
		board, err := draughts.ParseBoard(`
			.......b
			........
			........
			........
			........
			........
			........
			........`)
		require.NoError(t, err)
		e := newEngine(board)

		err = e.Play(game.Move{pt(2, 5), pt(3, 4)})

		require.ErrorIs(t, err, ErrGameOver)
	})
}

func TestLocalEngineRun(t *testing.T) {
	t.Run("side without moves loses", func(t *testing.T) {
		board, err := draughts.ParseBoard(`
			........
			........
			........
			........
			........
			..b.....
			.w......
			........`)
		require.NoError(t, err)
		e := newEngine(board)

		result, err := e.Run(context.Background())

		require.NoError(t, err)
		require.True(t, result.Decided)
		require.Equal(t, game.White, result.Winner, "White captures the last black piece")
		require.Equal(t, "white", result.Game.Winner)
		require.Equal(t, 1, result.Game.TotalMoves)
		require.Equal(t, "b2-d4", result.Moves[0].Move)
	})

	t.Run("turn cap ends the game as a draw", func(t *testing.T) {
		e := newEngine(draughts.NewBoard(), WithMaxTurns(4))

		result, err := e.Run(context.Background())

		require.NoError(t, err)
		require.False(t, result.Decided)
		require.Empty(t, result.Game.Winner)
		require.Len(t, result.Moves, 4)
		require.Equal(t, "white", result.Moves[0].Side)
		require.Equal(t, "black", result.Moves[1].Side)
		require.Equal(t, 4, result.Game.TotalMoves)
	})

	t.Run("agent playing an illegal move stops the game", func(t *testing.T) {
		rules := draughts.Rules{}
		white := Player{Name: "cheater", Agent: fixedAgent{move: game.Move{pt(2, 5), pt(2, 3)}}}
		black := Player{Name: "first", Agent: firstMoveAgent{rules: rules}}
		e := LocalEngine(rules, draughts.NewBoard(), white, black)

		_, err := e.Run(context.Background())

		require.ErrorIs(t, err, ErrIllegalMove)
	})

	t.Run("cancelled context stops the game", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		e := newEngine(draughts.NewBoard())

		_, err := e.Run(ctx)

		require.True(t, errors.Is(err, context.Canceled))
	})

	t.Run("search agents finish a short game", func(t *testing.T) {
		rules := draughts.Rules{}
		config := searcher.Config{KingWeight: 6, PawnWeight: 3, MobilityWeight: 1, MaxPly: 1}
		white := Player{Name: "baseline", Agent: agent.NewEvaluationAgent(searcher.New(rules, config, searcher.WithSeed(1), searcher.WithMetrics()))}
		black := Player{Name: "positional", Agent: agent.NewPositional(rules, searcher.WithSeed(2))}
		e := LocalEngine(rules, draughts.NewBoard(), white, black, WithMaxTurns(6))

		result, err := e.Run(context.Background())

		require.NoError(t, err)
		require.Len(t, result.Moves, 6)
		require.Equal(t, "baseline", result.Game.White)
		require.Equal(t, "positional", result.Game.Black)
		require.Equal(t, 1, result.Moves[0].MaxPly)
		require.False(t, result.Game.EndTime.Before(result.Game.StartTime))
	})
}
