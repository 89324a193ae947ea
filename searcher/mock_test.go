package searcher

import (
	"strconv"
	"sync/atomic"

	"checkers/game"
)

// treePosition is a node of a synthetic game tree named by the child indexes
// leading to it from the root.
type treePosition string

func (treePosition) PieceAt(file, rank int) game.PieceKind {
	return game.None
}

// treeRules gives every node width moves, except the ones listed in widths.
type treeRules struct {
	width      int
	widths     map[treePosition]int
	legalCalls atomic.Int64
}

func (r *treeRules) LegalMoves(p game.Position, side game.Side) []game.Move {
	r.legalCalls.Add(1)
	width := r.width
	if w, ok := r.widths[p.(treePosition)]; ok {
		width = w
	}
	moves := make([]game.Move, width)
	for i := range moves {
		moves[i] = game.Move{{X: i, Y: 0}, {X: i, Y: 1}}
	}
	return moves
}

func (r *treeRules) Apply(p game.Position, m game.Move, side game.Side) game.Position {
	return p.(treePosition) + treePosition(strconv.Itoa(m.From().X))
}

// scriptedEvaluator scores leaves from a table, zero when missing, and counts
// its calls. Scores are negated for Black so both sides see the same game.
type scriptedEvaluator struct {
	scores map[treePosition]int
	calls  atomic.Int64
	selves []game.Side
}

func (e *scriptedEvaluator) evaluate(p game.Position, self game.Side) int {
	e.calls.Add(1)
	e.selves = append(e.selves, self)
	score := e.scores[p.(treePosition)]
	if self == game.Black {
		return -score
	}
	return score
}

func rootMove(i int) game.Move {
	return game.Move{{X: i, Y: 0}, {X: i, Y: 1}}
}
