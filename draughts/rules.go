package draughts

import "checkers/game"

// Rules implements Russian draughts: captures are mandatory, pawns capture
// backwards, kings fly, and a pawn crowned mid-capture continues as a king.
type Rules struct{}

var directions = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

func (Rules) LegalMoves(p game.Position, side game.Side) []game.Move {
	b := asBoard(p)
	if captures := b.captures(side); len(captures) > 0 {
		return captures
	}
	return b.steps(side)
}

func (Rules) Apply(p game.Position, m game.Move, side game.Side) game.Position {
	return asBoard(p).apply(m, side)
}

// Outcome reports whether the game is over with toMove to play. A side
// without legal moves loses.
func (r Rules) Outcome(p game.Position, toMove game.Side) (winner game.Side, over bool) {
	if len(r.LegalMoves(p, toMove)) > 0 {
		return 0, false
	}
	return toMove.Opponent(), true
}

// apply works on a copy of the receiver.
func (b Board) apply(m game.Move, side game.Side) Board {
	kind := b.at(m.From())
	b.set(m.From(), game.None)
	for i := 1; i < len(m); i++ {
		from, to := m[i-1], m[i]
		dx, dy := sign(to.X-from.X), sign(to.Y-from.Y)
		// Remove every opponent piece jumped on this leg
		for q := from.Add(dx, dy); q != to && q.OnBoard(); q = q.Add(dx, dy) {
			if b.at(q).Belongs(side.Opponent()) {
				b.set(q, game.None)
			}
		}
		if kind.IsPawn() && to.Y == game.PromotionRank(side) {
			kind = kind.Crowned()
		}
	}
	b.set(m.To(), kind)
	return b
}

func (b *Board) steps(side game.Side) []game.Move {
	var moves []game.Move
	forward := -1
	if side == game.Black {
		forward = 1
	}
	for x := 0; x < game.BoardSize; x++ {
		for y := 0; y < game.BoardSize; y++ {
			kind := b[x][y]
			if !kind.Belongs(side) {
				continue
			}
			from := game.Point{X: x, Y: y}
			if kind.IsKing() {
				for _, d := range directions {
					for to := from.Add(d[0], d[1]); to.OnBoard() && b.at(to) == game.None; to = to.Add(d[0], d[1]) {
						moves = append(moves, game.Move{from, to})
					}
				}
				continue
			}
			for _, dx := range [2]int{-1, 1} {
				to := from.Add(dx, forward)
				if to.OnBoard() && b.at(to) == game.None {
					moves = append(moves, game.Move{from, to})
				}
			}
		}
	}
	return moves
}

func (b *Board) captures(side game.Side) []game.Move {
	var moves []game.Move
	for x := 0; x < game.BoardSize; x++ {
		for y := 0; y < game.BoardSize; y++ {
			kind := b[x][y]
			if !kind.Belongs(side) {
				continue
			}
			from := game.Point{X: x, Y: y}
			// Lift the piece so a flying king may cross its own origin
			lifted := *b
			lifted.set(from, game.None)
			c := &chain{board: &lifted, side: side, path: game.Move{from}}
			c.jump(from, kind)
			moves = append(moves, c.moves...)
		}
	}
	return moves
}

// chain explores the capture sequences of one piece. Captured pieces stay on
// the board until the move completes: they block, and cannot be jumped twice.
type chain struct {
	board    *Board
	side     game.Side
	captured [game.BoardSize][game.BoardSize]bool
	path     game.Move
	moves    []game.Move
}

// jump extends the chain from a landing square and reports whether any
// further capture was possible.
func (c *chain) jump(from game.Point, kind game.PieceKind) bool {
	found := false
	for _, d := range directions {
		victim, landings := c.targets(from, kind, d)
		if len(landings) == 0 {
			continue
		}
		found = true
		c.captured[victim.X][victim.Y] = true

		// A landing square that allows another capture must be taken
		before := len(c.moves)
		var terminal []game.Point
		for _, to := range landings {
			next := kind
			if kind.IsPawn() && to.Y == game.PromotionRank(c.side) {
				next = kind.Crowned()
			}
			c.path = append(c.path, to)
			if !c.jump(to, next) {
				terminal = append(terminal, to)
			}
			c.path = c.path[:len(c.path)-1]
		}
		if len(c.moves) == before {
			for _, to := range terminal {
				c.emit(to)
			}
		}

		c.captured[victim.X][victim.Y] = false
	}
	return found
}

// targets finds the opponent piece capturable from a square along d and the
// empty squares the capturing piece may land on behind it.
func (c *chain) targets(from game.Point, kind game.PieceKind, d [2]int) (victim game.Point, landings []game.Point) {
	p := from.Add(d[0], d[1])
	if kind.IsKing() {
		for p.OnBoard() && c.board.at(p) == game.None {
			p = p.Add(d[0], d[1])
		}
	}
	if !p.OnBoard() || !c.board.at(p).Belongs(c.side.Opponent()) || c.captured[p.X][p.Y] {
		return p, nil
	}
	victim = p
	for p = p.Add(d[0], d[1]); p.OnBoard() && c.board.at(p) == game.None; p = p.Add(d[0], d[1]) {
		landings = append(landings, p)
		if !kind.IsKing() {
			break
		}
	}
	return victim, landings
}

func (c *chain) emit(to game.Point) {
	move := make(game.Move, len(c.path), len(c.path)+1)
	copy(move, c.path)
	c.moves = append(c.moves, append(move, to))
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
