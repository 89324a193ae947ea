package game

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

const BoardSize = 8

type Side int8

const (
	White Side = iota
	Black
)

func (s Side) Opponent() Side {
	if s == White {
		return Black
	}
	return White
}

func (s Side) String() string {
	if s == White {
		return "white"
	}
	return "black"
}

type PieceKind uint8

const (
	None PieceKind = iota
	WhitePawn
	WhiteKing
	BlackPawn
	BlackKing
)

// Side returns the owner of the piece. Callers must check for None first.
func (k PieceKind) Side() Side {
	if k == BlackPawn || k == BlackKing {
		return Black
	}
	return White
}

func (k PieceKind) Belongs(side Side) bool {
	return k != None && k.Side() == side
}

func (k PieceKind) IsKing() bool {
	return k == WhiteKing || k == BlackKing
}

func (k PieceKind) IsPawn() bool {
	return k == WhitePawn || k == BlackPawn
}

// Crowned returns the king of the same side.
func (k PieceKind) Crowned() PieceKind {
	switch k {
	case WhitePawn:
		return WhiteKing
	case BlackPawn:
		return BlackKing
	}
	return k
}

// Point is a board coordinate: X is the file, Y the rank, both in [0, BoardSize).
type Point struct {
	X int
	Y int
}

func (p Point) OnBoard() bool {
	return p.X >= 0 && p.X < BoardSize && p.Y >= 0 && p.Y < BoardSize
}

func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// String renders the point in algebraic notation, rank 0 being the 8th rank.
func (p Point) String() string {
	return fmt.Sprintf("%c%d", 'a'+p.X, BoardSize-p.Y)
}

func ParsePoint(s string) (Point, error) {
	if len(s) != 2 {
		return Point{}, errors.Errorf("invalid square %q", s)
	}
	p := Point{X: int(s[0] - 'a'), Y: BoardSize - int(s[1]-'0')}
	if !p.OnBoard() {
		return Point{}, errors.Errorf("square %q is off the board", s)
	}
	return p, nil
}

// Move is a single ply: the origin square followed by every landing square.
// A capture chain has one landing square per captured piece.
type Move []Point

func (m Move) From() Point {
	return m[0]
}

func (m Move) To() Point {
	return m[len(m)-1]
}

func (m Move) Equal(other Move) bool {
	if len(m) != len(other) {
		return false
	}
	for i := range m {
		if m[i] != other[i] {
			return false
		}
	}
	return true
}

func (m Move) String() string {
	squares := make([]string, len(m))
	for i, p := range m {
		squares[i] = p.String()
	}
	return strings.Join(squares, "-")
}

func ParseMove(s string) (Move, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) < 2 {
		return nil, errors.Errorf("invalid move %q: need at least two squares", s)
	}
	move := make(Move, 0, len(parts))
	for _, part := range parts {
		p, err := ParsePoint(part)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid move %q", s)
		}
		move = append(move, p)
	}
	return move, nil
}

// Position is a snapshot of the board owned by the rules engine. The search
// never mutates a Position; every transition goes through Rules.Apply.
type Position interface {
	PieceAt(file, rank int) PieceKind
}

// Rules is the rules engine the search consumes. Apply must not modify p.
type Rules interface {
	LegalMoves(p Position, side Side) []Move
	Apply(p Position, m Move, side Side) Position
}

// Evaluate scores a position from the perspective of self, the side that
// moved at the root of the search. Larger is better for self.
type Evaluate func(p Position, self Side) int
