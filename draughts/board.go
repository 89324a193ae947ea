package draughts

import (
	"strings"

	"checkers/game"

	"github.com/pkg/errors"
)

// Board is indexed by [file][rank]. It is a value: assigning or passing a
// Board copies it, so applying a move never affects the caller's board.
type Board [game.BoardSize][game.BoardSize]game.PieceKind

// NewBoard returns the standard starting position: three ranks of pawns per
// side on the dark squares, Black on ranks 0-2 and White on ranks 5-7.
func NewBoard() Board {
	var b Board
	for x := 0; x < game.BoardSize; x++ {
		for y := 0; y < game.BoardSize; y++ {
			if !IsDark(game.Point{X: x, Y: y}) {
				continue
			}
			switch {
			case y < 3:
				b[x][y] = game.BlackPawn
			case y >= game.BoardSize-3:
				b[x][y] = game.WhitePawn
			}
		}
	}
	return b
}

// IsDark reports whether p is a playable square.
func IsDark(p game.Point) bool {
	return (p.X+p.Y)%2 == 1
}

func (b Board) PieceAt(file, rank int) game.PieceKind {
	return b[file][rank]
}

func (b *Board) at(p game.Point) game.PieceKind {
	return b[p.X][p.Y]
}

func (b *Board) set(p game.Point, kind game.PieceKind) {
	b[p.X][p.Y] = kind
}

// Count returns the number of pawns and kings of side.
func (b Board) Count(side game.Side) (pawns, kings int) {
	for x := 0; x < game.BoardSize; x++ {
		for y := 0; y < game.BoardSize; y++ {
			kind := b[x][y]
			if !kind.Belongs(side) {
				continue
			}
			if kind.IsKing() {
				kings++
			} else {
				pawns++
			}
		}
	}
	return pawns, kings
}

var symbols = map[game.PieceKind]byte{
	game.None:      '.',
	game.WhitePawn: 'w',
	game.WhiteKing: 'W',
	game.BlackPawn: 'b',
	game.BlackKing: 'B',
}

// String draws the board with rank 0 on top, one line per rank.
func (b Board) String() string {
	var sb strings.Builder
	for y := 0; y < game.BoardSize; y++ {
		for x := 0; x < game.BoardSize; x++ {
			sb.WriteByte(symbols[b[x][y]])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseBoard reads the format produced by String. Whitespace inside a line is
// ignored and blank lines are skipped.
func ParseBoard(s string) (Board, error) {
	var b Board
	y := 0
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), "")
		if line == "" {
			continue
		}
		if y >= game.BoardSize {
			return Board{}, errors.Errorf("too many ranks: want %d", game.BoardSize)
		}
		if len(line) != game.BoardSize {
			return Board{}, errors.Errorf("rank %d has %d squares, want %d", y, len(line), game.BoardSize)
		}
		for x := 0; x < game.BoardSize; x++ {
			kind, err := parseSymbol(line[x])
			if err != nil {
				return Board{}, errors.Wrapf(err, "rank %d file %d", y, x)
			}
			if kind != game.None && !IsDark(game.Point{X: x, Y: y}) {
				return Board{}, errors.Errorf("piece on light square %s", game.Point{X: x, Y: y})
			}
			b[x][y] = kind
		}
		y++
	}
	if y != game.BoardSize {
		return Board{}, errors.Errorf("got %d ranks, want %d", y, game.BoardSize)
	}
	return b, nil
}

func parseSymbol(c byte) (game.PieceKind, error) {
	switch c {
	case '.', '-', '_':
		return game.None, nil
	case 'w':
		return game.WhitePawn, nil
	case 'W':
		return game.WhiteKing, nil
	case 'b':
		return game.BlackPawn, nil
	case 'B':
		return game.BlackKing, nil
	}
	return game.None, errors.Errorf("unknown symbol %q", c)
}

// asBoard converts any Position into a Board, copying foreign implementations.
func asBoard(p game.Position) Board {
	switch b := p.(type) {
	case Board:
		return b
	case *Board:
		return *b
	}
	var b Board
	for x := 0; x < game.BoardSize; x++ {
		for y := 0; y < game.BoardSize; y++ {
			b[x][y] = p.PieceAt(x, y)
		}
	}
	return b
}
