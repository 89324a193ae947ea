package game

// Weights are the coefficients of the material and mobility terms.
type Weights struct {
	King     int
	Pawn     int
	Mobility int
}

// Bonuses are the per-piece coefficients of the positional terms.
type Bonuses struct {
	EdgePawn      int // Pawn on an outer file or rank, cannot be jumped from the side
	EdgeKing      int // King on an outer file or rank
	CentralPawn   int // Pawn on one of the two central ranks
	NearPromotion int // Pawn one rank short of its promotion edge
}

var DefaultBonuses = Bonuses{
	EdgePawn:      8,
	EdgeKing:      10,
	CentralPawn:   4,
	NearPromotion: 10,
}

// tally counts the features of one side.
type tally struct {
	pawns         int
	kings         int
	moves         int
	edgePawns     int
	edgeKings     int
	centralPawns  int
	nearPromotion int
}

// Material scores kings, pawns and mobility as signed differentials between
// self and the opponent.
func Material(rules Rules, w Weights) Evaluate {
	return func(p Position, self Side) int {
		own, opp := countSides(rules, p, self)
		return materialScore(w, own, opp)
	}
}

// Positional adds edge safety, central pawns and pawns close to promotion to
// the material score.
func Positional(rules Rules, w Weights, b Bonuses) Evaluate {
	return func(p Position, self Side) int {
		own, opp := countSides(rules, p, self)
		return materialScore(w, own, opp) +
			b.EdgePawn*(own.edgePawns-opp.edgePawns) +
			b.EdgeKing*(own.edgeKings-opp.edgeKings) +
			b.CentralPawn*(own.centralPawns-opp.centralPawns) +
			b.NearPromotion*(own.nearPromotion-opp.nearPromotion)
	}
}

func materialScore(w Weights, own, opp tally) int {
	return w.King*(own.kings-opp.kings) +
		w.Pawn*(own.pawns-opp.pawns) +
		w.Mobility*(own.moves-opp.moves)
}

func countSides(rules Rules, p Position, self Side) (own, opp tally) {
	var bySide [2]tally

	// Tally pieces by owner
	for x := 0; x < BoardSize; x++ {
		for y := 0; y < BoardSize; y++ {
			kind := p.PieceAt(x, y)
			if kind == None {
				continue
			}
			t := &bySide[kind.Side()]
			edge := x == 0 || y == 0 || x == BoardSize-1 || y == BoardSize-1
			if kind.IsKing() {
				t.kings++
				if edge {
					t.edgeKings++
				}
				continue
			}
			t.pawns++
			if edge {
				t.edgePawns++
			}
			if y == BoardSize/2-1 || y == BoardSize/2 {
				t.centralPawns++
			}
			if y == nearPromotionRank(kind.Side()) {
				t.nearPromotion++
			}
		}
	}

	// Mobility needs one move generation per side
	bySide[White].moves = len(rules.LegalMoves(p, White))
	bySide[Black].moves = len(rules.LegalMoves(p, Black))

	return bySide[self], bySide[self.Opponent()]
}

// PromotionRank is the rank on which pawns of side are crowned.
func PromotionRank(side Side) int {
	if side == White {
		return 0
	}
	return BoardSize - 1
}

func nearPromotionRank(side Side) int {
	if side == White {
		return 1
	}
	return BoardSize - 2
}
