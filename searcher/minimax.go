package searcher

import (
	"context"

	"checkers/experiments/metrics"
	"checkers/game"
)

// search holds what stays fixed during the exploration of one root branch.
// Every node is scored from the perspective of self, the side that moved at
// the root, on both the maximizing and the minimizing plies.
type search struct {
	ctx      context.Context
	rules    game.Rules
	evaluate game.Evaluate
	self     game.Side
	maxPly   int
	pruning  bool
	metrics  metrics.Collector
	trace    *Trace

	// interrupted is set once a node stops before searching all its moves.
	// Values returned from then on are not exact and must not be folded.
	interrupted bool
}

// maxValue is a ply where self is to move.
func (s *search) maxValue(p game.Position, alpha, beta, ply, node int) int {
	if ply > s.maxPly {
		return s.leaf(p, node)
	}
	moves := s.rules.LegalMoves(p, s.self)
	if len(moves) == 0 { // Scored like any other leaf, not as a loss
		return s.leaf(p, node)
	}
	s.metrics.AddNode()

	best := MinusInfinity
	for _, move := range moves {
		if s.stopped() {
			break
		}
		child := s.trace.enter(node, move, s.self)
		value := s.minValue(s.rules.Apply(p, move, s.self), alpha, beta, ply+1, child)
		if s.interrupted {
			break
		}
		s.trace.score(child, value)
		best = max(best, value)
		if s.pruning && best >= beta { // The minimizer will never allow this line
			s.metrics.AddCutoff()
			s.trace.cut(node)
			return best
		}
		alpha = max(alpha, best)
	}
	return best
}

// minValue is a ply where the opponent of self is to move.
func (s *search) minValue(p game.Position, alpha, beta, ply, node int) int {
	if ply > s.maxPly {
		return s.leaf(p, node)
	}
	opponent := s.self.Opponent()
	moves := s.rules.LegalMoves(p, opponent)
	if len(moves) == 0 {
		return s.leaf(p, node)
	}
	s.metrics.AddNode()

	best := PlusInfinity
	for _, move := range moves {
		if s.stopped() {
			break
		}
		child := s.trace.enter(node, move, opponent)
		value := s.maxValue(s.rules.Apply(p, move, opponent), alpha, beta, ply+1, child)
		if s.interrupted {
			break
		}
		s.trace.score(child, value)
		best = min(best, value)
		if s.pruning && best <= alpha {
			s.metrics.AddCutoff()
			s.trace.cut(node)
			return best
		}
		beta = min(beta, best)
	}
	return best
}

// stopped marks the branch interrupted once the context is done.
func (s *search) stopped() bool {
	if s.ctx.Err() != nil {
		s.interrupted = true
	}
	return s.interrupted
}

func (s *search) leaf(p game.Position, node int) int {
	s.metrics.AddLeaf()
	s.trace.leaf(node)
	return s.evaluate(p, s.self)
}
