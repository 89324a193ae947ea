package searcher

import (
	"context"
	"sync"

	"checkers/experiments/metrics"
	"checkers/game"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
)

// AlphaBeta is a depth-limited minimax searcher with alpha-beta pruning. Ties
// between the best root moves are broken at random.
type AlphaBeta struct {
	mu           sync.Mutex
	rules        game.Rules
	config       Config
	evaluate     game.Evaluate
	rng          *rand.Rand
	goroutines   int
	pruning      bool
	newCollector func() metrics.Collector
	trace        *Trace
}

// New panics if config is invalid.
func New(rules game.Rules, config Config, options ...Option) *AlphaBeta {
	if err := config.Validate(); err != nil {
		panic(err)
	}
	s := &AlphaBeta{ // Default values
		rules:        rules,
		config:       config,
		evaluate:     game.Material(rules, config.Weights()),
		goroutines:   1,
		pruning:      true,
		newCollector: metrics.NewDummyCollector,
	}
	for _, option := range options {
		option(s)
	}
	if s.rng == nil {
		s.rng = randomSource()
	}
	return s
}

func (s *AlphaBeta) Config() Config {
	return s.config
}

func (s *AlphaBeta) FindMove(ctx context.Context, p game.Position, side game.Side) (game.Move, bool) {
	result, ok := s.Decide(ctx, p, side)
	return result.Move, ok
}

// Decide searches every root move to the configured ply and returns the
// scored root moves along with the chosen one.
func (s *AlphaBeta) Decide(ctx context.Context, p game.Position, side game.Side) (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.decide(ctx, p, side, s.config.MaxPly)
}

// Deepen searches with an increasing ply limit up to the configured one and
// returns the decision of the deepest iteration that was not interrupted.
func (s *AlphaBeta) Deepen(ctx context.Context, p game.Position, side game.Side) (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var best Result
	for ply := 0; ply <= s.config.MaxPly; ply++ {
		result, ok := s.decide(ctx, p, side, ply)
		if !ok {
			return Result{}, false
		}
		if result.Interrupted && ply > 0 {
			log.Debug().Int("ply", ply).Msg("deepening interrupted, keeping previous iteration")
			break
		}
		best = result
		if result.Forced || result.Interrupted {
			break
		}
	}
	return best, true
}

func (s *AlphaBeta) decide(ctx context.Context, p game.Position, side game.Side, maxPly int) (Result, bool) {
	moves := s.rules.LegalMoves(p, side)
	if len(moves) == 0 {
		return Result{}, false
	}
	if len(moves) == 1 {
		return Result{Move: moves[0], Best: moves, Forced: true}, true
	}

	collector := s.newCollector()
	collector.Start(s.goroutines, maxPly)
	root := s.trace.enter(-1, nil, side)

	scores := s.scoreRoot(ctx, p, side, moves, maxPly, collector, root)

	// Fully searched moves are the only candidates unless none finished,
	// then the best partial values are used
	candidates := slices.DeleteFunc(slices.Clone(scores), func(sm ScoredMove) bool { return !sm.Complete })
	interrupted := len(candidates) < len(scores)
	if len(candidates) == 0 {
		candidates = scores
	}

	// Collect every move sharing the maximum score
	best := MinusInfinity
	for _, sm := range candidates {
		best = max(best, sm.Score)
	}
	var ties []game.Move
	for _, sm := range candidates {
		if sm.Score == best {
			ties = append(ties, sm.Move)
		}
	}
	move := ties[s.rng.Intn(len(ties))]
	s.trace.score(root, best)

	metric := collector.Complete()
	metric.RootMoves = len(moves)
	metric.Score = best
	metric.Ties = len(ties)
	metric.Interrupted = interrupted

	log.Debug().
		Str("side", side.String()).
		Str("move", move.String()).
		Int("score", best).
		Int("ties", len(ties)).
		Int("ply", maxPly).
		Bool("interrupted", metric.Interrupted).
		Msg("root decision")

	return Result{
		Move:        move,
		Score:       best,
		Scores:      scores,
		Best:        ties,
		Interrupted: metric.Interrupted,
		Metric:      metric,
	}, true
}

// scoreRoot gives every root move its own full window. Scores are stored by
// root index so the completion order of parallel branches does not matter.
// A branch that has not started when the context ends is left unscored.
func (s *AlphaBeta) scoreRoot(ctx context.Context, p game.Position, side game.Side, moves []game.Move, maxPly int, collector metrics.Collector, root int) []ScoredMove {
	scores := make([]ScoredMove, len(moves))
	branch := func(i int) {
		move := moves[i]
		if ctx.Err() != nil {
			scores[i] = ScoredMove{Score: MinusInfinity, Move: move}
			return
		}
		node := s.trace.enter(root, move, side)
		search := &search{
			ctx:      ctx,
			rules:    s.rules,
			evaluate: s.evaluate,
			self:     side,
			maxPly:   maxPly,
			pruning:  s.pruning,
			metrics:  collector,
			trace:    s.trace,
		}
		value := search.minValue(s.rules.Apply(p, move, side), MinusInfinity, PlusInfinity, 1, node)
		if search.interrupted && value == PlusInfinity { // Stopped before any reply was scored
			value = MinusInfinity
		}
		if !search.interrupted {
			s.trace.score(node, value)
		}
		scores[i] = ScoredMove{Score: value, Move: move, Complete: !search.interrupted}
	}

	if s.goroutines <= 1 {
		for i := range moves {
			branch(i)
		}
		return scores
	}

	var g errgroup.Group
	g.SetLimit(s.goroutines)
	for i := range moves {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = errors.Errorf("root move %v: %v", moves[i], r)
				}
			}()
			branch(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		panic(err)
	}
	return scores
}
