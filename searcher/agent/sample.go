package agent

import (
	"context"
	"math"
	"sync"

	"checkers/experiments/metrics"
	"checkers/game"
	"checkers/searcher"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"lukechampine.com/frand"
)

type samplingAgent struct {
	mu          sync.Mutex
	searcher    *searcher.AlphaBeta
	temperature float64
	rng         *rand.Rand
}

// NewSamplingAgent returns an agent that draws its move from a softmax over
// the root scores instead of always playing the best one, giving varied games
// between otherwise deterministic opponents. A temperature <= 0 plays greedily.
// A nil rng is replaced by a randomly seeded one.
func NewSamplingAgent(s *searcher.AlphaBeta, temperature float64, rng *rand.Rand) Agent {
	if rng == nil {
		rng = rand.New(rand.NewSource(frand.Uint64n(math.MaxUint64)))
	}
	return &samplingAgent{searcher: s, temperature: temperature, rng: rng}
}

func (a *samplingAgent) FindMove(ctx context.Context, p game.Position, side game.Side) (game.Move, metrics.SearchMetric, bool) {
	result, ok := a.searcher.Decide(ctx, p, side)
	// Partial root scores are not comparable, keep the searcher's choice
	if !ok || result.Forced || result.Interrupted || a.temperature <= 0 {
		return result.Move, result.Metric, ok
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	policy := adjustTemperature(result.Scores, a.temperature)
	return result.Scores[sample(policy, a.rng.Float64())].Move, result.Metric, true
}

// adjustTemperature turns root scores into move probabilities.
func adjustTemperature(scores []searcher.ScoredMove, temperature float64) []float64 {
	best := searcher.MinusInfinity
	for _, sm := range scores {
		best = max(best, sm.Score)
	}
	// Shifting by the best score keeps every exponent <= 0
	policy := make([]float64, len(scores))
	for i, sm := range scores {
		policy[i] = math.Exp(float64(sm.Score-best) / temperature)
	}
	floats.Scale(1/floats.Sum(policy), policy)
	return policy
}

func sample(policy []float64, sampled float64) int {
	cumulative := 0.0
	for i, prob := range policy {
		cumulative += prob
		if sampled < cumulative {
			return i
		}
	}
	return len(policy) - 1 // Fallback in case of rounding errors
}
