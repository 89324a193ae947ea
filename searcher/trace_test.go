package searcher

import (
	"context"
	"strings"
	"testing"

	"checkers/game"

	"github.com/stretchr/testify/require"
)

func TestTrace(t *testing.T) {
	t.Run("records every explored node", func(t *testing.T) {
		trace := NewTrace(0)
		s := treeSearcher(&treeRules{width: 2}, textbookTree(), 2, WithTrace(trace))

		_, ok := s.Decide(context.Background(), treePosition(""), game.White)

		require.True(t, ok)
		// Root, 2 root moves, 4 replies and 7 scored leaves
		require.Equal(t, 14, trace.Len())
		require.True(t, trace.nodes[0].scored, "Root should carry the best score")
		require.Equal(t, 5, trace.nodes[0].score)
	})

	t.Run("stops recording at the limit", func(t *testing.T) {
		trace := NewTrace(5)
		s := treeSearcher(&treeRules{width: 3}, &scriptedEvaluator{}, 3, WithTrace(trace))

		_, ok := s.Decide(context.Background(), treePosition(""), game.White)

		require.True(t, ok)
		require.Equal(t, 5, trace.Len())
	})

	t.Run("renders a directed graph", func(t *testing.T) {
		trace := NewTrace(0)
		s := treeSearcher(&treeRules{width: 2}, textbookTree(), 2, WithTrace(trace))
		_, ok := s.Decide(context.Background(), treePosition(""), game.White)
		require.True(t, ok)

		dot, err := trace.DOT()

		require.NoError(t, err)
		require.True(t, strings.HasPrefix(strings.TrimSpace(dot), "digraph search"), "Graph should be directed")
		require.Contains(t, dot, "root white")
		require.Contains(t, dot, "->", "Graph should have edges")
		require.Contains(t, dot, "dashed", "Pruned node should be drawn dashed")
		require.Contains(t, dot, "box", "Leaves should be drawn as boxes")
	})

	t.Run("nil trace records nothing", func(t *testing.T) {
		var trace *Trace

		require.Equal(t, untraced, trace.enter(noParent, nil, game.White))
		require.NotPanics(t, func() { trace.score(0, 1) })
	})
}
