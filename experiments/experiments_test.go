package experiments

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"checkers/draughts"
	"checkers/experiments/metrics"
	"checkers/game"

	"github.com/stretchr/testify/require"
)

const profiles = `
name: smoke
games: 4
concurrency: 2
max_turns: 12
seed: 3
agents:
  - name: baseline
    king_weight: 6
    pawn_weight: 3
    mobility_weight: 1
    max_ply: 1
  - name: positional
    evaluator: positional
    king_weight: 6
    pawn_weight: 3
    mobility_weight: 1
    max_ply: 1
    goroutines: 2
match_ups:
  - agent1: baseline
    agent2: positional
`

func TestParseConfig(t *testing.T) {
	t.Run("profiles and defaults", func(t *testing.T) {
		config, err := ParseConfig([]byte(profiles))

		require.NoError(t, err)
		require.Equal(t, "smoke", config.Name)
		require.Equal(t, "results", config.OutputDir)
		require.Len(t, config.Agents, 2)
		require.Equal(t, 1, config.Agents[0].ID)
		require.Equal(t, Material, config.Agents[0].Evaluator)
		require.Equal(t, 1, config.Agents[0].Goroutines)
		require.Equal(t, Positional, config.Agents[1].Evaluator)
		require.Equal(t, 2, config.Agents[1].Goroutines)
		require.Equal(t, []MatchUp{{Agent1: "baseline", Agent2: "positional"}}, config.MatchUps)
	})

	t.Run("every problem is reported", func(t *testing.T) {
		_, err := ParseConfig([]byte(`
agents:
  - name: a
    evaluator: neural
  - name: a
    max_ply: -2
match_ups:
  - agent1: a
    agent2: b
`))

		require.Error(t, err)
		require.Contains(t, err.Error(), `unknown evaluator "neural"`)
		require.Contains(t, err.Error(), `agent "a" is defined twice`)
		require.Contains(t, err.Error(), "negative max ply")
		require.Contains(t, err.Error(), `unknown agent "b"`)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := ParseConfig([]byte("agents: ["))

		require.Error(t, err)
	})

	t.Run("file on disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "experiment.yaml")
		require.NoError(t, os.WriteFile(path, []byte(profiles), 0644))

		config, err := LoadConfig(path)

		require.NoError(t, err)
		require.Equal(t, 4, config.Games)

		_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})

	t.Run("default config is valid", func(t *testing.T) {
		require.NoError(t, DefaultConfig().Validate())
	})
}

func TestRun(t *testing.T) {
	config, err := ParseConfig([]byte(profiles))
	require.NoError(t, err)
	config.OutputDir = t.TempDir()

	report, err := Run(context.Background(), config)

	require.NoError(t, err)
	require.Len(t, report.Games, 4)
	for i, g := range report.Games {
		require.Equal(t, i+1, g.ID)
		require.LessOrEqual(t, g.TotalMoves, 12)
	}
	require.Equal(t, "baseline", report.Games[0].White, "Agent1 should open the first game")
	require.Equal(t, "positional", report.Games[1].White, "Colours should alternate")
	require.Equal(t, 2, report.Games[1].Agent1)

	total := 0
	for _, g := range report.Games {
		total += g.TotalMoves
	}
	require.Len(t, report.Moves, total)

	for _, file := range []string{"agent_configs.csv", "game_records.csv", "move_records.csv"} {
		require.FileExists(t, filepath.Join(report.Dir, file))
	}
	require.Len(t, report.Summary, 2)
	require.Equal(t, 4, report.Summary[0].Games)
	require.Equal(t, report.Summary[0].Wins, report.Summary[1].Losses)
}

func TestRunDefaults(t *testing.T) {
	handBuilt := func(dir string) Config {
		return Config{
			Name:      "unparsed",
			OutputDir: dir,
			Games:     1,
			MaxTurns:  2,
			Agents:    []metrics.AgentConfig{{Name: "solo", PawnWeight: 3, KingWeight: 6, MaxPly: 1}},
			MatchUps:  []MatchUp{{Agent1: "solo", Agent2: "solo"}},
		}
	}

	t.Run("zero concurrency plays one game at a time", func(t *testing.T) {
		config := handBuilt(t.TempDir())
		done := make(chan struct{})
		var report Report
		var err error
		go func() {
			defer close(done)
			report, err = Run(context.Background(), config)
		}()

		select {
		case <-done:
		case <-time.After(30 * time.Second):
			t.Fatal("Run should not block with zero concurrency")
		}
		require.NoError(t, err)
		require.Len(t, report.Games, 1)
		require.Zero(t, config.Agents[0].ID, "Caller's agents should not be modified")
	})

	t.Run("negative counts are rejected", func(t *testing.T) {
		config := handBuilt(t.TempDir())
		config.Games = -1
		config.Concurrency = -2

		_, err := Run(context.Background(), config)

		require.Error(t, err)
		require.Contains(t, err.Error(), "games must be positive")
		require.Contains(t, err.Error(), "concurrency must be positive")
	})

	t.Run("validate alone does not fill in defaults", func(t *testing.T) {
		err := handBuilt(t.TempDir()).Validate()

		require.Error(t, err)
		require.Contains(t, err.Error(), "concurrency must be positive, got 0")
	})
}

func TestSummarize(t *testing.T) {
	agents := []metrics.AgentConfig{{Name: "a"}, {Name: "b"}}
	games := []metrics.GameRecord{
		{GameMetric: metrics.GameMetric{White: "a", Black: "b", Winner: "white"}},
		{GameMetric: metrics.GameMetric{White: "b", Black: "a", Winner: "white"}},
		{GameMetric: metrics.GameMetric{White: "a", Black: "b"}},
	}
	moves := []metrics.MoveRecord{
		{MoveMetric: metrics.MoveMetric{Player: "a", SearchMetric: metrics.SearchMetric{Nodes: 10}}},
		{MoveMetric: metrics.MoveMetric{Player: "a", SearchMetric: metrics.SearchMetric{Nodes: 30}}},
		{MoveMetric: metrics.MoveMetric{Player: "b", SearchMetric: metrics.SearchMetric{Nodes: 7}}},
	}

	summary := Summarize(agents, games, moves)

	require.Equal(t, AgentSummary{Name: "a", Games: 3, Wins: 1, Losses: 1, Draws: 1, Moves: 2, MeanNodes: 20, StdNodes: summary[0].StdNodes}, summary[0])
	require.InDelta(t, 14.142, summary[0].StdNodes, 0.001, "Sample standard deviation of 10 and 30")
	require.Equal(t, 7.0, summary[1].MeanNodes)
	require.Zero(t, summary[1].StdNodes)
	require.Equal(t, 1, summary[1].Wins)
}

func TestNewAgent(t *testing.T) {
	rules := draughts.Rules{}
	start := draughts.NewBoard()
	base := metrics.AgentConfig{Name: "x", Evaluator: Material, PawnWeight: 3, KingWeight: 6, MaxPly: 1, Goroutines: 1}

	deepening := base
	deepening.Deepen = true
	sampling := base
	sampling.Evaluator = Positional
	sampling.Temperature = 2

	for _, config := range []metrics.AgentConfig{base, deepening, sampling} {
		move, metric, ok := NewAgent(rules, config, 5).FindMove(context.Background(), start, game.White)

		require.True(t, ok)
		require.Contains(t, rules.LegalMoves(start, game.White), move)
		require.Equal(t, 1, metric.MaxPly)
	}
}

func TestRunThroughput(t *testing.T) {
	config := ThroughputConfig{
		OutputDir:  t.TempDir(),
		Goroutines: []int{1, 2},
		MaxPly:     2,
		Positions:  3,
		Seed:       1,
	}

	results, err := RunThroughput(context.Background(), config)

	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, 1, results[0].Goroutines)
	require.Equal(t, 1.0, results[0].Speedup)
	require.Equal(t, 2, results[1].Goroutines)

	_, err = RunThroughput(context.Background(), ThroughputConfig{OutputDir: t.TempDir()})
	require.Error(t, err)
}
