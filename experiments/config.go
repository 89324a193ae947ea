package experiments

import (
	"os"

	"checkers/experiments/metrics"
	"checkers/meta"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	Material   = "material"
	Positional = "positional"
)

// MatchUp pairs two agent profiles by name. Colours alternate between games,
// Agent1 takes white in the first one.
type MatchUp struct {
	Agent1 string `yaml:"agent1"`
	Agent2 string `yaml:"agent2"`
}

type Config struct {
	Name        string                `yaml:"name"`
	OutputDir   string                `yaml:"output_dir"`
	Games       int                   `yaml:"games"`       // Per match-up
	Concurrency int                   `yaml:"concurrency"` // Games played at once
	MaxTurns    int                   `yaml:"max_turns"`
	Seed        uint64                `yaml:"seed"` // 0 seeds every search at random
	Agents      []metrics.AgentConfig `yaml:"agents"`
	MatchUps    []MatchUp             `yaml:"match_ups"`
}

// DefaultConfig pits the two shipped agents against each other.
func DefaultConfig() Config {
	baseline := metrics.AgentConfig{
		Name:           "baseline",
		Evaluator:      Material,
		KingWeight:     meta.KING_WEIGHT,
		PawnWeight:     meta.PAWN_WEIGHT,
		MobilityWeight: meta.MOBILITY_WEIGHT,
		MaxPly:         meta.MAX_PLY,
		Goroutines:     meta.GO_ROUTINES,
	}
	positional := baseline
	positional.Name = "positional"
	positional.Evaluator = Positional

	config := Config{
		Agents:   []metrics.AgentConfig{baseline, positional},
		MatchUps: []MatchUp{{Agent1: "baseline", Agent2: "positional"}},
	}
	config.applyDefaults()
	return config
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read experiment config")
	}
	config, err := ParseConfig(data)
	return config, errors.Wrapf(err, "experiment config %s", path)
}

func ParseConfig(data []byte) (Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, errors.Wrap(err, "failed to parse yaml")
	}
	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = "matchup"
	}
	if c.OutputDir == "" {
		c.OutputDir = "results"
	}
	if c.Games == 0 {
		c.Games = 10
	}
	if c.Concurrency == 0 {
		c.Concurrency = 1
	}
	if c.MaxTurns == 0 {
		c.MaxTurns = meta.MAX_TURNS
	}
	for i := range c.Agents {
		c.Agents[i].ID = i + 1
		if c.Agents[i].Evaluator == "" {
			c.Agents[i].Evaluator = Material
		}
		if c.Agents[i].Goroutines == 0 {
			c.Agents[i].Goroutines = 1
		}
	}
}

// Validate reports every problem of the config at once.
func (c Config) Validate() error {
	var result *multierror.Error
	if c.Games < 1 {
		result = multierror.Append(result, errors.Errorf("games must be positive, got %d", c.Games))
	}
	if c.Concurrency < 1 {
		result = multierror.Append(result, errors.Errorf("concurrency must be positive, got %d", c.Concurrency))
	}
	names := make(map[string]bool, len(c.Agents))
	for _, agent := range c.Agents {
		if agent.Name == "" {
			result = multierror.Append(result, errors.Errorf("agent %d has no name", agent.ID))
		}
		if names[agent.Name] {
			result = multierror.Append(result, errors.Errorf("agent %q is defined twice", agent.Name))
		}
		names[agent.Name] = true
		if agent.Evaluator != Material && agent.Evaluator != Positional {
			result = multierror.Append(result, errors.Errorf("agent %q has unknown evaluator %q", agent.Name, agent.Evaluator))
		}
		if agent.MaxPly < 0 {
			result = multierror.Append(result, errors.Errorf("agent %q has negative max ply %d", agent.Name, agent.MaxPly))
		}
	}
	if len(c.MatchUps) == 0 {
		result = multierror.Append(result, errors.New("no match-ups"))
	}
	for i, m := range c.MatchUps {
		for _, name := range []string{m.Agent1, m.Agent2} {
			if !names[name] {
				result = multierror.Append(result, errors.Errorf("match-up %d refers to unknown agent %q", i+1, name))
			}
		}
	}
	return result.ErrorOrNil()
}

func (c Config) agent(name string) metrics.AgentConfig {
	for _, agent := range c.Agents {
		if agent.Name == name {
			return agent
		}
	}
	panic("unknown agent " + name)
}
