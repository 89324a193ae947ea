package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// AgentConfig describes one agent profile of an experiment.
type AgentConfig struct {
	ID             int     `yaml:"-"`
	Name           string  `yaml:"name"`
	Evaluator      string  `yaml:"evaluator"` // "material" or "positional"
	KingWeight     int     `yaml:"king_weight"`
	PawnWeight     int     `yaml:"pawn_weight"`
	MobilityWeight int     `yaml:"mobility_weight"`
	MaxPly         int     `yaml:"max_ply"`
	Goroutines     int     `yaml:"goroutines"`
	Deepen         bool    `yaml:"deepen"`
	Temperature    float64 `yaml:"temperature"` // Softmax sampling over root scores, 0 plays greedily
}

type GameRecord struct {
	ID     int
	Agent1 int // AgentConfig.ID playing white
	Agent2 int // AgentConfig.ID playing black
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates a folder named by the current timestamp under root/name.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create directory")
	}
	return &Writer{baseDir: baseDir}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "name", "evaluator", "king_weight", "pawn_weight", "mobility_weight", "max_ply", "goroutines", "deepen", "temperature"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Name,
			config.Evaluator,
			strconv.Itoa(config.KingWeight),
			strconv.Itoa(config.PawnWeight),
			strconv.Itoa(config.MobilityWeight),
			strconv.Itoa(config.MaxPly),
			strconv.Itoa(config.Goroutines),
			strconv.FormatBool(config.Deepen),
			strconv.FormatFloat(config.Temperature, 'g', -1, 64),
		})
	}
	return errors.Wrap(w.write("agent_configs.csv", header, rows), "agent configs")
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "agent1", "agent2", "white", "black", "winner", "start_time", "end_time", "duration", "total_moves"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Agent1),
			strconv.Itoa(record.Agent2),
			record.White,
			record.Black,
			record.Winner,
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
		})
	}
	return errors.Wrap(w.write("game_records.csv", header, rows), "game records")
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "player", "side", "move", "goroutines", "max_ply", "duration", "root_moves", "nodes", "leaves", "cutoffs", "score", "ties", "interrupted"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			record.Player,
			record.Side,
			record.Move,
			strconv.Itoa(record.Goroutines),
			strconv.Itoa(record.MaxPly),
			record.Duration.String(),
			strconv.Itoa(record.RootMoves),
			strconv.Itoa(record.Nodes),
			strconv.Itoa(record.Leaves),
			strconv.Itoa(record.Cutoffs),
			strconv.Itoa(record.Score),
			strconv.Itoa(record.Ties),
			strconv.FormatBool(record.Interrupted),
		})
	}
	return errors.Wrap(w.write("move_records.csv", header, rows), "move records")
}

// write creates file and reports flush and close failures along with write failures.
func (w *Writer) write(file string, header []string, rows [][]string) (err error) {
	f, err := os.Create(filepath.Join(w.baseDir, file))
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = multierror.Append(err, errors.Wrap(cerr, "failed to close file"))
		}
	}()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return errors.Wrap(err, "failed to write header")
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return errors.Wrap(err, "failed to write row")
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "failed to flush")
}
