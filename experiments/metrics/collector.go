package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Goroutines  int
	MaxPly      int
	Duration    time.Duration
	RootMoves   int
	Nodes       int // Internal nodes expanded
	Leaves      int // Positions scored by the evaluator
	Cutoffs     int
	Score       int // Best root score
	Ties        int // Root moves sharing the best score
	Interrupted bool
}

type MoveMetric struct {
	Step   int
	Player string // Agent name
	Side   string
	Move   string
	SearchMetric
}

type GameMetric struct {
	White      string // Agent name
	Black      string // Agent name
	Winner     string // Side, "" on a draw
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
}

// Collector counts search events. Implementations are safe for concurrent use
// by the goroutines of a single search.
type Collector interface {
	Start(goroutines, maxPly int)
	AddNode()
	AddLeaf()
	AddCutoff()
	Complete() SearchMetric
}

type collector struct {
	goroutines int
	maxPly     int
	startTime  time.Time
	nodes      atomic.Int64
	leaves     atomic.Int64
	cutoffs    atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(goroutines, maxPly int) {
	m.startTime = time.Now()
	m.goroutines = goroutines
	m.maxPly = maxPly
	m.nodes.Store(0)
	m.leaves.Store(0)
	m.cutoffs.Store(0)
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) AddLeaf() {
	m.leaves.Add(1)
}

func (m *collector) AddCutoff() {
	m.cutoffs.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Goroutines: m.goroutines,
		MaxPly:     m.maxPly,
		Duration:   time.Since(m.startTime),
		Nodes:      int(m.nodes.Load()),
		Leaves:     int(m.leaves.Load()),
		Cutoffs:    int(m.cutoffs.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(goroutines, maxPly int) {}
func (m *dummyCollector) AddNode()                     {}
func (m *dummyCollector) AddLeaf()                     {}
func (m *dummyCollector) AddCutoff()                   {}
func (m *dummyCollector) Complete() SearchMetric       { return SearchMetric{} }
