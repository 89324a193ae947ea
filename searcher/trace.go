package searcher

import (
	"fmt"
	"strconv"
	"sync"

	"checkers/game"

	"github.com/awalterschulze/gographviz"
	"github.com/pkg/errors"
)

const (
	noParent = -1
	untraced = -2
)

// Trace records the nodes explored by a search so the tree can be inspected
// as a Graphviz graph. A nil *Trace records nothing.
type Trace struct {
	mu    sync.Mutex
	limit int
	nodes []traceNode
}

type traceNode struct {
	parent int
	move   game.Move // nil for a root
	side   game.Side // Side that played move, or the side to move at a root
	score  int
	scored bool
	leaf   bool
	cut    bool
}

// NewTrace keeps at most limit nodes; limit <= 0 keeps everything.
func NewTrace(limit int) *Trace {
	return &Trace{limit: limit}
}

func (t *Trace) enter(parent int, move game.Move, side game.Side) int {
	if t == nil || parent == untraced {
		return untraced
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.limit > 0 && len(t.nodes) >= t.limit {
		return untraced
	}
	t.nodes = append(t.nodes, traceNode{parent: parent, move: move, side: side})
	return len(t.nodes) - 1
}

func (t *Trace) update(id int, fn func(n *traceNode)) {
	if t == nil || id < 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	fn(&t.nodes[id])
}

func (t *Trace) score(id, value int) {
	t.update(id, func(n *traceNode) {
		n.score = value
		n.scored = true
	})
}

func (t *Trace) leaf(id int) {
	t.update(id, func(n *traceNode) { n.leaf = true })
}

func (t *Trace) cut(id int) {
	t.update(id, func(n *traceNode) { n.cut = true })
}

func (t *Trace) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.nodes)
}

// DOT renders the recorded tree. Leaves are boxes, nodes whose remaining
// moves were pruned are dashed.
func (t *Trace) DOT() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	graph := gographviz.NewGraph()
	if err := graph.SetName("search"); err != nil {
		return "", errors.Wrap(err, "naming graph")
	}
	if err := graph.SetDir(true); err != nil {
		return "", errors.Wrap(err, "directing graph")
	}

	for id, n := range t.nodes {
		attrs := map[string]string{
			"label": strconv.Quote(n.label()),
			"color": "black",
		}
		if n.side == game.White {
			attrs["color"] = "gray"
		}
		if n.leaf {
			attrs["shape"] = "box"
		}
		if n.cut {
			attrs["style"] = "dashed"
		}
		if err := graph.AddNode("search", nodeName(id), attrs); err != nil {
			return "", errors.Wrapf(err, "adding node %d", id)
		}
		if n.parent >= 0 {
			if err := graph.AddEdge(nodeName(n.parent), nodeName(id), true, nil); err != nil {
				return "", errors.Wrapf(err, "adding edge %d -> %d", n.parent, id)
			}
		}
	}
	return graph.String(), nil
}

func (n traceNode) label() string {
	name := n.move.String()
	if n.move == nil {
		name = "root " + n.side.String()
	}
	if !n.scored {
		return name
	}
	return fmt.Sprintf("%s\n%d", name, n.score)
}

func nodeName(id int) string {
	return "n" + strconv.Itoa(id)
}
