// Package graph builds the immutable per-run representation of a workflow:
// node index, adjacency and prerequisite lists, start-point discovery, and
// structural validation. The scheduler consumes this model read-only.
package graph

import (
	"fmt"

	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/domain"
)

// Graph is the compiled, immutable view of a workflow definition.
type Graph struct {
	// Nodes indexes the node set by id.
	Nodes map[string]domain.Node

	// Order preserves node declaration order for deterministic iteration.
	Order []string

	// Adjacency maps a node id to its direct successors, in edge declaration order.
	Adjacency map[string][]string

	// Prerequisites maps a node id to its direct predecessors, in edge declaration order.
	Prerequisites map[string][]string

	// Edges keeps the raw edge list for branch labels and presentation.
	Edges []domain.Edge
}

// Build compiles nodes and edges into a Graph. It fails wrapping
// domain.ErrMalformedGraph when a node id is duplicated or an edge references
// an unknown node.
func Build(nodes []domain.Node, edges []domain.Edge) (*Graph, error) {
	g := &Graph{
		Nodes:         make(map[string]domain.Node, len(nodes)),
		Order:         make([]string, 0, len(nodes)),
		Adjacency:     make(map[string][]string, len(nodes)),
		Prerequisites: make(map[string][]string, len(nodes)),
		Edges:         append([]domain.Edge(nil), edges...),
	}

	for _, n := range nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("%w: node with empty id", domain.ErrMalformedGraph)
		}
		if _, dup := g.Nodes[n.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate node id %q", domain.ErrMalformedGraph, n.ID)
		}
		g.Nodes[n.ID] = n
		g.Order = append(g.Order, n.ID)
		g.Adjacency[n.ID] = nil
		g.Prerequisites[n.ID] = nil
	}

	for _, e := range edges {
		if _, ok := g.Nodes[e.Source]; !ok {
			return nil, fmt.Errorf("%w: edge %q references unknown source %q", domain.ErrMalformedGraph, e.ID, e.Source)
		}
		if _, ok := g.Nodes[e.Target]; !ok {
			return nil, fmt.Errorf("%w: edge %q references unknown target %q", domain.ErrMalformedGraph, e.ID, e.Target)
		}
		g.Adjacency[e.Source] = append(g.Adjacency[e.Source], e.Target)
		g.Prerequisites[e.Target] = append(g.Prerequisites[e.Target], e.Source)
	}

	return g, nil
}

// StartNodes returns the run entry points in declaration order. A node
// qualifies if its type is "start", or it has no prerequisites and is not an
// "end" node.
func (g *Graph) StartNodes() []string {
	var starts []string
	for _, id := range g.Order {
		n := g.Nodes[id]
		if n.Type == domain.NodeTypeStart {
			starts = append(starts, id)
			continue
		}
		if len(g.Prerequisites[id]) == 0 && n.Type != domain.NodeTypeEnd {
			starts = append(starts, id)
		}
	}
	return starts
}

// EdgesFrom returns the declared edges leaving a node, preserving order.
// Used to resolve branch labels on a node's successors.
func (g *Graph) EdgesFrom(id string) []domain.Edge {
	var out []domain.Edge
	for _, e := range g.Edges {
		if e.Source == id {
			out = append(out, e)
		}
	}
	return out
}
