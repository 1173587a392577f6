package graph

import (
	"fmt"
	"strings"

	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/domain"
)

// Validate enforces well-formedness before a graph is handed to a scheduler:
//
//   - at least one start-qualifying node (else domain.ErrNoStartNode)
//   - at least one node of type "end"
//   - every non-start node has an incoming edge
//   - every non-end node has an outgoing edge
//   - no cycles (checked with Kahn's algorithm, so a malformed definition is
//     rejected deterministically instead of spinning the scheduler)
//
// Edge reference integrity is already guaranteed by Build.
func (g *Graph) Validate() error {
	if len(g.StartNodes()) == 0 {
		return domain.ErrNoStartNode
	}

	hasEnd := false
	var problems []string
	for _, id := range g.Order {
		n := g.Nodes[id]
		if n.Type == domain.NodeTypeEnd {
			hasEnd = true
		}
		if n.Type != domain.NodeTypeStart && len(g.Prerequisites[id]) == 0 {
			// A dangling non-end node qualifies as an implicit start point
			// and is allowed; a dangling end node is a definition mistake.
			if n.Type == domain.NodeTypeEnd {
				problems = append(problems, fmt.Sprintf("end node %q has no incoming edge", id))
			}
		}
		if n.Type != domain.NodeTypeEnd && len(g.Adjacency[id]) == 0 {
			problems = append(problems, fmt.Sprintf("node %q has no outgoing edge", id))
		}
	}
	if !hasEnd {
		problems = append(problems, "graph has no end node")
	}

	if cycle := g.findCycle(); len(cycle) > 0 {
		problems = append(problems, fmt.Sprintf("cycle detected: %s", strings.Join(cycle, " -> ")))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrMalformedGraph, strings.Join(problems, "; "))
	}
	return nil
}

// findCycle runs Kahn's algorithm and returns the ids left unsorted, i.e. the
// nodes involved in (or downstream of) a cycle. Empty result means acyclic.
func (g *Graph) findCycle() []string {
	indegree := make(map[string]int, len(g.Order))
	for _, id := range g.Order {
		indegree[id] = len(g.Prerequisites[id])
	}

	var queue []string
	for _, id := range g.Order {
		if indegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, succ := range g.Adjacency[id] {
			indegree[succ]--
			if indegree[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}

	if visited == len(g.Order) {
		return nil
	}
	var cyclic []string
	for _, id := range g.Order {
		if indegree[id] > 0 {
			cyclic = append(cyclic, id)
		}
	}
	return cyclic
}

// Reachable returns the set of nodes reachable from the given start ids.
// Nodes outside this set can never execute; the session reports them on the
// final record instead of silently skipping them.
func (g *Graph) Reachable(from []string) map[string]bool {
	seen := make(map[string]bool, len(g.Order))
	queue := append([]string(nil), from...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] {
			continue
		}
		seen[id] = true
		queue = append(queue, g.Adjacency[id]...)
	}
	return seen
}
