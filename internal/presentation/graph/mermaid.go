package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/domain"
	wf "github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/graph"
)

// Overlay carries run state to color onto the diagram.
type Overlay struct {
	VisitedNodes []string
	CurrentNode  string
	FailedNodes  []string
}

// OverlayFromExecution derives a diagram overlay from an execution record.
func OverlayFromExecution(exec *domain.Execution) *Overlay {
	if exec == nil {
		return nil
	}
	ov := &Overlay{CurrentNode: exec.CurrentNodeID}
	visited := make([]string, 0, len(exec.Nodes))
	for id, ne := range exec.Nodes {
		switch ne.Status {
		case domain.NodeCompleted:
			visited = append(visited, id)
		case domain.NodeError:
			ov.FailedNodes = append(ov.FailedNodes, id)
		}
	}
	sort.Strings(visited)
	sort.Strings(ov.FailedNodes)
	ov.VisitedNodes = visited
	return ov
}

// GenerateMermaid produces a Mermaid flowchart from a built graph.
// Node shapes follow type semantics:
//   - start/end: ((circle))
//   - tool/server: [[subroutine]]
//   - conditional: {diamond}
//   - loop: [/parallelogram/]
//   - default: [rectangle]
//
// Conditional branch labels render on the edge; overlay styles mark
// visited, current and failed nodes.
func GenerateMermaid(g *wf.Graph, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, id := range g.Order {
		node := g.Nodes[id]
		safeID := sanitizeMermaidID(id)

		opener, closer := "[", "]"
		switch node.Type {
		case domain.NodeTypeStart, domain.NodeTypeEnd:
			opener, closer = "((", "))"
		case domain.NodeTypeTool, domain.NodeTypeServer:
			opener, closer = "[[", "]]"
		case domain.NodeTypeConditional:
			opener, closer = "{", "}"
		case domain.NodeTypeLoop:
			opener, closer = "[/", "/]"
		}

		label := node.Label
		if label == "" {
			label = id
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, escapeMermaidLabel(label), closer))

		for _, e := range g.EdgesFrom(id) {
			safeTo := sanitizeMermaidID(e.Target)
			arrow := "-->"
			if e.Label != "" {
				arrow = fmt.Sprintf("-- \"%s\" -->", escapeMermaidLabel(e.Label))
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeID, arrow, safeTo))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString("    classDef failed fill:#ffebee,stroke:#b71c1c,stroke-width:2px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if safeID != "" && !seen[safeID] {
				seen[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}
		for _, id := range overlay.FailedNodes {
			safeID := sanitizeMermaidID(id)
			if safeID != "" {
				sb.WriteString(fmt.Sprintf("    class %s failed;\n", safeID))
			}
		}
		if overlay.CurrentNode != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode)))
		}
	}

	return sb.String()
}

func escapeMermaidLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
