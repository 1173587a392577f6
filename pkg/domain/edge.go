package domain

// Edge is a directed dependency between two nodes.
// The target node may not start before the source node has completed.
type Edge struct {
	ID     string `json:"id" yaml:"id"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`

	// Type optionally tags the edge (e.g. "default", "loop-back").
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Label optionally names the branch this edge carries,
	// e.g. "true"/"false" after a conditional or a parallel branch id.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`

	// Condition optionally annotates the edge with a condition expression.
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty"`
}
