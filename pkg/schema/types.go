// Package schema defines the wire format of a workflow definition as the
// visual editor exports it, and compiles it into the domain model.
package schema

// GraphDefinition is one exported workflow: an ordered node list plus edges.
type GraphDefinition struct {
	ID    string           `json:"id" yaml:"id"`
	Name  string           `json:"name,omitempty" yaml:"name,omitempty"`
	Nodes []NodeDefinition `json:"nodes" yaml:"nodes"`
	Edges []EdgeDefinition `json:"edges" yaml:"edges"`
}

// NodeDefinition is a node as serialized by the editor. Data carries the
// untyped per-type payload; Compile decodes it into a typed config.
type NodeDefinition struct {
	ID       string         `json:"id" yaml:"id"`
	Type     string         `json:"type" yaml:"type"`
	Label    string         `json:"label,omitempty" yaml:"label,omitempty"`
	Position *Position      `json:"position,omitempty" yaml:"position,omitempty"`
	Data     map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

// EdgeDefinition is a directed link between two node ids.
type EdgeDefinition struct {
	ID     string         `json:"id" yaml:"id"`
	Source string         `json:"source" yaml:"source"`
	Target string         `json:"target" yaml:"target"`
	Type   string         `json:"type,omitempty" yaml:"type,omitempty"`
	Data   map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

// Position is canvas placement. The engine ignores it; it round-trips so
// re-serialized definitions stay loadable by the editor.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}
