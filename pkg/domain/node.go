package domain

import "time"

// NodeType constants define the execution behavior of a node.
const (
	// NodeTypeStart marks an entry point. Completes immediately.
	NodeTypeStart = "start"
	// NodeTypeEnd marks a sink. Completes immediately.
	NodeTypeEnd = "end"

	// NodeTypeServer invokes a tool on a configured MCP server.
	NodeTypeServer = "server"
	// NodeTypeTool invokes an explicitly named tool.
	NodeTypeTool = "tool"

	// NodeTypeConditional evaluates a condition expression and records the outcome.
	NodeTypeConditional = "conditional"
	// NodeTypeLoop runs a bounded iteration over its loop condition.
	NodeTypeLoop = "loop"
	// NodeTypeParallel fans out its named branches.
	NodeTypeParallel = "parallel"
	// NodeTypeTransform applies a transformation script to upstream data.
	NodeTypeTransform = "transform"
	// NodeTypeAggregator combines the outputs of its prerequisite nodes.
	NodeTypeAggregator = "aggregator"
)

// Aggregation strategies for NodeTypeAggregator.
const (
	AggregateMerge  = "merge"
	AggregateArray  = "array"
	AggregateFirst  = "first"
	AggregateLast   = "last"
	AggregateCustom = "custom"
)

// Node is a typed unit of work in the graph.
type Node struct {
	ID    string `json:"id" yaml:"id"`
	Type  string `json:"type" yaml:"type"` // e.g. "start", "tool", "conditional"
	Label string `json:"label,omitempty" yaml:"label,omitempty"`

	// Config carries the per-type settings decoded from the node payload.
	Config NodeConfig `json:"config,omitempty" yaml:"config,omitempty"`
}

// NodeConfig holds the union of per-type node settings.
// Only the fields relevant to the node's type are consulted at dispatch time.
type NodeConfig struct {
	// Server / Tool invocation
	ServerID   string         `json:"serverId,omitempty" yaml:"server_id,omitempty" mapstructure:"serverId"`
	ToolName   string         `json:"toolName,omitempty" yaml:"tool_name,omitempty" mapstructure:"toolName"`
	Parameters map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty" mapstructure:"parameters"`

	// Conditional
	Condition     string `json:"condition,omitempty" yaml:"condition,omitempty" mapstructure:"condition"`
	ConditionType string `json:"conditionType,omitempty" yaml:"condition_type,omitempty" mapstructure:"conditionType"`

	// Loop
	MaxIterations int    `json:"maxIterations,omitempty" yaml:"max_iterations,omitempty" mapstructure:"maxIterations"`
	LoopCondition string `json:"loopCondition,omitempty" yaml:"loop_condition,omitempty" mapstructure:"loopCondition"`

	// Transform / custom aggregation
	Script string `json:"script,omitempty" yaml:"script,omitempty" mapstructure:"script"`

	// Aggregator
	Strategy string `json:"strategy,omitempty" yaml:"strategy,omitempty" mapstructure:"strategy"`

	// Parallel
	Branches []string `json:"branches,omitempty" yaml:"branches,omitempty" mapstructure:"branches"`

	// Cross-cutting execution policy
	Timeout         time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty" mapstructure:"timeout"`
	RetryCount      int           `json:"retryCount,omitempty" yaml:"retry_count,omitempty" mapstructure:"retryCount"`
	ContinueOnError bool          `json:"continueOnError,omitempty" yaml:"continue_on_error,omitempty" mapstructure:"continueOnError"`
}
