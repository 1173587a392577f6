package runtime

import (
	"context"
	"fmt"

	"dario.cat/mergo"

	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/domain"
)

// executeAggregator collects the recorded outputs of the node's direct
// prerequisites (in prerequisite declaration order) and combines them per
// the configured strategy. Default strategy is merge.
func executeAggregator(ctx context.Context, node domain.Node, rc *RunContext) (any, error) {
	prereqs := rc.Graph.Prerequisites[node.ID]
	outputs := make([]any, 0, len(prereqs))
	for _, pre := range prereqs {
		if out, ok := rc.Output(pre); ok {
			outputs = append(outputs, out)
		}
	}

	strategy := node.Config.Strategy
	if strategy == "" {
		strategy = domain.AggregateMerge
	}

	switch strategy {
	case domain.AggregateMerge:
		return mergeOutputs(outputs)

	case domain.AggregateArray:
		return outputs, nil

	case domain.AggregateFirst:
		if len(outputs) == 0 {
			return nil, nil
		}
		return outputs[0], nil

	case domain.AggregateLast:
		if len(outputs) == 0 {
			return nil, nil
		}
		return outputs[len(outputs)-1], nil

	case domain.AggregateCustom:
		transform := rc.Transform
		if transform == nil {
			transform = DefaultTransformer
		}
		return transform(ctx, node.Config.Script, rc.UpstreamData(node.ID))

	default:
		return nil, fmt.Errorf("unknown aggregation strategy %q", strategy)
	}
}

// mergeOutputs deep-merges map outputs left to right; later prerequisites
// override earlier ones. Non-map outputs are collected under their index.
func mergeOutputs(outputs []any) (any, error) {
	merged := make(map[string]any)
	for i, out := range outputs {
		m, ok := out.(map[string]any)
		if !ok {
			merged[fmt.Sprintf("output_%d", i)] = out
			continue
		}
		if err := mergo.Merge(&merged, m, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merge aggregation: %w", err)
		}
	}
	return merged, nil
}
