package runtime

import (
	"context"
	"fmt"

	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/domain"
)

// executePassthrough handles start and end nodes: no work, completes at
// once. A start node surfaces the run input as its output so downstream
// transforms and aggregators can see it.
func executePassthrough(ctx context.Context, node domain.Node, rc *RunContext) (any, error) {
	if node.Type == domain.NodeTypeStart && len(rc.Input) > 0 {
		return rc.Input, nil
	}
	return map[string]any{"type": node.Type}, nil
}

// executeUnknown is the fallback for unrecognized type tags. Unknown types
// are not errors; the raw type is echoed back on the output.
func executeUnknown(ctx context.Context, node domain.Node, rc *RunContext) (any, error) {
	return map[string]any{"type": node.Type, "handled": false}, nil
}

// executeServer resolves the node's target server from the catalog snapshot
// and invokes the configured tool, or the first tool the server exposes.
func executeServer(ctx context.Context, node domain.Node, rc *RunContext) (any, error) {
	cfg := node.Config
	if cfg.ServerID == "" {
		return nil, fmt.Errorf("server node has no serverId")
	}

	srv, ok := rc.Catalog.Server(cfg.ServerID)
	if !ok {
		return nil, fmt.Errorf("server %q not found in catalog", cfg.ServerID)
	}
	if len(srv.Tools) == 0 {
		return nil, fmt.Errorf("server %q exposes no tools", cfg.ServerID)
	}

	toolName := cfg.ToolName
	if toolName == "" {
		toolName = srv.Tools[0].Name
	}
	if rc.Invoker == nil {
		return nil, fmt.Errorf("no tool invoker configured")
	}
	return rc.Invoker.Invoke(ctx, toolName, cfg.Parameters, srv.ID)
}

// executeTool invokes the explicitly named tool through the run's invoker.
func executeTool(ctx context.Context, node domain.Node, rc *RunContext) (any, error) {
	cfg := node.Config
	if cfg.ToolName == "" {
		return nil, fmt.Errorf("tool node has no toolName")
	}
	if rc.Invoker == nil {
		return nil, fmt.Errorf("no tool invoker configured")
	}
	return rc.Invoker.Invoke(ctx, cfg.ToolName, cfg.Parameters, cfg.ServerID)
}

// executeConditional evaluates the node's condition against upstream data
// and records the boolean outcome. The scheduler uses the outcome to prune
// the branch whose edge label contradicts it; unlabeled successors always
// run.
func executeConditional(ctx context.Context, node domain.Node, rc *RunContext) (any, error) {
	eval := rc.Evaluate
	if eval == nil {
		eval = DefaultEvaluator
	}
	outcome, err := eval(ctx, node.Config.Condition, node.Config.ConditionType, rc.UpstreamData(node.ID))
	if err != nil {
		return nil, fmt.Errorf("condition evaluation: %w", err)
	}
	return map[string]any{
		"condition": node.Config.Condition,
		"result":    outcome,
	}, nil
}

// executeLoop runs a bounded iteration: the loop condition is re-evaluated
// against upstream data up to maxIterations times, stopping early once it
// reports false. Each pass may consult the iteration counter via the "_iteration"
// key. Loop-back edges are rejected by graph validation, so the bound here is
// the only re-entry mechanism.
func executeLoop(ctx context.Context, node domain.Node, rc *RunContext) (any, error) {
	max := node.Config.MaxIterations
	if max <= 0 {
		max = 1
	}

	eval := rc.Evaluate
	if eval == nil {
		eval = DefaultEvaluator
	}

	data := rc.UpstreamData(node.ID)
	iterations := 0
	for i := 0; i < max; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if node.Config.LoopCondition != "" {
			data["_iteration"] = i
			proceed, err := eval(ctx, node.Config.LoopCondition, node.Config.ConditionType, data)
			if err != nil {
				return nil, fmt.Errorf("loop condition: %w", err)
			}
			if !proceed {
				break
			}
		}
		iterations++
	}

	return map[string]any{
		"maxIterations": max,
		"iterations":    iterations,
	}, nil
}

// executeParallel marks the fan-out point complete. Actual branch
// concurrency is a scheduler property: with more than one worker, the
// successors readied here genuinely execute in parallel and join at the
// downstream aggregator's prerequisites.
func executeParallel(ctx context.Context, node domain.Node, rc *RunContext) (any, error) {
	branches := node.Config.Branches
	if len(branches) == 0 {
		branches = rc.Graph.Adjacency[node.ID]
	}
	return map[string]any{"branches": branches}, nil
}

// executeTransform applies the configured script to upstream data through
// the pluggable transformer and records which script ran.
func executeTransform(ctx context.Context, node domain.Node, rc *RunContext) (any, error) {
	transform := rc.Transform
	if transform == nil {
		transform = DefaultTransformer
	}
	out, err := transform(ctx, node.Config.Script, rc.UpstreamData(node.ID))
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}
	return map[string]any{
		"script": node.Config.Script,
		"result": out,
	}, nil
}
