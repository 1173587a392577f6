// Package runtime contains the execution core: the readiness scheduler, the
// per-type node dispatcher, and the session state machine driving one run.
package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/domain"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/graph"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/ports"
)

// RunConfig carries everything a session needs beyond the graph itself.
// The catalog is a snapshot: lookups stay deterministic for the whole run.
type RunConfig struct {
	GraphID   string
	Invoker   ports.ToolInvoker
	Catalog   domain.Catalog
	Input     map[string]any
	Evaluate  ports.ConditionEvaluator
	Transform ports.Transformer

	// Workers bounds concurrent node dispatch within the run.
	// Zero or one means strictly sequential.
	Workers int
}

// RunContext is the dispatch-time view handed to node handlers.
type RunContext struct {
	ExecutionID string
	GraphID     string
	Graph       *graph.Graph
	Invoker     ports.ToolInvoker
	Catalog     domain.Catalog
	Input       map[string]any
	Evaluate    ports.ConditionEvaluator
	Transform   ports.Transformer

	// output reads a completed node's recorded output. Installed by the
	// session so handlers observe results through the run's own lock.
	output func(nodeID string) (any, bool)
}

// Output returns the recorded output of a node that already completed.
func (rc *RunContext) Output(nodeID string) (any, bool) {
	if rc.output == nil {
		return nil, false
	}
	return rc.output(nodeID)
}

// UpstreamData collects the outputs of a node's direct prerequisites into a
// map keyed by predecessor id. Transform and conditional handlers evaluate
// against this view.
func (rc *RunContext) UpstreamData(nodeID string) map[string]any {
	data := make(map[string]any)
	for _, pre := range rc.Graph.Prerequisites[nodeID] {
		if out, ok := rc.Output(pre); ok {
			data[pre] = out
		}
	}
	return data
}

// DefaultEvaluator is the built-in condition evaluator: it understands
// "expr == 'literal'" comparisons and bare truthy lookups against the
// upstream data. Anything richer comes from a caller-supplied evaluator.
func DefaultEvaluator(ctx context.Context, condition, conditionType string, data map[string]any) (bool, error) {
	cond := strings.TrimSpace(condition)
	if cond == "" || cond == "true" {
		return true, nil
	}
	if cond == "false" {
		return false, nil
	}

	if parts := strings.SplitN(cond, "==", 2); len(parts) == 2 {
		key := strings.TrimSpace(parts[0])
		expected := strings.Trim(strings.TrimSpace(parts[1]), "'\"")
		actual, ok := lookup(data, key)
		if !ok {
			return false, nil
		}
		return strings.EqualFold(fmt.Sprintf("%v", actual), expected), nil
	}

	// Bare key: truthy check.
	val, ok := lookup(data, cond)
	if !ok {
		return false, nil
	}
	switch v := val.(type) {
	case bool:
		return v, nil
	case string:
		return v != "" && !strings.EqualFold(v, "false"), nil
	case nil:
		return false, nil
	default:
		return true, nil
	}
}

// DefaultTransformer records which script ran without interpreting it. The
// scripting language is out of scope; hosts plug in their own Transformer.
func DefaultTransformer(ctx context.Context, script string, input map[string]any) (any, error) {
	return map[string]any{
		"script": script,
		"input":  input,
	}, nil
}

// lookup resolves dotted paths ("payment.status") through nested maps.
func lookup(data map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	var current any = data
	for _, p := range parts {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
