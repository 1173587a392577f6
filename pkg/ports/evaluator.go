package ports

import "context"

// ConditionEvaluator evaluates a conditional node's expression against the
// upstream data. The expression language is pluggable; the engine only cares
// about the boolean outcome.
type ConditionEvaluator func(ctx context.Context, condition, conditionType string, data map[string]any) (bool, error)

// Transformer applies an opaque transformation script to upstream data and
// returns the transformed value.
type Transformer func(ctx context.Context, script string, input map[string]any) (any, error)
