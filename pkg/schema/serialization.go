package schema

import (
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/KirtiJha/langgraph-mcp-studio-sub005/internal/xjson"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/domain"
)

// ParseJSON decodes a JSON graph definition.
func ParseJSON(data []byte) (*GraphDefinition, error) {
	var def GraphDefinition
	if err := xjson.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse graph definition: %w", err)
	}
	return &def, nil
}

// ParseYAML decodes a YAML graph definition.
func ParseYAML(data []byte) (*GraphDefinition, error) {
	var def GraphDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse graph definition: %w", err)
	}
	return &def, nil
}

// EncodeJSON serializes a definition back to its wire form.
func EncodeJSON(def *GraphDefinition) ([]byte, error) {
	return xjson.MarshalIndent(def, "", "  ")
}

// Compile turns a wire definition into domain nodes and edges, decoding the
// untyped node payloads into typed configs. Structural problems surface
// wrapping domain.ErrMalformedGraph so callers can treat editor mistakes and
// hand-written mistakes uniformly.
func Compile(def *GraphDefinition) ([]domain.Node, []domain.Edge, error) {
	nodes := make([]domain.Node, 0, len(def.Nodes))
	for _, nd := range def.Nodes {
		if nd.ID == "" {
			return nil, nil, fmt.Errorf("%w: node with empty id", domain.ErrMalformedGraph)
		}
		cfg, err := decodeConfig(nd.Data)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: node %q: %v", domain.ErrMalformedGraph, nd.ID, err)
		}
		nodes = append(nodes, domain.Node{
			ID:     nd.ID,
			Type:   nd.Type,
			Label:  nd.Label,
			Config: cfg,
		})
	}

	edges := make([]domain.Edge, 0, len(def.Edges))
	for _, ed := range def.Edges {
		edge := domain.Edge{
			ID:     ed.ID,
			Source: ed.Source,
			Target: ed.Target,
			Type:   ed.Type,
		}
		if ed.Data != nil {
			if label, ok := ed.Data["label"].(string); ok {
				edge.Label = label
			}
			if cond, ok := ed.Data["condition"].(string); ok {
				edge.Condition = cond
			}
		}
		edges = append(edges, edge)
	}

	return nodes, edges, nil
}

// decodeConfig maps the editor's untyped payload into a NodeConfig.
// Timeouts arrive either as millisecond numbers (the editor's convention) or
// as Go duration strings in hand-written files.
func decodeConfig(data map[string]any) (domain.NodeConfig, error) {
	var cfg domain.NodeConfig
	if len(data) == 0 {
		return cfg, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook:       durationHook,
	})
	if err != nil {
		return cfg, err
	}
	if err := decoder.Decode(data); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func durationHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(time.Duration(0)) {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return time.ParseDuration(v)
	case float64:
		return time.Duration(v) * time.Millisecond, nil
	case int:
		return time.Duration(v) * time.Millisecond, nil
	case int64:
		return time.Duration(v) * time.Millisecond, nil
	}
	return data, nil
}
