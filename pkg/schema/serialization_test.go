package schema_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/domain"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/schema"
)

const sampleJSON = `{
  "id": "wf-1",
  "name": "Invoice Flow",
  "nodes": [
    {"id": "start", "type": "start", "position": {"x": 0, "y": 0}},
    {
      "id": "fetch",
      "type": "tool",
      "label": "Fetch Invoice",
      "data": {
        "toolName": "fetch_invoice",
        "serverId": "billing",
        "parameters": {"id": "inv-42"},
        "timeout": 5000,
        "retryCount": 2,
        "continueOnError": true
      }
    },
    {
      "id": "gate",
      "type": "conditional",
      "data": {"condition": "fetch.status == 'paid'"}
    },
    {"id": "end", "type": "end"}
  ],
  "edges": [
    {"id": "e1", "source": "start", "target": "fetch"},
    {"id": "e2", "source": "fetch", "target": "gate"},
    {"id": "e3", "source": "gate", "target": "end", "data": {"label": "true", "condition": "paid"}}
  ]
}`

func TestParseJSONAndCompile(t *testing.T) {
	def, err := schema.ParseJSON([]byte(sampleJSON))
	require.NoError(t, err)
	assert.Equal(t, "wf-1", def.ID)
	require.Len(t, def.Nodes, 4)

	nodes, edges, err := schema.Compile(def)
	require.NoError(t, err)
	require.Len(t, nodes, 4)
	require.Len(t, edges, 3)

	fetch := nodes[1]
	assert.Equal(t, domain.NodeTypeTool, fetch.Type)
	assert.Equal(t, "Fetch Invoice", fetch.Label)
	assert.Equal(t, "fetch_invoice", fetch.Config.ToolName)
	assert.Equal(t, "billing", fetch.Config.ServerID)
	assert.Equal(t, map[string]any{"id": "inv-42"}, fetch.Config.Parameters)
	assert.Equal(t, 5*time.Second, fetch.Config.Timeout)
	assert.Equal(t, 2, fetch.Config.RetryCount)
	assert.True(t, fetch.Config.ContinueOnError)

	assert.Equal(t, "fetch.status == 'paid'", nodes[2].Config.Condition)

	// Edge label and condition come out of the payload map.
	assert.Equal(t, "true", edges[2].Label)
	assert.Equal(t, "paid", edges[2].Condition)
	assert.Empty(t, edges[0].Label)
}

func TestParseYAML(t *testing.T) {
	const sampleYAML = `
id: wf-yaml
nodes:
  - id: start
    type: start
  - id: pause
    type: tool
    data:
      toolName: sleep
      timeout: 1.5s
  - id: end
    type: end
edges:
  - id: e1
    source: start
    target: pause
  - id: e2
    source: pause
    target: end
`
	def, err := schema.ParseYAML([]byte(sampleYAML))
	require.NoError(t, err)

	nodes, _, err := schema.Compile(def)
	require.NoError(t, err)
	require.Len(t, nodes, 3)

	// Duration strings parse in hand-written files.
	assert.Equal(t, 1500*time.Millisecond, nodes[1].Config.Timeout)
}

func TestCompile_EmptyNodeID(t *testing.T) {
	def := &schema.GraphDefinition{
		ID:    "bad",
		Nodes: []schema.NodeDefinition{{ID: "", Type: "tool"}},
	}
	_, _, err := schema.Compile(def)
	assert.ErrorIs(t, err, domain.ErrMalformedGraph)
}

func TestCompile_LoopConfig(t *testing.T) {
	def := &schema.GraphDefinition{
		ID: "loops",
		Nodes: []schema.NodeDefinition{{
			ID:   "l1",
			Type: "loop",
			Data: map[string]any{
				"maxIterations": float64(7),
				"loopCondition": "counter",
			},
		}},
	}
	nodes, _, err := schema.Compile(def)
	require.NoError(t, err)
	assert.Equal(t, 7, nodes[0].Config.MaxIterations)
	assert.Equal(t, "counter", nodes[0].Config.LoopCondition)
}

func TestEncodeJSON_RoundTrip(t *testing.T) {
	def, err := schema.ParseJSON([]byte(sampleJSON))
	require.NoError(t, err)

	out, err := schema.EncodeJSON(def)
	require.NoError(t, err)

	again, err := schema.ParseJSON(out)
	require.NoError(t, err)
	assert.Equal(t, def.ID, again.ID)
	require.Len(t, again.Nodes, len(def.Nodes))

	// Canvas positions survive even though the engine ignores them.
	require.NotNil(t, again.Nodes[0].Position)
	assert.Equal(t, def.Nodes[0].Position.X, again.Nodes[0].Position.X)
}

func TestParseJSON_Invalid(t *testing.T) {
	_, err := schema.ParseJSON([]byte("{not json"))
	assert.Error(t, err)
}
