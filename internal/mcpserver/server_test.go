package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marithon/internal/domain"
)

func connect(t *testing.T) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	server := NewServer("test", zerolog.Nop())

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	c := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := c.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func decodeStructured(t *testing.T, res *mcp.CallToolResult, v interface{}) {
	t.Helper()
	raw, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, v))
}

func TestListTools(t *testing.T) {
	cs := connect(t)

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"calculate_laytime", "laytime_chart"}, names)
}

func TestCalculateLaytime_Demurrage(t *testing.T) {
	cs := connect(t)

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "calculate_laytime",
		Arguments: map[string]interface{}{
			"vessel":          "MV OCEAN STAR",
			"quantity":        55000,
			"rate":            10000,
			"allowed_laytime": 5,
			"demurrage_rate":  20000,
			"dispatch_rate":   10000,
		},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	var out CalculateOutput
	decodeStructured(t, res, &out)
	assert.Equal(t, domain.ModeDemurrage, out.Result.Mode)
	assert.InDelta(t, 0.5, out.Result.DeltaDays, 1e-9)
	assert.InDelta(t, 10000, out.Result.Amount, 1e-9)
	assert.InDelta(t, 5, out.Chart.Used, 1e-9)
	assert.InDelta(t, 0, out.Chart.Saved, 1e-9)

	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, out.Summary, text.Text)
}

func TestCalculateLaytime_Dispatch(t *testing.T) {
	cs := connect(t)

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "calculate_laytime",
		Arguments: map[string]interface{}{
			"quantity":        40000,
			"rate":            10000,
			"allowed_laytime": 5,
			"demurrage_rate":  20000,
			"dispatch_rate":   10000,
		},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	var out CalculateOutput
	decodeStructured(t, res, &out)
	assert.Equal(t, domain.ModeDispatch, out.Result.Mode)
	assert.InDelta(t, 10000, out.Result.Amount, 1e-9)
	assert.InDelta(t, 4, out.Chart.Used, 1e-9)
	assert.InDelta(t, 1, out.Chart.Saved, 1e-9)
}

func TestLaytimeChart(t *testing.T) {
	cs := connect(t)

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "laytime_chart",
		Arguments: map[string]interface{}{"required_days": 3.25, "allowed_days": 5},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	var out domain.ChartSlices
	decodeStructured(t, res, &out)
	assert.InDelta(t, 3.25, out.Used, 1e-9)
	assert.InDelta(t, 1.75, out.Saved, 1e-9)
}

func TestLaytimeChart_NegativeIsToolError(t *testing.T) {
	cs := connect(t)

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "laytime_chart",
		Arguments: map[string]interface{}{"required_days": -1, "allowed_days": 5},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
