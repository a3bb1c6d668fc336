// Package mcpserver exposes the laytime calculator as Model Context Protocol
// tools.
package mcpserver

import (
	"context"
	"errors"
	"math"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"marithon/internal/domain"
	"marithon/internal/laytime"
)

const serverInstructions = `MariThon computes laytime outcomes for bulk cargo operations.
Use calculate_laytime with the charter party terms (quantity, loading or discharge
rate per day, allowed laytime in days, demurrage and dispatch rates per day) to get
the demurrage or dispatch amount. Use laytime_chart to split allowed laytime into
used and saved days.`

// CalculateInput are the charter party terms of one port call.
type CalculateInput struct {
	Vessel         string  `json:"vessel,omitempty" jsonschema:"vessel name"`
	Port           string  `json:"port,omitempty" jsonschema:"port of the operation"`
	Cargo          string  `json:"cargo,omitempty" jsonschema:"cargo description"`
	Operation      string  `json:"operation,omitempty" jsonschema:"loading or discharge; defaults to discharge"`
	Quantity       float64 `json:"quantity" jsonschema:"cargo quantity in metric tons"`
	Rate           float64 `json:"rate" jsonschema:"loading or discharge rate in tons per day"`
	AllowedLaytime float64 `json:"allowed_laytime,omitempty" jsonschema:"allowed laytime in days"`
	DemurrageRate  float64 `json:"demurrage_rate,omitempty" jsonschema:"demurrage in USD per day"`
	DispatchRate   float64 `json:"dispatch_rate,omitempty" jsonschema:"dispatch in USD per day"`
}

// CalculateOutput is the laytime outcome with its chart slices and summary.
type CalculateOutput struct {
	Result   domain.LaytimeResult `json:"result"`
	Chart    domain.ChartSlices   `json:"chart"`
	Summary  string               `json:"summary"`
	Warnings []laytime.Warning    `json:"warnings,omitempty"`
}

// ChartInput are the two durations the chart compares.
type ChartInput struct {
	RequiredDays float64 `json:"required_days" jsonschema:"laytime the operation needed, in days"`
	AllowedDays  float64 `json:"allowed_days" jsonschema:"laytime allowed by the charter party, in days"`
}

// NewServer creates an MCP server with the laytime tools registered.
func NewServer(version string, logger zerolog.Logger) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "marithon",
		Version: version,
	}, &mcp.ServerOptions{
		Instructions: serverInstructions,
	})

	t := &tools{logger: logger.With().Str("component", "mcp").Logger()}
	mcp.AddTool(server, &mcp.Tool{
		Name:        "calculate_laytime",
		Description: "Compute demurrage or dispatch for a port call from quantity, rate, allowed laytime and per-day rates",
	}, t.calculate)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "laytime_chart",
		Description: "Split allowed laytime into used and saved days",
	}, t.chart)

	return server
}

// Serve runs server over stdin/stdout until the client disconnects or ctx
// is canceled.
func Serve(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

type tools struct {
	logger zerolog.Logger
}

func (t *tools) calculate(_ context.Context, _ *mcp.CallToolRequest, in CalculateInput) (*mcp.CallToolResult, CalculateOutput, error) {
	form := domain.LaytimeForm{
		Vessel:         in.Vessel,
		Port:           in.Port,
		Cargo:          in.Cargo,
		Operation:      in.Operation,
		Quantity:       formatNumber(in.Quantity),
		Rate:           formatNumber(in.Rate),
		AllowedLaytime: formatNumber(in.AllowedLaytime),
		Demurrage:      formatNumber(in.DemurrageRate),
		Dispatch:       formatNumber(in.DispatchRate),
	}
	form.Operation = form.OperationOrDefault()

	summary := laytime.Summarize(form)
	out := CalculateOutput{
		Result:   summary.Result,
		Chart:    summary.Chart,
		Summary:  summary.Text,
		Warnings: laytime.CheckForm(form),
	}

	t.logger.Debug().
		Str("mode", string(out.Result.Mode)).
		Float64("amount", out.Result.Amount).
		Msg("calculate_laytime")

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: out.Summary}},
	}, out, nil
}

func (t *tools) chart(_ context.Context, _ *mcp.CallToolRequest, in ChartInput) (*mcp.CallToolResult, domain.ChartSlices, error) {
	if in.RequiredDays < 0 || in.AllowedDays < 0 {
		return nil, domain.ChartSlices{}, errors.New("required_days and allowed_days must not be negative")
	}
	slices := laytime.Chart(in.RequiredDays, in.AllowedDays)
	text := "Used " + laytime.FormatNumber(slices.Used) + " days, saved " + laytime.FormatNumber(slices.Saved) + " days"
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, slices, nil
}

func formatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
