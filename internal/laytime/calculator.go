// Package laytime implements the demurrage/dispatch arithmetic and the
// presentation helpers built on top of it.
package laytime

import (
	"math"
	"strconv"
	"strings"

	"marithon/internal/domain"
)

// Input holds coerced calculator inputs.
type Input struct {
	Quantity      float64
	Rate          float64
	AllowedDays   float64
	DemurrageRate float64
	DispatchRate  float64
}

// ParseInput converts raw form text to a number. Empty, non-numeric and
// non-finite values become 0.
func ParseInput(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// InputFromForm coerces the numeric fields of a form. Rate is floored at 1
// and allowed laytime at 0.
func InputFromForm(f domain.LaytimeForm) Input {
	return Input{
		Quantity:      ParseInput(f.Quantity),
		Rate:          math.Max(ParseInput(f.Rate), 1),
		AllowedDays:   math.Max(ParseInput(f.AllowedLaytime), 0),
		DemurrageRate: ParseInput(f.Demurrage),
		DispatchRate:  ParseInput(f.Dispatch),
	}
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0
	}
	return r
}

// Calculate computes the laytime outcome. The delta is rounded before its
// sign is inspected, so a difference of 0.00 is a dispatch of zero.
func Calculate(in Input) domain.LaytimeResult {
	rate := in.Rate
	if math.IsNaN(rate) || rate < 1 {
		rate = 1
	}
	allowed := in.AllowedDays
	if math.IsNaN(allowed) || allowed < 0 {
		allowed = 0
	}
	quantity := finite(in.Quantity)

	required := quantity / rate
	delta := Round2(required - allowed)

	mode := domain.ModeDispatch
	perDay := finite(in.DispatchRate)
	if delta > 0 {
		mode = domain.ModeDemurrage
		perDay = finite(in.DemurrageRate)
	}
	days := math.Abs(delta)

	return domain.LaytimeResult{
		RequiredDays: required,
		AllowedDays:  allowed,
		DeltaDays:    days,
		Mode:         mode,
		Amount:       math.Abs(Round2(days * perDay)),
	}
}

// CalculateForm is Calculate over raw form values.
func CalculateForm(f domain.LaytimeForm) domain.LaytimeResult {
	return Calculate(InputFromForm(f))
}

// Chart returns the used and saved slices for the laytime usage chart.
// Only savings are visualised; overage is not.
func Chart(requiredDays, allowedDays float64) domain.ChartSlices {
	return domain.ChartSlices{
		Used:  math.Min(requiredDays, allowedDays),
		Saved: math.Max(0, allowedDays-requiredDays),
	}
}

// Summarize calculates a form and bundles the result with its chart slices
// and summary text.
func Summarize(f domain.LaytimeForm) domain.LaytimeSummary {
	r := CalculateForm(f)
	return domain.LaytimeSummary{
		Result: r,
		Chart:  Chart(r.RequiredDays, r.AllowedDays),
		Text:   Summary(f, r),
	}
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
