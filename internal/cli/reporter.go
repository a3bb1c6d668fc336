package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"marithon/internal/domain"
	"marithon/internal/laytime"
)

type reporter struct {
	w io.Writer
}

func newReporter(w io.Writer) *reporter {
	return &reporter{w: w}
}

func (r *reporter) json(v interface{}) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *reporter) linef(format string, args ...interface{}) {
	fmt.Fprintf(r.w, format+"\n", args...)
}

// table writes label/value pairs, skipping empty values.
func (r *reporter) table(rows [][2]string) error {
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1])
	}
	return tw.Flush()
}

func (r *reporter) form(f domain.LaytimeForm) error {
	return r.table([][2]string{
		{"Vessel", f.Vessel},
		{"Voyage from", f.VoyageFrom},
		{"Voyage to", f.VoyageTo},
		{"Port", f.Port},
		{"Cargo", f.Cargo},
		{"Operation", f.Operation},
		{"Allowed laytime", f.AllowedLaytime},
		{"Demurrage", f.Demurrage},
		{"Dispatch", f.Dispatch},
		{"Rate", f.Rate},
		{"Quantity", f.Quantity},
	})
}

func (r *reporter) summary(s domain.LaytimeSummary, warnings []laytime.Warning) {
	r.linef("%s", s.Text)
	r.linef("Chart: used %s days, saved %s days", laytime.FormatNumber(s.Chart.Used), laytime.FormatNumber(s.Chart.Saved))
	for _, w := range warnings {
		r.linef("warning: %s %s", w.Field, w.Message)
	}
}

func (r *reporter) events(events []domain.EventRecord) error {
	if len(events) == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "EVENT\tDAY\tSTART\tEND\tTIME\t%\tREMAINING")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Event, e.Day, e.StartDateTime, e.EndDateTime, e.TimeUtilization, e.PercentUtilization, e.LaytimeRemaining)
	}
	return tw.Flush()
}

func (r *reporter) extraction(res *domain.ExtractionResult) error {
	r.linef("Parser: %s, %d lines, %d events", res.Meta.ParserMode, res.Meta.NumLines, len(res.Events))
	b := res.BusinessData
	if b == nil {
		b = &domain.BusinessData{}
	}
	if err := r.table([][2]string{
		{"Vessel", deref(b.Vessel)},
		{"Voyage from", deref(b.VoyageFrom)},
		{"Voyage to", deref(b.VoyageTo)},
		{"Port", deref(b.Port)},
		{"Cargo", deref(b.Cargo)},
		{"Operation", deref(b.Operation)},
		{"Demurrage", number(b.Demurrage)},
		{"Dispatch", number(b.Dispatch)},
		{"Rate", number(b.Rate)},
		{"Quantity", number(b.Quantity)},
		{"Allowed laytime", number(b.Allowed)},
	}); err != nil {
		return err
	}
	for _, ev := range res.Events {
		r.linef("  %-24s %.2f  %s", ev.Event, ev.Confidence, ev.RawText)
	}
	if res.Summary != nil {
		r.linef("")
		r.linef("%s", res.Summary.Text)
	}
	return nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func number(p *float64) string {
	if p == nil {
		return ""
	}
	return laytime.FormatNumber(*p)
}
