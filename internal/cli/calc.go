package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"marithon/internal/cache"
	"marithon/internal/domain"
	"marithon/internal/export"
	"marithon/internal/laytime"
)

type calcCmd struct {
	cli          *CLI
	form         domain.LaytimeForm
	usePrefill   bool
	sampleEvents bool
	asJSON       bool
}

func (cli *CLI) newCalcCmd() *cobra.Command {
	cc := &calcCmd{cli: cli}
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate demurrage or dispatch",
		Long: `Calculate demurrage or dispatch from charter party terms. Numeric values are
taken as typed; empty or non-numeric values count as 0. The result is saved as the
last calculation for export.`,
		Args: cobra.NoArgs,
		RunE: cc.run,
	}

	f := cmd.Flags()
	f.StringVar(&cc.form.Vessel, "vessel", "", "Vessel name")
	f.StringVar(&cc.form.VoyageFrom, "voyage-from", "", "Voyage origin")
	f.StringVar(&cc.form.VoyageTo, "voyage-to", "", "Voyage destination")
	f.StringVar(&cc.form.Port, "port", "", "Port")
	f.StringVar(&cc.form.Cargo, "cargo", "", "Cargo")
	f.StringVar(&cc.form.Operation, "operation", "", "Operation (loading or discharge)")
	f.StringVar(&cc.form.AllowedLaytime, "allowed", "", "Allowed laytime in days")
	f.StringVar(&cc.form.Demurrage, "demurrage", "", "Demurrage rate in USD per day")
	f.StringVar(&cc.form.Dispatch, "dispatch", "", "Dispatch rate in USD per day")
	f.StringVar(&cc.form.Rate, "rate", "", "Loading or discharge rate in tons per day")
	f.StringVar(&cc.form.Quantity, "quantity", "", "Cargo quantity in tons")
	f.BoolVar(&cc.usePrefill, "prefill", false, "Fill empty fields from the last extraction")
	f.BoolVar(&cc.sampleEvents, "sample-events", false, "Seed the timeline with sample events")
	f.BoolVar(&cc.asJSON, "json", false, "Print the calculation as JSON")

	return cmd
}

func (cc *calcCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	store, err := cc.cli.cache()
	if err != nil {
		return err
	}

	form := cc.form
	if cc.usePrefill {
		var cached domain.LaytimeForm
		if err := store.GetJSON(ctx, cache.KeyPrefill, &cached); err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			c, err := cc.cli.client()
			if err != nil {
				return err
			}
			if cached, err = c.Prefill(ctx, domain.LaytimeForm{}); err != nil {
				return fmt.Errorf("no extraction to prefill from: %w", err)
			}
		}
		form = laytime.Prefill(form, cached)
	}
	form.Operation = form.OperationOrDefault()

	summary := laytime.Summarize(form)
	var events []domain.EventRecord
	if cc.sampleEvents {
		events = laytime.SampleEvents(summary.Result.AllowedDays)
	}

	now := cc.cli.opts.Now()
	report := export.NewReport(form, events, summary.Result, now, now)
	doc, err := export.JSON(report)
	if err != nil {
		return err
	}
	if err := store.Put(ctx, cache.KeyLastCalc, doc); err != nil {
		return err
	}

	if cc.asJSON {
		_, err := cc.cli.opts.Out.Write(append(doc, '\n'))
		return err
	}
	cc.cli.reporter.summary(summary, laytime.CheckForm(form))
	return cc.cli.reporter.events(events)
}
