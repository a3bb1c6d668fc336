package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"marithon/internal/cache"
	"marithon/internal/domain"
	"marithon/internal/export"
	"marithon/internal/laytime"
)

type exportCmd struct {
	cli    *CLI
	format string
	from   string
	out    string
}

func (cli *CLI) newExportCmd() *cobra.Command {
	xc := &exportCmd{cli: cli}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the last calculation as pdf, xlsx, csv, json or html",
		Args:  cobra.NoArgs,
		RunE:  xc.run,
	}

	cmd.Flags().StringVar(&xc.format, "format", "pdf", "Export format (pdf, xlsx, csv, json, html)")
	cmd.Flags().StringVar(&xc.from, "from", "", "Read the calculation from a JSON export instead of the last calculation")
	cmd.Flags().StringVarP(&xc.out, "output", "o", "", "Output path (default: generated file name)")

	return cmd
}

func (xc *exportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	format, err := export.ParseFormat(xc.format)
	if err != nil {
		return err
	}

	raw, err := xc.source(cmd)
	if err != nil {
		return err
	}
	doc, err := export.ImportJSON(raw)
	if err != nil {
		return err
	}

	report := export.NewReport(doc.FormData, doc.EventsData, resultOf(doc), calculatedAt(doc), xc.cli.opts.Now())
	file, err := export.Render(ctx, format, report)
	if err != nil {
		return err
	}

	path := xc.out
	if path == "" {
		path = file.Name
	}
	if err := os.WriteFile(path, file.Body, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	xc.cli.reporter.linef("wrote %s (%d bytes)", path, len(file.Body))
	return nil
}

func (xc *exportCmd) source(cmd *cobra.Command) ([]byte, error) {
	if xc.from != "" {
		raw, err := os.ReadFile(xc.from)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", xc.from, err)
		}
		return raw, nil
	}
	store, err := xc.cli.cache()
	if err != nil {
		return nil, err
	}
	raw, err := store.Get(cmd.Context(), cache.KeyLastCalc)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, errors.New("no calculation to export; run calc first or pass --from")
	}
	return raw, err
}

// resultOf rebuilds the stored laytime figures of a JSON export.
func resultOf(doc *export.Document) domain.LaytimeResult {
	return domain.LaytimeResult{
		RequiredDays: doc.LaytimeData.RequiredDays,
		AllowedDays:  laytime.InputFromForm(doc.FormData).AllowedDays,
		DeltaDays:    doc.LaytimeData.DeltaDays,
		Mode:         doc.LaytimeData.Mode,
		Amount:       doc.LaytimeData.Amount,
	}
}

func calculatedAt(doc *export.Document) time.Time {
	if t, err := time.Parse(time.RFC3339, doc.LaytimeData.CalculationDate); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, doc.Metadata.ExportDate); err == nil {
		return t
	}
	return time.Time{}
}
