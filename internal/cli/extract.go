package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"marithon/internal/client"
	"marithon/internal/domain"
)

type extractCmd struct {
	cli      *CLI
	stored   bool
	forceOCR bool
	asJSON   bool
}

func (cli *CLI) newExtractCmd() *cobra.Command {
	ec := &extractCmd{cli: cli}
	cmd := &cobra.Command{
		Use:   "extract FILE",
		Short: "Extract business data and events from a Statement of Facts",
		Args:  cobra.ExactArgs(1),
		RunE:  ec.run,
	}

	cmd.Flags().BoolVar(&ec.stored, "store", false, "Upload the document to your account and extract it there (requires login)")
	cmd.Flags().BoolVar(&ec.forceOCR, "force-ocr", false, "Transcribe with OCR (with --store)")
	cmd.Flags().BoolVar(&ec.asJSON, "json", false, "Print the full extraction as JSON")

	return cmd
}

func (ec *extractCmd) run(cmd *cobra.Command, args []string) error {
	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	c, err := ec.cli.client()
	if err != nil {
		return err
	}
	f := client.File{Name: filepath.Base(path), Content: content}

	var res *domain.ExtractionResult
	if ec.stored {
		res, err = c.ProcessDocument(cmd.Context(), f, ec.forceOCR)
	} else {
		res, err = c.Submit(cmd.Context(), f)
	}
	if err != nil {
		return err
	}

	if ec.asJSON {
		return ec.cli.reporter.json(res)
	}
	return ec.cli.reporter.extraction(res)
}

func (cli *CLI) newPrefillCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "prefill",
		Short: "Show the calculator form filled from the last extraction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := cli.client()
			if err != nil {
				return err
			}
			form, err := c.Prefill(cmd.Context(), domain.LaytimeForm{})
			if err != nil {
				return err
			}
			if asJSON {
				return cli.reporter.json(form)
			}
			return cli.reporter.form(form)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the form as JSON")
	return cmd
}
