// Package cli implements the laytimectl command tree.
package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"marithon/internal/cache"
	"marithon/internal/client"
	"marithon/internal/config"
)

// Options contain configuration for the CLI.
type Options struct {
	Client  config.ClientConfig
	Logger  zerolog.Logger
	Out     io.Writer
	Version string
	// Now overrides the clock used for report dates.
	Now func() time.Time
}

// CLI represents the command-line interface.
type CLI struct {
	opts     Options
	reporter *reporter
	store    *cache.Store
	rootCmd  *cobra.Command
}

// NewCLI creates a new CLI instance.
func NewCLI(opts Options) *CLI {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	cli := &CLI{
		opts:     opts,
		reporter: newReporter(opts.Out),
	}
	cli.rootCmd = cli.newRootCmd()
	return cli
}

// Execute runs the command named by args and closes the cache.
func (cli *CLI) Execute(ctx context.Context, args []string) error {
	defer cli.close()
	cli.rootCmd.SetArgs(args)
	cli.rootCmd.SetOut(cli.opts.Out)
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "laytimectl",
		Short:         "Laytime demurrage and dispatch calculator",
		Version:       cli.opts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(cli.newCalcCmd())
	cmd.AddCommand(cli.newExtractCmd())
	cmd.AddCommand(cli.newPrefillCmd())
	cmd.AddCommand(cli.newExportCmd())
	cmd.AddCommand(cli.newLoginCmd())
	cmd.AddCommand(cli.newSignupCmd())
	cmd.AddCommand(cli.newLogoutCmd())
	cmd.AddCommand(cli.newWhoamiCmd())
	cmd.AddCommand(cli.newMCPCmd())

	return cmd
}

// cache opens the local store on first use.
func (cli *CLI) cache() (*cache.Store, error) {
	if cli.store != nil {
		return cli.store, nil
	}
	s, err := cache.Open(cli.opts.Client.CachePath)
	if err != nil {
		return nil, err
	}
	cli.store = s
	return s, nil
}

func (cli *CLI) client() (*client.Client, error) {
	store, err := cli.cache()
	if err != nil {
		return nil, err
	}
	return client.New(cli.opts.Client.BaseURL,
		client.WithStore(store),
		client.WithTimeout(cli.opts.Client.Timeout),
		client.WithLogger(cli.opts.Logger),
	), nil
}

func (cli *CLI) close() {
	if cli.store == nil {
		return
	}
	if err := cli.store.Close(); err != nil {
		cli.opts.Logger.Warn().Err(err).Msg("closing cache")
	}
	cli.store = nil
}
