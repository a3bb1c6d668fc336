package cli

import (
	"github.com/spf13/cobra"

	"marithon/internal/mcpserver"
)

func (cli *CLI) newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the calculator as Model Context Protocol tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			version := cli.opts.Version
			if version == "" {
				version = "dev"
			}
			cli.opts.Logger.Info().Msg("serving MCP over stdio")
			return mcpserver.Serve(cmd.Context(), mcpserver.NewServer(version, cli.opts.Logger))
		},
	}
}
