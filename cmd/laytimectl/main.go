package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"marithon/internal/cli"
	"marithon/internal/config"
	"marithon/internal/logging"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// stdout carries command output and the MCP stream; logs go to stderr.
	app := cli.NewCLI(cli.Options{
		Client:  cfg.Client,
		Logger:  logging.New(cfg.Log, os.Stderr),
		Out:     os.Stdout,
		Version: version,
	})
	if err := app.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
