package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/adrianliechti/lahde/config"
	"github.com/adrianliechti/lahde/pkg/otel"
	"github.com/adrianliechti/lahde/server"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var address string

	cmd := &cobra.Command{
		Use:   "lahde",
		Short: "Grounded chat backend with answer validation",

		Version: version,

		SilenceUsage: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configPath, address)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", os.Getenv("LAHDE_CONFIG"), "path to the YAML config file")
	cmd.Flags().StringVarP(&address, "address", "a", "", "listen address, overrides the config")

	return cmd
}

func run(ctx context.Context, configPath, address string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := otel.Setup(ctx, "lahde", version)

	if err != nil {
		return err
	}

	defer shutdown(context.Background())

	cfg, err := config.Parse(configPath)

	if err != nil {
		slog.Error("failed to load config", "error", err)
		return err
	}

	if address != "" {
		cfg.Address = address
	}

	s, err := server.New(cfg)

	if err != nil {
		return err
	}

	return s.ListenAndServe(ctx)
}
