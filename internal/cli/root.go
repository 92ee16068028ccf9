// Package cli builds the catalog-api command tree.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/cinedex/catalog-api/internal/platform/config"
	"github.com/cinedex/catalog-api/internal/platform/logging"
)

// Version is stamped at build time with -ldflags "-X .../internal/cli.Version=...".
var Version = "dev"

type App struct {
	configPath string
	stdout     io.Writer
	stderr     io.Writer
}

func NewApp(stdout, stderr io.Writer) *App {
	return &App{stdout: stdout, stderr: stderr}
}

// CreateRootCommand creates the root command for the CLI.
func (a *App) CreateRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "catalog-api",
		Short:         "Movie and director catalog service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file (CATALOG_* env vars override it)")

	rootCmd.AddCommand(a.createServeCommand())
	rootCmd.AddCommand(a.createMigrateCommand())
	rootCmd.AddCommand(a.createSeedCommand())
	rootCmd.AddCommand(a.createVersionCommand())

	return rootCmd
}

// load reads configuration and returns a context carrying the configured logger.
func (a *App) load(ctx context.Context) (context.Context, config.Config, logr.Logger, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return ctx, config.Config{}, logr.Discard(), err
	}
	log, err := logging.New(a.stderr, cfg.Log.Level)
	if err != nil {
		return ctx, config.Config{}, logr.Discard(), err
	}
	return logr.NewContext(ctx, log), cfg, log, nil
}

func (a *App) createVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "catalog-api %s\n", Version)
			return err
		},
	}
}
