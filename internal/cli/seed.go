package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cinedex/catalog-api/internal/app/catalogseed"
	"github.com/cinedex/catalog-api/internal/app/directors"
	"github.com/cinedex/catalog-api/internal/app/movies"
	platformclock "github.com/cinedex/catalog-api/internal/platform/clock"
	"github.com/cinedex/catalog-api/internal/platform/config"
)

func (a *App) createSeedCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import directors and movies from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cfg, log, err := a.load(cmd.Context())
			if err != nil {
				return err
			}

			fh, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open seed file: %w", err)
			}
			defer fh.Close()
			f, err := catalogseed.Parse(fh)
			if err != nil {
				return err
			}

			b, err := openBackend(ctx, cfg, platformclock.NewSystemClock())
			if err != nil {
				return err
			}
			defer b.close()
			if err := b.prepare(ctx, cfg); err != nil {
				return err
			}
			if b.name == config.BackendMemory {
				log.Info("seeding the memory backend; data is discarded on exit")
			}

			imp := catalogseed.NewImporter(
				directors.NewService(b.directors, b.movies),
				movies.NewService(b.movies, b.directors),
			)
			sum, err := imp.Import(ctx, f)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(),
				"directors: %d created, %d existing\nmovies: %d created, %d skipped\n",
				sum.DirectorsCreated, sum.DirectorsExisting, sum.MoviesCreated, sum.MoviesSkipped)
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "seed file (YAML)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
