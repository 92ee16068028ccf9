package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	platformclock "github.com/cinedex/catalog-api/internal/platform/clock"
)

func (a *App) createMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded schema to the configured SQL backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cfg, _, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			b, err := openBackend(ctx, cfg, platformclock.NewSystemClock())
			if err != nil {
				return err
			}
			defer b.close()

			if err := b.migrate(ctx); err != nil {
				return fmt.Errorf("migrate %s: %w", b.name, err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s schema is up to date\n", b.name)
			return err
		},
	}
}
