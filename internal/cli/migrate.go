package cli

import (
	"autoparts/internal/infra/db"

	"github.com/spf13/cobra"
)

func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.close()

			if err := db.Migrate(rt.db); err != nil {
				return err
			}
			rt.log.Info().Msg("migration complete")
			return nil
		},
	}
}
