package cli

import (
	"fmt"

	"autoparts/internal/seed"

	"github.com/spf13/cobra"
)

func NewSeedCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load categories, brands, car models and products from a YAML catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := seed.LoadFile(file)
			if err != nil {
				return err
			}

			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.close()

			res, err := seed.Apply(cmd.Context(), rt.db, catalog)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "categories=%d brands=%d car_models=%d products created=%d updated=%d\n",
				res.Categories, res.Brands, res.CarModels, res.Created, res.Updated)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "catalog.yaml", "catalog YAML file")

	return cmd
}
