package cli

import (
	"errors"
	"fmt"

	infrarepo "autoparts/internal/infra/repository"
	"autoparts/internal/repository"
	auth "autoparts/internal/usecase/auth_usecase"

	"github.com/spf13/cobra"
)

func NewGrantAdminCommand() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "grant-admin",
		Short: "Give a registered user the ADMIN role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.close()

			uc := auth.NewGrantAdminUsecase(
				infrarepo.NewUserGormRepository(rt.db),
				infrarepo.NewAuditLogGormRepository(rt.db),
				auth.SystemClock{},
			)
			p, err := uc.Execute(cmd.Context(), email)
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("no user with email %q", email)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %d (%s) is now ADMIN\n", p.ID, p.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email of the user")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
