package cmd

import (
	"fmt"

	"github.com/nitwit45/automation-tm/internal/domain"
	"github.com/spf13/cobra"
)

func newLoginCmd(app *app) *cobra.Command {
	var profile string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log the profile in (or reuse a still-valid session)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := app.service.Connect(cmd.Context(), domain.ProfileName(profile)); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as profile %q\n", profile)
			return nil
		},
	}

	cmd.Flags().StringVar(&profile, "profile", defaultProfile, "Profile name")

	return cmd
}
