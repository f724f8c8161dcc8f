package cmd

import (
	"fmt"

	"github.com/nitwit45/automation-tm/internal/domain"
	"github.com/spf13/cobra"
)

func newSessionCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or drop the cached session",
	}

	cmd.AddCommand(newSessionCheckCmd(app), newSessionDropCmd(app))

	return cmd
}

func newSessionCheckCmd(app *app) *cobra.Command {
	var profile string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Probe whether the cached session is still authenticated",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.service.SessionValid(cmd.Context(), domain.ProfileName(profile)) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "session valid")
				return nil
			}

			// The probe fails closed: inconclusive means not authenticated.
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "session invalid")
			return nil
		},
	}

	cmd.Flags().StringVar(&profile, "profile", defaultProfile, "Profile name")

	return cmd
}

func newSessionDropCmd(app *app) *cobra.Command {
	var profile string

	cmd := &cobra.Command{
		Use:   "drop",
		Short: "Forget the cached client for the profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.service.Logout(domain.ProfileName(profile))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Dropped cached session for %q\n", profile)
			return nil
		},
	}

	cmd.Flags().StringVar(&profile, "profile", defaultProfile, "Profile name")

	return cmd
}
