package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/nitwit45/automation-tm/internal/application"
	"github.com/nitwit45/automation-tm/internal/domain"
	"github.com/spf13/cobra"
)

func newSetupCmd(app *app) *cobra.Command {
	var profile string
	var baseURL string
	var username string
	var password string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Store a profile and verify its credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if baseURL == "" {
				baseURL = app.baseURL
			}
			if password == "" {
				var err error
				password, err = promptPassword(cmd)
				if err != nil {
					return err
				}
			}

			err := app.service.Setup(cmd.Context(), application.SetupCommand{
				Profile:  domain.ProfileName(profile),
				BaseURL:  baseURL,
				Username: username,
				Password: password,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Profile %q saved and verified against %s\n", profile, baseURL)
			return nil
		},
	}

	cmd.Flags().StringVar(&profile, "profile", defaultProfile, "Profile name")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Service base URL (defaults to DTM_BASE_URL)")
	cmd.Flags().StringVar(&username, "username", "", "Login username/email")
	cmd.Flags().StringVar(&password, "password", "", "Login password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func promptPassword(cmd *cobra.Command) (string, error) {
	_, _ = fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", fmt.Errorf("password is empty")
	}
	return password, nil
}
