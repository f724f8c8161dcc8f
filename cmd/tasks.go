package cmd

import (
	"context"
	"fmt"

	"github.com/nitwit45/automation-tm/internal/domain"
	"github.com/spf13/cobra"
)

func newTasksCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List tasks from the remote table",
	}

	cmd.AddCommand(newTasksListCmd(app), newTasksOngoingCmd(app))

	return cmd
}

func newTasksListCmd(app *app) *cobra.Command {
	var profile string
	var date string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks for a date (defaults to today)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if date == "" {
				date = app.now().Format(domain.DateLayout)
			}

			var list domain.TaskList
			err := runTasksFetchSpinner(cmd.Context(), cmd.OutOrStdout(), "Fetching tasks...", func(ctx context.Context) error {
				var err error
				list, err = app.service.ListTasks(ctx, domain.ProfileName(profile), date)
				return err
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), app.tasksRenderer(date, list))
			return nil
		},
	}

	cmd.Flags().StringVar(&profile, "profile", defaultProfile, "Profile name")
	cmd.Flags().StringVar(&date, "date", "", "Date to list (YYYY-MM-DD)")

	return cmd
}

func newTasksOngoingCmd(app *app) *cobra.Command {
	var profile string
	var days int

	cmd := &cobra.Command{
		Use:   "ongoing",
		Short: "Scan recent days for tasks still running or paused",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var rows []domain.TaskRow
			err := runTasksFetchSpinner(cmd.Context(), cmd.OutOrStdout(), "Scanning for ongoing tasks...", func(ctx context.Context) error {
				var err error
				rows, err = app.service.OngoingTasks(ctx, domain.ProfileName(profile), days)
				return err
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				_, _ = fmt.Fprintf(out, "No ongoing tasks in the last %d days\n", days)
				return nil
			}
			for _, row := range rows {
				_, _ = fmt.Fprintf(out, "#%-10s %s\n", row.ID(), row.StatusText())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&profile, "profile", defaultProfile, "Profile name")
	cmd.Flags().IntVar(&days, "days", 7, "How many days back to scan")

	return cmd
}
