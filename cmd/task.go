package cmd

import (
	"context"
	"fmt"

	"github.com/nitwit45/automation-tm/internal/application"
	"github.com/nitwit45/automation-tm/internal/domain"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Start, pause, resume or end a task",
	}

	cmd.AddCommand(
		newTaskStartCmd(app),
		newTaskTransitionCmd(app, "pause", "Pause a running task", app.service.PauseTask),
		newTaskTransitionCmd(app, "resume", "Resume a paused task", app.service.ResumeTask),
		newTaskTransitionCmd(app, "end", "End a task", app.service.EndTask),
		newTaskLastCmd(app),
	)

	return cmd
}

func newTaskStartCmd(app *app) *cobra.Command {
	var profile string
	var cmdInput application.StartTaskCommand

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a new task",
		Long:  "Start a new task. --type and --project accept a catalog id or a name fragment; --at accepts a combined date/time such as 2025-01-31T09:30.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdInput.Profile = domain.ProfileName(profile)
			if err := app.service.StartTask(cmd.Context(), cmdInput); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Task started")
			return nil
		},
	}

	cmd.Flags().StringVar(&profile, "profile", defaultProfile, "Profile name")
	cmd.Flags().StringVarP(&cmdInput.TaskType, "type", "t", "", "Task type (id or name fragment)")
	cmd.Flags().StringVarP(&cmdInput.Project, "project", "p", "", "Project (id or name fragment)")
	cmd.Flags().StringVarP(&cmdInput.Description, "description", "d", "", "Task description")
	cmd.Flags().StringVar(&cmdInput.Category, "category", "", "Category (optional)")
	cmd.Flags().StringVar(&cmdInput.Activity, "activity", "", "Activity (optional, needs --category)")
	cmd.Flags().StringVar(&cmdInput.BugID, "bug", "", "Bug id (optional)")
	cmd.Flags().StringVar(&cmdInput.StartAt, "at", "", "Start time (optional, defaults to now)")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

func newTaskTransitionCmd(app *app, use, short string, run func(context.Context, application.TransitionCommand) error) *cobra.Command {
	var profile string
	var at string

	cmd := &cobra.Command{
		Use:   use + " <task-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd.Context(), application.TransitionCommand{
				Profile: domain.ProfileName(profile),
				TaskID:  domain.TaskID(args[0]),
				At:      at,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %s: %s accepted\n", args[0], use)
			return nil
		},
	}

	cmd.Flags().StringVar(&profile, "profile", defaultProfile, "Profile name")
	cmd.Flags().StringVar(&at, "at", "", `Transition time in "YYYY-MM-DD HH:MM AM/PM" form (defaults to now)`)

	return cmd
}

func newTaskLastCmd(app *app) *cobra.Command {
	var profile string

	cmd := &cobra.Command{
		Use:   "last",
		Short: "Show the last started task",
		RunE: func(cmd *cobra.Command, _ []string) error {
			last, err := app.service.LastTask(cmd.Context(), domain.ProfileName(profile))
			if err != nil {
				return err
			}
			if last == nil {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no task started yet")
				return nil
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Type:        %s\n", last.TaskType)
			_, _ = fmt.Fprintf(out, "Project:     %s\n", last.Project)
			_, _ = fmt.Fprintf(out, "Description: %s\n", last.Description)
			_, _ = fmt.Fprintf(out, "Started at:  %s\n", last.StartedAt.Format("2006-01-02 15:04"))
			return nil
		},
	}

	cmd.Flags().StringVar(&profile, "profile", defaultProfile, "Profile name")

	return cmd
}
