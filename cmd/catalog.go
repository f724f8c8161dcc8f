package cmd

import (
	"fmt"

	"github.com/nitwit45/automation-tm/internal/domain"
	"github.com/spf13/cobra"
)

func newCatalogCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the remote reference data",
	}

	cmd.AddCommand(
		newCatalogTypesCmd(app),
		newCatalogProjectsCmd(app),
		newCatalogCategoriesCmd(app),
		newCatalogActivitiesCmd(app),
	)

	return cmd
}

func newCatalogTypesCmd(app *app) *cobra.Command {
	var profile string

	cmd := &cobra.Command{
		Use:   "types",
		Short: "List active task types",
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := app.service.TaskTypes(cmd.Context(), domain.ProfileName(profile))
			if err != nil {
				return err
			}
			printEntries(cmd, entries)
			return nil
		},
	}

	cmd.Flags().StringVar(&profile, "profile", defaultProfile, "Profile name")

	return cmd
}

func newCatalogProjectsCmd(app *app) *cobra.Command {
	var profile string

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List active projects",
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := app.service.Projects(cmd.Context(), domain.ProfileName(profile))
			if err != nil {
				return err
			}
			printEntries(cmd, entries)
			return nil
		},
	}

	cmd.Flags().StringVar(&profile, "profile", defaultProfile, "Profile name")

	return cmd
}

func newCatalogCategoriesCmd(app *app) *cobra.Command {
	var profile string
	var projectID string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List categories for a project",
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := app.service.Categories(cmd.Context(), domain.ProfileName(profile), projectID)
			if err != nil {
				return err
			}
			printEntries(cmd, entries)
			return nil
		},
	}

	cmd.Flags().StringVar(&profile, "profile", defaultProfile, "Profile name")
	cmd.Flags().StringVar(&projectID, "project", "", "Project id")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newCatalogActivitiesCmd(app *app) *cobra.Command {
	var profile string
	var projectID string
	var categoryID string

	cmd := &cobra.Command{
		Use:   "activities",
		Short: "List activities for a project and category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := app.service.Activities(cmd.Context(), domain.ProfileName(profile), projectID, categoryID)
			if err != nil {
				return err
			}
			printEntries(cmd, entries)
			return nil
		},
	}

	cmd.Flags().StringVar(&profile, "profile", defaultProfile, "Profile name")
	cmd.Flags().StringVar(&projectID, "project", "", "Project id")
	cmd.Flags().StringVar(&categoryID, "category", "", "Category id")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func printEntries(cmd *cobra.Command, entries []domain.CatalogEntry) {
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no entries (or the request failed)")
		return
	}
	for _, entry := range entries {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", entry.ID, entry.Name)
	}
}
