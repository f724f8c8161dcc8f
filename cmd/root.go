package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "dtm",
		Short:         "dtm: drive the Daily Task Monitor from the terminal",
		Long:          "dtm automates the browser-only Daily Task Monitor service: it logs in like a browser, keeps the anti-forgery token fresh, and starts, pauses, resumes, ends and lists tasks.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newSetupCmd(app),
		newLoginCmd(app),
		newSessionCmd(app),
		newCatalogCmd(app),
		newTaskCmd(app),
		newTasksCmd(app),
	)

	return rootCmd
}
