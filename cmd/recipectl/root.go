package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var verboseFlag bool

	ctx := newCommandContext(&configFlag, &verboseFlag)

	rootCmd := &cobra.Command{
		Use:           "recipectl",
		Short:         "Manage a Recipebox installation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log database activity")

	rootCmd.AddCommand(newMigrateCommand(ctx))
	rootCmd.AddCommand(newSeedTagsCommand(ctx))
	rootCmd.AddCommand(newParseCommand())
	rootCmd.AddCommand(newRecipesCommand(ctx))
	rootCmd.AddCommand(newShoppingCommand(ctx))

	return rootCmd
}

// skipsConfig reports whether cmd runs without configuration
func skipsConfig(cmd *cobra.Command) bool {
	return cmd.Annotations["config"] == "skip"
}
