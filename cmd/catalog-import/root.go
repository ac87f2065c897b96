package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand(open importerOpener) *cobra.Command {
	var datasetFlag string
	var jsonFlag bool

	ctx := newCommandContext(&datasetFlag, &jsonFlag, open)

	rootCmd := &cobra.Command{
		Use:           "catalog-import",
		Short:         "Import and reconcile the release catalog dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&datasetFlag, "dataset", "d", "", "Dataset path (overrides IMPORT_DATASET_PATH)")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Write results as JSON")

	rootCmd.AddCommand(newAllCommand(ctx))
	rootCmd.AddCommand(newBatchCommand(ctx))
	rootCmd.AddCommand(newUpcCommand(ctx))
	rootCmd.AddCommand(newProgressCommand(ctx))
	rootCmd.AddCommand(newValidateCommand(ctx))

	return rootCmd
}
