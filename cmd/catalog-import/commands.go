package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var errLookupsMissing = errors.New("lookup data is incomplete")

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newAllCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Import the whole dataset in chunks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withImporter(func(importer catalogImporter) error {
				imported, err := importer.ImportAll(cmd.Context())
				if ctx.jsonOutput() {
					if encErr := writeJSON(cmd, map[string]any{"imported": imported}); encErr != nil {
						return encErr
					}
				}
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Imported %d releases before failure\n", imported)
					return err
				}
				if !ctx.jsonOutput() {
					fmt.Fprintf(cmd.OutOrStdout(), "Imported %d releases\n", imported)
				}
				return nil
			})
		},
	}
}

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var size int
	var skip int

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Import a single batch of records",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withImporter(func(importer catalogImporter) error {
				imported, err := importer.ImportBatch(cmd.Context(), size, skip)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]any{"imported": imported, "batchSize": size, "skip": skip})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d releases (size %d, skip %d)\n", imported, size, skip)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&size, "size", 100, "Number of records to import")
	cmd.Flags().IntVar(&skip, "skip", 0, "Number of records to skip")

	return cmd
}

func newUpcCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "upc",
		Short: "Backfill UPC values on existing releases",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withImporter(func(importer catalogImporter) error {
				updated, err := importer.UpdateUpcValues(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]any{"updated": updated})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated UPC on %d releases\n", updated)
				return nil
			})
		},
	}
}

func newProgressCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show how much of the dataset is in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withImporter(func(importer catalogImporter) error {
				progress, err := importer.GetProgress(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, progress)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d / %d releases (%.1f%%)\n",
					progress.ImportedRecords, progress.TotalRecords, progress.Percentage)
				for _, reason := range progress.Errors {
					fmt.Fprintf(cmd.OutOrStdout(), "  error: %s\n", reason)
				}
				return nil
			})
		},
	}
}

func newValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that required lookup tables are loaded",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withImporter(func(importer catalogImporter) error {
				validation, err := importer.ValidateLookupData(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					if err := writeJSON(cmd, validation); err != nil {
						return err
					}
				} else if validation.IsValid {
					fmt.Fprintln(cmd.OutOrStdout(), "Lookup data is valid")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), strings.Join(validation.Errors, "\n"))
				}
				if !validation.IsValid {
					return errLookupsMissing
				}
				return nil
			})
		},
	}
}
