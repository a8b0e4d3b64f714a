package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <records.json|records.csv>",
	Short: "Create every record through the parts API",
	Long: `Sends one create call per record, pausing between batches and retrying
transient failures. Records the API rejects are reported and skipped; the run
fails only when the API is unreachable or the command is interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := readRecords(args[0])
		if err != nil {
			return err
		}

		result, importErr := deps.Importer.Import(cmd.Context(), records)

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		return importErr
	},
}

func init() {
	importCmd.Flags().String("base-url", "", "parts API base URL (env IMPORT_BASE_URL)")
	importCmd.Flags().Int("batch-size", 100, "records between pauses (env IMPORT_BATCH_SIZE)")
	importCmd.Flags().Float64("rate-limit", 0, "maximum requests per second, 0 for no limit (env IMPORT_RATE_LIMIT)")
}
