package main

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect or remove stored extract runs",
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "List the artifacts of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runID, err := parseRunID(args[0])
		if err != nil {
			return err
		}
		files, err := deps.Storage.List(cmd.Context(), runID)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("run %s not found", runID)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "run %s\n", runID)
		for _, f := range files {
			fmt.Fprintf(out, "  %-20s %10d  %-20s %s\n",
				f.Name, f.Size, f.ContentType, f.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Remove a run and all its artifacts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runID, err := parseRunID(args[0])
		if err != nil {
			return err
		}
		if err := deps.Storage.Delete(cmd.Context(), runID); err != nil {
			return err
		}
		deps.Logger.Info("run deleted", slog.String("run_id", runID.String()))
		fmt.Fprintf(cmd.OutOrStdout(), "deleted run %s\n", runID)
		return nil
	},
}

func parseRunID(id string) (uuid.UUID, error) {
	runID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid run id %q: %w", id, err)
	}
	return runID, nil
}

func init() {
	for _, c := range []*cobra.Command{runsShowCmd, runsDeleteCmd} {
		c.Flags().String("out", "./out", "artifact root directory (env RECON_OUTPUT_DIR)")
	}
	runsCmd.AddCommand(runsShowCmd, runsDeleteCmd)
}
