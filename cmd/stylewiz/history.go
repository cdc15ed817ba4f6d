package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var historyFlags struct {
	json bool
}

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List recorded wizard runs or show one run",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&configFlags.dataDir, "data-dir", "", "Data directory (default: from config or .stylewiz)")
	historyCmd.Flags().BoolVar(&historyFlags.json, "json", false, "Print JSON instead of a table")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, closeHistory, err := openHistory(ctx, cfg.DataDir)
	if err != nil {
		return err
	}
	defer closeHistory()

	out := cmd.OutOrStdout()

	if len(args) == 1 {
		run, err := store.LoadRun(ctx, args[0])
		if err != nil {
			return err
		}
		if historyFlags.json {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(run)
		}
		fmt.Fprintf(out, "Run:         %s\n", run.ID)
		fmt.Fprintf(out, "Keyword:     %s\n", run.Keyword)
		fmt.Fprintf(out, "Model:       %s\n", run.Model)
		fmt.Fprintf(out, "Step:        %s\n", run.Step)
		fmt.Fprintf(out, "Started:     %s\n", run.StartedAt.Format(time.DateTime))
		fmt.Fprintf(out, "Updated:     %s\n", run.UpdatedAt.Format(time.DateTime))
		fmt.Fprintf(out, "Generations: %d (%d failed)\n", run.Generations, run.Failures)
		for _, e := range run.Exports {
			fmt.Fprintf(out, "Export:      %s\n", e)
		}
		if run.Analysis != "" {
			fmt.Fprintf(out, "\n%s\n", run.Analysis)
		}
		return nil
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		return err
	}
	if historyFlags.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}
	if len(runs) == 0 {
		fmt.Fprintf(out, "No runs recorded in %s\n", cfg.DataDir)
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tUPDATED\tSTATUS\tSUMMARY")
	for _, r := range runs {
		status := "open"
		if r.Complete {
			status = "done"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.UpdatedAt.Format(time.DateTime), status, r.Summary())
	}
	return tw.Flush()
}
