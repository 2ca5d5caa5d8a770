package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/banshee-data/presence.report/internal/db"
	"github.com/banshee-data/presence.report/internal/report"
)

type historyFlags struct {
	dbPath   string
	limit    int
	runID    string
	markdown bool
}

func newHistoryCmd(a *app) *cobra.Command {
	var fl historyFlags
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived runs or show one run's results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, a, &fl)
		},
	}
	f := cmd.Flags()
	f.StringVar(&fl.dbPath, "db", "", "Run archive sqlite file (default $PRESENCE_DB)")
	f.IntVarP(&fl.limit, "limit", "n", 20, "Maximum runs to list")
	f.StringVar(&fl.runID, "run", "", "Show the results of this run")
	f.BoolVar(&fl.markdown, "markdown", false, "Render Markdown tables")
	return cmd
}

func runHistory(cmd *cobra.Command, a *app, fl *historyFlags) error {
	path := firstNonEmpty(fl.dbPath, a.env.DBPath)
	if path == "" {
		return fmt.Errorf("no run archive: pass --db or set PRESENCE_DB")
	}
	store, err := db.NewDB(path)
	if err != nil {
		return fmt.Errorf("failed to open run archive: %w", err)
	}
	defer store.Close()

	mode := report.ASCII
	if fl.markdown {
		mode = report.Markdown
	}
	out := cmd.OutOrStdout()

	if fl.runID != "" {
		results, err := store.RunResults(fl.runID)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, report.RunDetail(results, mode))
		return nil
	}

	runs, err := store.ListRuns(fl.limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs archived yet")
		return nil
	}
	fmt.Fprintln(out, report.Runs(runs, mode))
	return nil
}
