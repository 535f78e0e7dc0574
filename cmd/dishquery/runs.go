package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List recorded evaluation runs, or show the results of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runShowRun(args[0])
			}
			return runListRuns()
		},
	}
	return cmd
}

func runListRuns() error {
	ctx := context.Background()

	a, err := loadApp()
	if err != nil {
		return err
	}
	if a.cfg.Database.DSN == "" {
		return fmt.Errorf("no database configured in %s", globals.configPath)
	}
	db, err := openStore(ctx, a.cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	runs, err := db.ListRuns(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stdout, "No runs recorded.")
		return nil
	}
	for _, run := range runs {
		accuracy := "running"
		if run.Accuracy != nil {
			accuracy = fmt.Sprintf("%.2f%%", *run.Accuracy)
		}
		fmt.Fprintf(os.Stdout, "%s  %s  %s  questions=%d  %s\n",
			run.ID, run.StartedAt.Format("2006-01-02 15:04"), run.Model, run.Questions, accuracy)
	}
	return nil
}

func runShowRun(runID string) error {
	ctx := context.Background()

	a, err := loadApp()
	if err != nil {
		return err
	}
	if a.cfg.Database.DSN == "" {
		return fmt.Errorf("no database configured in %s", globals.configPath)
	}
	db, err := openStore(ctx, a.cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	run, err := db.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	results, err := db.ListResults(ctx, runID)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Run %s (%s, model %s)\n", run.ID, run.Project, run.Model)
	if run.Difficulty != "" {
		fmt.Fprintf(os.Stdout, "  Difficulty: %s\n", run.Difficulty)
	}
	if run.Accuracy != nil {
		fmt.Fprintf(os.Stdout, "  Accuracy:   %.2f%%\n", *run.Accuracy)
	}
	for _, result := range results {
		line := fmt.Sprintf("  %4d  %.4f  expected=%s predicted=%s", result.Row, result.Score, joinIDs(result.Expected), joinIDs(result.Predicted))
		if result.Error != "" {
			line += "  error: " + result.Error
		}
		fmt.Fprintln(os.Stdout, line)
	}
	return nil
}
