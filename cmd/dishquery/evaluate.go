package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dishquery/internal/eval"
)

type evaluateOptions struct {
	questions   string
	groundTruth string
	difficulty  string
	out         string
	noStore     bool
}

func evaluateCmd() *cobra.Command {
	var opts evaluateOptions
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Run the question set and score predictions against the ground truth",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(opts)
		},
	}
	cmd.Flags().StringVar(&opts.questions, "questions", "", "Questions CSV with a domanda column")
	cmd.Flags().StringVar(&opts.groundTruth, "ground-truth", "", "Ground truth CSV with row_id and result columns")
	cmd.Flags().StringVar(&opts.difficulty, "difficulty", "", "Only evaluate questions of this difficulty")
	cmd.Flags().StringVar(&opts.out, "out", "", "Write per-question predictions to this CSV file")
	cmd.Flags().BoolVar(&opts.noStore, "no-store", false, "Do not record the run in the configured database")
	_ = cmd.MarkFlagRequired("questions")
	_ = cmd.MarkFlagRequired("ground-truth")
	return cmd
}

func runEvaluate(opts evaluateOptions) error {
	ctx := context.Background()

	a, err := loadApp()
	if err != nil {
		return err
	}
	shutdown := startMetrics(a.cfg.Metrics.Address)
	defer shutdown(ctx)

	questions, err := eval.LoadQuestions(opts.questions)
	if err != nil {
		return err
	}
	truth, err := eval.LoadGroundTruth(opts.groundTruth)
	if err != nil {
		return err
	}
	driver, err := a.newDriver()
	if err != nil {
		return err
	}

	runner := &eval.Runner{
		Querier: driver,
		Project: a.cfg.Project,
		Model:   a.cfg.LLM.Model,
		Logger:  a.logger,
	}
	if a.cfg.Database.DSN != "" && !opts.noStore {
		db, err := openStore(ctx, a.cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer db.Close(ctx)
		runner.Store = db
	}

	report, err := runner.Run(ctx, questions, truth, eval.Filter{Difficulty: opts.difficulty})
	if err != nil {
		return err
	}

	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", opts.out, err)
		}
		defer f.Close()
		if err := eval.WritePredictions(f, report.Results); err != nil {
			return err
		}
	}

	failed := 0
	for _, result := range report.Results {
		if result.Err != nil {
			failed++
		}
	}
	fmt.Fprintln(os.Stdout, "Evaluation complete.")
	fmt.Fprintf(os.Stdout, "  Run:       %s\n", report.RunID)
	fmt.Fprintf(os.Stdout, "  Questions: %d\n", len(report.Results))
	fmt.Fprintf(os.Stdout, "  Failed:    %d\n", failed)
	fmt.Fprintf(os.Stdout, "  Accuracy:  %.2f%%\n", report.Accuracy)
	return nil
}
