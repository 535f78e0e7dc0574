package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"dishquery/internal/answer"
)

func askCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask one question and print the matching dish ids",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(strings.Join(args, " "))
		},
	}
	return cmd
}

func runAsk(question string) error {
	ctx := context.Background()

	a, err := loadApp()
	if err != nil {
		return err
	}
	shutdown := startMetrics(a.cfg.Metrics.Address)
	defer shutdown(ctx)

	driver, err := a.newDriver()
	if err != nil {
		return err
	}
	ids, err := driver.Query(ctx, question)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, joinIDs(answer.Sorted(ids)))
	return nil
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
