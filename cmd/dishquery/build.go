package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dishquery/internal/build"
	"dishquery/internal/config"
	"dishquery/internal/mapping"
	"dishquery/internal/resolve"
)

type buildOptions struct {
	menus     []string
	manuals   []string
	dishes    string
	out       string
	threshold float64
}

func buildCmd() *cobra.Command {
	var opts buildOptions
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the mapping tables from extracted menus and manuals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts)
		},
	}
	cmd.Flags().StringSliceVar(&opts.menus, "menus", nil, "Extracted menu files or directories")
	cmd.Flags().StringSliceVar(&opts.manuals, "manual", nil, "Extracted manual and code files or directories")
	cmd.Flags().StringVar(&opts.dishes, "dishes", "", "Dish catalogue mapping dish names to ids")
	cmd.Flags().StringVar(&opts.out, "out", "", "Output directory (defaults to data.mappings_dir)")
	cmd.Flags().Float64Var(&opts.threshold, "threshold", resolve.DefaultDishThreshold, "Minimum similarity for matching dish names")
	_ = cmd.MarkFlagRequired("menus")
	_ = cmd.MarkFlagRequired("dishes")
	return cmd
}

func runBuild(opts buildOptions) error {
	ctx := context.Background()

	out := opts.out
	if out == "" {
		cfg, err := config.LoadProjectConfig(globals.configPath)
		if err != nil {
			return fmt.Errorf("--out not set: %w", err)
		}
		out = cfg.Data.MappingsDir
	}

	in, sources, err := build.LoadInputs(opts.menus, opts.manuals, opts.dishes)
	if err != nil {
		return err
	}
	in.Threshold = opts.threshold

	result, err := build.Run(ctx, in, mapping.Store{Dir: out}, nil)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "Build complete.")
	fmt.Fprintf(os.Stdout, "  Sources read:   %d\n", len(sources))
	fmt.Fprintf(os.Stdout, "  Dishes mapped:  %d\n", result.DishesMapped)
	fmt.Fprintf(os.Stdout, "  Dishes skipped: %d\n", result.DishesSkipped)
	fmt.Fprintf(os.Stdout, "  Files written:  %d\n", len(result.FilesWritten))
	if len(result.UnmatchedDishes) > 0 {
		fmt.Fprintf(os.Stdout, "\nUnmatched dishes (%d):\n", len(result.UnmatchedDishes))
		for _, name := range result.UnmatchedDishes {
			fmt.Fprintf(os.Stdout, "  - %s\n", name)
		}
	}

	if len(result.Errors) > 0 {
		fmt.Fprintf(os.Stdout, "\nErrors (%d):\n", len(result.Errors))
		for _, item := range result.Errors {
			fmt.Fprintf(os.Stdout, "  - %v\n", item)
		}
		return fmt.Errorf("build completed with errors")
	}
	return nil
}
