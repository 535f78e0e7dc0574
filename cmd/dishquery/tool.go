package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func toolCmd() *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "tool <name> [json-args]",
		Short: "Call one lookup or set tool directly",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				return runToolList()
			}
			if len(args) == 0 {
				return fmt.Errorf("tool name is required (use --list to see the tools)")
			}
			raw := "{}"
			if len(args) == 2 {
				raw = args[1]
			}
			return runTool(args[0], raw)
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "List the available tools")
	return cmd
}

func runToolList() error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	for _, tool := range a.registry.Tools() {
		fmt.Fprintf(os.Stdout, "%s\n    %s\n", tool.Name, tool.Description)
	}
	return nil
}

func runTool(name, raw string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	if !json.Valid([]byte(raw)) {
		return fmt.Errorf("arguments are not valid JSON: %s", raw)
	}
	result, err := a.registry.Call(context.Background(), name, json.RawMessage(raw))
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, result)
	return nil
}
