package main

import (
	"context"

	"github.com/spf13/cobra"

	"dishquery/internal/mcp"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := loadApp()
	if err != nil {
		return err
	}
	shutdown := startMetrics(a.cfg.Metrics.Address)
	defer shutdown(ctx)

	server := mcp.NewServer(a.registry, version)
	return server.Run(ctx, &sdk.StdioTransport{})
}
