package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"dishquery/internal/tools"
)

type Server struct {
	registry *tools.Registry
	mcp      *sdk.Server
}

func NewServer(registry *tools.Registry, version string) *Server {
	s := &Server{
		registry: registry,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "dishquery",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
