package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"dishquery/internal/tools"
)

func (s *Server) registerTools() {
	addTool(s, tools.IngredientDishIDsTool, s.handleIngredientDishIDs)
	addTool(s, tools.TechniqueDishIDsTool, s.handleTechniqueDishIDs)
	addTool(s, tools.PlanetDishIDsTool, s.handlePlanetDishIDs)
	addTool(s, tools.RestaurantDishIDsTool, s.handleRestaurantDishIDs)
	addTool(s, tools.ChefLicenceDishIDsTool, s.handleChefLicenceDishIDs)
	addTool(s, tools.MinimumLicenceTool, s.handleMinimumLicence)
	addTool(s, tools.TechniquesFromCategoryTool, s.handleTechniquesFromCategory)
	addTool(s, tools.BothCategoriesTool, s.handleBothCategories)
	addTool(s, tools.WithinDistanceTool, s.handleWithinDistance)
	addTool(s, tools.IntersectTool, s.handleIntersect)
	addTool(s, tools.SubtractTool, s.handleSubtract)
	addTool(s, tools.UnionTool, s.handleUnion)
}

func addTool[In, Out any](s *Server, name string, handler sdk.ToolHandlerFor[In, Out]) {
	tool, _ := s.registry.Lookup(name)
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        name,
		Description: tool.Description,
	}, handler)
}

// call routes input through the registry so MCP clients get the same
// argument checks, metrics and spans as the built-in agent.
func call[In, Out any](ctx context.Context, registry *tools.Registry, name string, input In) (*sdk.CallToolResult, Out, error) {
	var out Out
	args, err := json.Marshal(input)
	if err != nil {
		return nil, out, fmt.Errorf("encoding %s arguments: %w", name, err)
	}
	result, err := registry.Call(ctx, name, args)
	if err != nil {
		return nil, out, err
	}
	if err := json.Unmarshal([]byte(result), &out); err != nil {
		return nil, out, fmt.Errorf("decoding %s result: %w", name, err)
	}
	return nil, out, nil
}

func (s *Server) handleIngredientDishIDs(ctx context.Context, req *sdk.CallToolRequest, input tools.IngredientInput) (*sdk.CallToolResult, tools.IngredientOutput, error) {
	return call[tools.IngredientInput, tools.IngredientOutput](ctx, s.registry, tools.IngredientDishIDsTool, input)
}

func (s *Server) handleTechniqueDishIDs(ctx context.Context, req *sdk.CallToolRequest, input tools.TechniqueInput) (*sdk.CallToolResult, tools.TechniqueOutput, error) {
	return call[tools.TechniqueInput, tools.TechniqueOutput](ctx, s.registry, tools.TechniqueDishIDsTool, input)
}

func (s *Server) handlePlanetDishIDs(ctx context.Context, req *sdk.CallToolRequest, input tools.PlanetInput) (*sdk.CallToolResult, tools.PlanetOutput, error) {
	return call[tools.PlanetInput, tools.PlanetOutput](ctx, s.registry, tools.PlanetDishIDsTool, input)
}

func (s *Server) handleRestaurantDishIDs(ctx context.Context, req *sdk.CallToolRequest, input tools.RestaurantInput) (*sdk.CallToolResult, tools.RestaurantOutput, error) {
	return call[tools.RestaurantInput, tools.RestaurantOutput](ctx, s.registry, tools.RestaurantDishIDsTool, input)
}

func (s *Server) handleChefLicenceDishIDs(ctx context.Context, req *sdk.CallToolRequest, input tools.LicenceInput) (*sdk.CallToolResult, tools.LicenceOutput, error) {
	return call[tools.LicenceInput, tools.LicenceOutput](ctx, s.registry, tools.ChefLicenceDishIDsTool, input)
}

func (s *Server) handleMinimumLicence(ctx context.Context, req *sdk.CallToolRequest, input tools.LicenceInput) (*sdk.CallToolResult, tools.MinimumLicenceOutput, error) {
	return call[tools.LicenceInput, tools.MinimumLicenceOutput](ctx, s.registry, tools.MinimumLicenceTool, input)
}

func (s *Server) handleTechniquesFromCategory(ctx context.Context, req *sdk.CallToolRequest, input tools.CategoryInput) (*sdk.CallToolResult, tools.CategoryOutput, error) {
	return call[tools.CategoryInput, tools.CategoryOutput](ctx, s.registry, tools.TechniquesFromCategoryTool, input)
}

func (s *Server) handleBothCategories(ctx context.Context, req *sdk.CallToolRequest, input tools.BothCategoriesInput) (*sdk.CallToolResult, tools.BothCategoriesOutput, error) {
	return call[tools.BothCategoriesInput, tools.BothCategoriesOutput](ctx, s.registry, tools.BothCategoriesTool, input)
}

func (s *Server) handleWithinDistance(ctx context.Context, req *sdk.CallToolRequest, input tools.DistanceInput) (*sdk.CallToolResult, tools.DistanceOutput, error) {
	return call[tools.DistanceInput, tools.DistanceOutput](ctx, s.registry, tools.WithinDistanceTool, input)
}

func (s *Server) handleIntersect(ctx context.Context, req *sdk.CallToolRequest, input tools.SetInput) (*sdk.CallToolResult, tools.IntersectOutput, error) {
	return call[tools.SetInput, tools.IntersectOutput](ctx, s.registry, tools.IntersectTool, input)
}

func (s *Server) handleSubtract(ctx context.Context, req *sdk.CallToolRequest, input tools.SetInput) (*sdk.CallToolResult, tools.SubtractOutput, error) {
	return call[tools.SetInput, tools.SubtractOutput](ctx, s.registry, tools.SubtractTool, input)
}

func (s *Server) handleUnion(ctx context.Context, req *sdk.CallToolRequest, input tools.SetInput) (*sdk.CallToolResult, tools.UnionOutput, error) {
	return call[tools.SetInput, tools.UnionOutput](ctx, s.registry, tools.UnionTool, input)
}
