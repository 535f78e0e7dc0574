package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/sashabaranov/go-openai/jsonschema"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"dishquery/internal/licence"
)

var (
	ErrUnknownTool      = errors.New("unknown tool")
	ErrInvalidArguments = errors.New("invalid tool arguments")
)

const (
	IngredientDishIDsTool      = "get_ingredient_dish_ids"
	TechniqueDishIDsTool       = "get_technique_dish_ids"
	PlanetDishIDsTool          = "get_planet_dish_ids"
	RestaurantDishIDsTool      = "get_restaurant_dish_ids"
	ChefLicenceDishIDsTool     = "get_chef_licence_dish_ids"
	MinimumLicenceTool         = "get_dish_from_minimum_licence"
	TechniquesFromCategoryTool = "get_technique_from_category"
	BothCategoriesTool         = "get_dishes_with_both_technique_categories"
	WithinDistanceTool         = "get_dishes_within_distance"
	IntersectTool              = "intersect_dish_ids"
	SubtractTool               = "subtract_dish_ids"
	UnionTool                  = "union_dish_ids"
)

type handlerFunc func(ctx context.Context, args json.RawMessage) (any, error)

// Tool is one entry of the registry: a name, a description for the model and
// the JSON schema of its arguments.
type Tool struct {
	Name        string
	Description string
	Parameters  jsonschema.Definition
	handle      handlerFunc
}

type Registry struct {
	tools  []Tool
	byName map[string]int
	logger *slog.Logger
}

func NewRegistry(svc *Service, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{byName: make(map[string]int), logger: logger}

	r.register(Tool{
		Name:        IngredientDishIDsTool,
		Description: "Return the ids of the dishes that use an ingredient.",
		Parameters:  object(map[string]jsonschema.Definition{"ingredient": str("ingredient name")}),
		handle: func(ctx context.Context, args json.RawMessage) (any, error) {
			var in IngredientInput
			if err := decodeArgs(args, &in); err != nil {
				return nil, err
			}
			return svc.IngredientDishIDs(in.Ingredient)
		},
	})
	r.register(Tool{
		Name:        TechniqueDishIDsTool,
		Description: "Return the ids of the dishes prepared with a technique.",
		Parameters:  object(map[string]jsonschema.Definition{"technique": str("technique name")}),
		handle: func(ctx context.Context, args json.RawMessage) (any, error) {
			var in TechniqueInput
			if err := decodeArgs(args, &in); err != nil {
				return nil, err
			}
			return svc.TechniqueDishIDs(in.Technique)
		},
	})
	r.register(Tool{
		Name:        PlanetDishIDsTool,
		Description: "Return the ids of the dishes served on a planet.",
		Parameters:  object(map[string]jsonschema.Definition{"planet": str("planet name")}),
		handle: func(ctx context.Context, args json.RawMessage) (any, error) {
			var in PlanetInput
			if err := decodeArgs(args, &in); err != nil {
				return nil, err
			}
			return svc.PlanetDishIDs(in.Planet)
		},
	})
	r.register(Tool{
		Name:        RestaurantDishIDsTool,
		Description: "Return the ids of the dishes on a restaurant's menu.",
		Parameters:  object(map[string]jsonschema.Definition{"restaurant": str("restaurant name")}),
		handle: func(ctx context.Context, args json.RawMessage) (any, error) {
			var in RestaurantInput
			if err := decodeArgs(args, &in); err != nil {
				return nil, err
			}
			return svc.RestaurantDishIDs(in.Restaurant)
		},
	})
	r.register(Tool{
		Name:        ChefLicenceDishIDsTool,
		Description: "Return the ids of the dishes cooked by chefs whose licence level satisfies the operation against licence_value.",
		Parameters:  licenceParams(),
		handle: func(ctx context.Context, args json.RawMessage) (any, error) {
			var in LicenceInput
			if err := decodeArgs(args, &in); err != nil {
				return nil, err
			}
			return svc.ChefLicenceDishIDs(in.LicenceName, in.LicenceValue, in.Operation)
		},
	})
	r.register(Tool{
		Name:        MinimumLicenceTool,
		Description: "Return the ids of the dishes whose techniques require a licence level satisfying the operation against licence_value.",
		Parameters:  licenceParams(),
		handle: func(ctx context.Context, args json.RawMessage) (any, error) {
			var in LicenceInput
			if err := decodeArgs(args, &in); err != nil {
				return nil, err
			}
			return svc.DishesFromMinimumLicence(in.LicenceName, in.LicenceValue, in.Operation)
		},
	})
	r.register(Tool{
		Name:        TechniquesFromCategoryTool,
		Description: "Return the techniques that belong to a technique category.",
		Parameters:  object(map[string]jsonschema.Definition{"category": str("technique category name")}),
		handle: func(ctx context.Context, args json.RawMessage) (any, error) {
			var in CategoryInput
			if err := decodeArgs(args, &in); err != nil {
				return nil, err
			}
			return svc.TechniquesFromCategory(in.Category)
		},
	})
	r.register(Tool{
		Name:        BothCategoriesTool,
		Description: "Return the ids of the dishes that use at least one technique from each of the two categories.",
		Parameters: object(map[string]jsonschema.Definition{
			"first_category":  str("first technique category"),
			"second_category": str("second technique category"),
		}),
		handle: func(ctx context.Context, args json.RawMessage) (any, error) {
			var in BothCategoriesInput
			if err := decodeArgs(args, &in); err != nil {
				return nil, err
			}
			return svc.DishesWithBothCategories(in.FirstCategory, in.SecondCategory)
		},
	})
	r.register(Tool{
		Name:        WithinDistanceTool,
		Description: "Return the ids of the dishes served on a planet or on any planet within max_distance light years of it.",
		Parameters: object(map[string]jsonschema.Definition{
			"planet":       str("reference planet"),
			"max_distance": {Type: jsonschema.Integer, Description: "maximum distance in light years, inclusive"},
		}),
		handle: func(ctx context.Context, args json.RawMessage) (any, error) {
			var in DistanceInput
			if err := decodeArgs(args, &in); err != nil {
				return nil, err
			}
			return svc.DishesWithinDistance(in.Planet, in.MaxDistance)
		},
	})
	r.register(Tool{
		Name:        IntersectTool,
		Description: "Keep the ids of first_list that also appear in second_list, in the order of first_list.",
		Parameters:  setParams(),
		handle: func(ctx context.Context, args json.RawMessage) (any, error) {
			in, err := DecodeSetInput(args)
			if err != nil {
				return nil, err
			}
			return IntersectOutput{Intersection: Intersect(in.FirstList, in.SecondList)}, nil
		},
	})
	r.register(Tool{
		Name:        SubtractTool,
		Description: "Remove from first_list the ids that appear in second_list.",
		Parameters:  setParams(),
		handle: func(ctx context.Context, args json.RawMessage) (any, error) {
			in, err := DecodeSetInput(args)
			if err != nil {
				return nil, err
			}
			return SubtractOutput{Difference: Subtract(in.FirstList, in.SecondList)}, nil
		},
	})
	r.register(Tool{
		Name:        UnionTool,
		Description: "Merge two lists of dish ids into one sorted list without duplicates.",
		Parameters:  setParams(),
		handle: func(ctx context.Context, args json.RawMessage) (any, error) {
			in, err := DecodeSetInput(args)
			if err != nil {
				return nil, err
			}
			return UnionOutput{Union: Union(in.FirstList, in.SecondList)}, nil
		},
	})
	return r
}

func (r *Registry) register(tool Tool) {
	r.byName[tool.Name] = len(r.tools)
	r.tools = append(r.tools, tool)
}

// Tools returns the registered tools in registration order.
func (r *Registry) Tools() []Tool {
	return append([]Tool(nil), r.tools...)
}

func (r *Registry) Lookup(name string) (Tool, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Tool{}, false
	}
	return r.tools[i], true
}

// Call runs the named tool with JSON arguments and returns its JSON result.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (string, error) {
	tool, ok := r.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	ctx, span := otel.Tracer("dishquery/tools").Start(ctx, "tool."+name)
	defer span.End()
	span.SetAttributes(attribute.String("tool.name", name))

	start := time.Now()
	result, err := tool.handle(ctx, args)
	toolDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		toolCalls.WithLabelValues(name, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Warn("tool call failed",
			slog.String("tool", name),
			slog.String("error", err.Error()),
			slog.String("trace_id", traceID(ctx)),
		)
		return "", fmt.Errorf("%s: %w", name, err)
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		toolCalls.WithLabelValues(name, "error").Inc()
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("encoding %s result: %w", name, err)
	}
	toolCalls.WithLabelValues(name, "ok").Inc()
	r.logger.Debug("tool call",
		slog.String("tool", name),
		slog.String("args", string(args)),
		slog.Int("result_bytes", len(encoded)),
	)
	return string(encoded), nil
}

func traceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

// decodeArgs decodes args into v after checking that every field the schema
// marks as required is present.
func decodeArgs(args json.RawMessage, v any) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(nonEmpty(args), &fields); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	for _, name := range requiredFields(v) {
		if _, ok := fields[name]; !ok {
			return fmt.Errorf("%w: missing %q", ErrInvalidArguments, name)
		}
	}
	if err := json.Unmarshal(nonEmpty(args), v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return nil
}

func requiredFields(v any) []string {
	switch v.(type) {
	case *IngredientInput:
		return []string{"ingredient"}
	case *TechniqueInput:
		return []string{"technique"}
	case *PlanetInput:
		return []string{"planet"}
	case *RestaurantInput:
		return []string{"restaurant"}
	case *LicenceInput:
		return []string{"licence_name", "licence_value", "operation"}
	case *CategoryInput:
		return []string{"category"}
	case *BothCategoriesInput:
		return []string{"first_category", "second_category"}
	case *DistanceInput:
		return []string{"planet", "max_distance"}
	}
	return nil
}

func object(props map[string]jsonschema.Definition) jsonschema.Definition {
	required := make([]string, 0, len(props))
	for name := range props {
		required = append(required, name)
	}
	slices.Sort(required)
	return jsonschema.Definition{Type: jsonschema.Object, Properties: props, Required: required}
}

func str(description string) jsonschema.Definition {
	return jsonschema.Definition{Type: jsonschema.String, Description: description}
}

func licenceParams() jsonschema.Definition {
	ops := make([]string, len(licence.Operations))
	for i, op := range licence.Operations {
		ops[i] = string(op)
	}
	return object(map[string]jsonschema.Definition{
		"licence_name": {
			Type:        jsonschema.String,
			Description: "licence name",
			Enum:        append([]string(nil), licence.Names...),
		},
		"licence_value": {
			Type:        jsonschema.Integer,
			Description: "licence level to compare against",
		},
		"operation": {
			Type:        jsonschema.String,
			Description: "eq (equal), ne (not equal), g (greater), ge (greater or equal), l (less), le (less or equal)",
			Enum:        ops,
		},
	})
}

func setParams() jsonschema.Definition {
	ids := &jsonschema.Definition{Type: jsonschema.Integer}
	return object(map[string]jsonschema.Definition{
		"first_list":  {Type: jsonschema.Array, Description: "first list of dish ids", Items: ids},
		"second_list": {Type: jsonschema.Array, Description: "second list of dish ids", Items: ids},
	})
}
