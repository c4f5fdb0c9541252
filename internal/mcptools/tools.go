// Package mcptools exposes the galaxy queries as Model Context Protocol
// tools.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"starmap-server/internal/galaxy"
	"starmap-server/internal/spatial"
	"starmap-server/internal/system"
)

type GalaxyTools struct {
	Service *galaxy.Service
}

type LocationInput struct {
	X float64 `json:"x" jsonschema:"X coordinate"`
	Y float64 `json:"y" jsonschema:"Y coordinate"`
	Z float64 `json:"z" jsonschema:"Z coordinate"`
}

func (l LocationInput) location() spatial.Location {
	return spatial.NewLocation(l.X, l.Y, l.Z)
}

type ReachableInput struct {
	Location LocationInput `json:"location" jsonschema:"Origin of the search"`
	Range    float64       `json:"range" jsonschema:"Maximum distance, inclusive"`
}

type SearchInput struct {
	Name string `json:"name" jsonschema:"System name; case, diacritics and the ' System' suffix are ignored"`
}

type RouteInput struct {
	From     LocationInput `json:"from" jsonschema:"Start system location"`
	To       LocationInput `json:"to" jsonschema:"Destination system location"`
	Range    float64       `json:"range" jsonschema:"Maximum length of a single jump"`
	MaxJumps int           `json:"max_jumps,omitempty" jsonschema:"Maximum number of jumps; 0 for unlimited"`
}

// NewServer builds an MCP server with every galaxy tool registered.
func NewServer(svc *galaxy.Service, version string) *mcp.Server {
	gt := &GalaxyTools{Service: svc}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "starmap",
		Version: version,
	}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "lookup_system",
		Description: "Get the star system at an exact location",
	}, gt.LookupSystem)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "nearest_system",
		Description: "Get the star system closest to a location",
	}, gt.NearestSystem)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "reachable_systems",
		Description: "List the star systems within a distance of a location",
	}, gt.ReachableSystems)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "search_system",
		Description: "Find a star system by name",
	}, gt.SearchSystem)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "plan_route",
		Description: "Plan the shortest jump route between two star systems",
	}, gt.PlanRoute)

	return srv
}

func (t *GalaxyTools) LookupSystem(_ context.Context, _ *mcp.CallToolRequest, input LocationInput) (*mcp.CallToolResult, any, error) {
	loc := input.location()
	s, ok := t.Service.Galaxy().System(loc)
	if !ok {
		return toolError("No system at %s", loc), nil, nil
	}
	return toolJSON(s)
}

func (t *GalaxyTools) NearestSystem(_ context.Context, _ *mcp.CallToolRequest, input LocationInput) (*mcp.CallToolResult, any, error) {
	loc := input.location()
	if !loc.IsFinite() {
		return toolError("Location %s must be finite", loc), nil, nil
	}

	g := t.Service.Galaxy()
	nearest, ok := g.Nearest(loc)
	if !ok {
		return toolError("The galaxy has no systems"), nil, nil
	}

	s, _ := g.System(nearest)
	return toolJSON(s)
}

func (t *GalaxyTools) ReachableSystems(_ context.Context, _ *mcp.CallToolRequest, input ReachableInput) (*mcp.CallToolResult, any, error) {
	g := t.Service.Galaxy()

	systems := []system.System{}
	for _, loc := range g.Reachable(input.Location.location(), input.Range) {
		if s, ok := g.System(loc); ok {
			systems = append(systems, s)
		}
	}
	return toolJSON(systems)
}

func (t *GalaxyTools) SearchSystem(_ context.Context, _ *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, any, error) {
	s, ok := t.Service.Galaxy().SearchName(input.Name)
	if !ok {
		return toolError("No system matches %q", input.Name), nil, nil
	}
	return toolJSON(s)
}

func (t *GalaxyTools) PlanRoute(ctx context.Context, _ *mcp.CallToolRequest, input RouteInput) (*mcp.CallToolResult, any, error) {
	route, found, err := t.Service.Route(ctx, input.From.location(), input.To.location(), galaxy.RouteOptions{
		Range:    input.Range,
		MaxJumps: input.MaxJumps,
	})
	if err != nil {
		return toolError("Failed to plan route: %v", err), nil, nil
	}
	if !found {
		return toolError("No route from %s to %s with range %g", input.From.location(), input.To.location(), input.Range), nil, nil
	}
	return toolJSON(route)
}

func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError("Failed to marshal result: %v", err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}
