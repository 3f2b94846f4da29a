package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ilovegorakhpur/portal/internal/log"
	"github.com/ilovegorakhpur/portal/internal/portal"
	"github.com/ilovegorakhpur/portal/internal/tools"
)

var (
	// ErrMissingName indicates an empty server name.
	ErrMissingName = errors.New("server name is required")

	// ErrMissingVersion indicates an empty server version.
	ErrMissingVersion = errors.New("server version is required")

	// ErrMissingStore indicates no dataset store was provided.
	ErrMissingStore = errors.New("dataset store is required")
)

// Config holds MCP server configuration.
type Config struct {
	Name    string
	Version string
	Store   *portal.Store
	Logger  log.Logger

	// Now supplies the resolver's reference time. Nil uses time.Now.
	Now func() time.Time
}

// Server wraps the MCP SDK server and the portal's directory tools.
type Server struct {
	mcpServer *mcp.Server
	store     *portal.Store
	logger    log.Logger
	now       func() time.Time
	name      string
	version   string
}

// NewServer creates an MCP server with the directory tools registered.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Name == "" {
		return nil, ErrMissingName
	}
	if cfg.Version == "" {
		return nil, ErrMissingVersion
	}
	if cfg.Store == nil {
		return nil, ErrMissingStore
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNop()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		mcpServer: mcpServer,
		store:     cfg.Store,
		logger:    logger,
		now:       now,
		name:      cfg.Name,
		version:   cfg.Version,
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("registering tools: %w", err)
	}
	return s, nil
}

// Run starts the MCP server on the given transport. Blocks until the
// context is cancelled or the transport closes.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	s.logger.Info("starting MCP server", "name", s.name, "version", s.version)
	return s.mcpServer.Run(ctx, transport)
}

// FindEventsInput defines the input schema for findLocalEvents.
type FindEventsInput struct {
	Interest  string `json:"interest,omitempty" jsonschema:"Topic or category of interest, e.g. music or handicrafts"`
	DateRange string `json:"dateRange,omitempty" jsonschema:"Natural-language range: today, tomorrow, this week, this weekend or this month"`
}

// FindServicesInput defines the input schema for findLocalServices.
type FindServicesInput struct {
	ServiceType string `json:"serviceType" jsonschema:"Kind of service needed, e.g. plumber, tutor or electrician"`
}

// FindProductsInput defines the input schema for findLocalProducts.
type FindProductsInput struct {
	ProductType string `json:"productType" jsonschema:"Kind of product wanted, e.g. handicrafts, honey or saree"`
}

// registerTools registers the three directory tools.
func (s *Server) registerTools() error {
	eventsSchema, err := jsonschema.For[FindEventsInput](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", tools.ToolFindLocalEvents, err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: tools.ToolFindLocalEvents,
		Description: "Find local events in Gorakhpur, optionally filtered by " +
			"interest and a natural-language date range. Results are sorted by date.",
		InputSchema: eventsSchema,
	}, s.findEvents)

	servicesSchema, err := jsonschema.For[FindServicesInput](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", tools.ToolFindLocalServices, err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: tools.ToolFindLocalServices,
		Description: "Find verified local service providers in Gorakhpur by type. " +
			"Returns the top three by rating.",
		InputSchema: servicesSchema,
	}, s.findServices)

	productsSchema, err := jsonschema.For[FindProductsInput](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", tools.ToolFindLocalProducts, err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: tools.ToolFindLocalProducts,
		Description: "Find local marketplace products in Gorakhpur by category or name. " +
			"Returns up to five listings.",
		InputSchema: productsSchema,
	}, s.findProducts)

	return nil
}

// findEvents handles the findLocalEvents MCP tool call.
func (s *Server) findEvents(_ context.Context, _ *mcp.CallToolRequest, in FindEventsInput) (*mcp.CallToolResult, any, error) {
	inv := tools.Invocation{
		Name:   tools.ToolFindLocalEvents,
		Events: &tools.EventsArgs{Interest: in.Interest, DateRange: in.DateRange},
	}
	return s.resolve(inv)
}

// findServices handles the findLocalServices MCP tool call.
func (s *Server) findServices(_ context.Context, _ *mcp.CallToolRequest, in FindServicesInput) (*mcp.CallToolResult, any, error) {
	if in.ServiceType == "" {
		return errorResult("serviceType is required"), nil, nil
	}
	inv := tools.Invocation{
		Name:     tools.ToolFindLocalServices,
		Services: &tools.ServicesArgs{ServiceType: in.ServiceType},
	}
	return s.resolve(inv)
}

// findProducts handles the findLocalProducts MCP tool call.
func (s *Server) findProducts(_ context.Context, _ *mcp.CallToolRequest, in FindProductsInput) (*mcp.CallToolResult, any, error) {
	if in.ProductType == "" {
		return errorResult("productType is required"), nil, nil
	}
	inv := tools.Invocation{
		Name:     tools.ToolFindLocalProducts,
		Products: &tools.ProductsArgs{ProductType: in.ProductType},
	}
	return s.resolve(inv)
}

// resolve runs one invocation against a fresh store snapshot and packages
// the result list as JSON text content.
func (s *Server) resolve(inv tools.Invocation) (*mcp.CallToolResult, any, error) {
	resp := tools.Resolve(inv, s.store.Snapshot(), s.now())
	s.logger.Debug("mcp tool resolved", "tool", inv.Name)

	results, err := json.Marshal(resp.Response["results"])
	if err != nil {
		return nil, nil, fmt.Errorf("encoding results: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(results)}},
	}, nil, nil
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		IsError: true,
	}
}
