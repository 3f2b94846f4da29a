package tools

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/genai"
)

var (
	// ErrUnknownTool indicates the provider requested a tool that is not
	// part of the declared set. Callers log and drop such calls.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrMissingArgument indicates a required tool argument was absent or
	// empty.
	ErrMissingArgument = errors.New("missing required tool argument")
)

// EventsArgs are the arguments for findLocalEvents. Both fields are
// optional; an unrecognized date range is a no-op filter, not an error.
type EventsArgs struct {
	Interest  string
	DateRange string
}

// ServicesArgs are the arguments for findLocalServices.
type ServicesArgs struct {
	ServiceType string
}

// ProductsArgs are the arguments for findLocalProducts.
type ProductsArgs struct {
	ProductType string
}

// Invocation is a validated tool call: a correlation ID, the tool name, and
// exactly one populated argument variant matching the name.
type Invocation struct {
	ID   string
	Name string

	Events   *EventsArgs
	Services *ServicesArgs
	Products *ProductsArgs
}

// ParseCall validates a provider function call into a tagged Invocation.
// Unknown optional arguments are ignored; missing required arguments and
// unknown tool names are rejected. A call without a provider-assigned ID
// gets a generated one so the response can still be correlated.
func ParseCall(call *genai.FunctionCall) (Invocation, error) {
	if call == nil {
		return Invocation{}, fmt.Errorf("%w: nil call", ErrUnknownTool)
	}

	inv := Invocation{ID: call.ID, Name: call.Name}
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}

	switch call.Name {
	case ToolFindLocalEvents:
		inv.Events = &EventsArgs{
			Interest:  stringArg(call.Args, "interest"),
			DateRange: stringArg(call.Args, "dateRange"),
		}
	case ToolFindLocalServices:
		st := stringArg(call.Args, "serviceType")
		if st == "" {
			return Invocation{}, fmt.Errorf("%w: serviceType", ErrMissingArgument)
		}
		inv.Services = &ServicesArgs{ServiceType: st}
	case ToolFindLocalProducts:
		pt := stringArg(call.Args, "productType")
		if pt == "" {
			return Invocation{}, fmt.Errorf("%w: productType", ErrMissingArgument)
		}
		inv.Products = &ProductsArgs{ProductType: pt}
	default:
		return Invocation{}, fmt.Errorf("%w: %q", ErrUnknownTool, call.Name)
	}

	return inv, nil
}

// stringArg extracts a string argument, tolerating absent keys and
// non-string values from the provider.
func stringArg(args map[string]any, key string) string {
	if args == nil {
		return ""
	}
	v, ok := args[key].(string)
	if !ok {
		return ""
	}
	return v
}
