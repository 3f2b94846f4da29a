package tools

import (
	"google.golang.org/genai"
)

// Tool name constants. These are the only function names the assistant
// declares to the provider; calls carrying any other name are dropped.
const (
	ToolFindLocalEvents   = "findLocalEvents"
	ToolFindLocalServices = "findLocalServices"
	ToolFindLocalProducts = "findLocalProducts"
)

// ToolsetID identifies this fixed tool set in session fingerprints.
// Bump it if the declarations change shape, so cached provider sessions
// configured with the old declarations are not reused.
const ToolsetID = "portal-directory-v1"

// Names returns all declared tool names.
func Names() []string {
	return []string{ToolFindLocalEvents, ToolFindLocalServices, ToolFindLocalProducts}
}

// Declarations returns the function declarations sent to the provider when
// a conversation session is created.
func Declarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{
		{
			Name:        ToolFindLocalEvents,
			Description: "Find local events in Gorakhpur, optionally filtered by interest and date range.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"interest": {
						Type:        genai.TypeString,
						Description: "Interest or category to filter by, e.g. 'culture', 'food', 'sports'.",
					},
					"dateRange": {
						Type:        genai.TypeString,
						Description: "One of: 'today', 'tomorrow', 'this week', 'this weekend', 'this month'.",
					},
				},
			},
		},
		{
			Name:        ToolFindLocalServices,
			Description: "Find verified local service providers in Gorakhpur, best rated first.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"serviceType": {
						Type:        genai.TypeString,
						Description: "Type of service needed, e.g. 'tutor', 'plumber', 'electrician'.",
					},
				},
				Required: []string{"serviceType"},
			},
		},
		{
			Name:        ToolFindLocalProducts,
			Description: "Find products in the local marketplace by product type or name.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"productType": {
						Type:        genai.TypeString,
						Description: "Type or name of product, e.g. 'honey', 'handicrafts', 'saree'.",
					},
				},
				Required: []string{"productType"},
			},
		},
	}
}
