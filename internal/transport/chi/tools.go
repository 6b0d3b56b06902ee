package chi

// ToolParameter describes one tool argument.
type ToolParameter struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// ToolParameters is the argument schema of a tool.
type ToolParameters struct {
	Properties map[string]ToolParameter `json:"properties"`
	Required   []string                 `json:"required"`
}

// Tool is one entry of the GET /mcp/tools listing.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  ToolParameters `json:"parameters"`
}

// Tool names served over HTTP.
const (
	ToolSearchDocs = "get_torna_api_docs"
	ToolListAPIs   = "list_all_torna_apis"
	ToolAPIDetail  = "get_api_detail"
)

var projectIDParam = ToolParameter{Type: "string", Description: "Optional Torna project ID"}

// Tools returns the static tool definitions.
func Tools() []Tool {
	return []Tool{
		{
			Name:        ToolSearchDocs,
			Description: "Get API documentation from Torna by API name or keyword",
			Parameters: ToolParameters{
				Properties: map[string]ToolParameter{
					"apiName":   {Type: "string", Description: "API name or keyword"},
					"projectId": projectIDParam,
				},
				Required: []string{"apiName"},
			},
		},
		{
			Name:        ToolListAPIs,
			Description: "List all available Torna APIs",
			Parameters: ToolParameters{
				Properties: map[string]ToolParameter{
					"projectId": projectIDParam,
					"limit":     {Type: "number", Description: "Optional maximum number of APIs to return"},
				},
				Required: []string{},
			},
		},
		{
			Name:        ToolAPIDetail,
			Description: "Get the full details of one API by its ID",
			Parameters: ToolParameters{
				Properties: map[string]ToolParameter{
					"apiId": {Type: "string", Description: "Unique API ID"},
				},
				Required: []string{"apiId"},
			},
		},
	}
}
