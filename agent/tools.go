package agent

import (
	"encoding/json"
	"fmt"
)

// ToolKind enumerates the closed set of operations the agent exposes.
// Dispatch is an exhaustive switch over this type, so adding or
// removing an operation is a compile-time-checked change.
type ToolKind int

const (
	ToolScrapeProducts ToolKind = iota
	ToolListCategories
	ToolRefreshCategories
	ToolViewData
)

// Wire names of the tools as presented to the model.
const (
	toolNameScrape  = "scrape_product_data"
	toolNameList    = "list_available_categories"
	toolNameRefresh = "refresh_categories"
	toolNameView    = "view_scraped_data"
)

// ToolCall is one decoded tool invocation with its arguments resolved
// to defaults.
type ToolCall struct {
	Kind     ToolKind
	Category string
	Limit    int
}

// toolArgs is the wire shape of tool arguments (string-encoded JSON).
type toolArgs struct {
	Category string `json:"category"`
	Limit    int    `json:"limit"`
}

// ParseToolCall decodes a named tool invocation. Unknown names are an
// error; missing arguments fall back to the documented defaults.
func ParseToolCall(name, arguments string) (ToolCall, error) {
	var args toolArgs
	if arguments != "" {
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return ToolCall{}, fmt.Errorf("decode arguments for %s: %w", name, err)
		}
	}

	switch name {
	case toolNameScrape:
		category := args.Category
		if category == "" {
			category = "food"
		}
		return ToolCall{Kind: ToolScrapeProducts, Category: category}, nil
	case toolNameList:
		return ToolCall{Kind: ToolListCategories}, nil
	case toolNameRefresh:
		return ToolCall{Kind: ToolRefreshCategories}, nil
	case toolNameView:
		limit := args.Limit
		if limit <= 0 {
			limit = 10
		}
		return ToolCall{Kind: ToolViewData, Category: args.Category, Limit: limit}, nil
	default:
		return ToolCall{}, fmt.Errorf("unknown tool: %s", name)
	}
}

// Name returns the wire name of the tool call's kind.
func (t ToolCall) Name() string {
	switch t.Kind {
	case ToolScrapeProducts:
		return toolNameScrape
	case ToolListCategories:
		return toolNameList
	case ToolRefreshCategories:
		return toolNameRefresh
	case ToolViewData:
		return toolNameView
	}
	return fmt.Sprintf("tool_kind_%d", int(t.Kind))
}

// ToolSchema returns the function-call schema advertised to the model.
func ToolSchema() []Tool {
	return []Tool{
		{
			Type: "function",
			Function: ToolFunction{
				Name:        toolNameScrape,
				Description: "Scrape product data from any category including specific products like Rice, Dal, Oil, Spices, etc.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"category": map[string]any{
							"type":        "string",
							"description": "Product category to scrape (e.g., 'rice', 'dal', 'oil', 'spices', 'food', 'cleaning')",
							"default":     "food",
						},
					},
					"required":             []string{},
					"additionalProperties": false,
				},
			},
		},
		{
			Type: "function",
			Function: ToolFunction{
				Name:        toolNameList,
				Description: "List all available product categories including main categories and specific product categories.",
				Parameters: map[string]any{
					"type":                 "object",
					"properties":           map[string]any{},
					"required":             []string{},
					"additionalProperties": false,
				},
			},
		},
		{
			Type: "function",
			Function: ToolFunction{
				Name:        toolNameRefresh,
				Description: "Force refresh the category list by extracting fresh data from the website.",
				Parameters: map[string]any{
					"type":                 "object",
					"properties":           map[string]any{},
					"required":             []string{},
					"additionalProperties": false,
				},
			},
		},
		{
			Type: "function",
			Function: ToolFunction{
				Name:        toolNameView,
				Description: "View recently scraped product data from the database, optionally filtered by category.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"category": map[string]any{
							"type":        "string",
							"description": "Optional category to filter by",
						},
						"limit": map[string]any{
							"type":        "integer",
							"description": "Maximum number of products to show (default: 10)",
							"default":     10,
						},
					},
					"required":             []string{},
					"additionalProperties": false,
				},
			},
		},
	}
}
