package agent

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseToolCall(t *testing.T) {
	tests := []struct {
		name      string
		tool      string
		arguments string
		want      ToolCall
		wantErr   bool
	}{
		{
			name:      "scrape with category",
			tool:      toolNameScrape,
			arguments: `{"category": "rice"}`,
			want:      ToolCall{Kind: ToolScrapeProducts, Category: "rice"},
		},
		{
			name:      "scrape defaults to food",
			tool:      toolNameScrape,
			arguments: `{}`,
			want:      ToolCall{Kind: ToolScrapeProducts, Category: "food"},
		},
		{
			name: "scrape with empty arguments string",
			tool: toolNameScrape,
			want: ToolCall{Kind: ToolScrapeProducts, Category: "food"},
		},
		{
			name: "list ignores arguments",
			tool: toolNameList,
			want: ToolCall{Kind: ToolListCategories},
		},
		{
			name: "refresh",
			tool: toolNameRefresh,
			want: ToolCall{Kind: ToolRefreshCategories},
		},
		{
			name:      "view with filter and limit",
			tool:      toolNameView,
			arguments: `{"category": "dal", "limit": 25}`,
			want:      ToolCall{Kind: ToolViewData, Category: "dal", Limit: 25},
		},
		{
			name:      "view defaults limit",
			tool:      toolNameView,
			arguments: `{}`,
			want:      ToolCall{Kind: ToolViewData, Limit: 10},
		},
		{
			name:      "view rejects non-positive limit",
			tool:      toolNameView,
			arguments: `{"limit": -5}`,
			want:      ToolCall{Kind: ToolViewData, Limit: 10},
		},
		{
			name:    "unknown tool",
			tool:    "drop_all_tables",
			wantErr: true,
		},
		{
			name:      "malformed arguments",
			tool:      toolNameScrape,
			arguments: `{"category": `,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseToolCall(tt.tool, tt.arguments)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestToolCallName(t *testing.T) {
	require.Equal(t, toolNameScrape, ToolCall{Kind: ToolScrapeProducts}.Name())
	require.Equal(t, toolNameList, ToolCall{Kind: ToolListCategories}.Name())
	require.Equal(t, toolNameRefresh, ToolCall{Kind: ToolRefreshCategories}.Name())
	require.Equal(t, toolNameView, ToolCall{Kind: ToolViewData}.Name())
}

func TestToolSchemaCoversEveryTool(t *testing.T) {
	schema := ToolSchema()
	require.Len(t, schema, 4)

	names := map[string]bool{}
	for _, tool := range schema {
		require.Equal(t, "function", tool.Type)
		require.NotEmpty(t, tool.Function.Description)
		require.NotNil(t, tool.Function.Parameters)
		names[tool.Function.Name] = true
	}
	for _, name := range []string{toolNameScrape, toolNameList, toolNameRefresh, toolNameView} {
		require.True(t, names[name], "schema missing %s", name)

		// Every advertised name must round-trip through the parser.
		_, err := ParseToolCall(name, "")
		require.NoError(t, err)
	}
}
