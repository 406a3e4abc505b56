package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"

	"github.com/rakibhsn/chaldal-agent/config"
)

func newTestClient(t *testing.T) (*Client, *httpmock.MockTransport) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.OpenAIKey = "test-key"
	cfg.OpenAIBaseURL = "https://model.test/v1/chat/completions"
	cfg.LLMTimeout = 5 * time.Second

	client := NewClient(cfg)
	transport := httpmock.NewMockTransport()
	client.httpClient.Transport = transport
	return client, transport
}

func TestChatWithToolsPlainText(t *testing.T) {
	client, transport := newTestClient(t)
	transport.RegisterResponder(http.MethodPost, "https://model.test/v1/chat/completions",
		httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "Here are the available categories."}},
			},
		}))

	result, err := client.ChatWithTools(context.Background(), "system", "list categories", ToolSchema())
	require.NoError(t, err)
	require.Equal(t, "Here are the available categories.", result.Content)
	require.Empty(t, result.Calls)
}

func TestChatWithToolsToolCalls(t *testing.T) {
	client, transport := newTestClient(t)
	transport.RegisterResponder(http.MethodPost, "https://model.test/v1/chat/completions",
		func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "Bearer test-key", req.Header.Get("Authorization"))
			require.Equal(t, "application/json", req.Header.Get("Content-Type"))

			var payload map[string]any
			require.NoError(t, json.NewDecoder(req.Body).Decode(&payload))
			require.NotEmpty(t, payload["tools"])
			require.Len(t, payload["messages"], 2)

			return httpmock.NewJsonResponse(http.StatusOK, map[string]any{
				"choices": []map[string]any{
					{"message": map[string]any{
						"content": "",
						"tool_calls": []map[string]any{
							{
								"id":   "call_1",
								"type": "function",
								"function": map[string]any{
									"name":      "scrape_product_data",
									"arguments": `{"category": "rice"}`,
								},
							},
							{
								"id":   "call_2",
								"type": "custom",
								"function": map[string]any{
									"name": "something_else",
								},
							},
						},
					}},
				},
			})
		})

	result, err := client.ChatWithTools(context.Background(), "system", "scrape rice", ToolSchema())
	require.NoError(t, err)

	// Non-function call types are dropped.
	require.Len(t, result.Calls, 1)
	require.Equal(t, "scrape_product_data", result.Calls[0].Name)
	require.JSONEq(t, `{"category": "rice"}`, result.Calls[0].Arguments)
}

func TestChatWithToolsAPIError(t *testing.T) {
	client, transport := newTestClient(t)
	transport.RegisterResponder(http.MethodPost, "https://model.test/v1/chat/completions",
		httpmock.NewJsonResponderOrPanic(http.StatusUnauthorized, map[string]any{
			"error": map[string]any{
				"message": "Incorrect API key provided",
				"type":    "invalid_request_error",
			},
		}))

	_, err := client.ChatWithTools(context.Background(), "system", "hello", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Incorrect API key provided")
}

func TestChatWithToolsHTTPErrorWithoutBody(t *testing.T) {
	client, transport := newTestClient(t)
	transport.RegisterResponder(http.MethodPost, "https://model.test/v1/chat/completions",
		httpmock.NewStringResponder(http.StatusBadGateway, `{}`))

	_, err := client.ChatWithTools(context.Background(), "system", "hello", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=502")
}

func TestChatWithToolsNoChoices(t *testing.T) {
	client, transport := newTestClient(t)
	transport.RegisterResponder(http.MethodPost, "https://model.test/v1/chat/completions",
		httpmock.NewStringResponder(http.StatusOK, `{"choices": []}`))

	_, err := client.ChatWithTools(context.Background(), "system", "hello", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no choices")
}
