package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rakibhsn/chaldal-agent/config"
)

// Client calls the hosted chat-completions API. It is constructed once
// at process start and injected wherever model access is needed.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient builds a model client from config.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:    cfg.OpenAIBaseURL,
		apiKey:     cfg.OpenAIKey,
		model:      cfg.OpenAIModel,
		timeout:    cfg.LLMTimeout,
		httpClient: &http.Client{},
	}
}

// Tool is one entry of the function-call schema sent to the model.
type Tool struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

// ToolFunction describes one callable function to the model.
type ToolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// RequestedCall is one tool invocation the model asked for; arguments
// are string-encoded JSON.
type RequestedCall struct {
	Name      string
	Arguments string
}

// ChatResult is the model's reply: free text, tool invocations, or both.
type ChatResult struct {
	Content string
	Calls   []RequestedCall
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Tools    []Tool        `json:"tools,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				ID       string `json:"id"`
				Type     string `json:"type"`
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// ChatWithTools sends one system+user exchange with the tool schema and
// returns the model's text and any requested tool invocations.
func (c *Client) ChatWithTools(ctx context.Context, systemPrompt, userMessage string, tools []Tool) (*ChatResult, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage},
		},
		Tools: tools,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.baseURL, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call model: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read model response: %w", err)
	}

	var decoded chatResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode model response (status %d): %w", resp.StatusCode, err)
	}
	if decoded.Error != nil {
		return nil, fmt.Errorf("model error (%s): %s", decoded.Error.Type, decoded.Error.Message)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("model call failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if len(decoded.Choices) == 0 {
		return nil, fmt.Errorf("model returned no choices")
	}

	message := decoded.Choices[0].Message
	result := &ChatResult{Content: message.Content}
	for _, call := range message.ToolCalls {
		if call.Type != "" && call.Type != "function" {
			continue
		}
		result.Calls = append(result.Calls, RequestedCall{
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}
	return result, nil
}
