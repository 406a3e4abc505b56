// Package agent maps natural-language requests onto the scraping tool
// surface via a hosted language model, and exposes the same surface to
// the interactive menu.
package agent

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

const systemPrompt = `You are an assistant that helps users scrape product data from an online grocery store. You can:

1. Scrape specific product categories like Rice, Dal, Oil, Spices (cooking ingredients) or broader ones like Food, Cleaning Supplies, Personal Care.
2. List available categories to help users discover what's available.
3. View scraped data to show what has been collected.
4. Refresh categories to get the latest category information.

When users ask for products, determine the most appropriate category and use the scraping tools. Be helpful and provide clear information about what you're doing.

Available categories include:
- Main categories: Food, Cleaning Supplies, Personal Care, etc.
- Sub-categories: Cooking, Dairy & Eggs, Snacks, etc.
- Product categories: Rice, Dal, Oil, Spices, Salt & Sugar, Ghee, etc.`

// Statuses of one agent run.
const (
	RunSuccess = "success"
	RunPartial = "partial"
	RunError   = "error"
)

// chatClient is the hosted-model capability the agent depends on.
type chatClient interface {
	ChatWithTools(ctx context.Context, systemPrompt, userMessage string, tools []Tool) (*ChatResult, error)
}

// toolExecutor runs one decoded tool call.
type toolExecutor interface {
	Execute(ctx context.Context, call ToolCall) (string, error)
}

// Response is the caller-facing result of one natural-language request.
type Response struct {
	Summary string         `json:"summary"`
	Status  string         `json:"status"`
	Details map[string]any `json:"details"`
}

// Agent turns free text into tool invocations and aggregates their
// results.
type Agent struct {
	client   chatClient
	executor toolExecutor
	logger   *zap.Logger
}

// NewAgent builds an agent over an injected model client and dispatcher.
func NewAgent(client *Client, dispatcher *Dispatcher, logger *zap.Logger) *Agent {
	return &Agent{client: client, executor: dispatcher, logger: logger}
}

// Run processes one user query. It never returns an error: failures are
// folded into the response status and summary so callers always get a
// descriptive outcome.
func (a *Agent) Run(ctx context.Context, query string) Response {
	a.logger.Info("processing user query", zap.String("query", query))

	result, err := a.client.ChatWithTools(ctx, systemPrompt, query, ToolSchema())
	if err != nil {
		a.logger.Error("model call failed", zap.Error(err))
		return Response{
			Summary: "Error processing request: " + err.Error(),
			Status:  RunError,
			Details: map[string]any{"error": err.Error(), "query": query},
		}
	}

	if len(result.Calls) == 0 {
		summary := result.Content
		if summary == "" {
			summary = "The model provided a response without using tools"
		}
		return Response{
			Summary: summary,
			Status:  RunSuccess,
			Details: map[string]any{"query": query},
		}
	}

	var (
		summaries []string
		toolsUsed []string
		failures  int
	)
	for _, requested := range result.Calls {
		toolsUsed = append(toolsUsed, requested.Name)

		call, err := ParseToolCall(requested.Name, requested.Arguments)
		if err != nil {
			a.logger.Warn("tool call rejected",
				zap.String("tool", requested.Name),
				zap.Error(err),
			)
			summaries = append(summaries, "Invalid tool call: "+err.Error())
			failures++
			continue
		}

		a.logger.Info("executing tool",
			zap.String("tool", requested.Name),
			zap.String("category", call.Category),
		)
		summary, err := a.executor.Execute(ctx, call)
		summaries = append(summaries, summary)
		if err != nil {
			failures++
		}
	}

	status := RunSuccess
	switch {
	case failures == len(result.Calls):
		status = RunError
	case failures > 0:
		status = RunPartial
	}

	return Response{
		Summary: strings.Join(summaries, "\n\n"),
		Status:  status,
		Details: map[string]any{
			"tools_used": toolsUsed,
			"query":      query,
		},
	}
}
