package summary_tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/gmailsummary/internal/instrumentation"
	"github.com/teemow/gmailsummary/internal/logging"
	"github.com/teemow/gmailsummary/summary"
)

// ToolFetchSummary is the name of the inbox summary tool.
const ToolFetchSummary = "gmail_fetch_summary"

// Fetcher is the subset of the summary client the tool handler needs.
type Fetcher interface {
	FetchSummary(ctx context.Context) (*summary.Summary, error)
}

// FetcherFactory builds a Fetcher for one tool invocation. Each invocation
// carries its own access token, so fetchers are not reused across calls.
type FetcherFactory func(ctx context.Context, accessToken string, maxResults int) (Fetcher, error)

// Deps carries the collaborators the summary tools need. The zero value is
// usable; missing fields fall back to defaults.
type Deps struct {
	Logger     *slog.Logger
	Metrics    *instrumentation.Metrics
	NewFetcher FetcherFactory
}

func (d *Deps) defaults() {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.NewFetcher == nil {
		metrics := d.Metrics
		logger := d.Logger
		d.NewFetcher = func(ctx context.Context, accessToken string, maxResults int) (Fetcher, error) {
			return summary.NewClient(ctx, accessToken,
				summary.WithMaxMessages(maxResults),
				summary.WithLogger(logger),
				summary.WithMetrics(metrics),
			)
		}
	}
}

// RegisterSummaryTools registers the inbox summary tools with the MCP server.
func RegisterSummaryTools(s *mcpserver.MCPServer, deps Deps) error {
	deps.defaults()

	fetchSummaryTool := mcp.NewTool(ToolFetchSummary,
		mcp.WithDescription("Fetch a summary of a Gmail mailbox: the user's profile, all labels, and the most recent messages reduced to sender, subject, labels, timestamp, and plain-text body"),
		mcp.WithString("accessToken",
			mcp.Required(),
			mcp.Description("OAuth2 access token authorized for Gmail read access"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description(fmt.Sprintf("Maximum number of recent messages to include (1-%d, default: %d)", summary.DefaultMaxMessages, summary.DefaultMaxMessages)),
		),
	)

	s.AddTool(fetchSummaryTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleFetchSummary(ctx, request, deps)
	})

	return nil
}

func handleFetchSummary(ctx context.Context, request mcp.CallToolRequest, deps Deps) (*mcp.CallToolResult, error) {
	start := time.Now()
	args := request.GetArguments()

	accessToken, ok := args["accessToken"].(string)
	if !ok || accessToken == "" {
		return toolError(ctx, deps, start, "'accessToken' field is required"), nil
	}

	maxResults := summary.DefaultMaxMessages
	if maxVal, ok := args["maxResults"].(float64); ok {
		maxResults = int(maxVal)
		if maxResults < 1 || maxResults > summary.DefaultMaxMessages {
			return toolError(ctx, deps, start,
				fmt.Sprintf("'maxResults' must be between 1 and %d", summary.DefaultMaxMessages)), nil
		}
	}

	fetcher, err := deps.NewFetcher(ctx, accessToken, maxResults)
	if err != nil {
		return toolError(ctx, deps, start,
			fmt.Sprintf("Failed to create Gmail summary client: %v", err)), nil
	}

	result, err := fetcher.FetchSummary(ctx)
	if err != nil {
		return toolError(ctx, deps, start, fetchErrorMessage(err)), nil
	}

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return toolError(ctx, deps, start,
			fmt.Sprintf("Failed to encode summary: %v", err)), nil
	}

	recordInvocation(ctx, deps, instrumentation.StatusSuccess, start)
	deps.Logger.Info("summary tool completed",
		logging.Tool(ToolFetchSummary),
		logging.Status(logging.StatusSuccess),
		logging.MessageCount(len(result.Messages)),
	)

	return mcp.NewToolResultText(string(payload)), nil
}

// fetchErrorMessage maps fetch failures to user-facing tool errors. Auth
// failures get an actionable hint; everything else is passed through.
func fetchErrorMessage(err error) string {
	var authErr *summary.AuthError
	if errors.As(err, &authErr) {
		return fmt.Sprintf("Gmail rejected the access token (%v). Obtain a fresh token with Gmail read access and retry.", err)
	}
	return fmt.Sprintf("Failed to fetch Gmail summary: %v", err)
}

func toolError(ctx context.Context, deps Deps, start time.Time, msg string) *mcp.CallToolResult {
	recordInvocation(ctx, deps, instrumentation.StatusError, start)
	deps.Logger.Warn("summary tool failed",
		logging.Tool(ToolFetchSummary),
		logging.Status(logging.StatusError),
		slog.String("reason", msg),
	)
	return mcp.NewToolResultError(msg)
}

func recordInvocation(ctx context.Context, deps Deps, status string, start time.Time) {
	if deps.Metrics == nil {
		return
	}
	deps.Metrics.RecordToolInvocation(ctx, ToolFetchSummary, status, time.Since(start))
}
