// Package summary_tools provides MCP (Model Context Protocol) tools for
// fetching Gmail inbox summaries.
//
// This package exposes the summary client through an MCP tool that can be
// called by AI agents or other MCP clients:
//
//   - gmail_fetch_summary: Fetch the user's profile, labels, and most recent
//     messages in one call, each message reduced to sender, subject, labels,
//     timestamp, and plain-text body
//
// The tool takes the OAuth2 access token as an argument on every call; no
// token state is kept between invocations. Authentication failures from
// Gmail are reported as tool error results with a hint to refresh the token.
//
// Example usage:
//
//	gmail_fetch_summary(accessToken: "ya29....", maxResults: 5)
package summary_tools
