// Package logging provides structured logging utilities for the gmailsummary module.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - PII sanitization (email anonymization)
//   - Consistent attribute naming across the codebase
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "messages.get")
//	logger.Info("fetched message",
//	    logging.Status("success"))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("summary fetched",
//	    logging.UserHash(email))
//
// # Security Considerations
//
// This package is designed with security in mind:
//   - User emails are hashed to prevent PII leakage while allowing correlation
//   - Access tokens are never logged directly; SanitizeToken masks all content
package logging
