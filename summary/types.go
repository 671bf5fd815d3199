package summary

import (
	gmail "google.golang.org/api/gmail/v1"
)

// MessageSummary is the reduced projection of a Gmail message.
//
// MessageID and ThreadID are always set; a message without them cannot be
// normalized and is skipped. The pointer fields are nil when the mailbox did
// not provide a value, so "absent" never degrades to an empty string.
type MessageSummary struct {
	// MessageID is the Gmail message identifier.
	MessageID string `json:"messageId"`

	// ThreadID is the identifier of the thread the message belongs to.
	ThreadID string `json:"threadId"`

	// Timestamp is the message's internal date as Unix seconds, or nil if
	// the API did not report one.
	Timestamp *int64 `json:"messageTimestamp,omitempty"`

	// LabelIDs are the label identifiers applied to the message, in the
	// order the API returned them. Empty if the message carries no labels.
	LabelIDs []string `json:"labelIds,omitempty"`

	// Sender is the value of the From header, or nil if absent.
	Sender *string `json:"sender,omitempty"`

	// Subject is the value of the Subject header, or nil if absent.
	Subject *string `json:"subject,omitempty"`

	// Text is the plain-text body of the message. When no body part can be
	// decoded it falls back to the API's snippet; nil if neither exists.
	Text *string `json:"messageText,omitempty"`
}

// Summary aggregates one fetch of a mailbox.
//
// Profile and Labels are passed through as the Gmail API types; their schema
// belongs to the API's own contract. Messages holds at most ten entries in
// the order of the API's message listing (most recent first). The sequence
// may be shorter than the listing when individual detail fetches failed.
type Summary struct {
	Profile  *gmail.Profile    `json:"profile"`
	Labels   []*gmail.Label    `json:"labels"`
	Messages []*MessageSummary `json:"messages"`
}
