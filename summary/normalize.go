package summary

import (
	"encoding/base64"
	"fmt"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
)

const (
	headerFrom    = "From"
	headerSubject = "Subject"

	mimeTextPlain = "text/plain"
)

// normalizeMessage projects a full Gmail message into a MessageSummary.
// The message identity (id and thread id) is required; everything else is
// optional and left nil when the payload does not provide it.
func normalizeMessage(msg *gmail.Message) (*MessageSummary, error) {
	if msg.Id == "" || msg.ThreadId == "" {
		return nil, fmt.Errorf("message is missing id or thread id")
	}

	ms := &MessageSummary{
		MessageID: msg.Id,
		ThreadID:  msg.ThreadId,
		LabelIDs:  append([]string(nil), msg.LabelIds...),
	}

	// InternalDate is epoch milliseconds; zero means the API did not report
	// one, and the timestamp stays unknown rather than being fabricated.
	if msg.InternalDate > 0 {
		ts := msg.InternalDate / 1000
		ms.Timestamp = &ts
	}

	if v, ok := headerValue(msg.Payload, headerFrom); ok {
		ms.Sender = &v
	}
	if v, ok := headerValue(msg.Payload, headerSubject); ok {
		ms.Subject = &v
	}

	if text, ok := extractText(msg.Payload); ok {
		ms.Text = &text
	} else if msg.Snippet != "" {
		snippet := msg.Snippet
		ms.Text = &snippet
	}

	return ms, nil
}

// headerValue scans the payload's header list for the named header,
// matching case-insensitively. The second return value distinguishes a
// missing header from one with an empty value.
func headerValue(payload *gmail.MessagePart, name string) (string, bool) {
	if payload == nil {
		return "", false
	}
	for _, h := range payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// extractText pulls a plain-text body out of the message payload. A body
// directly on the payload wins; otherwise the part tree is walked for the
// first decodable text/plain part.
func extractText(payload *gmail.MessagePart) (string, bool) {
	if payload == nil {
		return "", false
	}

	if payload.Body != nil && payload.Body.Data != "" {
		if text, ok := decodeBody(payload.Body.Data); ok {
			return text, true
		}
	}

	var text string
	found := false
	walkParts(payload, func(part *gmail.MessagePart) {
		if found || part.MimeType != mimeTextPlain {
			return
		}
		if part.Body == nil || part.Body.Data == "" {
			return
		}
		if decoded, ok := decodeBody(part.Body.Data); ok {
			text = decoded
			found = true
		}
	})
	return text, found
}

// decodeBody decodes a Gmail body data field. The API uses RFC 4648
// base64url encoding; standard base64 is tried as a fallback.
func decodeBody(data string) (string, bool) {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.RawURLEncoding.DecodeString(data)
	}
	if err != nil {
		decoded, err = base64.StdEncoding.DecodeString(data)
	}
	if err != nil {
		return "", false
	}
	return string(decoded), true
}

// walkParts recursively walks the message part tree.
func walkParts(part *gmail.MessagePart, fn func(*gmail.MessagePart)) {
	if part == nil {
		return
	}
	fn(part)
	for _, subpart := range part.Parts {
		walkParts(subpart, fn)
	}
}
