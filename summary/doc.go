// Package summary fetches a compact snapshot of a Gmail mailbox.
//
// Given an OAuth2 access token obtained out-of-band, a Client retrieves the
// user's profile, labels, and the most recent messages (at most ten) in a
// single scatter/gather pass over the Gmail API, and projects each message
// into a reduced MessageSummary record:
//
//	messageId, threadId, messageTimestamp, labelIds, sender, subject, messageText
//
// Optional fields that the mailbox does not provide are represented as nil
// pointers, never as empty strings. A failure to fetch a single message's
// detail is tolerated (that message is dropped from the result); failures on
// the profile, labels, or listing calls, and credential rejections anywhere,
// abort the whole fetch.
//
// Example usage:
//
//	client, err := summary.NewClient(ctx, accessToken)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := client.FetchSummary(ctx)
//	if err != nil {
//	    var authErr *summary.AuthError
//	    if errors.As(err, &authErr) {
//	        // token rejected, re-authenticate
//	    }
//	    log.Fatal(err)
//	}
//
//	for _, msg := range result.Messages {
//	    fmt.Println(msg.MessageID)
//	}
//
// The package performs no token acquisition, persistence, pagination, or
// retrying; the caller controls timeouts and cancellation through the
// context passed to FetchSummary.
package summary
