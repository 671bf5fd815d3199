package summary

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	gmail "google.golang.org/api/gmail/v1"
)

// fakeGmail is an httptest-backed stand-in for the Gmail REST API. Responses
// are built from the generated API structs so field encodings (notably the
// string-encoded internalDate) match the real service.
type fakeGmail struct {
	profile       *gmail.Profile
	profileStatus int // non-zero forces an error status on the profile call

	labels       []*gmail.Label
	labelsStatus int

	listIDs    []string
	listStatus int
	// lastMaxResults records the maxResults query param of the last list call
	lastMaxResults string

	messages     map[string]*gmail.Message
	detailStatus map[string]int // per-message error status for detail calls
}

func (f *fakeGmail) server(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/gmail/v1/users/me/profile", func(w http.ResponseWriter, r *http.Request) {
		if f.profileStatus != 0 {
			writeAPIError(w, f.profileStatus)
			return
		}
		writeJSON(t, w, f.profile)
	})
	mux.HandleFunc("/gmail/v1/users/me/labels", func(w http.ResponseWriter, r *http.Request) {
		if f.labelsStatus != 0 {
			writeAPIError(w, f.labelsStatus)
			return
		}
		writeJSON(t, w, &gmail.ListLabelsResponse{Labels: f.labels})
	})
	mux.HandleFunc("/gmail/v1/users/me/messages", func(w http.ResponseWriter, r *http.Request) {
		f.lastMaxResults = r.URL.Query().Get("maxResults")
		if f.listStatus != 0 {
			writeAPIError(w, f.listStatus)
			return
		}
		refs := make([]*gmail.Message, 0, len(f.listIDs))
		for _, id := range f.listIDs {
			refs = append(refs, &gmail.Message{Id: id, ThreadId: "thread-" + id})
		}
		writeJSON(t, w, &gmail.ListMessagesResponse{Messages: refs})
	})
	mux.HandleFunc("/gmail/v1/users/me/messages/", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Path[len("/gmail/v1/users/me/messages/"):]
		if status, ok := f.detailStatus[id]; ok {
			writeAPIError(w, status)
			return
		}
		msg, ok := f.messages[id]
		if !ok {
			writeAPIError(w, http.StatusNotFound)
			return
		}
		writeJSON(t, w, msg)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

func writeAPIError(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error": {"code": %d, "message": "forced test failure"}}`, status)
}

// newFakeMailbox returns a fake populated with n fully detailed messages
// listed as msg-1 .. msg-n, newest first.
func newFakeMailbox(n int) *fakeGmail {
	f := &fakeGmail{
		profile: &gmail.Profile{
			EmailAddress:  "user@example.com",
			MessagesTotal: int64(n),
			ThreadsTotal:  int64(n),
		},
		labels: []*gmail.Label{
			{Id: "INBOX", Name: "INBOX", Type: "system"},
			{Id: "Label_1", Name: "receipts", Type: "user"},
		},
		messages:     map[string]*gmail.Message{},
		detailStatus: map[string]int{},
	}
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("msg-%d", i)
		f.listIDs = append(f.listIDs, id)
		f.messages[id] = &gmail.Message{
			Id:           id,
			ThreadId:     "thread-" + id,
			LabelIds:     []string{"INBOX"},
			InternalDate: 1700000000000 + int64(i)*1000,
			Snippet:      "snippet " + id,
			Payload: &gmail.MessagePart{
				MimeType: "text/plain",
				Headers: []*gmail.MessagePartHeader{
					{Name: "From", Value: fmt.Sprintf("sender-%d@example.com", i)},
					{Name: "Subject", Value: fmt.Sprintf("Subject %d", i)},
				},
				Body: &gmail.MessagePartBody{
					Data: base64.URLEncoding.EncodeToString([]byte("body of " + id)),
				},
			},
		}
	}
	return f
}

func newTestClient(t *testing.T, srv *httptest.Server, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{
		WithHTTPClient(srv.Client()),
		WithEndpoint(srv.URL),
	}, opts...)
	client, err := NewClient(context.Background(), "", opts...)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestFetchSummary_Success(t *testing.T) {
	fake := newFakeMailbox(3)
	client := newTestClient(t, fake.server(t))

	result, err := client.FetchSummary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Profile == nil || result.Profile.EmailAddress != "user@example.com" {
		t.Errorf("unexpected profile: %+v", result.Profile)
	}
	if len(result.Labels) != 2 {
		t.Errorf("expected 2 labels, got %d", len(result.Labels))
	}
	if len(result.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(result.Messages))
	}

	// Listing order must be preserved regardless of fetch completion order
	for i, msg := range result.Messages {
		wantID := fmt.Sprintf("msg-%d", i+1)
		if msg.MessageID != wantID {
			t.Errorf("message %d: got ID %q, want %q", i, msg.MessageID, wantID)
		}
	}

	first := result.Messages[0]
	if first.ThreadID != "thread-msg-1" {
		t.Errorf("unexpected thread ID %q", first.ThreadID)
	}
	if first.Sender == nil || *first.Sender != "sender-1@example.com" {
		t.Errorf("unexpected sender: %v", first.Sender)
	}
	if first.Subject == nil || *first.Subject != "Subject 1" {
		t.Errorf("unexpected subject: %v", first.Subject)
	}
	if first.Text == nil || *first.Text != "body of msg-1" {
		t.Errorf("unexpected text: %v", first.Text)
	}
	if first.Timestamp == nil || *first.Timestamp != 1700000001 {
		t.Errorf("unexpected timestamp: %v", first.Timestamp)
	}
	if len(first.LabelIDs) != 1 || first.LabelIDs[0] != "INBOX" {
		t.Errorf("unexpected labels: %v", first.LabelIDs)
	}
}

func TestFetchSummary_RequestsDefaultMaxResults(t *testing.T) {
	fake := newFakeMailbox(1)
	client := newTestClient(t, fake.server(t))

	if _, err := client.FetchSummary(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.lastMaxResults != "10" {
		t.Errorf("expected maxResults=10 on listing call, got %q", fake.lastMaxResults)
	}
}

func TestFetchSummary_TruncatesOverlongListing(t *testing.T) {
	// A listing that ignores maxResults must still be capped client-side
	fake := newFakeMailbox(5)
	client := newTestClient(t, fake.server(t), WithMaxMessages(2))

	result, err := client.FetchSummary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.lastMaxResults != "2" {
		t.Errorf("expected maxResults=2 on listing call, got %q", fake.lastMaxResults)
	}
	if len(result.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(result.Messages))
	}
	if result.Messages[0].MessageID != "msg-1" || result.Messages[1].MessageID != "msg-2" {
		t.Errorf("expected first two listed messages, got %q and %q",
			result.Messages[0].MessageID, result.Messages[1].MessageID)
	}
}

func TestFetchSummary_EmptyMailbox(t *testing.T) {
	fake := newFakeMailbox(0)
	client := newTestClient(t, fake.server(t))

	result, err := client.FetchSummary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Messages == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(result.Messages) != 0 {
		t.Errorf("expected no messages, got %d", len(result.Messages))
	}
}

func TestFetchSummary_DetailFailureDropsOnlyThatMessage(t *testing.T) {
	fake := newFakeMailbox(3)
	fake.detailStatus["msg-2"] = http.StatusInternalServerError
	client := newTestClient(t, fake.server(t))

	result, err := client.FetchSummary(context.Background())
	if err != nil {
		t.Fatalf("expected success with a dropped message, got %v", err)
	}
	if len(result.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(result.Messages))
	}
	if result.Messages[0].MessageID != "msg-1" || result.Messages[1].MessageID != "msg-3" {
		t.Errorf("expected msg-1 and msg-3 in order, got %q and %q",
			result.Messages[0].MessageID, result.Messages[1].MessageID)
	}
}

func TestFetchSummary_AuthErrorOnProfileAborts(t *testing.T) {
	fake := newFakeMailbox(2)
	fake.profileStatus = http.StatusUnauthorized
	client := newTestClient(t, fake.server(t))

	result, err := client.FetchSummary(context.Background())
	if result != nil {
		t.Error("expected no partial result on auth failure")
	}
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *AuthError, got %T: %v", err, err)
	}
	if authErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", authErr.StatusCode)
	}
}

func TestFetchSummary_AuthErrorOnDetailAborts(t *testing.T) {
	fake := newFakeMailbox(3)
	fake.detailStatus["msg-2"] = http.StatusForbidden
	client := newTestClient(t, fake.server(t))

	result, err := client.FetchSummary(context.Background())
	if result != nil {
		t.Error("expected no partial result on auth failure")
	}
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *AuthError, got %T: %v", err, err)
	}
}

func TestFetchSummary_RemoteErrorOnListingAborts(t *testing.T) {
	fake := newFakeMailbox(2)
	fake.listStatus = http.StatusServiceUnavailable
	client := newTestClient(t, fake.server(t))

	_, err := client.FetchSummary(context.Background())
	var remoteErr *RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected *RemoteError, got %T: %v", err, err)
	}
	if remoteErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", remoteErr.StatusCode)
	}
}

func TestFetchSummary_Idempotent(t *testing.T) {
	fake := newFakeMailbox(3)
	client := newTestClient(t, fake.server(t))

	first, err := client.FetchSummary(context.Background())
	if err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}
	second, err := client.FetchSummary(context.Background())
	if err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}

	firstJSON, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("failed to marshal first result: %v", err)
	}
	secondJSON, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("failed to marshal second result: %v", err)
	}
	if string(firstJSON) != string(secondJSON) {
		t.Error("expected identical results from a stable mailbox")
	}
}

func TestFetchSummary_CancelledContext(t *testing.T) {
	fake := newFakeMailbox(1)
	client := newTestClient(t, fake.server(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchSummary(ctx)
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected *NetworkError, got %T: %v", err, err)
	}
}
