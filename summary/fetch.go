package summary

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	gmail "google.golang.org/api/gmail/v1"

	"github.com/teemow/gmailsummary/internal/instrumentation"
	"github.com/teemow/gmailsummary/internal/logging"
)

// FetchSummary fetches the user's profile, labels, and most recent messages
// in one scatter/gather pass.
//
// The three independent calls (profile, labels, message listing) run
// concurrently; any failure among them aborts the fetch with a classified
// error. The per-message detail calls then fan out concurrently, each
// writing into its own slot so the listing order is preserved regardless of
// completion order. A detail call that fails with a non-auth error only
// drops that message; a credential rejection anywhere aborts the fetch.
func (c *Client) FetchSummary(ctx context.Context) (*Summary, error) {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "FetchSummary")
	defer span.End()

	result, err := c.fetchSummary(ctx)

	if c.metrics != nil {
		status := instrumentation.StatusSuccess
		count := 0
		if err != nil {
			status = instrumentation.StatusError
		} else {
			count = len(result.Messages)
		}
		c.metrics.RecordSummaryFetch(ctx, status, count, time.Since(start))
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("messages.returned", len(result.Messages)))

	email := ""
	if result.Profile != nil {
		email = result.Profile.EmailAddress
	}
	c.logger.Info("summary fetched",
		logging.Service(logging.ServiceGmail),
		logging.UserHash(email),
		logging.MessageCount(len(result.Messages)),
		slog.Duration(logging.KeyDuration, time.Since(start)),
	)

	return result, nil
}

func (c *Client) fetchSummary(ctx context.Context) (*Summary, error) {
	var (
		profile *gmail.Profile
		labels  []*gmail.Label
		listing *gmail.ListMessagesResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = c.getProfile(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		labels, err = c.listLabels(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		listing, err = c.listMessages(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	messages, err := c.fetchMessageDetails(ctx, listing.Messages)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Profile:  profile,
		Labels:   labels,
		Messages: messages,
	}, nil
}

func (c *Client) getProfile(ctx context.Context) (*gmail.Profile, error) {
	start := time.Now()
	profile, err := c.svc.GetProfile(gmailUser).Context(ctx).Do()
	c.recordAPICall(ctx, instrumentation.OpGetProfile, err, start)
	if err != nil {
		return nil, classifyErr(instrumentation.OpGetProfile, err)
	}
	return profile, nil
}

func (c *Client) listLabels(ctx context.Context) ([]*gmail.Label, error) {
	start := time.Now()
	resp, err := c.svc.Labels.List(gmailUser).Context(ctx).Do()
	c.recordAPICall(ctx, instrumentation.OpListLabels, err, start)
	if err != nil {
		return nil, classifyErr(instrumentation.OpListLabels, err)
	}
	return resp.Labels, nil
}

func (c *Client) listMessages(ctx context.Context) (*gmail.ListMessagesResponse, error) {
	start := time.Now()
	resp, err := c.svc.Messages.List(gmailUser).MaxResults(c.maxMessages).Context(ctx).Do()
	c.recordAPICall(ctx, instrumentation.OpListMessages, err, start)
	if err != nil {
		return nil, classifyErr(instrumentation.OpListMessages, err)
	}
	return resp, nil
}

func (c *Client) getMessage(ctx context.Context, id string) (*gmail.Message, error) {
	start := time.Now()
	msg, err := c.svc.Messages.Get(gmailUser, id).Format("full").Context(ctx).Do()
	c.recordAPICall(ctx, instrumentation.OpGetMessage, err, start)
	if err != nil {
		return nil, classifyErr(instrumentation.OpGetMessage, err)
	}
	return msg, nil
}

// fetchMessageDetails fans out one detail fetch per listed message, capped
// at DefaultMaxMessages concurrent requests. Each goroutine writes into its
// own slot of the slice keyed by the original listing position; failed or
// unnormalizable slots stay nil and are filtered afterwards, so the returned
// sequence keeps the listing order deterministically.
func (c *Client) fetchMessageDetails(ctx context.Context, refs []*gmail.Message) ([]*MessageSummary, error) {
	if int64(len(refs)) > c.maxMessages {
		refs = refs[:c.maxMessages]
	}
	if len(refs) == 0 {
		return []*MessageSummary{}, nil
	}

	slots := make([]*MessageSummary, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultMaxMessages)
	for i, ref := range refs {
		g.Go(func() error {
			ctx, span := c.tracer.Start(gctx, "GetMessage",
				trace.WithAttributes(attribute.String("message.id", ref.Id)))
			defer span.End()

			msg, err := c.getMessage(ctx, ref.Id)
			if err != nil {
				if isAuthErr(err) {
					// A rejected credential cannot produce a trustworthy
					// partial result.
					return err
				}
				c.logger.Warn("dropping message from summary",
					logging.Operation(instrumentation.OpGetMessage),
					slog.String("message_id", ref.Id),
					logging.Err(err),
				)
				span.RecordError(err)
				return nil
			}

			ms, err := normalizeMessage(msg)
			if err != nil {
				c.logger.Warn("skipping unnormalizable message",
					logging.Operation(instrumentation.OpGetMessage),
					slog.String("message_id", ref.Id),
					logging.Err(err),
				)
				return nil
			}
			slots[i] = ms
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	messages := make([]*MessageSummary, 0, len(slots))
	for _, m := range slots {
		if m != nil {
			messages = append(messages, m)
		}
	}
	return messages, nil
}
