// Package gmail fetches recent messages from a Gmail mailbox. Each message
// becomes one item: subject and sender headers plus the decoded plain-text
// body.
package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/praxis-labs/recall/internal/core/domain"
	"github.com/praxis-labs/recall/internal/core/ports/driven"
	"github.com/praxis-labs/recall/internal/logger"
)

// ProviderName is the provider identifier for this connector.
const ProviderName = "gmail"

const (
	pageSize = 100

	// maxMessages bounds one fetch so a large mailbox cannot stall a sync.
	maxMessages = 500

	// requestsPerSecond stays under the Gmail API per-user quota.
	requestsPerSecond = 10

	// defaultQuery restricts the fetch to recent inbox mail.
	defaultQuery = "in:inbox newer_than:30d"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// Connector fetches messages from Gmail.
type Connector struct {
	endpoint string
}

// Option configures a Connector.
type Option func(*Connector)

// WithEndpoint overrides the Gmail API endpoint. Used in tests.
func WithEndpoint(url string) Option {
	return func(c *Connector) { c.endpoint = url }
}

// New creates a Gmail connector.
func New(opts ...Option) *Connector {
	c := &Connector{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Provider returns the provider name this connector serves.
func (c *Connector) Provider() string {
	return ProviderName
}

// Fetch retrieves recent messages from the mailbox. The search query can be
// overridden per owner through the "query" credential field.
func (c *Connector) Fetch(ctx context.Context, creds domain.CredentialMap) ([]domain.SourceItem, error) {
	token := creds.Get("access_token")
	if token == "" {
		return nil, fmt.Errorf("%w: gmail requires access_token", domain.ErrCredentialMissing)
	}

	query := creds.Get("query")
	if query == "" {
		query = defaultQuery
	}

	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	clientOpts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if c.endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(c.endpoint))
	}

	svc, err := gmail.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: creating gmail service: %w", domain.ErrConnectorFetch, err)
	}

	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), 1)

	var items []domain.SourceItem
	pageToken := ""
	for len(items) < maxMessages {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		call := svc.Users.Messages.List("me").Q(query).MaxResults(pageSize).Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		list, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("%w: listing messages: %w", domain.ErrConnectorFetch, err)
		}

		for _, ref := range list.Messages {
			if len(items) >= maxMessages {
				break
			}
			if err := limiter.Wait(ctx); err != nil {
				return nil, err
			}

			msg, err := svc.Users.Messages.Get("me", ref.Id).Format("full").Context(ctx).Do()
			if err != nil {
				logger.Warn("gmail: skipping message %s: %v", ref.Id, err)
				continue
			}

			item, ok := messageToItem(msg)
			if !ok {
				continue
			}
			items = append(items, item)
		}

		if list.NextPageToken == "" {
			break
		}
		pageToken = list.NextPageToken
	}

	return items, nil
}

// messageToItem converts a full-format message into a source item. Messages
// with no extractable text are dropped.
func messageToItem(msg *gmail.Message) (domain.SourceItem, bool) {
	subject := header(msg, "Subject")
	from := header(msg, "From")
	body := extractBody(msg.Payload)

	var sb strings.Builder
	if subject != "" {
		sb.WriteString("Subject: " + subject + "\n")
	}
	if from != "" {
		sb.WriteString("From: " + from + "\n")
	}
	if body != "" {
		sb.WriteString("\n" + body)
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return domain.SourceItem{}, false
	}

	title := subject
	if title == "" {
		title = "(no subject)"
	}

	return domain.SourceItem{
		ExternalID: msg.Id,
		Title:      title,
		Text:       text,
		Metadata: domain.SourceMetadata{
			SourceApp: ProviderName,
			SourceURL: "https://mail.google.com/mail/u/0/#all/" + msg.Id,
			Extra:     map[string]string{"from": from},
		},
	}, true
}

// header returns the named header value, or empty string.
func header(msg *gmail.Message, name string) string {
	if msg.Payload == nil {
		return ""
	}
	for _, h := range msg.Payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// extractBody walks the MIME tree for the first text/plain part and decodes
// it. Single-part messages carry the body directly on the payload.
func extractBody(part *gmail.MessagePart) string {
	if part == nil {
		return ""
	}

	if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
		// The API emits URL-safe base64, padded or not.
		decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(part.Body.Data, "="))
		if err != nil {
			return ""
		}
		return string(decoded)
	}

	for _, p := range part.Parts {
		if text := extractBody(p); text != "" {
			return text
		}
	}
	return ""
}
