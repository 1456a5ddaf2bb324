// Package notion fetches workspace pages shared with a Notion integration.
// Page bodies are flattened from block children into plain text, one line per
// block.
package notion

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jomei/notionapi"
	"golang.org/x/time/rate"

	"github.com/praxis-labs/recall/internal/core/domain"
	"github.com/praxis-labs/recall/internal/core/ports/driven"
	"github.com/praxis-labs/recall/internal/logger"
)

// ProviderName is the provider identifier for this connector.
const ProviderName = "notion"

const (
	pageSize = 100

	// requestsPerSecond matches Notion's documented 3 req/s average limit.
	requestsPerSecond = 3
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// Connector fetches pages from a Notion workspace.
type Connector struct {
	httpClient *http.Client
}

// Option configures a Connector.
type Option func(*Connector)

// WithHTTPClient overrides the HTTP client. Used in tests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Connector) { c.httpClient = client }
}

// New creates a Notion connector.
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

// Fetch retrieves every page the integration can see.
func (c *Connector) Fetch(ctx context.Context, creds domain.CredentialMap) ([]domain.SourceItem, error) {
	apiKey := creds.Get("api_key")
	if apiKey == "" {
		return nil, fmt.Errorf("%w: notion requires api_key", domain.ErrCredentialMissing)
	}

	var clientOpts []notionapi.ClientOption
	if c.httpClient != nil {
		clientOpts = append(clientOpts, notionapi.WithHTTPClient(c.httpClient))
	}
	client := notionapi.NewClient(notionapi.Token(apiKey), clientOpts...)

	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), 1)

	var items []domain.SourceItem
	var cursor notionapi.Cursor
	for {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := client.Search.Do(ctx, &notionapi.SearchRequest{
			Filter:      notionapi.SearchFilter{Value: "page", Property: "object"},
			StartCursor: cursor,
			PageSize:    pageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: searching pages: %w", domain.ErrConnectorFetch, err)
		}

		for _, obj := range resp.Results {
			page, ok := obj.(*notionapi.Page)
			if !ok {
				continue
			}

			text, err := c.pageText(ctx, client, limiter, page.ID)
			if err != nil {
				// One unreadable page must not abort the whole fetch.
				logger.Warn("notion: skipping page %s: %v", page.ID, err)
				continue
			}

			title := pageTitle(page)
			body := strings.TrimSpace(title + "\n" + text)
			if body == "" {
				continue
			}

			items = append(items, domain.SourceItem{
				ExternalID: page.ID.String(),
				Title:      title,
				Text:       body,
				Metadata: domain.SourceMetadata{
					SourceApp: ProviderName,
					SourceURL: page.URL,
				},
			})
		}

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return items, nil
}

// pageText flattens a page's block children into plain text.
func (c *Connector) pageText(
	ctx context.Context,
	client *notionapi.Client,
	limiter *rate.Limiter,
	pageID notionapi.ObjectID,
) (string, error) {
	var lines []string

	pagination := &notionapi.Pagination{PageSize: pageSize}
	for {
		if err := limiter.Wait(ctx); err != nil {
			return "", err
		}

		resp, err := client.Block.GetChildren(ctx, notionapi.BlockID(pageID), pagination)
		if err != nil {
			return "", fmt.Errorf("fetching blocks: %w", err)
		}

		for _, block := range resp.Results {
			if line := blockText(block); line != "" {
				lines = append(lines, line)
			}
		}

		if !resp.HasMore {
			break
		}
		pagination.StartCursor = notionapi.Cursor(resp.NextCursor)
	}

	return strings.Join(lines, "\n"), nil
}

// blockText extracts the plain text of one block. Unknown block kinds yield
// an empty string.
func blockText(block notionapi.Block) string {
	switch b := block.(type) {
	case *notionapi.ParagraphBlock:
		return richText(b.Paragraph.RichText)
	case *notionapi.Heading1Block:
		return richText(b.Heading1.RichText)
	case *notionapi.Heading2Block:
		return richText(b.Heading2.RichText)
	case *notionapi.Heading3Block:
		return richText(b.Heading3.RichText)
	case *notionapi.BulletedListItemBlock:
		return richText(b.BulletedListItem.RichText)
	case *notionapi.NumberedListItemBlock:
		return richText(b.NumberedListItem.RichText)
	case *notionapi.ToDoBlock:
		return richText(b.ToDo.RichText)
	case *notionapi.QuoteBlock:
		return richText(b.Quote.RichText)
	case *notionapi.CalloutBlock:
		return richText(b.Callout.RichText)
	case *notionapi.CodeBlock:
		return richText(b.Code.RichText)
	default:
		return ""
	}
}

// richText joins the plain-text runs of a rich text array.
func richText(rts []notionapi.RichText) string {
	var sb strings.Builder
	for _, rt := range rts {
		sb.WriteString(rt.PlainText)
	}
	return strings.TrimSpace(sb.String())
}

// pageTitle finds the page's title property.
func pageTitle(page *notionapi.Page) string {
	for _, prop := range page.Properties {
		if tp, ok := prop.(*notionapi.TitleProperty); ok {
			if title := richText(tp.Title); title != "" {
				return title
			}
		}
	}
	return "Untitled"
}
