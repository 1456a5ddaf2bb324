// Package googledrive fetches documents from a Google Drive account. Google
// Docs are exported as plain text; regular text files are downloaded as-is.
package googledrive

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/praxis-labs/recall/internal/core/domain"
	"github.com/praxis-labs/recall/internal/core/ports/driven"
	"github.com/praxis-labs/recall/internal/logger"
)

// ProviderName is the provider identifier for this connector.
const ProviderName = "google_drive"

const (
	googleDocMIME = "application/vnd.google-apps.document"
	pageSize      = 100

	// requestsPerSecond caps Drive API calls well under the per-user quota.
	requestsPerSecond = 5
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// Connector fetches Google Docs and text files from Drive.
type Connector struct {
	endpoint string
}

// Option configures a Connector.
type Option func(*Connector)

// WithEndpoint overrides the Drive API endpoint. Used in tests.
func WithEndpoint(url string) Option {
	return func(c *Connector) { c.endpoint = url }
}

// New creates a Google Drive connector.
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

// Fetch retrieves all readable documents from the account's Drive.
func (c *Connector) Fetch(ctx context.Context, creds domain.CredentialMap) ([]domain.SourceItem, error) {
	token := creds.Get("access_token")
	if token == "" {
		return nil, fmt.Errorf("%w: google_drive requires access_token", domain.ErrCredentialMissing)
	}

	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	clientOpts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if c.endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(c.endpoint))
	}

	svc, err := drive.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: creating drive service: %w", domain.ErrConnectorFetch, err)
	}

	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), 1)

	var items []domain.SourceItem
	pageToken := ""
	for {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		call := svc.Files.List().
			Q(fmt.Sprintf("mimeType='%s' or mimeType='text/plain'", googleDocMIME)).
			Fields("nextPageToken, files(id, name, mimeType, webViewLink)").
			PageSize(pageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		list, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("%w: listing drive files: %w", domain.ErrConnectorFetch, err)
		}

		for _, f := range list.Files {
			if err := limiter.Wait(ctx); err != nil {
				return nil, err
			}

			text, err := c.fileText(ctx, svc, f)
			if err != nil {
				// One unreadable file must not abort the whole fetch.
				logger.Warn("google_drive: skipping %q: %v", f.Name, err)
				continue
			}
			if strings.TrimSpace(text) == "" {
				continue
			}

			items = append(items, domain.SourceItem{
				ExternalID: f.Id,
				Title:      f.Name,
				Text:       text,
				Metadata: domain.SourceMetadata{
					SourceApp: ProviderName,
					SourceURL: fileURL(f),
					Extra:     map[string]string{"mime_type": f.MimeType},
				},
			})
		}

		if list.NextPageToken == "" {
			break
		}
		pageToken = list.NextPageToken
	}

	return items, nil
}

// fileText returns the plain-text content of a Drive file. Google Docs need
// an export; everything else downloads directly.
func (c *Connector) fileText(ctx context.Context, svc *drive.Service, f *drive.File) (string, error) {
	var body io.ReadCloser
	if f.MimeType == googleDocMIME {
		res, err := svc.Files.Export(f.Id, "text/plain").Context(ctx).Download()
		if err != nil {
			return "", fmt.Errorf("exporting document: %w", err)
		}
		body = res.Body
	} else {
		res, err := svc.Files.Get(f.Id).Context(ctx).Download()
		if err != nil {
			return "", fmt.Errorf("downloading file: %w", err)
		}
		body = res.Body
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("reading file content: %w", err)
	}
	return string(data), nil
}

// fileURL returns a deep link for the file, falling back to a constructed
// Drive URL when the API omits webViewLink.
func fileURL(f *drive.File) string {
	if f.WebViewLink != "" {
		return f.WebViewLink
	}
	return "https://drive.google.com/file/d/" + f.Id
}
