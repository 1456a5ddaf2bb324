package googledrive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxis-labs/recall/internal/core/domain"
)

func TestFetch_MissingAccessToken(t *testing.T) {
	c := New()

	_, err := c.Fetch(context.Background(), domain.CredentialMap{"other": "x"})
	assert.ErrorIs(t, err, domain.ErrCredentialMissing)
}

func TestFetch_DownloadsAndExports(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"files": [
			{"id": "plain-1", "name": "notes.txt", "mimeType": "text/plain",
			 "webViewLink": "https://drive.example.com/plain-1"},
			{"id": "gdoc-1", "name": "Roadmap", "mimeType": "application/vnd.google-apps.document",
			 "webViewLink": "https://drive.example.com/gdoc-1"}
		]}`))
	})
	mux.HandleFunc("/files/plain-1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "media", r.URL.Query().Get("alt"))
		w.Write([]byte("plain file content"))
	})
	mux.HandleFunc("/files/gdoc-1/export", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/plain", r.URL.Query().Get("mimeType"))
		w.Write([]byte("exported doc content"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(WithEndpoint(srv.URL))
	items, err := c.Fetch(context.Background(), domain.CredentialMap{"access_token": "tok"})
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "plain-1", items[0].ExternalID)
	assert.Equal(t, "notes.txt", items[0].Title)
	assert.Equal(t, "plain file content", items[0].Text)
	assert.Equal(t, ProviderName, items[0].Metadata.SourceApp)
	assert.Equal(t, "https://drive.example.com/plain-1", items[0].Metadata.SourceURL)
	require.NoError(t, items[0].Validate())

	assert.Equal(t, "gdoc-1", items[1].ExternalID)
	assert.Equal(t, "exported doc content", items[1].Text)
}

func TestFetch_UnreadableFileIsSkipped(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"files": [
			{"id": "bad-1", "name": "broken.txt", "mimeType": "text/plain"},
			{"id": "good-1", "name": "fine.txt", "mimeType": "text/plain"}
		]}`))
	})
	mux.HandleFunc("/files/bad-1", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	mux.HandleFunc("/files/good-1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("still fine"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(WithEndpoint(srv.URL))
	items, err := c.Fetch(context.Background(), domain.CredentialMap{"access_token": "tok"})
	require.NoError(t, err, "one unreadable file must not fail the fetch")
	require.Len(t, items, 1)
	assert.Equal(t, "good-1", items[0].ExternalID)
	// No webViewLink in the listing, so the URL is constructed.
	assert.Equal(t, "https://drive.google.com/file/d/good-1", items[0].Metadata.SourceURL)
}

func TestProvider(t *testing.T) {
	assert.Equal(t, "google_drive", New().Provider())
}
