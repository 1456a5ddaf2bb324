package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
data_dir = "/tmp/recall-test"

[embedding]
model = "BAAI/bge-small-en-v1.5"
dimensions = 384
api_key = "hf_secret"

[chunking]
chunk_size = 800
overlap = 80

[upload]
workers = 2

[retrieval]
top_k = 10

[credentials.alice.google_drive]
access_token = "ya29.token"

[credentials.alice.github]
token = "ghp_token"
repositories = "alice/infra,alice/docs"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/recall-test", cfg.DataDir)
	assert.Equal(t, "BAAI/bge-small-en-v1.5", cfg.Embedding.Model)
	assert.Equal(t, 384, cfg.Embedding.Dimensions)
	assert.Equal(t, 800, cfg.Chunking.ChunkSize)
	assert.Equal(t, 80, cfg.Chunking.Overlap)
	assert.Equal(t, 2, cfg.Upload.Workers)
	assert.Equal(t, 10, cfg.Retrieval.TopK)
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.DataDir)
	assert.Zero(t, cfg.Retrieval.TopK)
}

func TestLoad_Malformed(t *testing.T) {
	_, err := Load(writeConfig(t, "not [valid toml"))
	require.Error(t, err)
}

func TestSaveRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := &Config{DataDir: "/var/lib/recall"}
	cfg.Retrieval.TopK = 7
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/recall", loaded.DataDir)
	assert.Equal(t, 7, loaded.Retrieval.TopK)
}

func TestCredentialSource(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	source := cfg.CredentialSource()
	ctx := context.Background()

	creds, err := source.Get(ctx, "alice", "google_drive")
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, "ya29.token", creds.Get("access_token"))

	creds, err = source.Get(ctx, "alice", "github")
	require.NoError(t, err)
	assert.Equal(t, "alice/infra,alice/docs", creds.Get("repositories"))

	// No credentials stored resolves to nil, the sync skip signal.
	creds, err = source.Get(ctx, "alice", "notion")
	require.NoError(t, err)
	assert.Nil(t, creds)

	creds, err = source.Get(ctx, "bob", "google_drive")
	require.NoError(t, err)
	assert.Nil(t, creds)
}
