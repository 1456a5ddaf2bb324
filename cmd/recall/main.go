// Command recall is the entry point for the recall CLI. It loads the
// configuration, wires the adapters into the core services, and hands
// control to the command layer.
package main

import (
	"fmt"
	"os"

	"github.com/praxis-labs/recall/internal/adapters/driven/config"
	"github.com/praxis-labs/recall/internal/adapters/driven/embedding/hf"
	"github.com/praxis-labs/recall/internal/adapters/driven/storage/sqlite"
	"github.com/praxis-labs/recall/internal/adapters/driving/cli"
	"github.com/praxis-labs/recall/internal/chunker"
	"github.com/praxis-labs/recall/internal/connectors"
	"github.com/praxis-labs/recall/internal/connectors/github"
	"github.com/praxis-labs/recall/internal/connectors/gmail"
	"github.com/praxis-labs/recall/internal/connectors/googledrive"
	"github.com/praxis-labs/recall/internal/connectors/notion"
	"github.com/praxis-labs/recall/internal/core/services"
	"github.com/praxis-labs/recall/internal/extractors"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// RECALL_CONFIG overrides the default ~/.recall/config.toml.
	cfg, err := config.Load(os.Getenv("RECALL_CONFIG"))
	if err != nil {
		return err
	}

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	embedder := hf.NewClient(hf.Config{
		BaseURL:           cfg.Embedding.BaseURL,
		Model:             cfg.Embedding.Model,
		APIKey:            cfg.Embedding.APIKey,
		Dimensions:        cfg.Embedding.Dimensions,
		QueryInstruction:  cfg.Embedding.QueryInstruction,
		RequestsPerSecond: cfg.Embedding.RequestsPerSecond,
	})
	defer embedder.Close()

	vectors := store.VectorStore(embedder)
	docs := store.DocumentStore()

	var chunkOpts []chunker.Option
	if cfg.Chunking.ChunkSize > 0 {
		chunkOpts = append(chunkOpts, chunker.WithChunkSize(cfg.Chunking.ChunkSize))
	}
	if cfg.Chunking.Overlap > 0 {
		chunkOpts = append(chunkOpts, chunker.WithOverlap(cfg.Chunking.Overlap))
	}
	pipeline := services.NewPipeline(chunker.New(chunkOpts...), vectors)

	registry := connectors.NewRegistry(
		googledrive.New(),
		github.New(),
		notion.New(),
		gmail.New(),
	)

	uploads, err := services.NewUploadIngestor(docs, extractors.DefaultRegistry(), pipeline, cfg.Upload.Workers)
	if err != nil {
		return err
	}
	defer uploads.Close()

	cli.SetServices(cli.Services{
		Sync:      services.NewSyncOrchestrator(registry, cfg.CredentialSource(), docs, vectors, pipeline),
		Retriever: services.NewRetriever(vectors, cfg.Retrieval.TopK),
		Uploads:   uploads,
		Documents: docs,
		Vectors:   vectors,
	})

	return cli.Execute()
}
