package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/praxis-labs/recall/internal/core/domain"
	"github.com/praxis-labs/recall/internal/core/ports/driven"
	"github.com/praxis-labs/recall/internal/core/ports/driving"
	"github.com/praxis-labs/recall/internal/logger"
)

// Ensure UploadIngestor implements the interface.
var _ driving.UploadIngestor = (*UploadIngestor)(nil)

const defaultUploadWorkers = 4

// UploadIngestor accepts raw file payloads and processes them on a background
// worker pool. Submit returns as soon as the pending document row exists;
// callers poll document status for the outcome.
type UploadIngestor struct {
	docStore   driven.DocumentStore
	extractors driven.ExtractorRegistry
	pipeline   *Pipeline

	pool *ants.Pool
	wg   sync.WaitGroup
}

// NewUploadIngestor creates an upload ingestor with the given number of
// background workers. A non-positive worker count uses the default.
func NewUploadIngestor(
	docStore driven.DocumentStore,
	extractors driven.ExtractorRegistry,
	pipeline *Pipeline,
	workers int,
) (*UploadIngestor, error) {
	if workers < 1 {
		workers = defaultUploadWorkers
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	return &UploadIngestor{
		docStore:   docStore,
		extractors: extractors,
		pipeline:   pipeline,
		pool:       pool,
	}, nil
}

// Submit registers a pending document for the payload and enqueues it for
// processing. The returned document carries the generated ID so the caller
// can poll its status.
func (u *UploadIngestor) Submit(
	ctx context.Context,
	ownerID, filename string,
	payload []byte,
	conversationID string,
) (*domain.Document, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner id is required", domain.ErrInvalidInput)
	}
	if filename == "" {
		return nil, fmt.Errorf("%w: filename is required", domain.ErrInvalidInput)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: payload is empty", domain.ErrInvalidInput)
	}

	// Reject unsupported formats up front so the caller gets an immediate
	// error instead of a failed document.
	if _, err := u.extractors.ForFilename(filename); err != nil {
		return nil, err
	}

	doc := &domain.Document{
		OwnerID:        ownerID,
		Filename:       filename,
		FileSize:       int64(len(payload)),
		Status:         domain.StatusPending,
		ConversationID: conversationID,
	}
	if err := u.docStore.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("register upload: %w", err)
	}

	u.wg.Add(1)
	err := u.pool.Submit(func() {
		defer u.wg.Done()
		u.process(doc.ID, ownerID, filename, payload, conversationID)
	})
	if err != nil {
		u.wg.Done()
		if serr := u.docStore.SetStatus(ctx, doc.ID, domain.StatusFailed, err.Error()); serr != nil {
			logger.Warn("Failed to mark upload %s failed: %v", doc.ID, serr)
		}
		return nil, fmt.Errorf("enqueue upload: %w", err)
	}

	return doc, nil
}

// process runs on a pool worker. The submitting request's context is gone by
// the time this runs, so it uses a background context.
func (u *UploadIngestor) process(docID, ownerID, filename string, payload []byte, conversationID string) {
	ctx := context.Background()

	if err := u.docStore.SetStatus(ctx, docID, domain.StatusProcessing, ""); err != nil {
		logger.Warn("Failed to mark upload %s processing: %v", docID, err)
	}

	text, err := u.extractText(filename, payload)
	if err != nil {
		u.fail(ctx, docID, err)
		return
	}

	meta := domain.FragmentMetadata{
		SourceApp:      "upload",
		FileID:         docID,
		FileName:       filename,
		ConversationID: conversationID,
	}
	count, err := u.pipeline.Process(ctx, ownerID, docID, text, meta)
	if err != nil {
		u.fail(ctx, docID, err)
		return
	}

	if err := u.docStore.SetStatus(ctx, docID, domain.StatusCompleted, ""); err != nil {
		logger.Warn("Failed to mark upload %s completed: %v", docID, err)
		return
	}
	logger.Debug("Upload %s (%s) ingested as %d fragments", docID, filename, count)
}

func (u *UploadIngestor) extractText(filename string, payload []byte) (string, error) {
	extractor, err := u.extractors.ForFilename(filename)
	if err != nil {
		return "", err
	}

	text, err := extractor.Extract(payload)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", filename, err)
	}
	return text, nil
}

func (u *UploadIngestor) fail(ctx context.Context, docID string, cause error) {
	logger.Warn("Upload %s failed: %v", docID, cause)
	if err := u.docStore.SetStatus(ctx, docID, domain.StatusFailed, cause.Error()); err != nil {
		logger.Warn("Failed to mark upload %s failed: %v", docID, err)
	}
}

// Close waits for queued work to finish and releases the worker pool.
func (u *UploadIngestor) Close() error {
	u.wg.Wait()
	u.pool.Release()
	return nil
}
