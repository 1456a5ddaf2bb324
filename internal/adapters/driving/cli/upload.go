package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/praxis-labs/recall/internal/core/domain"
)

var uploadConversation string

var uploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Ingest a local file",
	Long: `Reads a local file, registers it as a pending document, and processes it
in the background. The command waits for processing to finish and reports
the outcome.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadConversation, "conversation", "c", "", "scope the document to a conversation")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if uploadIngestor == nil || documentStore == nil {
		return errors.New("upload service not configured")
	}

	owner, err := requireOwner()
	if err != nil {
		return err
	}

	path := args[0]
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	ctx := context.Background()
	doc, err := uploadIngestor.Submit(ctx, owner, filepath.Base(path), payload, uploadConversation)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	cmd.Printf("Uploaded %s as document %s, processing...\n", doc.Filename, doc.ID)

	final, err := waitForDocument(ctx, doc.ID)
	if err != nil {
		return err
	}

	if final.Status == domain.StatusFailed {
		return fmt.Errorf("processing failed: %s", final.ErrorMessage)
	}
	cmd.Println("Done.")
	return nil
}

// waitForDocument polls the document row until it reaches a terminal state.
func waitForDocument(ctx context.Context, docID string) (*domain.Document, error) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		doc, err := documentStore.Get(ctx, docID)
		if err != nil {
			return nil, fmt.Errorf("poll document: %w", err)
		}
		if doc.Status.IsTerminal() {
			return doc, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
