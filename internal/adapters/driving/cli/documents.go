package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "List the owner's documents",
	Long:  `Lists every document the owner has ingested, newest first, with its processing status.`,
	Args:  cobra.NoArgs,
	RunE:  runDocuments,
}

func init() {
	rootCmd.AddCommand(documentsCmd)
}

func runDocuments(cmd *cobra.Command, _ []string) error {
	if documentStore == nil {
		return errors.New("document store not configured")
	}

	owner, err := requireOwner()
	if err != nil {
		return err
	}

	docs, err := documentStore.List(context.Background(), owner)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	for i := range docs {
		doc := &docs[i]
		source := doc.Provider
		if source == "" {
			source = "upload"
		}

		cmd.Printf("  %-10s %-14s %s\n", doc.Status, source, doc.Filename)
		if doc.ErrorMessage != "" {
			cmd.Printf("             error: %s\n", doc.ErrorMessage)
		}
	}
	cmd.Printf("\n%d documents.\n", len(docs))
	return nil
}
