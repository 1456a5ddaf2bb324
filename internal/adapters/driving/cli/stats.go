package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge-base statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if vectorStore == nil {
		return errors.New("vector store not configured")
	}

	owner, err := requireOwner()
	if err != nil {
		return err
	}

	stats, err := vectorStore.Stats(context.Background(), owner)
	if err != nil {
		return fmt.Errorf("failed to load statistics: %w", err)
	}

	cmd.Printf("Files:  %d\n", stats.FileCount)
	cmd.Printf("Chunks: %d\n", stats.TotalChunks)
	for _, name := range stats.FileNames {
		cmd.Printf("  - %s\n", name)
	}
	return nil
}
