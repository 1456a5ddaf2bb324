package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/praxis-labs/recall/internal/core/ports/driving"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronise documents from connected sources",
	Long: `Fetches documents from every source the owner has credentials for,
embeds anything new or changed, and skips unchanged documents.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	if syncOrchestrator == nil {
		return errors.New("sync service not configured")
	}

	owner, err := requireOwner()
	if err != nil {
		return err
	}

	ctx := context.Background()
	cmd.Printf("Synchronising sources for %s...\n", owner)

	if err := syncWithProgress(ctx, cmd, syncOrchestrator, owner); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	cmd.Println("Sync complete.")
	return nil
}

// syncWithProgress runs the sync while displaying progress updates.
func syncWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	syncOrch driving.SyncOrchestrator,
	owner string,
) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- syncOrch.SyncOwner(ctx, owner)
	}()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	lastCount := 0
	for {
		select {
		case err := <-errCh:
			// Print final status (ignore status error - best effort)
			status, statusErr := syncOrch.Status(ctx, owner)
			if statusErr == nil && status != nil && status.ItemsProcessed+status.ItemsSkipped > 0 {
				cmd.Printf("\rProcessed %d items, skipped %d unchanged (%d errors)\n",
					status.ItemsProcessed, status.ItemsSkipped, status.ErrorCount)
			}
			return err
		case <-ticker.C:
			status, statusErr := syncOrch.Status(ctx, owner)
			if statusErr == nil && status != nil && status.ItemsProcessed > lastCount {
				cmd.Printf("\rProcessing... %d items", status.ItemsProcessed)
				lastCount = status.ItemsProcessed
			}
		}
	}
}
