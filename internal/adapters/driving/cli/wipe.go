package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	wipeSource  string
	wipeConfirm bool
)

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete the owner's fragments",
	Long: `Deletes all of the owner's stored fragments, optionally restricted to a
single source application. Document rows are kept; a following sync
re-embeds everything.`,
	Args: cobra.NoArgs,
	RunE: runWipe,
}

func init() {
	wipeCmd.Flags().StringVarP(&wipeSource, "source", "s", "", "only delete fragments from this source application")
	wipeCmd.Flags().BoolVarP(&wipeConfirm, "yes", "y", false, "confirm the deletion")
	rootCmd.AddCommand(wipeCmd)
}

func runWipe(cmd *cobra.Command, _ []string) error {
	if vectorStore == nil {
		return errors.New("vector store not configured")
	}

	owner, err := requireOwner()
	if err != nil {
		return err
	}

	if !wipeConfirm {
		return errors.New("refusing to delete without --yes")
	}

	if err := vectorStore.DeleteAll(context.Background(), owner, wipeSource); err != nil {
		return fmt.Errorf("wipe failed: %w", err)
	}

	if wipeSource != "" {
		cmd.Printf("Deleted all %s fragments for %s.\n", wipeSource, owner)
	} else {
		cmd.Printf("Deleted all fragments for %s.\n", owner)
	}
	return nil
}
