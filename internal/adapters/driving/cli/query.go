package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/praxis-labs/recall/internal/core/domain"
)

var (
	queryConversation string
	queryJSON         bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Search the knowledge base",
	Long: `Embeds the query, runs similarity search over the owner's fragments,
and prints the ranked results together with knowledge-base statistics.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVarP(&queryConversation, "conversation", "c", "", "restrict results to a conversation scope")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if retriever == nil {
		return errors.New("retriever not configured")
	}

	owner, err := requireOwner()
	if err != nil {
		return err
	}

	result, err := retriever.Retrieve(context.Background(), owner, args[0], queryConversation)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputQueryJSON(cmd, result)
	}
	return outputQueryTable(cmd, result)
}

func outputQueryJSON(cmd *cobra.Command, result *domain.RetrievedContext) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputQueryTable(cmd *cobra.Command, result *domain.RetrievedContext) error {
	if len(result.Fragments) == 0 {
		cmd.Println("No results found.")
	} else {
		cmd.Println("Results:")
		cmd.Println()
		for i, fr := range result.Fragments {
			cmd.Printf("  [%d] %.2f %s\n", i+1, fr.Similarity, fr.SourceApp)
			if fr.SourceURL != "" {
				cmd.Printf("      Source: %s\n", fr.SourceURL)
			}
			cmd.Printf("      %s\n", fr.Text)
			cmd.Println()
		}
	}

	cmd.Printf("Knowledge base: %d files, %d chunks\n", result.Stats.FileCount, result.Stats.TotalChunks)
	return nil
}
