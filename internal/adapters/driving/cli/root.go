// Package cli implements the recall command line interface. Commands talk to
// the core services through the driving ports; the concrete services are
// injected by the composition root before Execute.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/praxis-labs/recall/internal/core/ports/driven"
	"github.com/praxis-labs/recall/internal/core/ports/driving"
	"github.com/praxis-labs/recall/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services used by the commands, injected via SetServices.
var (
	syncOrchestrator driving.SyncOrchestrator
	retriever        driving.Retriever
	uploadIngestor   driving.UploadIngestor
	documentStore    driven.DocumentStore
	vectorStore      driven.VectorStore
)

// Persistent flags.
var (
	ownerID string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "recall",
	Short: "Personal knowledge base with multi-source ingestion and semantic search",
	Long: `recall ingests documents from connected sources (Google Drive, GitHub,
Notion, Gmail) and ad-hoc uploads, embeds them, and answers semantic
queries over everything an owner has stored.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&ownerID, "owner", "o", "", "owner the command acts for")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Services bundles the injected dependencies for the commands.
type Services struct {
	Sync      driving.SyncOrchestrator
	Retriever driving.Retriever
	Uploads   driving.UploadIngestor
	Documents driven.DocumentStore
	Vectors   driven.VectorStore
}

// SetServices injects the service implementations the commands run against.
func SetServices(s Services) {
	syncOrchestrator = s.Sync
	retriever = s.Retriever
	uploadIngestor = s.Uploads
	documentStore = s.Documents
	vectorStore = s.Vectors
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// requireOwner validates the --owner flag, which every data command needs.
func requireOwner() (string, error) {
	if ownerID == "" {
		return "", errors.New("--owner is required")
	}
	return ownerID, nil
}
