package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/memvault-cli/internal/core/domain"
	"github.com/custodia-labs/memvault-cli/internal/core/ports/driving"
)

var (
	addFolder string
	addWait   bool
)

var addCmd = &cobra.Command{
	Use:   "add [url]",
	Short: "Ingest a media URL or local file",
	Long: `Registers a media source and runs it through the ingestion pipeline:
download, fingerprint deduplication, frame captioning, transcription
and embedding. Accepts remote URLs and file:// paths.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addFolder, "folder", "f", "", "folder id for the new item")
	addCmd.Flags().BoolVarP(&addWait, "wait", "w", false, "run the pipeline synchronously and report the outcome")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if itemService == nil || ingestor == nil {
		return errors.New("ingestion is not available (yt-dlp and ffmpeg required)")
	}

	item, err := itemService.Register(cmd.Context(), args[0], folderPtr(addFolder))
	if err != nil {
		return fmt.Errorf("registering item: %w", err)
	}
	cmd.Printf("Registered %s\n", item.ID)

	if !addWait {
		ingestor.Enqueue(item.ID)
		cmd.Println("Queued for ingestion.")
		return nil
	}

	result, err := ingestor.Run(cmd.Context(), item.ID)
	if err != nil {
		return fmt.Errorf("ingestion: %w", err)
	}
	printRunResult(cmd, result)
	return nil
}

func printRunResult(cmd *cobra.Command, result *driving.RunResult) {
	switch result.Outcome {
	case driving.OutcomeCompleted:
		cmd.Printf("Completed %s\n", result.ItemID)
		for _, stage := range result.SoftFailures {
			cmd.Printf("  warning: %s failed\n", stage)
		}
	case driving.OutcomeDuplicate:
		cmd.Printf("Completed %s (duplicate media, enrichment reused)\n", result.ItemID)
	case driving.OutcomeFailed:
		cmd.Printf("Failed %s: %s\n", result.ItemID, result.Reason)
	}
}

// folderPtr converts an optional flag value to the domain representation.
func folderPtr(folder string) *string {
	if folder == "" {
		return nil
	}
	return domain.StringPtr(folder)
}
