package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/memvault-cli/internal/core/domain"
)

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Manage vault items",
	Long:  `Inspect, delete or reprocess individual items.`,
}

var itemGetCmd = &cobra.Command{
	Use:   "get [item-id]",
	Short: "Show item details",
	Args:  cobra.ExactArgs(1),
	RunE:  runItemGet,
}

var itemDeleteCmd = &cobra.Command{
	Use:   "delete [item-id]",
	Short: "Delete an item and its stored media",
	Args:  cobra.ExactArgs(1),
	RunE:  runItemDelete,
}

var itemReprocessCmd = &cobra.Command{
	Use:   "reprocess [item-id]",
	Short: "Clear derived data and run the pipeline again",
	Long: `Resets the item to PENDING, discards every pipeline-produced field
(title, caption, transcript, embedding, stored media reference) and
queues a fresh run. Manual descriptions and tags are kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runItemReprocess,
}

func init() {
	itemCmd.AddCommand(itemGetCmd)
	itemCmd.AddCommand(itemDeleteCmd)
	itemCmd.AddCommand(itemReprocessCmd)
	rootCmd.AddCommand(itemCmd)
}

func runItemGet(cmd *cobra.Command, args []string) error {
	if store == nil {
		return errors.New("store not configured")
	}

	item, err := store.ItemStore().Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("getting item: %w", err)
	}

	cmd.Printf("ID:          %s\n", item.ID)
	cmd.Printf("Status:      %s\n", item.Status)
	cmd.Printf("Source:      %s\n", domain.StringValue(item.SourceURL))
	if item.Title != nil {
		cmd.Printf("Title:       %s\n", *item.Title)
	}
	if item.FolderID != nil {
		cmd.Printf("Folder:      %s\n", *item.FolderID)
	}
	if item.DurationSeconds != nil {
		cmd.Printf("Duration:    %ds\n", *item.DurationSeconds)
	}
	if len(item.Tags) > 0 {
		cmd.Printf("Tags:        %s\n", strings.Join(item.Tags, ", "))
	}
	if item.DescriptionManual != nil {
		cmd.Printf("Note:        %s\n", *item.DescriptionManual)
	}
	if item.DescriptionAI != nil {
		cmd.Printf("Description: %s\n", *item.DescriptionAI)
	}
	if item.Transcript != nil {
		cmd.Printf("Transcript:  %s\n", *item.Transcript)
	}
	cmd.Printf("Embedded:    %t\n", len(item.Embedding) > 0)
	cmd.Printf("Created:     %s\n", item.CreatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func runItemDelete(cmd *cobra.Command, args []string) error {
	if itemService == nil {
		return errors.New("item service not configured")
	}

	if err := itemService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	cmd.Printf("Deleted %s\n", args[0])
	return nil
}

func runItemReprocess(cmd *cobra.Command, args []string) error {
	if ingestor == nil {
		return errors.New("ingestion is not available (yt-dlp and ffmpeg required)")
	}

	if err := ingestor.Reprocess(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("reprocessing item: %w", err)
	}
	cmd.Printf("Queued %s for reprocessing\n", args[0])
	return nil
}
