package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	importFolder     string
	importMaxEntries int
)

var importCmd = &cobra.Command{
	Use:   "import [collection-url]",
	Short: "Ingest every entry of a playlist or local directory",
	Long: `Expands a playlist URL (or a file:// directory) into its member media
and queues each one for ingestion. Entries that cannot be registered
are skipped; the rest of the batch continues.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importFolder, "folder", "f", "", "folder id for the imported items")
	importCmd.Flags().IntVarP(&importMaxEntries, "max", "m", 100, "maximum number of entries to import")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if importer == nil {
		return errors.New("ingestion is not available (yt-dlp and ffmpeg required)")
	}

	count, err := importer.Import(cmd.Context(), args[0], folderPtr(importFolder), importMaxEntries)
	if err != nil {
		return fmt.Errorf("importing collection: %w", err)
	}

	cmd.Printf("Queued %d entries for ingestion.\n", count)
	return nil
}
