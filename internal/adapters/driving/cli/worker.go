package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/memvault-cli/internal/adapters/driving/watch"
	"github.com/custodia-labs/memvault-cli/internal/core/domain"
	"github.com/custodia-labs/memvault-cli/internal/logger"
)

var workerWatchDir string

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the ingestion workers",
	Long: `Starts the worker pool and processes the pending backlog, then keeps
running until interrupted. With a watch directory configured (flag or
config file), media files dropped into it are ingested automatically.`,
	RunE: runWorker,
}

func init() {
	workerCmd.Flags().StringVar(&workerWatchDir, "watch", "", "directory to watch for dropped media")
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	if pool == nil || ingestor == nil {
		return errors.New("ingestion is not available (yt-dlp and ffmpeg required)")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool.Start(ctx)
	defer pool.Stop()

	// Items registered by one-shot commands wait in the store as PENDING;
	// pick them up before watching for new work.
	pending, err := store.ItemStore().ListByStatus(ctx, domain.StatusPending, 0)
	if err != nil {
		return fmt.Errorf("listing pending backlog: %w", err)
	}
	for i := range pending {
		pool.Submit(pending[i].ID)
	}
	if len(pending) > 0 {
		cmd.Printf("Queued %d pending items\n", len(pending))
	}

	watchDir := workerWatchDir
	if watchDir == "" && settings != nil {
		watchDir = settings.Watch.Dir
	}
	if watchDir != "" {
		var folderID *string
		if settings != nil {
			folderID = folderPtr(settings.Watch.FolderID)
		}
		watcher, err := watch.NewWatcher(watchDir, folderID, itemService, ingestor)
		if err != nil {
			return fmt.Errorf("starting watcher: %w", err)
		}
		defer watcher.Close()
		go func() {
			if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("Watcher stopped: %v", err)
			}
		}()
	}

	cmd.Println("Workers running. Press Ctrl+C to stop.")
	<-ctx.Done()
	cmd.Println("Shutting down...")
	return nil
}
