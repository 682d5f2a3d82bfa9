// Package cli implements the memvault command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/memvault-cli/internal/adapters/driven/acquisition"
	"github.com/custodia-labs/memvault-cli/internal/adapters/driven/acquisition/localfile"
	"github.com/custodia-labs/memvault-cli/internal/adapters/driven/acquisition/ytdlp"
	"github.com/custodia-labs/memvault-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/memvault-cli/internal/adapters/driven/blob/fs"
	"github.com/custodia-labs/memvault-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/memvault-cli/internal/adapters/driven/media/ffmpeg"
	"github.com/custodia-labs/memvault-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/memvault-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memvault-cli/internal/core/ports/driving"
	"github.com/custodia-labs/memvault-cli/internal/core/services"
	"github.com/custodia-labs/memvault-cli/internal/logger"
)

// version is set by main at startup.
var version = "dev"

// Persistent flags.
var (
	verbose   bool
	configDir string
)

// Wired services. Populated by initServices; tests inject their own.
var (
	settings      *file.Settings
	store         *sqlite.Store
	blobs         driven.BlobStore
	aiServices    *ai.Services
	itemService   *services.ItemService
	ingestor      driving.Ingestor
	importer      *services.CollectionImporter
	searchService driving.SearchService
	pool          *services.WorkerPool

	servicesReady bool
)

var rootCmd = &cobra.Command{
	Use:   "memvault",
	Short: "Personal media vault with hybrid search",
	Long: `Memvault ingests media from URLs or local files, enriches it with
AI captions, transcripts and embeddings, and makes the collection
searchable with hybrid vector plus keyword ranking.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.memvault)")
}

// SetVersion records the build version for the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// initServices wires the adapters into the core services. Optional
// capabilities degrade: a missing yt-dlp or ffmpeg disables ingestion
// commands, a missing API key disables enrichment and search.
func initServices() error {
	if servicesReady {
		return nil
	}

	var err error
	settings, err = file.Load(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err = sqlite.NewStore(settings.DataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	items := store.ItemStore()

	blobs, err = fs.NewStore(settings.BlobDir)
	if err != nil {
		return fmt.Errorf("opening blob store: %w", err)
	}

	itemService = services.NewItemService(items, blobs)

	// Enrichment services are optional; without an API key the pipeline
	// stores media with null derived fields and search is unavailable.
	if settings.OpenAI.APIKey == "" {
		logger.Warn("No OpenAI API key configured; captioning, transcription and embedding disabled")
	}
	aiServices, err = ai.NewServices(ai.Config{
		APIKey:             settings.OpenAI.APIKey,
		BaseURL:            settings.OpenAI.BaseURL,
		EmbeddingModel:     settings.OpenAI.EmbeddingModel,
		CaptionModel:       settings.OpenAI.CaptionModel,
		TranscriptionModel: settings.OpenAI.TranscriptionModel,
		RequestsPerMinute:  settings.OpenAI.RequestsPerMinute,
	})
	if err != nil {
		return fmt.Errorf("enrichment services: %w", err)
	}

	searchService = services.NewRankingService(items, blobs, aiServices.Embedder, settings.RankingConfig())

	extractor, err := ffmpeg.NewExtractor()
	if err != nil {
		logger.Warn("Ingestion disabled: %v", err)
		servicesReady = true
		return nil
	}

	var remote driven.Acquirer
	if remote, err = ytdlp.NewAcquirer(); err != nil {
		logger.Warn("Remote acquisition disabled: %v", err)
		remote = nil
	}
	local := localfile.NewAcquirer()
	var acquirer driven.Acquirer = local
	if remote != nil {
		acquirer = acquisition.NewMux(local, remote)
	}

	pipelineCfg := settings.PipelineConfig()
	orchestrator := services.NewIngestOrchestrator(
		items, blobs, acquirer, extractor,
		aiServices.Captioner, aiServices.Transcriber, aiServices.Embedder, pipelineCfg,
	)
	pool = services.NewWorkerPool(pipelineCfg.WorkerCount, orchestrator)
	orchestrator.SetPool(pool)
	ingestor = orchestrator
	importer = services.NewCollectionImporter(acquirer, itemService, ingestor)

	servicesReady = true
	return nil
}

// closeServices releases resources held by initServices.
func closeServices() {
	if aiServices != nil {
		aiServices.Close()
		aiServices = nil
	}
	if store != nil {
		store.Close()
		store = nil
	}
	servicesReady = false
}
