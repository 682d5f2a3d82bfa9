// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the pipeline to function:
//
//   - ItemStore: Item record persistence (fingerprint and scope lookups)
//   - BlobStore: Media byte storage (put / read URL / delete)
//   - Acquirer: Resolves source URLs into local media files
//   - MediaExtractor: Frame/audio extraction and duration probing
//
// # Optional Interfaces
//
// These can be nil - the pipeline degrades gracefully:
//
//   - CaptionService: Vision captioning. Without it, DescriptionAI stays null.
//   - TranscriptionService: Speech-to-text. Without it, Transcript stays null.
//   - EmbeddingService: Vector embeddings. Without it, vector search is disabled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
