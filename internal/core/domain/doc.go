// Package domain defines the core business entities for Memvault.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Item: A media record moving through the ingestion pipeline
//   - ItemStatus: The pipeline state machine states
//   - AcquiredMedia: The result of resolving a source URL locally
//   - SearchMode / SearchOptions / SearchResult: Hybrid ranking types
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
