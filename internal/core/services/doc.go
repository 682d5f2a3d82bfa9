// Package services implements the driving port interfaces.
// Services contain the core business logic: the ingestion pipeline
// state machine, the hybrid ranking engine and the worker pool that
// executes ingestion jobs. They orchestrate calls to driven ports
// (adapters) and are pure Go with no external process dependencies.
package services
