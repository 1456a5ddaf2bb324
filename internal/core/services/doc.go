// Package services contains the core application services: the ingestion
// pipeline, the per-owner sync orchestrator, the upload ingestor, and the
// retriever. Services depend only on ports; adapters are injected at startup.
package services
