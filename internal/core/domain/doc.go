// Package domain contains the core entities of the ingestion and retrieval
// pipeline: documents, fragments, source items, and the sentinel errors that
// make up the failure taxonomy. It has no dependencies on adapters or
// infrastructure.
package domain
