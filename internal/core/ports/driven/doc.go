// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): connectors, the embedding service, the vector
// and document stores, text extractors, and the external credential service.
package driven
