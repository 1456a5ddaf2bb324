// Package sqlite provides SQLite-backed implementations of the document and
// vector store ports. A single database file holds both document lifecycle
// rows and embedded fragments; embeddings are stored as float32 blobs and
// ranked in process.
package sqlite
