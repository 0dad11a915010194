// Package vector provides interfaces and implementations for vector storage and embedding.
package vector

import "context"

// Document represents a stored item with its embedding, source text, and metadata.
type Document struct {
	// ID is a unique identifier for the document, generated at write time.
	ID string

	// Text is the document text the embedding was derived from
	// (the space-joined keyword string for video keyword documents).
	Text string

	// Embedding is the vector representation of the document text.
	Embedding []float32

	// Metadata is an open mapping of descriptive fields. Video keyword
	// documents always carry "indexed_asset_id" and "keywords".
	Metadata map[string]any
}

// QueryResult represents a search result with similarity score.
type QueryResult struct {
	Document

	// Score represents the similarity score (higher = more similar).
	Score float32
}

// Driver handles storage and retrieval of vector embeddings.
//
// Implementations make a single connectivity check at construction and fail
// there rather than silently no-op later; a driver that could not be
// constructed stays unusable for the process lifetime.
type Driver interface {
	// Add stores documents with their embeddings. If a document with the
	// same ID already exists, implementers should update the document.
	// The driver does not deduplicate by content.
	Add(ctx context.Context, docs []Document) error

	// All returns every document currently stored, embeddings and metadata
	// included. No pagination; the order is store-defined and stable only
	// within a single call.
	All(ctx context.Context) ([]Document, error)

	// Query finds the topK most similar documents to the given embedding,
	// ranked by the store's native distance metric.
	Query(ctx context.Context, embedding []float32, topK int) ([]QueryResult, error)

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)

	// Reset irrecoverably deletes all documents in the working collection
	// and leaves an empty collection behind.
	Reset(ctx context.Context) error

	// Close releases any resources held by the driver.
	Close() error
}
