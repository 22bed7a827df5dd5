//
// Tencent is pleased to support the open source community by making trpc-rag-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-eval is licensed under the Apache License Version 2.0.
//
//

// Package embedder provides the text embedding abstraction used by
// similarity-based metrics.
package embedder

import "context"

// Embedder generates embedding vectors for text.
type Embedder interface {
	// GetEmbedding generates an embedding vector for the given text.
	GetEmbedding(ctx context.Context, text string) ([]float64, error)

	// GetEmbeddingWithUsage generates an embedding vector for the given text
	// and returns usage information reported by the backing service.
	GetEmbeddingWithUsage(ctx context.Context, text string) ([]float64, map[string]any, error)

	// GetDimensions returns the number of dimensions in the embedding vectors.
	GetDimensions() int
}
