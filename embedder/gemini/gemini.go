//
// Tencent is pleased to support the open source community by making trpc-rag-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-eval is licensed under the Apache License Version 2.0.
//
//

// Package gemini provides Gemini embedder implementation.
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"trpc.group/trpc-go/trpc-rag-eval/embedder"
	"trpc.group/trpc-go/trpc-rag-eval/log"
)

// Verify that Embedder implements the embedder.Embedder interface.
var _ embedder.Embedder = (*Embedder)(nil)

const (
	// DefaultModel is the default Gemini embedding model.
	DefaultModel = "text-embedding-004"
	// DefaultDimensions is the default embedding dimension for text-embedding-004.
	DefaultDimensions = 768

	// ModelTextEmbedding004 represents the text-embedding-004 model.
	ModelTextEmbedding004 = "text-embedding-004"
	// ModelEmbedding001 represents the legacy embedding-001 model.
	ModelEmbedding001 = "embedding-001"
)

// Embedder implements the embedder.Embedder interface for the Gemini API.
type Embedder struct {
	client       *genai.Client
	model        string
	dimensions   int
	taskType     string
	clientConfig *genai.ClientConfig
}

// Option represents a functional option for configuring the Embedder.
type Option func(*Embedder)

// WithModel sets the embedding model to use.
func WithModel(model string) Option {
	return func(e *Embedder) {
		e.model = model
	}
}

// WithDimensions sets the number of dimensions for the embedding.
func WithDimensions(dimensions int) Option {
	return func(e *Embedder) {
		e.dimensions = dimensions
	}
}

// WithTaskType sets the embedding task type, e.g. "SEMANTIC_SIMILARITY".
func WithTaskType(taskType string) Option {
	return func(e *Embedder) {
		e.taskType = taskType
	}
}

// WithClientConfig sets the genai client config.
// If not provided, the client reads GOOGLE_API_KEY / GEMINI_API_KEY from the environment.
func WithClientConfig(config *genai.ClientConfig) Option {
	return func(e *Embedder) {
		e.clientConfig = config
	}
}

// New creates a new Gemini embedder with the given options.
func New(ctx context.Context, opts ...Option) (*Embedder, error) {
	e := &Embedder{
		model:      DefaultModel,
		dimensions: DefaultDimensions,
	}
	for _, opt := range opts {
		opt(e)
	}
	client, err := genai.NewClient(ctx, e.clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	e.client = client
	return e, nil
}

// GetEmbedding implements the embedder.Embedder interface.
// It generates an embedding vector for the given text.
func (e *Embedder) GetEmbedding(ctx context.Context, text string) ([]float64, error) {
	embedding, _, err := e.GetEmbeddingWithUsage(ctx, text)
	return embedding, err
}

// GetEmbeddingWithUsage implements the embedder.Embedder interface.
// It generates an embedding vector for the given text and returns usage information.
func (e *Embedder) GetEmbeddingWithUsage(ctx context.Context, text string) ([]float64, map[string]any, error) {
	if text == "" {
		return nil, nil, fmt.Errorf("text cannot be empty")
	}
	config := &genai.EmbedContentConfig{}
	if e.taskType != "" {
		config.TaskType = e.taskType
	}
	if e.dimensions > 0 && e.model != ModelEmbedding001 {
		// embedding-001 has a fixed output dimensionality.
		config.OutputDimensionality = genai.Ptr(int32(e.dimensions))
	}
	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}
	response, err := e.client.Models.EmbedContent(ctx, e.model, contents, config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create embedding: %w", err)
	}
	if len(response.Embeddings) == 0 || len(response.Embeddings[0].Values) == 0 {
		log.Warn("received empty embedding response from Gemini API")
		return []float64{}, nil, nil
	}
	values := response.Embeddings[0].Values
	embedding := make([]float64, len(values))
	for i, v := range values {
		embedding[i] = float64(v)
	}
	usage := make(map[string]any)
	if stats := response.Embeddings[0].Statistics; stats != nil && stats.TokenCount > 0 {
		usage["token_count"] = stats.TokenCount
	}
	return embedding, usage, nil
}

// GetDimensions implements the embedder.Embedder interface.
// It returns the number of dimensions in the embedding vectors.
func (e *Embedder) GetDimensions() int {
	return e.dimensions
}
