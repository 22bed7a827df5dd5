//
// Tencent is pleased to support the open source community by making trpc-rag-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-eval is licensed under the Apache License Version 2.0.
//
//

package metric

import (
	"trpc.group/trpc-go/trpc-rag-eval/embedder"
	"trpc.group/trpc-go/trpc-rag-eval/model"
)

const (
	// DefaultMaxTokens caps judge model output length.
	DefaultMaxTokens = 1024
	// DefaultNumQuestions is the number of questions generated per answer
	// for answer relevance scoring.
	DefaultNumQuestions = 5
)

// options contains shared configuration for metric evaluators.
type options struct {
	// judgeModel produces the judgments every metric is built on.
	judgeModel model.Model
	// embedder scores text similarity for embedding-based metrics.
	embedder embedder.Embedder
	// generation is applied to every judge request.
	generation model.GenerationConfig
	// numQuestions generated per answer for answer relevance.
	numQuestions int
	// llmSimilarity scores generated-question similarity with the judge
	// model instead of embedding cosine similarity.
	llmSimilarity bool
}

// DefaultGeneration is the generation config judges run with: deterministic
// sampling and a bounded completion.
var DefaultGeneration = func() model.GenerationConfig {
	maxTokens := DefaultMaxTokens
	temperature := 0.0
	return model.GenerationConfig{
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	}
}()

var defaultOptions = options{
	generation:   DefaultGeneration,
	numQuestions: DefaultNumQuestions,
}

// Option configures metric evaluators.
type Option func(*options)

// WithJudgeModel sets the judge model. Required for every metric except
// answer_similarity.
func WithJudgeModel(m model.Model) Option {
	return func(o *options) {
		o.judgeModel = m
	}
}

// WithEmbedder sets the embedder used by similarity-based metrics.
func WithEmbedder(e embedder.Embedder) Option {
	return func(o *options) {
		o.embedder = e
	}
}

// WithGenerationConfig overrides the judge generation config.
func WithGenerationConfig(config model.GenerationConfig) Option {
	return func(o *options) {
		o.generation = config
	}
}

// WithNumQuestions sets the number of questions generated per answer for
// answer relevance. Non-positive values keep the default.
func WithNumQuestions(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.numQuestions = n
		}
	}
}

// WithLLMSimilarity makes answer relevance score generated questions with
// the judge model instead of embedding cosine similarity.
func WithLLMSimilarity(enabled bool) Option {
	return func(o *options) {
		o.llmSimilarity = enabled
	}
}
