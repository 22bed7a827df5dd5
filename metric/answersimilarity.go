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
	"context"
	"fmt"

	"trpc.group/trpc-go/trpc-rag-eval/dataset"
	"trpc.group/trpc-go/trpc-rag-eval/internal/vector"
)

// answerSimilarityEvaluator scores semantic similarity between the predicted
// answer and the ideal answer with embedding cosine similarity. It is the
// only metric that does not consult the judge model.
type answerSimilarityEvaluator struct {
	opts *options
}

// newAnswerSimilarity builds the answer similarity evaluator.
func newAnswerSimilarity(o *options) (*answerSimilarityEvaluator, error) {
	if o.embedder == nil {
		return nil, fmt.Errorf("%s: embedder is required", NameAnswerSimilarity)
	}
	return &answerSimilarityEvaluator{opts: o}, nil
}

// Name returns the metric identifier.
func (e *answerSimilarityEvaluator) Name() string {
	return NameAnswerSimilarity
}

// Description describes the metric.
func (e *answerSimilarityEvaluator) Description() string {
	return "Embedding cosine similarity between the predicted answer and the ideal answer"
}

// Evaluate embeds both answers and returns their cosine similarity clamped
// to [0, 1].
func (e *answerSimilarityEvaluator) Evaluate(ctx context.Context, record *dataset.Record) (*Result, error) {
	idealVec, err := e.opts.embedder.GetEmbedding(ctx, record.IdealAnswer)
	if err != nil {
		return nil, fmt.Errorf("embed ideal answer: %w", err)
	}
	predictedVec, err := e.opts.embedder.GetEmbedding(ctx, record.PredictedAnswer)
	if err != nil {
		return nil, fmt.Errorf("embed predicted answer: %w", err)
	}
	return &Result{
		Score: clamp01(vector.CosineSimilarity(idealVec, predictedVec)),
	}, nil
}
