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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-rag-eval/dataset"
)

func TestAnswerSimilarityEvaluate(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float64{
		"ideal":     {1, 0, 0},
		"predicted": {1, 1, 0},
	}}
	evaluator, err := New(NameAnswerSimilarity, WithEmbedder(embedder))
	require.NoError(t, err)

	result, err := evaluator.Evaluate(context.Background(), &dataset.Record{
		ID:              "1",
		IdealAnswer:     "ideal",
		PredictedAnswer: "predicted",
	})
	require.NoError(t, err)
	// cos(45 degrees) = 1/sqrt(2).
	assert.InDelta(t, 0.7071, result.Score, 1e-4)
}

func TestAnswerSimilarityIdenticalAnswers(t *testing.T) {
	evaluator, err := New(NameAnswerSimilarity, metricTestEmbedderOption())
	require.NoError(t, err)

	result, err := evaluator.Evaluate(context.Background(), &dataset.Record{
		ID:              "2",
		IdealAnswer:     "same",
		PredictedAnswer: "same",
	})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, result.Score, 1e-9)
}

func TestAnswerSimilarityClampsNegativeCosine(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float64{
		"ideal":     {1, 0, 0},
		"predicted": {-1, 0, 0},
	}}
	evaluator, err := New(NameAnswerSimilarity, WithEmbedder(embedder))
	require.NoError(t, err)

	result, err := evaluator.Evaluate(context.Background(), &dataset.Record{
		ID:              "3",
		IdealAnswer:     "ideal",
		PredictedAnswer: "predicted",
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Score)
}
