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

func answerRelevanceRecord() *dataset.Record {
	return &dataset.Record{
		ID:    "7",
		Query: "What is the capital of France?",
		Context: []dataset.Chunk{
			{ChunkText: "Paris is the capital of France."},
		},
		PredictedAnswer: "The capital of France is Paris.",
	}
}

func TestAnswerRelevanceEmbeddingSimilarity(t *testing.T) {
	judge := &fakeJudge{replies: []string{
		`{"questions": ["What is the capital of France?", "Which city is the French capital?"]}`,
	}}
	embedder := &fakeEmbedder{vectors: map[string][]float64{
		"What is the capital of France?":    {1, 0, 0},
		"Which city is the French capital?": {0, 1, 0},
	}}
	evaluator, err := New(NameAnswerRelevance,
		WithJudgeModel(judge), WithEmbedder(embedder))
	require.NoError(t, err)

	result, err := evaluator.Evaluate(context.Background(), answerRelevanceRecord())
	require.NoError(t, err)
	// First generated question is identical (similarity 1), second orthogonal
	// (similarity 0), so the mean is 0.5.
	assert.InDelta(t, 0.5, result.Score, 1e-9)
}

func TestAnswerRelevanceLLMSimilarity(t *testing.T) {
	judge := &fakeJudge{replies: []string{
		`{"questions": ["q1", "q2"]}`,
		`{"similarity": 0.8}`,
		`{"similarity": "0.4"}`,
	}}
	evaluator, err := New(NameAnswerRelevance,
		WithJudgeModel(judge), WithLLMSimilarity(true))
	require.NoError(t, err)

	result, err := evaluator.Evaluate(context.Background(), answerRelevanceRecord())
	require.NoError(t, err)
	assert.InDelta(t, 0.6, result.Score, 1e-9)
	// One question prompt plus one similarity prompt per question.
	assert.Len(t, judge.prompts, 3)
}

func TestAnswerRelevanceNoQuestions(t *testing.T) {
	judge := &fakeJudge{replies: []string{`{"questions": []}`}}
	evaluator, err := New(NameAnswerRelevance,
		WithJudgeModel(judge), metricTestEmbedderOption())
	require.NoError(t, err)

	result, err := evaluator.Evaluate(context.Background(), answerRelevanceRecord())
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Score)
}

func TestAnswerRelevanceTruncatesExcessQuestions(t *testing.T) {
	judge := &fakeJudge{replies: []string{
		`{"questions": ["a", "b", "c", "d"]}`,
		`{"similarity": 1.0}`,
	}}
	evaluator, err := New(NameAnswerRelevance,
		WithJudgeModel(judge), WithLLMSimilarity(true), WithNumQuestions(2))
	require.NoError(t, err)

	result, err := evaluator.Evaluate(context.Background(), answerRelevanceRecord())
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.Score)
	// One question prompt plus two similarity prompts.
	assert.Len(t, judge.prompts, 3)
}
