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

func contextRecallRecord() *dataset.Record {
	return &dataset.Record{
		ID:    "2",
		Query: "Who wrote Hamlet?",
		Context: []dataset.Chunk{
			{ChunkText: "Hamlet was written by William Shakespeare."},
		},
		PredictedAnswer: "Hamlet was written by Shakespeare. It was first performed around 1600.",
		IdealAnswer:     "William Shakespeare wrote Hamlet.",
	}
}

func TestContextRecallEvaluate(t *testing.T) {
	judge := &fakeJudge{replies: []string{
		`{"verdicts": [
			{"sentence": "Hamlet was written by Shakespeare.", "attributed": "yes"},
			{"sentence": "It was first performed around 1600.", "attributed": "no"}
		]}`,
	}}
	evaluator, err := New(NameContextRecall, WithJudgeModel(judge))
	require.NoError(t, err)

	result, err := evaluator.Evaluate(context.Background(), contextRecallRecord())
	require.NoError(t, err)
	assert.InDelta(t, 0.5, result.Score, 1e-9)
	require.Len(t, judge.prompts, 1)
	assert.Contains(t, judge.prompts[0], "Hamlet was written by William Shakespeare.")
}

func TestContextRecallEmptyPredictedAnswer(t *testing.T) {
	judge := &fakeJudge{replies: []string{`{"verdicts": []}`}}
	evaluator, err := New(NameContextRecall, WithJudgeModel(judge))
	require.NoError(t, err)

	record := contextRecallRecord()
	record.PredictedAnswer = ""
	result, err := evaluator.Evaluate(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Score)
	assert.Empty(t, judge.prompts)
}

func TestContextRecallChecksPredictedAnswer(t *testing.T) {
	judge := &fakeJudge{replies: []string{
		`{"verdicts": [
			{"sentence": "Hamlet was written by Shakespeare.", "attributed": "yes"},
			{"sentence": "It was first performed around 1600.", "attributed": "yes"}
		]}`,
	}}
	evaluator, err := New(NameContextRecall, WithJudgeModel(judge))
	require.NoError(t, err)

	record := contextRecallRecord()
	record.PredictedAnswer = "The play premiered in London. Its author remains debated."
	record.IdealAnswer = "A distinctive ideal answer sentence."
	_, err = evaluator.Evaluate(context.Background(), record)
	require.NoError(t, err)
	require.Len(t, judge.prompts, 1)
	assert.Contains(t, judge.prompts[0], "The play premiered in London.")
	assert.NotContains(t, judge.prompts[0], "A distinctive ideal answer sentence.")
}

func TestContextRecallMissingVerdictsCountUnattributed(t *testing.T) {
	judge := &fakeJudge{replies: []string{
		`{"verdicts": [{"sentence": "Hamlet was written by Shakespeare.", "attributed": "yes"}]}`,
	}}
	evaluator, err := New(NameContextRecall, WithJudgeModel(judge))
	require.NoError(t, err)

	result, err := evaluator.Evaluate(context.Background(), contextRecallRecord())
	require.NoError(t, err)
	assert.InDelta(t, 0.5, result.Score, 1e-9)
}
