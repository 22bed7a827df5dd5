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

func answerCorrectnessRecord() *dataset.Record {
	return &dataset.Record{
		ID:              "4",
		Query:           "What powers the sun?",
		PredictedAnswer: "The sun is powered by nuclear fusion and is made of iron.",
		IdealAnswer:     "The sun is powered by nuclear fusion of hydrogen into helium.",
	}
}

func TestAnswerCorrectnessEvaluate(t *testing.T) {
	judge := &fakeJudge{replies: []string{
		`{
			"TP": ["The sun is powered by nuclear fusion."],
			"FP": ["The sun is made of iron."],
			"FN": ["Hydrogen fuses into helium."]
		}`,
	}}
	evaluator, err := New(NameAnswerCorrectness, WithJudgeModel(judge))
	require.NoError(t, err)

	result, err := evaluator.Evaluate(context.Background(), answerCorrectnessRecord())
	require.NoError(t, err)
	// F1 = 1 / (1 + 0.5 * (1 + 1)).
	assert.InDelta(t, 0.5, result.Score, 1e-9)
	require.Len(t, judge.prompts, 1)
	assert.Contains(t, judge.prompts[0], "What powers the sun?")
}

func TestAnswerCorrectnessAllCorrect(t *testing.T) {
	judge := &fakeJudge{replies: []string{
		`{"TP": ["a", "b"], "FP": [], "FN": []}`,
	}}
	evaluator, err := New(NameAnswerCorrectness, WithJudgeModel(judge))
	require.NoError(t, err)

	result, err := evaluator.Evaluate(context.Background(), answerCorrectnessRecord())
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.Score)
}

func TestAnswerCorrectnessEmptyClassification(t *testing.T) {
	judge := &fakeJudge{replies: []string{`{"TP": [], "FP": [], "FN": []}`}}
	evaluator, err := New(NameAnswerCorrectness, WithJudgeModel(judge))
	require.NoError(t, err)

	result, err := evaluator.Evaluate(context.Background(), answerCorrectnessRecord())
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Score)
}
