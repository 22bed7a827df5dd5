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

	"trpc.group/trpc-go/trpc-rag-eval/model"
)

// fakeJudge returns canned replies in order, cycling when exhausted.
type fakeJudge struct {
	replies []string
	prompts []string
	err     error
	next    int
}

func (f *fakeJudge) Info() model.Info {
	return model.Info{Name: "fake-judge"}
}

func (f *fakeJudge) GenerateContent(ctx context.Context, req *model.Request) (<-chan *model.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(req.Messages) > 0 {
		f.prompts = append(f.prompts, req.Messages[len(req.Messages)-1].Content)
	}
	idx := f.next
	if idx >= len(f.replies) {
		idx = len(f.replies) - 1
	}
	reply := f.replies[idx]
	f.next++
	ch := make(chan *model.Response, 1)
	ch <- &model.Response{
		Object: model.ObjectTypeChatCompletion,
		Done:   true,
		Choices: []model.Choice{{
			Message: model.NewAssistantMessage(reply),
		}},
	}
	close(ch)
	return ch, nil
}

// fakeEmbedder returns a fixed vector per input text.
type fakeEmbedder struct {
	vectors map[string][]float64
}

func (f *fakeEmbedder) GetEmbedding(ctx context.Context, text string) ([]float64, error) {
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float64{1, 0, 0}, nil
}

func (f *fakeEmbedder) GetEmbeddingWithUsage(ctx context.Context, text string) ([]float64, map[string]any, error) {
	v, err := f.GetEmbedding(ctx, text)
	return v, nil, err
}

func (f *fakeEmbedder) GetDimensions() int {
	return 3
}

func TestNames(t *testing.T) {
	names := Names()
	assert.Equal(t, []string{
		NameAnswerCorrectness,
		NameAnswerRelevance,
		NameAnswerSimilarity,
		NameContextPrecision,
		NameContextRecall,
		NameContextRelevance,
		NameContextUtilization,
		NameFaithfulness,
	}, names)
}

func TestNewUnsupportedMetric(t *testing.T) {
	_, err := New("rouge")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported metric "rouge"`)
}

func TestNewRequiresJudgeModel(t *testing.T) {
	for _, name := range Names() {
		if name == NameAnswerSimilarity {
			continue
		}
		_, err := New(name, metricTestEmbedderOption())
		require.Error(t, err, name)
		assert.Contains(t, err.Error(), "judge model is required", name)
	}
}

func TestNewAnswerSimilarityRequiresEmbedder(t *testing.T) {
	_, err := New(NameAnswerSimilarity, WithJudgeModel(&fakeJudge{replies: []string{"{}"}}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedder is required")
}

func TestNewAllMetrics(t *testing.T) {
	judge := &fakeJudge{replies: []string{"{}"}}
	for _, name := range Names() {
		evaluator, err := New(name, WithJudgeModel(judge), metricTestEmbedderOption())
		require.NoError(t, err, name)
		assert.Equal(t, name, evaluator.Name())
		assert.NotEmpty(t, evaluator.Description())
	}
}

func metricTestEmbedderOption() Option {
	return WithEmbedder(&fakeEmbedder{})
}
