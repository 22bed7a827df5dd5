//
// Tencent is pleased to support the open source community by making trpc-rag-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-eval is licensed under the Apache License Version 2.0.
//
//

package runner

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-rag-eval/dataset"
	"trpc.group/trpc-go/trpc-rag-eval/metric"
	"trpc.group/trpc-go/trpc-rag-eval/report"
)

// fakeEvaluator scores records by a fixed map and fails IDs in failing.
type fakeEvaluator struct {
	mu      sync.Mutex
	scores  map[string]float64
	failing map[string]bool
	seen    []string
}

func (f *fakeEvaluator) Name() string        { return "fake_metric" }
func (f *fakeEvaluator) Description() string { return "fixed scores for testing" }

func (f *fakeEvaluator) Evaluate(ctx context.Context, record *dataset.Record) (*metric.Result, error) {
	f.mu.Lock()
	f.seen = append(f.seen, record.ID)
	f.mu.Unlock()
	if f.failing[record.ID] {
		return nil, fmt.Errorf("judge unavailable")
	}
	return &metric.Result{Score: f.scores[record.ID]}, nil
}

func datasetReader(ids ...string) *dataset.Reader {
	var lines []string
	for _, id := range ids {
		lines = append(lines, fmt.Sprintf(`{"id": %q, "query": "question %s"}`, id, id))
	}
	return dataset.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func sortedIDs(scores []report.Score) []string {
	ids := make([]string, 0, len(scores))
	for _, score := range scores {
		ids = append(ids, score.ID)
	}
	sort.Strings(ids)
	return ids
}

func TestRunnerRun(t *testing.T) {
	evaluator := &fakeEvaluator{scores: map[string]float64{"1": 0.25, "2": 0.75}}
	scores, err := New().Run(context.Background(), evaluator, datasetReader("1", "2"))
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, sortedIDs(scores))
}

func TestRunnerPrintAndContinue(t *testing.T) {
	evaluator := &fakeEvaluator{
		scores:  map[string]float64{"1": 0.5, "3": 0.5},
		failing: map[string]bool{"2": true},
	}
	scores, err := New().Run(context.Background(), evaluator, datasetReader("1", "2", "3"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 2")
	assert.Equal(t, []string{"1", "3"}, sortedIDs(scores))
	assert.Len(t, evaluator.seen, 3)
}

func TestRunnerFilter(t *testing.T) {
	filter, err := dataset.NewFilter("2", "")
	require.NoError(t, err)

	evaluator := &fakeEvaluator{scores: map[string]float64{"1": 0.1, "3": 0.3}}
	scores, err := New(WithFilter(filter)).Run(
		context.Background(), evaluator, datasetReader("1", "2", "3"))
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, sortedIDs(scores))

	evaluator.mu.Lock()
	defer evaluator.mu.Unlock()
	assert.NotContains(t, evaluator.seen, "2")
}

func TestRunnerConcurrency(t *testing.T) {
	ids := make([]string, 20)
	scores := make(map[string]float64, len(ids))
	for i := range ids {
		ids[i] = fmt.Sprintf("%d", i)
		scores[ids[i]] = float64(i) / 20
	}
	evaluator := &fakeEvaluator{scores: scores}

	got, err := New(WithConcurrency(4)).Run(
		context.Background(), evaluator, datasetReader(ids...))
	require.NoError(t, err)
	assert.Len(t, got, len(ids))
}

func TestRunnerMalformedRecord(t *testing.T) {
	reader := dataset.NewReader(strings.NewReader(
		`{"id": "1", "query": "q"}` + "\n{broken\n"))
	evaluator := &fakeEvaluator{scores: map[string]float64{"1": 1}}

	scores, err := New().Run(context.Background(), evaluator, reader)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read dataset")
	assert.Equal(t, []string{"1"}, sortedIDs(scores))
}
