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
	"text/template"

	"trpc.group/trpc-go/trpc-rag-eval/dataset"
)

var (
	// contextPrecisionVerdictPrompt asks whether a single chunk was useful
	// in arriving at the answer.
	contextPrecisionVerdictPrompt = `Given a question, an answer, and a context chunk, verify if the chunk was useful in arriving at the given answer. Return "yes" if it was useful and "no" otherwise.

Question: {{.Question}}
Answer: {{.Answer}}

Context chunk:
{{.Chunk}}

The output should be a json alone which follows the json structure below:
{
  "useful": "yes or no",
  "reason": "one sentence"
}
`

	contextPrecisionVerdictTemplate = template.Must(
		template.New("contextPrecisionVerdict").Parse(contextPrecisionVerdictPrompt))
)

// contextPrecisionEvaluator scores how well useful chunks are ranked ahead
// of noise in the retrieved context. With utilization set it checks chunks
// against the predicted answer instead of the ideal answer.
type contextPrecisionEvaluator struct {
	opts        *options
	utilization bool
}

// newContextPrecision builds the context precision (or utilization) evaluator.
func newContextPrecision(o *options, utilization bool) (*contextPrecisionEvaluator, error) {
	name := NameContextPrecision
	if utilization {
		name = NameContextUtilization
	}
	if o.judgeModel == nil {
		return nil, fmt.Errorf("%s: judge model is required", name)
	}
	return &contextPrecisionEvaluator{opts: o, utilization: utilization}, nil
}

// Name returns the metric identifier.
func (e *contextPrecisionEvaluator) Name() string {
	if e.utilization {
		return NameContextUtilization
	}
	return NameContextPrecision
}

// Description describes the metric.
func (e *contextPrecisionEvaluator) Description() string {
	if e.utilization {
		return "Rank-weighted fraction of context chunks useful for the predicted answer"
	}
	return "Rank-weighted fraction of context chunks useful for the ideal answer"
}

// Evaluate judges each chunk for usefulness and computes mean precision at
// the useful ranks.
func (e *contextPrecisionEvaluator) Evaluate(ctx context.Context, record *dataset.Record) (*Result, error) {
	chunks := record.ContextTexts()
	if len(chunks) == 0 {
		return &Result{Score: 0}, nil
	}
	answer := record.IdealAnswer
	if e.utilization {
		answer = record.PredictedAnswer
	}
	verdicts := make([]bool, len(chunks))
	for i, chunk := range chunks {
		useful, err := e.judgeChunk(ctx, record.Query, answer, chunk)
		if err != nil {
			return nil, fmt.Errorf("judge chunk %d: %w", i+1, err)
		}
		verdicts[i] = useful
	}
	// Mean of precision@k over the useful ranks k.
	var sum float64
	useful := 0
	for k, isUseful := range verdicts {
		if !isUseful {
			continue
		}
		useful++
		sum += float64(useful) / float64(k+1)
	}
	score := 0.0
	if useful > 0 {
		score = sum / float64(useful)
	}
	return &Result{
		Score: score,
		Details: map[string]any{
			"verdicts": verdicts,
		},
	}, nil
}

// judgeChunk returns whether the chunk was useful in arriving at the answer.
func (e *contextPrecisionEvaluator) judgeChunk(ctx context.Context, question, answer, chunk string) (bool, error) {
	prompt, err := renderPrompt(contextPrecisionVerdictTemplate, struct {
		Question string
		Answer   string
		Chunk    string
	}{Question: question, Answer: answer, Chunk: chunk})
	if err != nil {
		return false, err
	}
	text, err := judgeText(ctx, e.opts.judgeModel, e.opts.generation, prompt)
	if err != nil {
		return false, err
	}
	var parsed struct {
		Useful string `json:"useful"`
	}
	if err := decodeJudgeJSON(text, &parsed); err != nil {
		return false, err
	}
	return isYes(parsed.Useful), nil
}
